package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/canopy/internal/datasource"
	"github.com/vanderheijden86/canopy/pkg/config"
	"github.com/vanderheijden86/canopy/pkg/debug"
	"github.com/vanderheijden86/canopy/pkg/loader"
	"github.com/vanderheijden86/canopy/pkg/metrics"
	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/treeview"
	"github.com/vanderheijden86/canopy/pkg/ui"
	"github.com/vanderheijden86/canopy/pkg/version"
	"github.com/vanderheijden86/canopy/pkg/watcher"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Config file (default: $XDG_CONFIG_HOME/canopy/config.yaml)")
	search := flag.String("search", "", "Initial search text")
	multi := flag.Bool("multi", false, "Enable multi-select")
	expandAll := flag.Bool("expand-all", false, "Show every folder expanded")
	dump := flag.Bool("dump", false, "Print the visible rows as text and exit")
	watch := flag.Bool("watch", false, "Reload when tree files change, even if disabled in the config")
	metricsFlag := flag.Bool("metrics", false, "Print timing metrics to stderr on exit")
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: canopy [options] <file|dir|source>...")
		fmt.Println("\nBrowse YAML, JSON and SQLite trees in the terminal.")
		flag.PrintDefaults()
		return nil
	}

	if *versionFlag {
		fmt.Printf("canopy %s\n", version.Version)
		return nil
	}

	if *metricsFlag {
		defer func() { _ = metrics.WriteSummary(os.Stderr) }()
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		// Non-fatal: continue with defaults
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if *multi {
		cfg.Tree.MultiSelect = true
	}
	if *expandAll {
		cfg.Tree.ForceAllOpened = true
	}
	if *watch {
		cfg.Watch.Enabled = true
	}

	paths := cfg.ResolvePaths(flag.Args())
	if len(paths) == 0 {
		return errors.New("no tree files given (see canopy -help)")
	}

	parseOpts := loader.ParseOptions{
		WarningHandler: func(msg string) { fmt.Fprintf(os.Stderr, "Warning: %s\n", msg) },
	}
	forest, err := loader.LoadFiles(context.Background(), paths, parseOpts)
	if err != nil {
		return err
	}

	statePath := config.OpenStatePath(paths)
	openIDs := treeview.LoadOpenState(statePath)

	if *dump || !term.IsTerminal(int(os.Stdout.Fd())) {
		return dumpTree(os.Stdout, forest, cfg, openIDs, *search)
	}

	var w *watcher.Watcher
	if cfg.Watch.Enabled {
		w, err = startWatcher(paths, cfg)
		if err != nil {
			// Non-fatal: browse without live reload
			fmt.Fprintf(os.Stderr, "Warning: live reload disabled: %v\n", err)
		} else {
			defer w.Stop()
		}
	}

	m := ui.NewModel(forest, ui.Options{
		Config: cfg,
		Load: func(ctx context.Context) (*model.Forest, error) {
			return loader.LoadFiles(ctx, paths, parseOpts)
		},
		Watcher:       w,
		Title:         title(paths),
		InitialSearch: *search,
		OpenIDs:       openIDs,
	})
	defer m.Stop()

	runErr := runTUIProgram(m)

	if err := treeview.SaveOpenState(statePath, m.OpenIDs()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if runErr != nil {
		return fmt.Errorf("running canopy: %w", runErr)
	}
	return nil
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// dumpTree prints the rows a fresh browser would show, for pipes and
// scripts.
func dumpTree(out io.Writer, forest *model.Forest, cfg config.Config, openIDs []string, search string) error {
	opts := cfg.TreeOptions()
	opts.InitiallyOpen = append(opts.InitiallyOpen, openIDs...)
	tree := treeview.New(opts)
	defer tree.Stop()
	tree.SetItems(forest.Roots())
	tree.SetSearchText(search)
	if err := tree.Err(); err != nil {
		return err
	}
	return ui.WriteRows(out, tree.Rows())
}

// startWatcher watches the tree files behind paths. Directories are
// expanded to the files they contain at startup.
func startWatcher(paths []string, cfg config.Config) (*watcher.Watcher, error) {
	sources, err := datasource.DiscoverSources(paths, datasource.DiscoveryOptions{})
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(sources))
	for _, src := range sources {
		files = append(files, src.Path)
	}

	w, err := watcher.NewWatcher(files,
		watcher.WithDebounceDuration(cfg.DebounceDuration()),
		watcher.WithForcePoll(cfg.Watch.ForcePoll),
		watcher.WithOnError(func(err error) { debug.Log("watcher: %v", err) }),
	)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}

// title names the browser after the single file or directory it shows.
func title(paths []string) string {
	if len(paths) != 1 {
		return fmt.Sprintf("canopy (%d sources)", len(paths))
	}
	name := filepath.Base(paths[0])
	return "canopy " + strings.TrimSuffix(name, filepath.Ext(name))
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	)
	m.Attach(p)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set CANOPY_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("CANOPY_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
