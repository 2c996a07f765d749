//go:build ignore

// generate_testdata.go creates standard tree files for benchmarking.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/benchmark/small.yaml   (~150 items)
//	testdata/benchmark/medium.yaml  (~1500 items)
//	testdata/benchmark/large.yaml   (~20000 items)
//	testdata/benchmark/wide.yaml    (one folder with 100000 leaves)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/canopy/pkg/testutil"
)

type datasetSpec struct {
	name  string
	shape func(g *testutil.Generator) testutil.ShapeFixture
}

var datasets = []datasetSpec{
	{"small", func(g *testutil.Generator) testutil.ShapeFixture { return g.RandomTree(150, 0.05) }},
	{"medium", func(g *testutil.Generator) testutil.ShapeFixture { return g.Tree(4, 6) }},
	{"large", func(g *testutil.Generator) testutil.ShapeFixture { return g.RandomTree(20000, 0.01) }},
	{"wide", func(g *testutil.Generator) testutil.ShapeFixture { return g.Wide(100000) }},
}

func main() {
	outputDir := "testdata/benchmark"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for i, ds := range datasets {
		gen := testutil.New(testutil.GeneratorConfig{
			Seed:          int64(i + 1), // Reproducible per dataset
			IDPrefix:      ds.name + "-",
			DescribeEvery: 7,
			TallEvery:     3,
			IncludeData:   true,
		})
		sf := ds.shape(gen)
		fmt.Printf("Generating %s dataset (%s)...\n", ds.name, sf.Description)

		forest, err := gen.ToForest(sf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build %s: %v\n", ds.name, err)
			os.Exit(1)
		}
		data, err := yaml.Marshal(testutil.ToDocument(forest))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode %s: %v\n", ds.name, err)
			os.Exit(1)
		}

		outputPath := filepath.Join(outputDir, ds.name+".yaml")
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
			os.Exit(1)
		}
		fmt.Printf("  Written %s (%d bytes, %d items)\n", outputPath, len(data), forest.Len())
	}

	fmt.Println("\nDone! Test datasets created in", outputDir)
}
