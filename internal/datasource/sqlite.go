package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/canopy/pkg/debug"
	"github.com/vanderheijden86/canopy/pkg/model"
)

// Schema is the table layout SQLiteReader understands. Only id, parent_id
// and name are required; the full query falls back to those when the
// optional columns are missing. The links table is optional and lists
// additional parents (aliases).
const Schema = `
CREATE TABLE nodes (
	id          TEXT PRIMARY KEY,
	parent_id   TEXT,
	position    INTEGER NOT NULL DEFAULT 0,
	name        TEXT NOT NULL,
	description TEXT,
	kind        TEXT,
	thumbnail   TEXT,
	height      INTEGER,
	dataset     TEXT
);
CREATE TABLE links (
	parent_id TEXT NOT NULL,
	child_id  TEXT NOT NULL,
	position  INTEGER NOT NULL DEFAULT 0
);
`

// SQLiteReader provides read access to a tree stored as an adjacency list
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA cache_size = -16000", // 16MB cache
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			debug.Log("datasource: %s failed: %v", pragma, err)
		}
	}

	return &SQLiteReader{db: db, path: source.Path}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

type nodeRow struct {
	item     *model.Item
	parentID string
	kind     string
}

// LoadForest reads every node into a forest. Nodes without a parent become
// top-level items; children are ordered by position, then id.
func (r *SQLiteReader) LoadForest(ctx context.Context) (*model.Forest, error) {
	rows, err := r.loadNodes(ctx)
	if err != nil {
		return nil, err
	}

	f := model.NewForest()
	for _, n := range rows {
		n.item.Source = r.path
		if err := f.Add(n.item); err != nil {
			return nil, err
		}
	}
	for _, n := range rows {
		if n.parentID == "" {
			f.AddRoot(n.item.ID)
			continue
		}
		if err := f.Link(n.parentID, n.item.ID); err != nil {
			return nil, err
		}
	}
	for _, l := range r.loadLinks(ctx) {
		if err := f.Link(l[0], l[1]); err != nil {
			debug.Log("datasource: skipping link %s -> %s: %v", l[0], l[1], err)
		}
	}

	for _, n := range rows {
		if kind, ok := model.ParseKind(n.kind); ok {
			n.item.Kind = kind
		} else if len(n.item.ChildIDs) > 0 {
			n.item.Kind = model.KindFolder
		}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *SQLiteReader) loadNodes(ctx context.Context) ([]nodeRow, error) {
	query := `
		SELECT id, parent_id, name, description, kind, thumbnail, height, dataset
		FROM nodes
		ORDER BY parent_id, position, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		// Try simpler query if some columns don't exist
		return r.loadNodesSimple(ctx)
	}
	defer rows.Close()

	var out []nodeRow
	for rows.Next() {
		var item model.Item
		var parentID, description, kind, thumbnail, dataset sql.NullString
		var height sql.NullInt64
		if err := rows.Scan(&item.ID, &parentID, &item.Name, &description, &kind, &thumbnail, &height, &dataset); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		if description.Valid {
			item.Description = description.String
		}
		if thumbnail.Valid {
			item.Thumbnail = thumbnail.String
		}
		if height.Valid {
			item.Height = int(height.Int64)
		}
		if dataset.Valid {
			item.Dataset = parseDataset(dataset.String)
		}
		out = append(out, nodeRow{item: &item, parentID: parentID.String, kind: kind.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nodes: %w", err)
	}
	return out, nil
}

// loadNodesSimple is a fallback for tables with only the required columns
func (r *SQLiteReader) loadNodesSimple(ctx context.Context) ([]nodeRow, error) {
	query := `SELECT id, parent_id, name FROM nodes ORDER BY parent_id, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var out []nodeRow
	for rows.Next() {
		var item model.Item
		var parentID sql.NullString
		if err := rows.Scan(&item.ID, &parentID, &item.Name); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		out = append(out, nodeRow{item: &item, parentID: parentID.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nodes: %w", err)
	}
	return out, nil
}

// loadLinks reads extra parent/child pairs. Missing table means none.
func (r *SQLiteReader) loadLinks(ctx context.Context) [][2]string {
	rows, err := r.db.QueryContext(ctx, `SELECT parent_id, child_id FROM links ORDER BY parent_id, position, child_id`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var links [][2]string
	for rows.Next() {
		var l [2]string
		if err := rows.Scan(&l[0], &l[1]); err != nil {
			continue
		}
		links = append(links, l)
	}
	// Note: rows.Err() not checked here since links are best-effort.
	return links
}

// CountNodes returns the number of rows in the nodes table
func (r *SQLiteReader) CountNodes(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM nodes").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// parseDataset parses a JSON object of string values
func parseDataset(s string) map[string]string {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" || s == "{}" {
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		debug.Log("datasource: ignoring malformed dataset %q: %v", s, err)
		return nil
	}
	return out
}

// LoadSQLite opens path, reads its forest and closes the database.
func LoadSQLite(ctx context.Context, source DataSource) (*model.Forest, error) {
	r, err := NewSQLiteReader(source)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.LoadForest(ctx)
}
