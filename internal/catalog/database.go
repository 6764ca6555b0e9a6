// Package catalog scans game directories for resources and persists the
// listing to a SQLite database for offline lookup.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wfallow/auroravault/internal/resource"
	"github.com/wfallow/auroravault/internal/restype"
)

// Catalog is a SQLite-backed listing of located resources.
type Catalog struct {
	db   *sql.DB
	path string
}

// Options configures catalog creation and connection behavior.
type Options struct {
	// Path to the SQLite database file
	Path string

	// WALMode enables Write-Ahead Logging mode for better concurrency
	WALMode bool

	// BusyTimeout sets the timeout for locked database operations
	BusyTimeout time.Duration
}

// DefaultOptions returns sensible defaults for catalog connections.
func DefaultOptions(path string) *Options {
	return &Options{
		Path:        path,
		WALMode:     true,
		BusyTimeout: 30 * time.Second,
	}
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS resources (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	name          TEXT NOT NULL,
	type          TEXT NOT NULL,
	canonical     TEXT NOT NULL,
	filepath      TEXT NOT NULL,
	combined_path TEXT NOT NULL UNIQUE,
	offset        INTEGER NOT NULL,
	size          INTEGER NOT NULL,
	in_capsule    INTEGER NOT NULL,
	in_bif        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resources_canonical ON resources(canonical);
CREATE INDEX IF NOT EXISTS idx_resources_type ON resources(type);
`

// Open opens (creating if needed) the catalog database at options.Path.
func Open(options *Options) (*Catalog, error) {
	if options == nil {
		return nil, fmt.Errorf("catalog options cannot be nil")
	}
	if options.Path == "" {
		return nil, fmt.Errorf("catalog path cannot be empty")
	}

	if err := ensureDirectory(options.Path); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", buildConnectionString(options))
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", options.Path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("testing catalog connection: %w", err)
	}

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog schema: %w", err)
	}

	return &Catalog{db: db, path: options.Path}, nil
}

// Close closes the catalog connection.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	if err != nil {
		return fmt.Errorf("closing catalog connection: %w", err)
	}
	return nil
}

// Insert stores located resources in one transaction, replacing any
// prior rows with the same combined path.
func (c *Catalog) Insert(ctx context.Context, resources []*resource.FileResource) error {
	if c.db == nil {
		return fmt.Errorf("catalog connection is closed")
	}
	if len(resources) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO resources
		(name, type, canonical, filepath, combined_path, offset, size, in_capsule, in_bif)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range resources {
		_, err := stmt.ExecContext(ctx,
			r.Name(),
			r.Type().String(),
			r.Identifier().Canonical(),
			r.Filepath(),
			r.CombinedPath(),
			int64(r.Offset()),
			int64(r.Size()),
			boolToInt(r.InsideCapsule()),
			boolToInt(r.InsideBIF()),
		)
		if err != nil {
			return fmt.Errorf("inserting resource %s: %w", r.CombinedPath(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing insert: %w", err)
	}
	return nil
}

// Find returns the cataloged locations of resources whose canonical
// name matches (case-insensitively). An empty typ matches any type.
func (c *Catalog) Find(ctx context.Context, name string, typ restype.Type) ([]*resource.FileResource, error) {
	if c.db == nil {
		return nil, fmt.Errorf("catalog connection is closed")
	}

	ref := resource.NewRef(name, typ)
	query := `SELECT name, type, filepath, offset, size FROM resources WHERE canonical = ?`
	arg := ref.Canonical()
	if typ.IsInvalid() {
		// Name-only search across all types.
		query = `SELECT name, type, filepath, offset, size FROM resources WHERE canonical LIKE ?`
		arg = strings.ToLower(name) + ".%"
	}

	rows, err := c.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	return scanResourceRows(rows)
}

// CountByType returns the count of cataloged resources per type name.
func (c *Catalog) CountByType(ctx context.Context) (map[string]int64, error) {
	if c.db == nil {
		return nil, fmt.Errorf("catalog connection is closed")
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT type, COUNT(*) FROM resources GROUP BY type ORDER BY type`)
	if err != nil {
		return nil, fmt.Errorf("querying catalog counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var typ string
		var n int64
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scanning count row: %w", err)
		}
		counts[typ] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating count rows: %w", err)
	}
	return counts, nil
}

func scanResourceRows(rows *sql.Rows) ([]*resource.FileResource, error) {
	var out []*resource.FileResource
	for rows.Next() {
		var name, typName, path string
		var offset, size int64
		if err := rows.Scan(&name, &typName, &path, &offset, &size); err != nil {
			return nil, fmt.Errorf("scanning resource row: %w", err)
		}
		typ := typeByName(typName)
		out = append(out, resource.New(name, typ, uint64(size), uint64(offset), path))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating resource rows: %w", err)
	}
	return out, nil
}

func typeByName(name string) restype.Type {
	for _, m := range restype.Extensions() {
		if m.Type.String() == name {
			return m.Type
		}
	}
	return restype.Invalid
}

func buildConnectionString(options *Options) string {
	var pragmas []string

	if options.WALMode {
		pragmas = append(pragmas, "journal_mode=WAL")
	}
	if options.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("busy_timeout=%d", int(options.BusyTimeout.Milliseconds())))
	}
	pragmas = append(pragmas, "synchronous=NORMAL")

	connStr := options.Path
	if len(pragmas) > 0 {
		connStr += "?" + strings.Join(pragmas, "&")
	}
	return connStr
}

func ensureDirectory(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
