// Package sqlite implements the SQLite store for dlf tenant records.
// Implements the types.Store contract: lookups, counts, staged adds flushed
// by PersistAll, and administrative batch writes.
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"github.com/zeebo/errs"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/dlf/pkg/types"
)

// Error is the error class for storage failures.
var Error = errs.Class("sqlite")

// DatabaseFile is the file created inside Config.DataDir.
const DatabaseFile = "dlf.db"

// Backend implements types.Store on a SQLite database file.
type Backend struct {
	mu       sync.Mutex
	attached bool
	config   types.Config
	db       *sql.DB

	// Records staged by AddFormat and AddSolrCore until PersistAll.
	pendingFormats []*types.Format
	pendingCores   []*types.SolrCore
}

var _ types.Store = (*Backend)(nil)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens (creating if needed) the database in config.DataDir and
// applies the schema. Existing records are kept.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return Error.Wrap(err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DatabaseFile))
	if err != nil {
		return Error.Wrap(err)
	}
	// SQLite allows one writer; a single connection keeps batch
	// transactions and staged reads on the same view.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		db.Close()
		return Error.Wrap(err)
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. Staged records that were never persisted are
// dropped. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.pendingFormats = nil
	b.pendingCores = nil
	b.attached = false

	err := b.db.Close()
	b.db = nil
	return Error.Wrap(err)
}

// conn returns the open database or ErrBackendDetached.
func (b *Backend) conn() (*sql.DB, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	return b.db, nil
}

// count runs a COUNT(*) query.
func (b *Backend) count(ctx context.Context, query string, args ...any) (int, error) {
	db, err := b.conn()
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, Error.Wrap(err)
	}
	return n, nil
}

func applySchema(db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
