package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mesh-intelligence/dlf/pkg/types"
)

// FindSolrCoreByPID returns the search core of a tenant.
// Returns ErrNotFound when the tenant has none.
func (b *Backend) FindSolrCoreByPID(ctx context.Context, pid int64) (*types.SolrCore, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	var c types.SolrCore
	err = db.QueryRowContext(ctx,
		"SELECT uid, pid, label, index_name FROM tx_dlf_solrcores WHERE pid = ? ORDER BY uid LIMIT 1", pid,
	).Scan(&c.UID, &c.PID, &c.Label, &c.IndexName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, Error.New("scanning solr core: %v", err)
	}
	return &c, nil
}

// CountSolrCores counts the search cores of a tenant.
func (b *Backend) CountSolrCores(ctx context.Context, pid int64) (int, error) {
	return b.count(ctx, "SELECT COUNT(*) FROM tx_dlf_solrcores WHERE pid = ?", pid)
}

// AddSolrCore stages c. It is written, and c.UID set, by PersistAll.
func (b *Backend) AddSolrCore(c *types.SolrCore) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pendingCores = append(b.pendingCores, c)
}
