package sqlite

import (
	"context"

	"github.com/mesh-intelligence/dlf/pkg/types"
)

// PersistAll writes every record staged by AddFormat and AddSolrCore in one
// transaction and assigns their uids. The staged records are taken off the
// stage when the call starts, so on error nothing is written and nothing is
// left over for a later PersistAll.
func (b *Backend) PersistAll(ctx context.Context) error {
	b.mu.Lock()
	if !b.attached {
		b.mu.Unlock()
		return types.ErrBackendDetached
	}
	db := b.db
	formats := b.pendingFormats
	cores := b.pendingCores
	b.pendingFormats = nil
	b.pendingCores = nil
	b.mu.Unlock()

	if len(formats) == 0 && len(cores) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Error.New("begin transaction: %v", err)
	}
	defer tx.Rollback()

	formatUIDs := make([]int64, len(formats))
	for i, f := range formats {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO tx_dlf_formats (pid, type, root, namespace, class) VALUES (?, ?, ?, ?, ?)",
			f.PID, f.Type, f.Root, f.Namespace, f.Class)
		if err != nil {
			return Error.New("insert format %s: %v", f.Type, err)
		}
		if formatUIDs[i], err = res.LastInsertId(); err != nil {
			return Error.Wrap(err)
		}
	}

	coreUIDs := make([]int64, len(cores))
	for i, c := range cores {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO tx_dlf_solrcores (pid, label, index_name) VALUES (?, ?, ?)",
			c.PID, c.Label, c.IndexName)
		if err != nil {
			return Error.New("insert solr core %s: %v", c.IndexName, err)
		}
		if coreUIDs[i], err = res.LastInsertId(); err != nil {
			return Error.Wrap(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Error.New("commit: %v", err)
	}

	for i, f := range formats {
		f.UID = formatUIDs[i]
	}
	for i, c := range cores {
		c.UID = coreUIDs[i]
	}
	return nil
}
