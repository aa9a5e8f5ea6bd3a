package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mesh-intelligence/dlf/pkg/types"
)

const structureColumns = "uid, pid, sys_language_uid, l18n_parent, toplevel, label, index_name, oai_name, thumbnail"

func scanStructure(row rowScanner) (*types.Structure, error) {
	var s types.Structure
	err := row.Scan(&s.UID, &s.PID, &s.LanguageID, &s.ParentUID, &s.Toplevel, &s.Label,
		&s.IndexName, &s.OAIName, &s.ThumbnailUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, Error.New("scanning structure: %v", err)
	}
	return &s, nil
}

// FindStructureByUID returns the structure row with the given uid.
func (b *Backend) FindStructureByUID(ctx context.Context, uid int64) (*types.Structure, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	return scanStructure(db.QueryRowContext(ctx,
		"SELECT "+structureColumns+" FROM tx_dlf_structures WHERE uid = ?", uid))
}

// FindStructureByIndexName returns the primary structure record of a tenant
// with the given index name.
func (b *Backend) FindStructureByIndexName(ctx context.Context, pid int64, indexName string) (*types.Structure, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	return scanStructure(db.QueryRowContext(ctx,
		"SELECT "+structureColumns+" FROM tx_dlf_structures WHERE pid = ? AND index_name = ? AND sys_language_uid = 0 ORDER BY uid LIMIT 1",
		pid, indexName))
}

// CountStructures counts the primary structure records of a tenant.
func (b *Backend) CountStructures(ctx context.Context, pid int64) (int, error) {
	return b.count(ctx, "SELECT COUNT(*) FROM tx_dlf_structures WHERE pid = ? AND sys_language_uid = 0", pid)
}

// CountStructureLabels counts every structure row of a tenant, including
// translation shadows.
func (b *Backend) CountStructureLabels(ctx context.Context, pid int64) (int, error) {
	return b.count(ctx, "SELECT COUNT(*) FROM tx_dlf_structures WHERE pid = ?", pid)
}

// FindStructureTranslations returns the shadows of a primary structure record.
func (b *Backend) FindStructureTranslations(ctx context.Context, parentUID int64) ([]*types.Structure, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		"SELECT "+structureColumns+" FROM tx_dlf_structures WHERE l18n_parent = ? ORDER BY sys_language_uid, uid", parentUID)
	if err != nil {
		return nil, Error.New("querying structures: %v", err)
	}
	defer rows.Close()

	var out []*types.Structure
	for rows.Next() {
		s, err := scanStructure(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, Error.Wrap(rows.Err())
}
