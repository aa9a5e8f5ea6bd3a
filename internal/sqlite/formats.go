package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mesh-intelligence/dlf/pkg/types"
)

const formatColumns = "uid, pid, type, root, namespace, class"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFormat(row rowScanner) (*types.Format, error) {
	var f types.Format
	if err := row.Scan(&f.UID, &f.PID, &f.Type, &f.Root, &f.Namespace, &f.Class); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, Error.New("scanning format: %v", err)
	}
	return &f, nil
}

// FindFormatByType returns the first format with the given type.
// Returns ErrNotFound when none exists.
func (b *Backend) FindFormatByType(ctx context.Context, formatType string) (*types.Format, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	row := db.QueryRowContext(ctx,
		"SELECT "+formatColumns+" FROM tx_dlf_formats WHERE type = ? ORDER BY uid LIMIT 1", formatType)
	return scanFormat(row)
}

// FindAllFormats returns every persisted format ordered by uid.
func (b *Backend) FindAllFormats(ctx context.Context) ([]*types.Format, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT "+formatColumns+" FROM tx_dlf_formats ORDER BY uid")
	if err != nil {
		return nil, Error.New("querying formats: %v", err)
	}
	defer rows.Close()

	var out []*types.Format
	for rows.Next() {
		f, err := scanFormat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, Error.Wrap(rows.Err())
}

// CountFormats counts all formats of the installation.
func (b *Backend) CountFormats(ctx context.Context) (int, error) {
	return b.count(ctx, "SELECT COUNT(*) FROM tx_dlf_formats")
}

// AddFormat stages f. It is written, and f.UID set, by PersistAll.
func (b *Backend) AddFormat(f *types.Format) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pendingFormats = append(b.pendingFormats, f)
}
