package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mesh-intelligence/dlf/pkg/types"
)

const metadataColumns = `uid, pid, sys_language_uid, l18n_parent, label, index_name, default_value, wrap,
    index_tokenized, index_stored, index_indexed, index_boost, is_sortable, is_facet, is_listed, index_autocomplete`

func scanMetadata(row rowScanner) (*types.Metadata, error) {
	var m types.Metadata
	err := row.Scan(&m.UID, &m.PID, &m.LanguageID, &m.ParentUID, &m.Label, &m.IndexName,
		&m.DefaultValue, &m.Wrap, &m.Tokenized, &m.Stored, &m.Indexed, &m.Boost,
		&m.Sortable, &m.Facet, &m.Listed, &m.Autocomplete)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, Error.New("scanning metadata: %v", err)
	}
	return &m, nil
}

// FindMetadataByUID returns the metadata row with the given uid.
func (b *Backend) FindMetadataByUID(ctx context.Context, uid int64) (*types.Metadata, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	return scanMetadata(db.QueryRowContext(ctx,
		"SELECT "+metadataColumns+" FROM tx_dlf_metadata WHERE uid = ?", uid))
}

// FindMetadataByIndexName returns the primary metadata record of a tenant
// with the given index name.
func (b *Backend) FindMetadataByIndexName(ctx context.Context, pid int64, indexName string) (*types.Metadata, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	return scanMetadata(db.QueryRowContext(ctx,
		"SELECT "+metadataColumns+" FROM tx_dlf_metadata WHERE pid = ? AND index_name = ? AND sys_language_uid = 0 ORDER BY uid LIMIT 1",
		pid, indexName))
}

// CountMetadata counts the primary metadata records of a tenant.
func (b *Backend) CountMetadata(ctx context.Context, pid int64) (int, error) {
	return b.count(ctx, "SELECT COUNT(*) FROM tx_dlf_metadata WHERE pid = ? AND sys_language_uid = 0", pid)
}

// CountMetadataLabels counts every metadata row of a tenant, primary
// records and translation shadows alike.
func (b *Backend) CountMetadataLabels(ctx context.Context, pid int64) (int, error) {
	return b.count(ctx, "SELECT COUNT(*) FROM tx_dlf_metadata WHERE pid = ?", pid)
}

// FindMetadataTranslations returns the shadows of a primary metadata record.
func (b *Backend) FindMetadataTranslations(ctx context.Context, parentUID int64) ([]*types.Metadata, error) {
	return b.queryMetadata(ctx, "WHERE l18n_parent = ? ORDER BY sys_language_uid, uid", parentUID)
}

// FindMetadataListed returns the primary records shown in result lists.
func (b *Backend) FindMetadataListed(ctx context.Context, pid int64) ([]*types.Metadata, error) {
	return b.queryMetadata(ctx, "WHERE pid = ? AND sys_language_uid = 0 AND is_listed = 1 ORDER BY uid", pid)
}

// FindMetadataSortable returns the primary records results can be sorted by.
func (b *Backend) FindMetadataSortable(ctx context.Context, pid int64) ([]*types.Metadata, error) {
	return b.queryMetadata(ctx, "WHERE pid = ? AND sys_language_uid = 0 AND is_sortable = 1 ORDER BY uid", pid)
}

func (b *Backend) queryMetadata(ctx context.Context, where string, args ...any) ([]*types.Metadata, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT "+metadataColumns+" FROM tx_dlf_metadata "+where, args...)
	if err != nil {
		return nil, Error.New("querying metadata: %v", err)
	}
	defer rows.Close()

	var out []*types.Metadata
	for rows.Next() {
		m, err := scanMetadata(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, Error.Wrap(rows.Err())
}

// FindMetadataFormats returns the format bindings of a metadata record.
func (b *Backend) FindMetadataFormats(ctx context.Context, parentUID int64) ([]*types.MetadataFormat, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		"SELECT uid, pid, parent_id, encoded, xpath, xpath_sorting FROM tx_dlf_metadataformat WHERE parent_id = ? ORDER BY uid",
		parentUID)
	if err != nil {
		return nil, Error.New("querying metadata formats: %v", err)
	}
	defer rows.Close()

	var out []*types.MetadataFormat
	for rows.Next() {
		var mf types.MetadataFormat
		if err := rows.Scan(&mf.UID, &mf.PID, &mf.ParentUID, &mf.FormatUID, &mf.XPath, &mf.XPathSorting); err != nil {
			return nil, Error.New("scanning metadata format: %v", err)
		}
		out = append(out, &mf)
	}
	return out, Error.Wrap(rows.Err())
}
