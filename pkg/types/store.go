package types

import "context"

// FormatStore reads and stages format records.
type FormatStore interface {
	// FindFormatByType returns ErrNotFound when no format has the type.
	FindFormatByType(ctx context.Context, formatType string) (*Format, error)
	FindAllFormats(ctx context.Context) ([]*Format, error)
	CountFormats(ctx context.Context) (int, error)

	// AddFormat stages a format; PersistAll writes it.
	AddFormat(f *Format)
}

// MetadataStore reads metadata records of a tenant.
type MetadataStore interface {
	FindMetadataByUID(ctx context.Context, uid int64) (*Metadata, error)
	FindMetadataByIndexName(ctx context.Context, pid int64, indexName string) (*Metadata, error)

	// CountMetadata counts primary (default language) records.
	CountMetadata(ctx context.Context, pid int64) (int, error)
}

// StructureStore reads structure records of a tenant.
type StructureStore interface {
	FindStructureByUID(ctx context.Context, uid int64) (*Structure, error)
	FindStructureByIndexName(ctx context.Context, pid int64, indexName string) (*Structure, error)

	// CountStructures counts primary (default language) records.
	CountStructures(ctx context.Context, pid int64) (int, error)
}

// SolrCoreStore reads and stages search core records.
type SolrCoreStore interface {
	// FindSolrCoreByPID returns ErrNotFound when the tenant has no core.
	FindSolrCoreByPID(ctx context.Context, pid int64) (*SolrCore, error)
	CountSolrCores(ctx context.Context, pid int64) (int, error)

	// AddSolrCore stages a core; PersistAll writes it.
	AddSolrCore(c *SolrCore)
}

// BatchWriter performs administrative batch writes.
type BatchWriter interface {
	// WriteBatch inserts every staged row in one transaction and returns the
	// placeholder-to-uid mapping in staging order.
	WriteBatch(ctx context.Context, b *Batch) (BatchWriteResult, error)
}

// Store is the persistence contract the seeding engine consumes.
type Store interface {
	FormatStore
	MetadataStore
	StructureStore
	SolrCoreStore
	BatchWriter

	// PersistAll flushes staged Add calls in one transaction. Staged records
	// are consumed whether or not the transaction commits.
	PersistAll(ctx context.Context) error
}
