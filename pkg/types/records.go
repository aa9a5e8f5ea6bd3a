package types

// Database table names.
const (
	TableFormats         = "tx_dlf_formats"
	TableMetadata        = "tx_dlf_metadata"
	TableMetadataFormats = "tx_dlf_metadataformat"
	TableStructures      = "tx_dlf_structures"
	TableSolrCores       = "tx_dlf_solrcores"
)

// DefaultLanguageID is the sys_language_uid of a primary record. Translation
// shadows are never created for it.
const DefaultLanguageID = 0

// Format describes a supported input encoding or schema. Formats are global
// and stored at pid 0.
type Format struct {
	UID       int64
	PID       int64
	Type      string // Unique key, e.g. "MODS".
	Root      string // Root element name used to resolve metadata bindings.
	Namespace string
	Class     string // Handler that parses documents of this format.
}

// Metadata is a metadata field definition. A row with LanguageID 0 is the
// primary record; other rows are translation shadows pointing at ParentUID.
type Metadata struct {
	UID          int64
	PID          int64
	LanguageID   int64
	ParentUID    int64
	Label        string
	IndexName    string
	DefaultValue string
	Wrap         string
	Tokenized    bool
	Stored       bool
	Indexed      bool
	Boost        float64
	Sortable     bool
	Facet        bool
	Listed       bool
	Autocomplete bool
}

// MetadataFormat binds a metadata field to a persisted format and holds the
// extraction expressions for that format.
type MetadataFormat struct {
	UID          int64
	PID          int64
	ParentUID    int64 // Metadata.UID
	FormatUID    int64 // Format.UID, the resolved ("encoded") format identity.
	XPath        string
	XPathSorting string
}

// Structure is a structural element type (monograph, chapter, issue).
type Structure struct {
	UID          int64
	PID          int64
	LanguageID   int64
	ParentUID    int64
	Label        string
	IndexName    string
	OAIName      string
	Toplevel     bool
	ThumbnailUID int64 // 0 means no thumbnail structure.
}

// SolrCore is the search index core of a tenant. At most one exists per pid.
type SolrCore struct {
	UID       int64
	PID       int64
	Label     string
	IndexName string // Opaque handle returned by the index-management facade.
}
