package sqlite

// Schema DDL for all tables. Uniqueness of format types and index names is
// enforced by lookup-before-insert in the seeding engine, not by constraints.
const (
	createFormats = `CREATE TABLE IF NOT EXISTS tx_dlf_formats (
    uid INTEGER PRIMARY KEY AUTOINCREMENT,
    pid INTEGER NOT NULL DEFAULT 0,
    type TEXT NOT NULL,
    root TEXT NOT NULL,
    namespace TEXT NOT NULL,
    class TEXT NOT NULL DEFAULT ''
);`

	createMetadata = `CREATE TABLE IF NOT EXISTS tx_dlf_metadata (
    uid INTEGER PRIMARY KEY AUTOINCREMENT,
    pid INTEGER NOT NULL,
    sys_language_uid INTEGER NOT NULL DEFAULT 0,
    l18n_parent INTEGER NOT NULL DEFAULT 0,
    label TEXT NOT NULL DEFAULT '',
    index_name TEXT NOT NULL DEFAULT '',
    default_value TEXT NOT NULL DEFAULT '',
    wrap TEXT NOT NULL DEFAULT '',
    index_tokenized INTEGER NOT NULL DEFAULT 0,
    index_stored INTEGER NOT NULL DEFAULT 0,
    index_indexed INTEGER NOT NULL DEFAULT 0,
    index_boost REAL NOT NULL DEFAULT 1.0,
    is_sortable INTEGER NOT NULL DEFAULT 0,
    is_facet INTEGER NOT NULL DEFAULT 0,
    is_listed INTEGER NOT NULL DEFAULT 0,
    index_autocomplete INTEGER NOT NULL DEFAULT 0
);`

	createMetadataFormats = `CREATE TABLE IF NOT EXISTS tx_dlf_metadataformat (
    uid INTEGER PRIMARY KEY AUTOINCREMENT,
    pid INTEGER NOT NULL,
    parent_id INTEGER NOT NULL,
    encoded INTEGER NOT NULL,
    xpath TEXT NOT NULL DEFAULT '',
    xpath_sorting TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (parent_id) REFERENCES tx_dlf_metadata(uid),
    FOREIGN KEY (encoded) REFERENCES tx_dlf_formats(uid)
);`

	createStructures = `CREATE TABLE IF NOT EXISTS tx_dlf_structures (
    uid INTEGER PRIMARY KEY AUTOINCREMENT,
    pid INTEGER NOT NULL,
    sys_language_uid INTEGER NOT NULL DEFAULT 0,
    l18n_parent INTEGER NOT NULL DEFAULT 0,
    toplevel INTEGER NOT NULL DEFAULT 0,
    label TEXT NOT NULL DEFAULT '',
    index_name TEXT NOT NULL DEFAULT '',
    oai_name TEXT NOT NULL DEFAULT '',
    thumbnail INTEGER NOT NULL DEFAULT 0
);`

	createSolrCores = `CREATE TABLE IF NOT EXISTS tx_dlf_solrcores (
    uid INTEGER PRIMARY KEY AUTOINCREMENT,
    pid INTEGER NOT NULL,
    label TEXT NOT NULL DEFAULT '',
    index_name TEXT NOT NULL
);`
)

// Index DDL for the lookups the seeding engine performs.
const (
	idxFormatsType         = `CREATE INDEX IF NOT EXISTS idx_formats_type ON tx_dlf_formats(type);`
	idxMetadataIndexName   = `CREATE INDEX IF NOT EXISTS idx_metadata_index_name ON tx_dlf_metadata(pid, index_name);`
	idxMetadataParent      = `CREATE INDEX IF NOT EXISTS idx_metadata_parent ON tx_dlf_metadata(l18n_parent);`
	idxMetadataFormatsPar  = `CREATE INDEX IF NOT EXISTS idx_metadataformat_parent ON tx_dlf_metadataformat(parent_id);`
	idxStructuresIndexName = `CREATE INDEX IF NOT EXISTS idx_structures_index_name ON tx_dlf_structures(pid, index_name);`
	idxStructuresParent    = `CREATE INDEX IF NOT EXISTS idx_structures_parent ON tx_dlf_structures(l18n_parent);`
	idxSolrCoresPID        = `CREATE INDEX IF NOT EXISTS idx_solrcores_pid ON tx_dlf_solrcores(pid);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createFormats,
	createMetadata,
	createMetadataFormats,
	createStructures,
	createSolrCores,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxFormatsType,
	idxMetadataIndexName,
	idxMetadataParent,
	idxMetadataFormatsPar,
	idxStructuresIndexName,
	idxStructuresParent,
	idxSolrCoresPID,
}

// batchColumns lists the columns a batch row may set, per table.
var batchColumns = map[string]map[string]bool{
	"tx_dlf_formats": set("pid", "type", "root", "namespace", "class"),
	"tx_dlf_metadata": set("pid", "sys_language_uid", "l18n_parent", "label", "index_name",
		"default_value", "wrap", "index_tokenized", "index_stored", "index_indexed", "index_boost",
		"is_sortable", "is_facet", "is_listed", "index_autocomplete"),
	"tx_dlf_metadataformat": set("pid", "parent_id", "encoded", "xpath", "xpath_sorting"),
	"tx_dlf_structures": set("pid", "sys_language_uid", "l18n_parent", "toplevel", "label",
		"index_name", "oai_name", "thumbnail"),
	"tx_dlf_solrcores": set("pid", "label", "index_name"),
}

func set(cols ...string) map[string]bool {
	m := make(map[string]bool, len(cols))
	for _, c := range cols {
		m[c] = true
	}
	return m
}
