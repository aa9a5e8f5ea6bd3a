package defaults

// DefaultWrap is applied to a metadata field whose definition leaves wrap
// empty.
const DefaultWrap = "key.wrap = <dt>|</dt>\nvalue.required = 1\nvalue.wrap = <dd>|</dd>"

// FormatSpec is the desired state of one format record, keyed by Type.
type FormatSpec struct {
	Type      string `yaml:"-" validate:"required"`
	Root      string `yaml:"root" validate:"required"`
	Namespace string `yaml:"namespace" validate:"required"`
	Class     string `yaml:"class"`
}

// FormatBinding ties a metadata field to a format by the format's root
// element. The root is resolved to a persisted format uid at insert time.
type FormatBinding struct {
	FormatRoot   string `yaml:"format_root" validate:"required"`
	XPath        string `yaml:"xpath" validate:"required"`
	XPathSorting string `yaml:"xpath_sorting"`
}

// MetadataSpec is the desired state of one metadata field, keyed by
// IndexName.
type MetadataSpec struct {
	IndexName    string          `yaml:"-" validate:"required"`
	Formats      []FormatBinding `yaml:"format" validate:"dive"`
	DefaultValue string          `yaml:"default_value"`
	Wrap         string          `yaml:"wrap"`
	Tokenized    bool            `yaml:"index_tokenized"`
	Stored       bool            `yaml:"index_stored"`
	Indexed      bool            `yaml:"index_indexed"`
	Boost        float64         `yaml:"index_boost" validate:"gte=0"`
	Sortable     bool            `yaml:"is_sortable"`
	Facet        bool            `yaml:"is_facet"`
	Listed       bool            `yaml:"is_listed"`
	Autocomplete bool            `yaml:"index_autocomplete"`
}

// EffectiveWrap returns the configured wrap or DefaultWrap.
func (m MetadataSpec) EffectiveWrap() string {
	if m.Wrap != "" {
		return m.Wrap
	}
	return DefaultWrap
}

// StructureSpec is the desired state of one structure type, keyed by
// IndexName.
type StructureSpec struct {
	IndexName string `yaml:"-" validate:"required"`
	Toplevel  bool   `yaml:"toplevel"`
	OAIName   string `yaml:"oai_name"`
}
