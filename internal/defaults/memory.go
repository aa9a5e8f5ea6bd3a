package defaults

import "github.com/mesh-intelligence/dlf/pkg/types"

// MemorySource is a Source over in-memory definitions. It copies on every
// call so callers cannot mutate the desired state.
type MemorySource struct {
	FormatSpecs    []FormatSpec
	MetadataSpecs  []MetadataSpec
	StructureSpecs []StructureSpec

	// LabelTables holds one table per label-bearing category.
	LabelTables map[types.Category]LabelTable
}

var _ Source = (*MemorySource)(nil)

// Formats returns a copy of FormatSpecs.
func (m *MemorySource) Formats() ([]FormatSpec, error) {
	return append([]FormatSpec(nil), m.FormatSpecs...), nil
}

// MetadataFields returns a copy of MetadataSpecs.
func (m *MemorySource) MetadataFields() ([]MetadataSpec, error) {
	out := make([]MetadataSpec, len(m.MetadataSpecs))
	for i, spec := range m.MetadataSpecs {
		spec.Formats = append([]FormatBinding(nil), spec.Formats...)
		out[i] = spec
	}
	return out, nil
}

// Structures returns a copy of StructureSpecs.
func (m *MemorySource) Structures() ([]StructureSpec, error) {
	return append([]StructureSpec(nil), m.StructureSpecs...), nil
}

// Count returns the desired record count of a category.
func (m *MemorySource) Count(c types.Category) (int, error) {
	return count(m, c)
}

// Labels returns the configured table of a category restricted to the
// default language and the requested languages.
func (m *MemorySource) Labels(c types.Category, languages []types.Language) (LabelTable, error) {
	out := LabelTable{}
	src := m.LabelTables[c]
	for _, key := range languageKeys(languages) {
		if units, ok := src[key]; ok {
			out[key] = units
		}
	}
	return out, nil
}
