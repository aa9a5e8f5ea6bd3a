// Package defaults provides the desired state of every seeded category: the
// format, metadata, and structure definitions shipped with dlf and the
// translatable labels that go with them.
package defaults

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/dlf/pkg/types"
)

// Logical definition file names, one per category.
const (
	FormatDefaults    = "FormatDefaults.yaml"
	MetadataDefaults  = "MetadataDefaults.yaml"
	StructureDefaults = "StructureDefaults.yaml"
)

// Label file names, one per label-bearing category.
const (
	MetadataLabels  = "locallang_metadata.xlf"
	StructureLabels = "locallang_structure.xlf"
	BackendLabels   = "locallang_be.xlf"
)

// Directory layout inside a definition tree.
const (
	dataDir     = "Data"
	languageDir = "Language"
)

//go:embed resources
var resources embed.FS

// Source provides the desired state for each category. Implementations load
// fresh on every call; repeated loads must return equal results and have no
// side effects.
type Source interface {
	Formats() ([]FormatSpec, error)
	MetadataFields() ([]MetadataSpec, error)
	Structures() ([]StructureSpec, error)

	// Count returns the number of desired records of a concrete category.
	// The solr category always desires exactly one core.
	Count(c types.Category) (int, error)

	// Labels returns the label table for a category, covering the default
	// language and every language in languages.
	Labels(c types.Category, languages []types.Language) (LabelTable, error)
}

var validate = validator.New()

// FSSource reads definitions from an fs.FS laid out as Data/*.yaml and
// Language/*.xlf.
type FSSource struct {
	fsys   fs.FS
	labels LabelLoader
}

var _ Source = (*FSSource)(nil)

// NewFSSource returns a Source reading from fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{
		fsys:   fsys,
		labels: NewXLIFFLoader(fsys),
	}
}

// Embedded returns the Source backed by the definitions compiled into the
// binary.
func Embedded() *FSSource {
	sub, err := fs.Sub(resources, "resources")
	if err != nil {
		panic(err)
	}
	return NewFSSource(sub)
}

// Formats loads FormatDefaults in file order.
func (s *FSSource) Formats() ([]FormatSpec, error) {
	var out []FormatSpec
	err := s.decode(FormatDefaults, func(key string, node *yaml.Node) error {
		var spec FormatSpec
		if err := node.Decode(&spec); err != nil {
			return err
		}
		spec.Type = key
		out = append(out, spec)
		return validate.Struct(spec)
	})
	return out, err
}

// MetadataFields loads MetadataDefaults in file order.
func (s *FSSource) MetadataFields() ([]MetadataSpec, error) {
	var out []MetadataSpec
	err := s.decode(MetadataDefaults, func(key string, node *yaml.Node) error {
		var spec MetadataSpec
		if err := node.Decode(&spec); err != nil {
			return err
		}
		spec.IndexName = key
		out = append(out, spec)
		return validate.Struct(spec)
	})
	return out, err
}

// Structures loads StructureDefaults in file order.
func (s *FSSource) Structures() ([]StructureSpec, error) {
	var out []StructureSpec
	err := s.decode(StructureDefaults, func(key string, node *yaml.Node) error {
		var spec StructureSpec
		if err := node.Decode(&spec); err != nil {
			return err
		}
		spec.IndexName = key
		out = append(out, spec)
		return validate.Struct(spec)
	})
	return out, err
}

// Count returns the desired record count of a category.
func (s *FSSource) Count(c types.Category) (int, error) {
	return count(s, c)
}

// Labels loads the label file of a category for the given languages.
// Formats carry no labels and yield an empty table.
func (s *FSSource) Labels(c types.Category, languages []types.Language) (LabelTable, error) {
	name, ok := labelFiles[c]
	if !ok {
		return LabelTable{}, nil
	}
	table := LabelTable{}
	for _, key := range languageKeys(languages) {
		parsed, err := s.labels.Parse(path.Join(languageDir, name), key)
		if err != nil {
			return nil, types.ErrDataSource.Wrap(err)
		}
		table.Merge(parsed)
	}
	return table, nil
}

// labelFiles maps label-bearing categories to their label file.
var labelFiles = map[types.Category]string{
	types.CategoryMetadata:  MetadataLabels,
	types.CategoryStructure: StructureLabels,
	types.CategorySolr:      BackendLabels,
}

// decode walks the top-level mapping of a definition file in document order.
func (s *FSSource) decode(name string, each func(key string, node *yaml.Node) error) error {
	data, err := fs.ReadFile(s.fsys, path.Join(dataDir, name))
	if err != nil {
		return types.ErrDataSource.New("reading %s: %v", name, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.ErrDataSource.New("parsing %s: %v", name, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return types.ErrDataSource.New("%s: top level must be a mapping", name)
	}

	root := doc.Content[0]
	seen := make(map[string]bool, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		if seen[key] {
			return types.ErrDataSource.New("%s: duplicate key %q", name, key)
		}
		seen[key] = true
		if err := each(key, root.Content[i+1]); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				return types.ErrDataSource.New("%s: %s: %v", name, key, verrs)
			}
			return types.ErrDataSource.New("%s: %s: %v", name, key, err)
		}
	}
	return nil
}

// count implements Source.Count on top of the typed loaders.
func count(s Source, c types.Category) (int, error) {
	switch c {
	case types.CategoryFormat:
		specs, err := s.Formats()
		return len(specs), err
	case types.CategoryMetadata:
		specs, err := s.MetadataFields()
		return len(specs), err
	case types.CategoryStructure:
		specs, err := s.Structures()
		return len(specs), err
	case types.CategorySolr:
		return 1, nil
	default:
		return 0, fmt.Errorf("count %q: %w", c, types.ErrInvalidType)
	}
}

// languageKeys returns the distinct label keys of languages, always
// starting with the default key.
func languageKeys(languages []types.Language) []string {
	keys := []string{DefaultLabelKey}
	seen := map[string]bool{DefaultLabelKey: true}
	for _, l := range languages {
		if l.LabelKey == "" || seen[l.LabelKey] {
			continue
		}
		seen[l.LabelKey] = true
		keys = append(keys, l.LabelKey)
	}
	return keys
}
