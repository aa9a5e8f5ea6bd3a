package initializer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/dlf/internal/defaults"
	"github.com/mesh-intelligence/dlf/internal/sqlite"
	"github.com/mesh-intelligence/dlf/pkg/types"
)

var (
	english = types.Language{ID: 0, Locale: "en_US.UTF-8", LabelKey: "default", Title: "English"}
	german  = types.Language{ID: 1, Locale: "de_DE.UTF-8", LabelKey: "de", Title: "Deutsch"}
	french  = types.Language{ID: 2, Locale: "fr_FR.UTF-8", LabelKey: "fr", Title: "Français"}
)

func newStore(t *testing.T) *sqlite.Backend {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func units(labels map[string]string) map[string][]defaults.LabelUnit {
	out := make(map[string][]defaults.LabelUnit, len(labels))
	for k, v := range labels {
		out[k] = []defaults.LabelUnit{{Source: v, Target: v}}
	}
	return out
}

// testSource desires two formats, three metadata fields and two structures.
func testSource() *defaults.MemorySource {
	return &defaults.MemorySource{
		FormatSpecs: []defaults.FormatSpec{
			{Type: "MODS", Root: "mods", Namespace: "http://www.loc.gov/mods/v3", Class: "Kitodo\\Dlf\\Format\\Mods"},
			{Type: "TEIHDR", Root: "teiHeader", Namespace: "http://www.tei-c.org/ns/1.0", Class: "Kitodo\\Dlf\\Format\\TeiHeader"},
		},
		MetadataSpecs: []defaults.MetadataSpec{
			{
				IndexName: "title",
				Formats: []defaults.FormatBinding{
					{FormatRoot: "mods", XPath: "./mods:titleInfo/mods:title", XPathSorting: "./mods:titleInfo/mods:title"},
				},
				Tokenized: true, Stored: true, Indexed: true, Boost: 2.0, Sortable: true, Listed: true,
			},
			{
				IndexName: "author",
				Formats: []defaults.FormatBinding{
					{FormatRoot: "mods", XPath: "./mods:name/mods:displayForm"},
				},
				Indexed: true, Boost: 1.0, Listed: true, Facet: true,
			},
			{
				IndexName: "record_id",
				Formats: []defaults.FormatBinding{
					{FormatRoot: "mods", XPath: "./mods:recordInfo/mods:recordIdentifier"},
					{FormatRoot: "teiHeader", XPath: "./teihdr:fileDesc/teihdr:publicationStmt/teihdr:idno"},
				},
				Stored: true, Indexed: true, Boost: 1.0,
			},
		},
		StructureSpecs: []defaults.StructureSpec{
			{IndexName: "monograph", Toplevel: true, OAIName: "monograph"},
			{IndexName: "chapter", OAIName: "chapter"},
		},
		LabelTables: map[types.Category]defaults.LabelTable{
			types.CategoryMetadata: {
				"default": units(map[string]string{
					"metadata.title":     "Title",
					"metadata.author":    "Author",
					"metadata.record_id": "Record ID",
				}),
				"de": units(map[string]string{
					"metadata.title":  "Titel",
					"metadata.author": "Autor",
				}),
			},
			types.CategoryStructure: {
				"default": units(map[string]string{
					"structure.monograph": "Monograph",
					"structure.chapter":   "Chapter",
				}),
				"de": units(map[string]string{
					"structure.monograph": "Monographie",
					"structure.chapter":   "Kapitel",
				}),
			},
			types.CategorySolr: {
				"default": units(map[string]string{"flexform.solrcore": "SOLR Core"}),
				"de":      units(map[string]string{"flexform.solrcore": "SOLR-Kern"}),
			},
		},
	}
}

// fakeIndex hands out sequential core names.
type fakeIndex struct {
	calls int
	empty bool
	err   error
}

func (f *fakeIndex) CreateCore(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.empty {
		return "", nil
	}
	return fmt.Sprintf("dlfCore%d", f.calls-1), nil
}

// countingStore records every mutating call made through it.
type countingStore struct {
	types.Store
	adds     int
	persists int
	batches  int
}

func (s *countingStore) AddFormat(f *types.Format) {
	s.adds++
	s.Store.AddFormat(f)
}

func (s *countingStore) AddSolrCore(c *types.SolrCore) {
	s.adds++
	s.Store.AddSolrCore(c)
}

func (s *countingStore) PersistAll(ctx context.Context) error {
	s.persists++
	return s.Store.PersistAll(ctx)
}

func (s *countingStore) WriteBatch(ctx context.Context, b *types.Batch) (types.BatchWriteResult, error) {
	s.batches++
	return s.Store.WriteBatch(ctx, b)
}

func (s *countingStore) mutations() int {
	return s.adds + s.persists + s.batches
}

var errLookup = errors.New("lookup failed")

// flakyStore fails selected calls of the wrapped store.
type flakyStore struct {
	types.Store

	// failFindAt fails the n-th FindFormatByType call, counting from 1.
	failFindAt int
	finds      int

	// failPersist makes PersistAll run against a cancelled context.
	failPersist bool
}

func (s *flakyStore) FindFormatByType(ctx context.Context, formatType string) (*types.Format, error) {
	s.finds++
	if s.finds == s.failFindAt {
		return nil, errLookup
	}
	return s.Store.FindFormatByType(ctx, formatType)
}

func (s *flakyStore) PersistAll(ctx context.Context) error {
	if s.failPersist {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		return s.Store.PersistAll(cancelled)
	}
	return s.Store.PersistAll(ctx)
}
