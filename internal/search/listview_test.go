package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/dlf/internal/index"
	"github.com/mesh-intelligence/dlf/internal/sqlite"
	"github.com/mesh-intelligence/dlf/pkg/types"
)

const tenant = int64(7)

type fakeSearcher struct {
	core  string
	query index.Query
	total int
}

func (f *fakeSearcher) Search(_ context.Context, core string, q index.Query) (index.Result, error) {
	f.core = core
	f.query = q
	return index.Result{
		Total: f.total,
		Hits: []index.Hit{
			{ID: "a", Source: map[string]any{"title": "Faust", "author": "Goethe", "record_id": "x1"}},
			{ID: "b", Source: map[string]any{"title": "Die Räuber"}},
		},
	}, nil
}

func newCatalog(t *testing.T, withCore bool) *sqlite.Backend {
	t.Helper()
	ctx := context.Background()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })

	batch := types.NewBatch()
	batch.Stage(types.TableMetadata, map[string]any{"pid": tenant, "index_name": "title", "label": "Title", "is_listed": true, "is_sortable": true}, nil)
	batch.Stage(types.TableMetadata, map[string]any{"pid": tenant, "index_name": "author", "label": "Author", "is_listed": true}, nil)
	batch.Stage(types.TableMetadata, map[string]any{"pid": tenant, "index_name": "record_id", "label": "Record ID"}, nil)
	_, err := b.WriteBatch(ctx, batch)
	require.NoError(t, err)

	if withCore {
		b.AddSolrCore(&types.SolrCore{PID: tenant, Label: "SOLR Core (PID 7)", IndexName: "dlfCore3"})
		require.NoError(t, b.PersistAll(ctx))
	}
	return b
}

func TestListView_NoQuery(t *testing.T) {
	searcher := &fakeSearcher{}
	view := NewListView(newCatalog(t, true), searcher, 0, nil)

	page, err := view.Show(context.Background(), Request{PID: tenant})
	require.NoError(t, err)
	assert.Equal(t, DefaultItemsPerPage, page.ItemsPerPage)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, []Field{{"title", "Title"}, {"author", "Author"}}, page.Listed)
	assert.Equal(t, []Field{{"title", "Title"}}, page.Sortable)
	assert.Empty(t, page.Documents)
	assert.Empty(t, searcher.core, "no search without a query")
}

func TestListView_Search(t *testing.T) {
	searcher := &fakeSearcher{total: 23}
	view := NewListView(newCatalog(t, true), searcher, 10, nil)

	page, err := view.Show(context.Background(), Request{PID: tenant, Query: " faust ", Page: 2, Sort: "title", Desc: true})
	require.NoError(t, err)

	assert.Equal(t, "dlfCore3", searcher.core)
	assert.Equal(t, index.Query{Text: "faust", From: 10, Size: 10, Sort: "title_sorting", Desc: true}, searcher.query)

	assert.Equal(t, 23, page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.True(t, page.HasPrevious())
	assert.True(t, page.HasNext())

	require.Len(t, page.Documents, 2)
	assert.Equal(t, map[string]any{"title": "Faust", "author": "Goethe"}, page.Documents[0].Fields, "only listed fields are kept")
}

func TestListView_UnsortableFieldIgnored(t *testing.T) {
	searcher := &fakeSearcher{total: 2}
	view := NewListView(newCatalog(t, true), searcher, 25, nil)

	_, err := view.Show(context.Background(), Request{PID: tenant, Query: "x", Sort: "author"})
	require.NoError(t, err)
	assert.Empty(t, searcher.query.Sort)
	assert.Zero(t, searcher.query.From)
}

func TestListView_NoCore(t *testing.T) {
	searcher := &fakeSearcher{}
	view := NewListView(newCatalog(t, false), searcher, 25, nil)

	page, err := view.Show(context.Background(), Request{PID: tenant, Query: "faust"})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, searcher.core)
}
