// Package search implements the tenant list view: a paginated query over
// the tenant's search core showing the listed metadata fields.
package search

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/dlf/internal/index"
	"github.com/mesh-intelligence/dlf/pkg/types"
)

// DefaultItemsPerPage is used when no page size is configured.
const DefaultItemsPerPage = 25

// sortSuffix names the sort companion of an indexed metadata field.
const sortSuffix = "_sorting"

// Searcher runs queries against a core.
type Searcher interface {
	Search(ctx context.Context, core string, q index.Query) (index.Result, error)
}

// Catalog is the store view the list needs.
type Catalog interface {
	FindSolrCoreByPID(ctx context.Context, pid int64) (*types.SolrCore, error)
	FindMetadataListed(ctx context.Context, pid int64) ([]*types.Metadata, error)
	FindMetadataSortable(ctx context.Context, pid int64) ([]*types.Metadata, error)
}

// Request selects what to show.
type Request struct {
	PID   int64
	Query string
	Page  int
	Sort  string // Index name of a sortable metadata field.
	Desc  bool
}

// Field is a metadata field offered by the view.
type Field struct {
	IndexName string `json:"index_name"`
	Label     string `json:"label"`
}

// Document is one result reduced to the listed fields.
type Document struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Page is the rendered state of the list view.
type Page struct {
	Query        string     `json:"query"`
	Page         int        `json:"page"`
	ItemsPerPage int        `json:"items_per_page"`
	Pages        int        `json:"pages"`
	Total        int        `json:"count_results"`
	Documents    []Document `json:"documents"`
	Listed       []Field    `json:"listed_metadata"`
	Sortable     []Field    `json:"sortable_metadata"`
}

// HasPrevious reports whether a page precedes this one.
func (p Page) HasPrevious() bool { return p.Page > 1 }

// HasNext reports whether a page follows this one.
func (p Page) HasNext() bool { return p.Page < p.Pages }

// ListView answers list requests for any tenant.
type ListView struct {
	catalog      Catalog
	searcher     Searcher
	itemsPerPage int
	log          *zap.Logger
}

// NewListView returns a list view. itemsPerPage below 1 selects
// DefaultItemsPerPage.
func NewListView(catalog Catalog, searcher Searcher, itemsPerPage int, log *zap.Logger) *ListView {
	if itemsPerPage < 1 {
		itemsPerPage = DefaultItemsPerPage
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ListView{catalog: catalog, searcher: searcher, itemsPerPage: itemsPerPage, log: log}
}

// Show renders req. Without a query only the field lists are filled. A
// tenant without a search core yields an empty page and a warning.
func (v *ListView) Show(ctx context.Context, req Request) (Page, error) {
	page := Page{
		Query:        strings.TrimSpace(req.Query),
		Page:         req.Page,
		ItemsPerPage: v.itemsPerPage,
	}
	if page.Page < 1 {
		page.Page = 1
	}

	listed, err := v.catalog.FindMetadataListed(ctx, req.PID)
	if err != nil {
		return Page{}, err
	}
	sortable, err := v.catalog.FindMetadataSortable(ctx, req.PID)
	if err != nil {
		return Page{}, err
	}
	page.Listed = fields(listed)
	page.Sortable = fields(sortable)

	if page.Query == "" {
		return page, nil
	}

	core, err := v.catalog.FindSolrCoreByPID(ctx, req.PID)
	if errors.Is(err, types.ErrNotFound) {
		v.log.Warn("no search core configured", zap.Int64("pid", req.PID))
		return page, nil
	}
	if err != nil {
		return Page{}, err
	}

	q := index.Query{
		Text: page.Query,
		From: (page.Page - 1) * v.itemsPerPage,
		Size: v.itemsPerPage,
	}
	if req.Sort != "" && contains(page.Sortable, req.Sort) {
		q.Sort = req.Sort + sortSuffix
		q.Desc = req.Desc
	}

	res, err := v.searcher.Search(ctx, core.IndexName, q)
	if err != nil {
		return Page{}, err
	}

	page.Total = res.Total
	page.Pages = (res.Total + v.itemsPerPage - 1) / v.itemsPerPage
	page.Documents = make([]Document, 0, len(res.Hits))
	for _, h := range res.Hits {
		doc := Document{ID: h.ID, Fields: map[string]any{}}
		for _, f := range page.Listed {
			if val, ok := h.Source[f.IndexName]; ok {
				doc.Fields[f.IndexName] = val
			}
		}
		page.Documents = append(page.Documents, doc)
	}
	return page, nil
}

func fields(records []*types.Metadata) []Field {
	out := make([]Field, 0, len(records))
	for _, m := range records {
		out = append(out, Field{IndexName: m.IndexName, Label: m.Label})
	}
	return out
}

func contains(fields []Field, indexName string) bool {
	for _, f := range fields {
		if f.IndexName == indexName {
			return true
		}
	}
	return false
}
