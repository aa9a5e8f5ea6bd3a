package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in     string
		want   Category
		wantOK bool
	}{
		{"all", CategoryAll, true},
		{"format", CategoryFormat, true},
		{"metadata", CategoryMetadata, true},
		{"structure", CategoryStructure, true},
		{"solr", CategorySolr, true},
		{" format ", CategoryFormat, true},
		{"bogus", "", false},
		{"", "", false},
		{"Format", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCategory(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryTitle(t *testing.T) {
	assert.Equal(t, "Format", CategoryFormat.Title())
	assert.Equal(t, "Metadata", CategoryMetadata.Title())
	assert.Equal(t, "Structure", CategoryStructure.Title())
	assert.Equal(t, "SOLR core", CategorySolr.Title())
}

func TestSeedOrderPutsFormatsBeforeMetadata(t *testing.T) {
	pos := make(map[Category]int)
	for i, c := range SeedOrder {
		pos[c] = i
	}
	assert.Less(t, pos[CategoryFormat], pos[CategoryMetadata])
	assert.NotContains(t, SeedOrder, CategoryAll)
}
