package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/dlf/pkg/types"
)

func TestLabelKey(t *testing.T) {
	tests := []struct {
		locale  string
		want    string
		wantErr bool
	}{
		{locale: "en_US.UTF-8", want: "default"},
		{locale: "en", want: "default"},
		{locale: "de_DE.UTF-8", want: "de"},
		{locale: "de-AT", want: "de"},
		{locale: "fr_FR@euro", want: "fr"},
		{locale: "", want: "default"},
		{locale: "not a locale!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			got, err := LabelKey(tt.locale)
			if tt.wantErr {
				assert.True(t, Error.Has(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry([]types.Site{
		{
			Identifier: "library",
			RootPageID: 1,
			Pages:      []int64{2, 3},
			Languages: []types.Language{
				{ID: 0, Locale: "en_US.UTF-8"},
				{ID: 1, Locale: "de_DE.UTF-8"},
			},
		},
		{Identifier: "archive", RootPageID: 10},
	})
	require.NoError(t, err)

	langs := reg.Languages(3)
	require.Len(t, langs, 2)
	assert.Equal(t, "default", langs[0].LabelKey)
	assert.Equal(t, "de", langs[1].LabelKey)
	assert.Equal(t, "library", reg.Site(1).Identifier)

	assert.Equal(t, types.NullSite().Languages, reg.Languages(10), "a site without languages gets the default")
	assert.Equal(t, types.NullSiteIdentifier, reg.Site(99).Identifier)
	assert.Len(t, reg.Sites(), 2)

	var nilReg *Registry
	assert.Equal(t, types.NullSiteIdentifier, nilReg.Site(1).Identifier)
}

func TestNewRegistry_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		sites []types.Site
	}{
		{name: "missing identifier", sites: []types.Site{{RootPageID: 1}}},
		{name: "duplicate identifier", sites: []types.Site{{Identifier: "a"}, {Identifier: "a"}}},
		{
			name:  "default language not first",
			sites: []types.Site{{Identifier: "a", Languages: []types.Language{{ID: 1, Locale: "de"}}}},
		},
		{
			name:  "duplicate language id",
			sites: []types.Site{{Identifier: "a", Languages: []types.Language{{ID: 0, Locale: "en"}, {ID: 0, Locale: "de"}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.sites)
			assert.True(t, Error.Has(err))
		})
	}
}
