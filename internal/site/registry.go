// Package site resolves a page id to the site it belongs to and that
// site's languages.
package site

import (
	"strings"

	"github.com/zeebo/errs"
	"golang.org/x/text/language"

	"github.com/mesh-intelligence/dlf/pkg/types"
)

// Error is the error class for invalid site configuration.
var Error = errs.Class("site")

// Registry holds the configured sites.
type Registry struct {
	sites []types.Site
}

// NewRegistry validates sites and fills in missing label keys. The first
// language of every site must be the default language (id 0).
func NewRegistry(sites []types.Site) (*Registry, error) {
	out := make([]types.Site, 0, len(sites))
	seen := map[string]bool{}
	for _, s := range sites {
		if s.Identifier == "" {
			return nil, Error.New("site with root page %d has no identifier", s.RootPageID)
		}
		if seen[s.Identifier] {
			return nil, Error.New("duplicate site %q", s.Identifier)
		}
		seen[s.Identifier] = true

		if len(s.Languages) == 0 {
			s.Languages = types.NullSite().Languages
		}
		if !s.Languages[0].IsDefault() {
			return nil, Error.New("site %q: first language must have id 0", s.Identifier)
		}

		langs := make([]types.Language, len(s.Languages))
		ids := map[int64]bool{}
		for i, l := range s.Languages {
			if ids[l.ID] {
				return nil, Error.New("site %q: duplicate language id %d", s.Identifier, l.ID)
			}
			ids[l.ID] = true
			if l.LabelKey == "" {
				key, err := LabelKey(l.Locale)
				if err != nil {
					return nil, Error.New("site %q: %v", s.Identifier, err)
				}
				l.LabelKey = key
			}
			langs[i] = l
		}
		s.Languages = langs
		out = append(out, s)
	}
	return &Registry{sites: out}, nil
}

// Site returns the site containing pid, or the null site.
func (r *Registry) Site(pid int64) types.Site {
	if r != nil {
		for _, s := range r.sites {
			if s.Contains(pid) {
				return s
			}
		}
	}
	return types.NullSite()
}

// Languages returns the ordered languages of the site containing pid.
func (r *Registry) Languages(pid int64) []types.Language {
	return r.Site(pid).Languages
}

// Sites returns every configured site.
func (r *Registry) Sites() []types.Site {
	if r == nil {
		return nil
	}
	return append([]types.Site(nil), r.sites...)
}

// LabelKey derives the label table key of a locale such as "de_DE.UTF-8".
// English is the source language of every label file and maps to the
// default key.
func LabelKey(locale string) (string, error) {
	tag := locale
	if i := strings.IndexAny(tag, ".@"); i >= 0 {
		tag = tag[:i]
	}
	tag = strings.ReplaceAll(tag, "_", "-")
	if tag == "" {
		return "default", nil
	}

	t, err := language.Parse(tag)
	if err != nil {
		return "", Error.New("invalid locale %q: %v", locale, err)
	}
	base, _ := t.Base()
	if base.String() == "en" {
		return "default", nil
	}
	return base.String(), nil
}
