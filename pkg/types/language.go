package types

// Language is one configured site language.
type Language struct {
	ID       int64  `mapstructure:"language_id" yaml:"language_id"`
	Locale   string `mapstructure:"locale" yaml:"locale"`
	LabelKey string `mapstructure:"label_key" yaml:"label_key,omitempty"` // Key into label tables, "default" for the source language.
	Title    string `mapstructure:"title" yaml:"title,omitempty"`
}

// IsDefault reports whether l is the default (primary record) language.
func (l Language) IsDefault() bool {
	return l.ID == DefaultLanguageID
}

// Site groups the pages of one tenant and its configured languages. The
// first language is the default language.
type Site struct {
	Identifier string     `mapstructure:"identifier" yaml:"identifier"`
	RootPageID int64      `mapstructure:"root_page_id" yaml:"root_page_id"`
	Pages      []int64    `mapstructure:"pages" yaml:"pages,omitempty"`
	Languages  []Language `mapstructure:"languages" yaml:"languages"`
}

// NullSiteIdentifier names the synthetic site returned for unknown pages.
const NullSiteIdentifier = "#NULL"

// NullSite returns the fallback site used when a page id does not belong to
// any configured site. It has a single default language.
func NullSite() Site {
	return Site{
		Identifier: NullSiteIdentifier,
		Languages: []Language{
			{ID: DefaultLanguageID, Locale: "en_US.UTF-8", LabelKey: "default", Title: "Default"},
		},
	}
}

// Contains reports whether pid is the site root or one of its pages.
func (s Site) Contains(pid int64) bool {
	if s.RootPageID == pid {
		return true
	}
	for _, p := range s.Pages {
		if p == pid {
			return true
		}
	}
	return false
}

// DefaultLanguage returns the first configured language, or the null-site
// default when none are configured.
func (s Site) DefaultLanguage() Language {
	if len(s.Languages) == 0 {
		return NullSite().Languages[0]
	}
	return s.Languages[0]
}
