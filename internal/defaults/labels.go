package defaults

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// DefaultLabelKey names the source language in a LabelTable.
const DefaultLabelKey = "default"

// MissingTranslationPrefix starts the placeholder returned for unknown keys.
const MissingTranslationPrefix = "Missing translation for "

// LabelUnit is one translation unit. Target falls back to Source in the
// default language.
type LabelUnit struct {
	Source string
	Target string
}

// LabelTable maps a language key to label keys to their translation units.
type LabelTable map[string]map[string][]LabelUnit

// Merge copies every language of other into t, replacing languages that
// are already present.
func (t LabelTable) Merge(other LabelTable) {
	for lang, units := range other {
		t[lang] = units
	}
}

// LookupLabel resolves key for language, falling back to the default
// language and then to a "Missing translation for <key>" placeholder. It
// never fails.
func LookupLabel(table LabelTable, language, key string) string {
	if units := table[language][key]; len(units) > 0 && units[0].Target != "" {
		return units[0].Target
	}
	if units := table[DefaultLabelKey][key]; len(units) > 0 && units[0].Target != "" {
		return units[0].Target
	}
	return MissingTranslationPrefix + key
}

// LabelLoader parses a label file for one language. The returned table
// holds the default language and, when a translation file exists, the
// requested language.
type LabelLoader interface {
	Parse(labelFile, language string) (LabelTable, error)
}

// XLIFFLoader reads XLIFF 1.2 label files. Translations live next to the
// source file, prefixed with the language key ("de.locallang_be.xlf").
type XLIFFLoader struct {
	fsys fs.FS
}

// NewXLIFFLoader returns a loader reading from fsys.
func NewXLIFFLoader(fsys fs.FS) *XLIFFLoader {
	return &XLIFFLoader{fsys: fsys}
}

type xliffDoc struct {
	XMLName xml.Name `xml:"xliff"`
	File    struct {
		SourceLanguage string `xml:"source-language,attr"`
		TargetLanguage string `xml:"target-language,attr"`
		Units          []struct {
			ID     string `xml:"id,attr"`
			Source string `xml:"source"`
			Target string `xml:"target"`
		} `xml:"body>trans-unit"`
	} `xml:"file"`
}

// Parse reads labelFile and, unless language is the default, its
// translation file. A missing source file is an error; a missing
// translation file is not.
func (l *XLIFFLoader) Parse(labelFile, language string) (LabelTable, error) {
	table := LabelTable{}

	base, err := l.read(labelFile, true)
	if err != nil {
		return nil, err
	}
	table[DefaultLabelKey] = base

	if language == "" || language == DefaultLabelKey {
		return table, nil
	}

	dir, name := path.Split(labelFile)
	translated, err := l.read(path.Join(dir, language+"."+name), false)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return table, nil
		}
		return nil, err
	}
	table[language] = translated
	return table, nil
}

func (l *XLIFFLoader) read(name string, isSource bool) (map[string][]LabelUnit, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	var doc xliffDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	units := make(map[string][]LabelUnit, len(doc.File.Units))
	for _, u := range doc.File.Units {
		unit := LabelUnit{Source: u.Source, Target: u.Target}
		if isSource && unit.Target == "" {
			unit.Target = unit.Source
		}
		units[u.ID] = append(units[u.ID], unit)
	}
	return units, nil
}
