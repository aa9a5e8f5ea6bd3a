package types

import "strings"

// Category names one class of default record being reconciled.
type Category string

// Recognized categories. CategoryAll selects every other category in
// dependency order.
const (
	CategoryAll       Category = "all"
	CategoryFormat    Category = "format"
	CategoryMetadata  Category = "metadata"
	CategoryStructure Category = "structure"
	CategorySolr      Category = "solr"
)

// SeedOrder lists the concrete categories in the order they must be
// reconciled. Metadata resolves format references, so formats come first.
var SeedOrder = []Category{
	CategoryFormat,
	CategoryMetadata,
	CategoryStructure,
	CategorySolr,
}

// ParseCategory maps a --type value to a Category. The second result is
// false for anything that is not one of the five recognized values.
func ParseCategory(s string) (Category, bool) {
	switch c := Category(strings.TrimSpace(s)); c {
	case CategoryAll, CategoryFormat, CategoryMetadata, CategoryStructure, CategorySolr:
		return c, true
	default:
		return "", false
	}
}

// Title returns the display name used in status lines ("Format", "Metadata").
func (c Category) Title() string {
	switch c {
	case CategorySolr:
		return "SOLR core"
	case "":
		return ""
	default:
		return strings.ToUpper(string(c[:1])) + string(c[1:])
	}
}
