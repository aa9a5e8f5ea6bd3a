package initializer

import (
	"fmt"
	"io"
	"strings"

	"github.com/mesh-intelligence/dlf/pkg/types"
)

// Reporter renders reconciliation progress as console lines. It only
// writes; nothing it does feeds back into the run.
type Reporter struct {
	w io.Writer
}

// NewReporter returns a Reporter writing to w. A nil w discards output.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{w: w}
}

// Title writes an underlined heading.
func (r *Reporter) Title(title string) {
	fmt.Fprintf(r.w, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))
}

// Line writes a plain status line.
func (r *Reporter) Line(format string, args ...any) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

// Check writes the completeness line of a category.
func (r *Reporter) Check(c Check) {
	if c.Category == types.CategorySolr {
		if c.Complete {
			r.Line("There are %d SOLR core(s) available.", c.Persisted)
		} else {
			r.Line("There must be at least one SOLR core available.")
		}
		return
	}
	if c.Complete {
		r.Line("Default %s data is inserted: %d records stored in the database.", c.Category.Title(), c.Persisted)
		return
	}
	r.Line("Default %s data needs to be inserted: %d records still missing.", c.Category.Title(), c.Missing())
}

// Inserting announces that a category is being inserted.
func (r *Reporter) Inserting(c types.Category) {
	if c == types.CategorySolr {
		r.Line("Inserting SOLR cores...")
		return
	}
	r.Line("Inserting %s data...", c.Title())
}

// Finished closes an Inserting line.
func (r *Reporter) Finished(c types.Category) {
	if c == types.CategorySolr {
		r.Line("Finished inserting SOLR cores...")
		return
	}
	r.Line("Finished inserting %s data...", c.Title())
}

// Success writes an [OK] banner.
func (r *Reporter) Success(msg string) {
	fmt.Fprintf(r.w, "\n [OK] %s\n\n", msg)
}

// Warning writes a [WARNING] banner.
func (r *Reporter) Warning(msg string) {
	fmt.Fprintf(r.w, "\n [WARNING] %s\n\n", msg)
}

// Error writes an [ERROR] banner.
func (r *Reporter) Error(msg string) {
	fmt.Fprintf(r.w, "\n [ERROR] %s\n\n", msg)
}

// Result writes the problems a finished category ran into.
func (r *Reporter) Result(res Result) {
	if len(res.Skipped) > 0 {
		r.Warning(fmt.Sprintf("Skipped %s entries with unresolvable formats: %s",
			strings.ToLower(res.Category.Title()), strings.Join(res.Skipped, ", ")))
	}
	if res.Err != nil {
		r.Error(fmt.Sprintf("%s: %v", res.Category.Title(), res.Err))
	}
}

// Banner returns the final success message of a run over category c.
func Banner(c types.Category, alreadyComplete bool) string {
	switch {
	case c == types.CategoryAll:
		return "All data inserted!"
	case alreadyComplete:
		return c.Title() + " data already inserted!"
	default:
		return c.Title() + " data inserted!"
	}
}

// FailureBanner returns the final error message of a failed run.
func FailureBanner(raw string) string {
	return fmt.Sprintf("ERROR: Initial data was not inserted for %q type.", raw)
}

// InvalidTypeMessage is written when the requested category is unknown.
const InvalidTypeMessage = "ERROR: Required parameter --type|-t is not a valid data type."
