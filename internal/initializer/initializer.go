package initializer

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/dlf/pkg/types"
)

// Title is the heading written at the start of every run.
const Title = "Initialize the default data."

// SiteResolver returns the ordered languages of the site a page belongs
// to. The first language is the default language.
type SiteResolver interface {
	Languages(pid int64) []types.Language
}

// Outcome is the result of one Run.
type Outcome struct {
	Category types.Category
	Results  []Result
}

// Success reports whether every reconciled category ended complete.
func (o Outcome) Success() bool {
	if len(o.Results) == 0 {
		return false
	}
	for _, r := range o.Results {
		if !r.Success() {
			return false
		}
	}
	return true
}

// AlreadyComplete reports whether nothing had to be inserted.
func (o Outcome) AlreadyComplete() bool {
	if len(o.Results) == 0 {
		return false
	}
	for _, r := range o.Results {
		if !r.AlreadyComplete() {
			return false
		}
	}
	return true
}

// Result returns the result of category c, if it was reconciled.
func (o Outcome) Result(c types.Category) (Result, bool) {
	for _, r := range o.Results {
		if r.Category == c {
			return r, true
		}
	}
	return Result{}, false
}

// Initializer runs reconciliations for a tenant and reports on them.
type Initializer struct {
	rec   *Reconciler
	sites SiteResolver
	log   *zap.Logger
}

// New returns an Initializer. A nil sites resolves every pid to the null
// site.
func New(rec *Reconciler, sites SiteResolver, log *zap.Logger) *Initializer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Initializer{rec: rec, sites: sites, log: log}
}

// Reconciler returns the underlying reconciler.
func (i *Initializer) Reconciler() *Reconciler {
	return i.rec
}

// Languages returns the site languages of pid.
func (i *Initializer) Languages(pid int64) []types.Language {
	if i.sites == nil {
		return types.NullSite().Languages
	}
	return siteLanguages(i.sites.Languages(pid))
}

// Run reconciles the category named by rawType for pid and writes progress
// to out. An unknown type returns ErrInvalidType before the store is
// touched. Failures inside a category end that category in INSERT_FAILED
// and are reported; they are not returned.
func (i *Initializer) Run(ctx context.Context, pid int64, rawType string, out io.Writer) (Outcome, error) {
	report := NewReporter(out)
	report.Title(Title)

	category, ok := types.ParseCategory(rawType)
	if !ok {
		report.Error(InvalidTypeMessage)
		return Outcome{}, fmt.Errorf("%q: %w", rawType, types.ErrInvalidType)
	}
	if pid < 0 {
		report.Error(FailureBanner(rawType))
		return Outcome{Category: category}, fmt.Errorf("%d: %w", pid, types.ErrInvalidPID)
	}

	categories := []types.Category{category}
	if category == types.CategoryAll {
		categories = types.SeedOrder
	}
	log := i.log.With(zap.Int64("pid", pid), zap.String("type", string(category)))
	languages := i.Languages(pid)

	// Report the state of every selected category before changing any.
	pending := make(map[types.Category]bool, len(categories))
	for _, c := range categories {
		check, err := i.rec.Inspect(ctx, c, pid)
		if err != nil {
			log.Error("completeness check failed", zap.String("category", string(c)), zap.Error(err))
			pending[c] = true
			continue
		}
		report.Check(check)
		pending[c] = !check.Complete
	}

	outcome := Outcome{Category: category}
	var formats *FormatRegistry
	for _, c := range categories {
		if pending[c] {
			report.Inserting(c)
		}
		res := i.reconcile(ctx, c, pid, languages, &formats)
		if pending[c] && category == types.CategoryAll {
			report.Finished(c)
		}
		report.Result(res)
		if res.Err != nil {
			log.Error("category failed", zap.String("category", string(c)),
				zap.String("state", string(res.State)), zap.Error(res.Err))
		}
		outcome.Results = append(outcome.Results, res)
	}

	if outcome.Success() {
		report.Success(Banner(category, outcome.AlreadyComplete()))
	} else {
		report.Error(FailureBanner(rawType))
	}
	log.Info("initialization finished", zap.Bool("success", outcome.Success()))
	return outcome, nil
}

// reconcile runs one category and folds any error into its Result.
// formats caches the registry so metadata resolves against the formats of
// the same run.
func (i *Initializer) reconcile(ctx context.Context, c types.Category, pid int64, languages []types.Language, formats **FormatRegistry) Result {
	var (
		res Result
		err error
	)
	switch c {
	case types.CategoryFormat:
		var reg FormatRegistry
		res, reg, err = i.rec.ReconcileFormats(ctx)
		if err == nil {
			*formats = &reg
		}
	case types.CategoryMetadata:
		if *formats == nil {
			reg, rerr := ResolveFormats(ctx, i.rec.store)
			if rerr != nil {
				return failed(c, rerr)
			}
			*formats = &reg
		}
		res, err = i.rec.ReconcileMetadata(ctx, pid, languages, **formats)
	case types.CategoryStructure:
		res, err = i.rec.ReconcileStructures(ctx, pid, languages)
	case types.CategorySolr:
		res, err = i.rec.ReconcileSolrCore(ctx, pid, languages)
	}
	if err != nil {
		res.Category = c
		res.Err = err
		if !res.State.Terminal() {
			res.State = StateInsertFailed
		}
	}
	return res
}

func failed(c types.Category, err error) Result {
	t := NewTracker()
	t.fail()
	return Result{Category: c, State: t.State(), Path: t.Path(), Err: err}
}
