// Package initializer seeds a tenant with the default formats, metadata
// fields, structure types and search core. Every category is reconciled by
// comparing the desired state from a defaults.Source against the store and
// inserting only what is missing. Existing records are never updated.
package initializer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/dlf/internal/defaults"
	"github.com/mesh-intelligence/dlf/pkg/types"
)

// Label key prefixes of the label-bearing categories.
const (
	metadataLabelPrefix  = "metadata."
	structureLabelPrefix = "structure."
	solrCoreLabelKey     = "flexform.solrcore"
)

// Check is the read-only completeness view of one category.
type Check struct {
	Category  types.Category
	Persisted int
	Desired   int
	Complete  bool
}

// Missing returns how many records are still missing, never negative.
func (c Check) Missing() int {
	if c.Persisted >= c.Desired {
		return 0
	}
	return c.Desired - c.Persisted
}

// Result is the outcome of reconciling one category.
type Result struct {
	Category types.Category
	State    State
	Path     []State

	// Before is the completeness check that decided whether to insert.
	Before Check

	Inserted   int      // Primary records written.
	Translated int      // Translation shadows written.
	Skipped    []string // Entries left out, e.g. dangling format references.

	// Err is the cause of INSERT_FAILED, if any.
	Err error
}

// Success reports whether the category ended complete.
func (r Result) Success() bool {
	return r.State.Succeeded()
}

// AlreadyComplete reports whether nothing had to be inserted.
func (r Result) AlreadyComplete() bool {
	return r.State == StateAlreadyComplete
}

// Reconciler fills the gaps between the default data and the store.
type Reconciler struct {
	store   types.Store
	source  defaults.Source
	cores   *Provisioner
	log     *zap.Logger
	metrics *Metrics
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(r *Reconciler) {
		if log != nil {
			r.log = log
		}
	}
}

// WithMetrics records every finished category in m.
func WithMetrics(m *Metrics) Option {
	return func(r *Reconciler) {
		r.metrics = m
	}
}

// NewReconciler returns a Reconciler writing to store the defaults from
// source. index creates search cores; it may be nil when the solr category
// is never reconciled.
func NewReconciler(store types.Store, source defaults.Source, index IndexAdmin, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:  store,
		source: source,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cores = NewProvisioner(store, index, r.log)
	return r
}

// IsFormatInserted compares the global format count with the defaults.
func (r *Reconciler) IsFormatInserted(ctx context.Context) (Check, error) {
	persisted, err := r.store.CountFormats(ctx)
	if err != nil {
		return Check{}, err
	}
	return r.check(types.CategoryFormat, persisted)
}

// IsMetadataInserted compares the primary metadata count of pid with the
// defaults.
func (r *Reconciler) IsMetadataInserted(ctx context.Context, pid int64) (Check, error) {
	persisted, err := r.store.CountMetadata(ctx, pid)
	if err != nil {
		return Check{}, err
	}
	return r.check(types.CategoryMetadata, persisted)
}

// IsStructureInserted compares the primary structure count of pid with the
// defaults.
func (r *Reconciler) IsStructureInserted(ctx context.Context, pid int64) (Check, error) {
	persisted, err := r.store.CountStructures(ctx, pid)
	if err != nil {
		return Check{}, err
	}
	return r.check(types.CategoryStructure, persisted)
}

// IsSolrCoreInserted reports whether pid has its search core.
func (r *Reconciler) IsSolrCoreInserted(ctx context.Context, pid int64) (Check, error) {
	persisted, err := r.store.CountSolrCores(ctx, pid)
	if err != nil {
		return Check{}, err
	}
	return r.check(types.CategorySolr, persisted)
}

// Inspect runs the completeness check of a concrete category.
func (r *Reconciler) Inspect(ctx context.Context, c types.Category, pid int64) (Check, error) {
	switch c {
	case types.CategoryFormat:
		return r.IsFormatInserted(ctx)
	case types.CategoryMetadata:
		return r.IsMetadataInserted(ctx, pid)
	case types.CategoryStructure:
		return r.IsStructureInserted(ctx, pid)
	case types.CategorySolr:
		return r.IsSolrCoreInserted(ctx, pid)
	}
	return Check{}, fmt.Errorf("inspect %q: %w", c, types.ErrInvalidType)
}

func (r *Reconciler) check(c types.Category, persisted int) (Check, error) {
	desired, err := r.source.Count(c)
	if err != nil {
		return Check{}, err
	}
	return Check{
		Category:  c,
		Persisted: persisted,
		Desired:   desired,
		Complete:  persisted >= desired,
	}, nil
}

// ReconcileFormats inserts every default format whose type is not yet
// persisted and returns the registry of all persisted formats.
func (r *Reconciler) ReconcileFormats(ctx context.Context) (Result, FormatRegistry, error) {
	res, err := r.run(ctx, types.CategoryFormat, r.IsFormatInserted, func(ctx context.Context, res *Result) error {
		specs, err := r.source.Formats()
		if err != nil {
			return err
		}
		// Missing formats are staged only once every lookup has succeeded.
		var missing []*types.Format
		for _, spec := range specs {
			_, err := r.store.FindFormatByType(ctx, spec.Type)
			if err == nil {
				continue
			}
			if !errors.Is(err, types.ErrNotFound) {
				return err
			}
			missing = append(missing, &types.Format{
				Type:      spec.Type,
				Root:      spec.Root,
				Namespace: spec.Namespace,
				Class:     spec.Class,
			})
		}
		if len(missing) == 0 {
			return nil
		}
		for _, f := range missing {
			r.store.AddFormat(f)
		}
		if err := r.store.PersistAll(ctx); err != nil {
			return err
		}
		res.Inserted = len(missing)
		return nil
	})
	if err != nil {
		return res, FormatRegistry{}, err
	}

	registry, err := ResolveFormats(ctx, r.store)
	return res, registry, err
}

// ReconcileMetadata inserts the default metadata fields missing for pid,
// with their format bindings, and translates them into every non-default
// language. Bindings resolve through formats; an entry naming an
// unresolvable format root is skipped and reported.
func (r *Reconciler) ReconcileMetadata(ctx context.Context, pid int64, languages []types.Language, formats FormatRegistry) (Result, error) {
	languages = siteLanguages(languages)
	check := func(ctx context.Context) (Check, error) { return r.IsMetadataInserted(ctx, pid) }

	return r.run(ctx, types.CategoryMetadata, check, func(ctx context.Context, res *Result) error {
		specs, err := r.source.MetadataFields()
		if err != nil {
			return err
		}
		labels, err := r.source.Labels(types.CategoryMetadata, languages)
		if err != nil {
			return err
		}
		primary := languages[0]

		batch := types.NewBatch()
		var staged []string
		for _, spec := range specs {
			present, err := r.metadataPresent(ctx, pid, spec.IndexName)
			if err != nil {
				return err
			}
			if present {
				continue
			}

			bindings, err := resolveBindings(spec, formats)
			if err != nil {
				r.log.Warn("skipping metadata entry",
					zap.Int64("pid", pid), zap.String("index_name", spec.IndexName), zap.Error(err))
				res.Skipped = append(res.Skipped, spec.IndexName)
				continue
			}

			tempID := batch.Stage(types.TableMetadata, map[string]any{
				"pid":                pid,
				"label":              defaults.LookupLabel(labels, primary.LabelKey, metadataLabelPrefix+spec.IndexName),
				"index_name":         spec.IndexName,
				"default_value":      spec.DefaultValue,
				"wrap":               spec.EffectiveWrap(),
				"index_tokenized":    spec.Tokenized,
				"index_stored":       spec.Stored,
				"index_indexed":      spec.Indexed,
				"index_boost":        spec.Boost,
				"is_sortable":        spec.Sortable,
				"is_facet":           spec.Facet,
				"is_listed":          spec.Listed,
				"index_autocomplete": spec.Autocomplete,
			}, nil)
			for _, b := range bindings {
				batch.Stage(types.TableMetadataFormats, map[string]any{
					"pid":           pid,
					"encoded":       b.formatUID,
					"xpath":         b.XPath,
					"xpath_sorting": b.XPathSorting,
				}, map[string]string{"parent_id": tempID})
			}
			staged = append(staged, tempID)
		}
		if len(staged) == 0 {
			return nil
		}

		written, err := r.store.WriteBatch(ctx, batch)
		if err != nil {
			return err
		}

		parents := make([]Parent, 0, len(staged))
		for _, tempID := range staged {
			uid, ok := written.UID(tempID)
			if !ok {
				return fmt.Errorf("metadata %s: %w", tempID, types.ErrUnresolvedPlaceholder)
			}
			m, err := r.store.FindMetadataByUID(ctx, uid)
			if err != nil {
				return err
			}
			parents = append(parents, Parent{UID: m.UID, Key: metadataLabelPrefix + m.IndexName})
		}
		res.Inserted = len(parents)

		res.Translated, err = ExpandTranslations(ctx, r.store, types.TableMetadata, pid, parents, labels, languages, types.DefaultLanguageID)
		return err
	})
}

// ReconcileStructures inserts the default structure types missing for pid
// and translates them into every non-default language.
func (r *Reconciler) ReconcileStructures(ctx context.Context, pid int64, languages []types.Language) (Result, error) {
	languages = siteLanguages(languages)
	check := func(ctx context.Context) (Check, error) { return r.IsStructureInserted(ctx, pid) }

	return r.run(ctx, types.CategoryStructure, check, func(ctx context.Context, res *Result) error {
		specs, err := r.source.Structures()
		if err != nil {
			return err
		}
		labels, err := r.source.Labels(types.CategoryStructure, languages)
		if err != nil {
			return err
		}
		primary := languages[0]

		batch := types.NewBatch()
		for _, spec := range specs {
			present, err := r.structurePresent(ctx, pid, spec.IndexName)
			if err != nil {
				return err
			}
			if present {
				continue
			}
			batch.Stage(types.TableStructures, map[string]any{
				"pid":        pid,
				"toplevel":   spec.Toplevel,
				"label":      defaults.LookupLabel(labels, primary.LabelKey, structureLabelPrefix+spec.IndexName),
				"index_name": spec.IndexName,
				"oai_name":   spec.OAIName,
				"thumbnail":  0,
			}, nil)
		}
		if batch.Len() == 0 {
			return nil
		}

		written, err := r.store.WriteBatch(ctx, batch)
		if err != nil {
			return err
		}

		parents := make([]Parent, 0, written.Len())
		for _, a := range written.ForTable(types.TableStructures) {
			s, err := r.store.FindStructureByUID(ctx, a.UID)
			if err != nil {
				return err
			}
			parents = append(parents, Parent{UID: s.UID, Key: structureLabelPrefix + s.IndexName})
		}
		res.Inserted = len(parents)

		res.Translated, err = ExpandTranslations(ctx, r.store, types.TableStructures, pid, parents, labels, languages, types.DefaultLanguageID)
		return err
	})
}

// ReconcileSolrCore makes sure pid has exactly one search core. A core the
// index facade could not create leaves the category INSERT_FAILED without
// returning an error.
func (r *Reconciler) ReconcileSolrCore(ctx context.Context, pid int64, languages []types.Language) (Result, error) {
	languages = siteLanguages(languages)
	check := func(ctx context.Context) (Check, error) { return r.IsSolrCoreInserted(ctx, pid) }

	return r.run(ctx, types.CategorySolr, check, func(ctx context.Context, res *Result) error {
		labels, err := r.source.Labels(types.CategorySolr, languages)
		if err != nil {
			return err
		}
		label := fmt.Sprintf("%s (PID %d)", defaults.LookupLabel(labels, languages[0].LabelKey, solrCoreLabelKey), pid)

		created, _, err := r.cores.EnsureCore(ctx, pid, label)
		if err != nil {
			return err
		}
		if created {
			res.Inserted = 1
		}
		return nil
	})
}

// run drives the state machine of one category around insert.
func (r *Reconciler) run(ctx context.Context, c types.Category,
	check func(context.Context) (Check, error),
	insert func(context.Context, *Result) error) (Result, error) {
	t := NewTracker()
	res := Result{Category: c}
	log := r.log.With(zap.String("category", string(c)))

	finish := func(err error) (Result, error) {
		if err != nil {
			res.Err = err
			t.fail()
		}
		res.State = t.State()
		res.Path = t.Path()
		r.metrics.observe(res)
		log.Debug("reconciled", zap.String("state", string(res.State)),
			zap.Int("inserted", res.Inserted), zap.Int("translated", res.Translated))
		if err != nil && types.ErrIndexCreation.Has(err) {
			log.Warn("search core not created", zap.Error(err))
			return res, nil
		}
		return res, err
	}

	t.must(StateChecking)
	before, err := check(ctx)
	if err != nil {
		return finish(err)
	}
	res.Before = before
	if before.Complete {
		t.must(StateAlreadyComplete)
		return finish(nil)
	}

	t.must(StateInserting)
	log.Info("inserting defaults", zap.Int("persisted", before.Persisted), zap.Int("desired", before.Desired))
	if err := insert(ctx, &res); err != nil {
		return finish(err)
	}

	after, err := check(ctx)
	if err != nil {
		return finish(err)
	}
	if after.Complete && len(res.Skipped) == 0 {
		t.must(StateInsertSucceeded)
	} else {
		t.must(StateInsertFailed)
	}
	return finish(nil)
}

func (r *Reconciler) metadataPresent(ctx context.Context, pid int64, indexName string) (bool, error) {
	_, err := r.store.FindMetadataByIndexName(ctx, pid, indexName)
	return present(err)
}

func (r *Reconciler) structurePresent(ctx context.Context, pid int64, indexName string) (bool, error) {
	_, err := r.store.FindStructureByIndexName(ctx, pid, indexName)
	return present(err)
}

func present(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, types.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

type resolvedBinding struct {
	defaults.FormatBinding
	formatUID int64
}

// resolveBindings maps every format root of spec to a persisted format uid.
func resolveBindings(spec defaults.MetadataSpec, formats FormatRegistry) ([]resolvedBinding, error) {
	out := make([]resolvedBinding, 0, len(spec.Formats))
	for _, b := range spec.Formats {
		uid, ok := formats.Lookup(b.FormatRoot)
		if !ok {
			return nil, types.ErrDanglingReference.New("metadata %q: format root %q is not persisted", spec.IndexName, b.FormatRoot)
		}
		out = append(out, resolvedBinding{FormatBinding: b, formatUID: uid})
	}
	return out, nil
}

// siteLanguages falls back to the null site when no language is configured.
func siteLanguages(languages []types.Language) []types.Language {
	if len(languages) == 0 {
		return types.NullSite().Languages
	}
	return languages
}
