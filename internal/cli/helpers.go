package cli

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/dlf/internal/defaults"
	"github.com/mesh-intelligence/dlf/internal/index"
	"github.com/mesh-intelligence/dlf/internal/initializer"
	"github.com/mesh-intelligence/dlf/internal/paths"
	"github.com/mesh-intelligence/dlf/internal/search"
	"github.com/mesh-intelligence/dlf/internal/site"
	"github.com/mesh-intelligence/dlf/internal/sqlite"
	"github.com/mesh-intelligence/dlf/pkg/types"
)

// indexClient is what the commands need from the search cluster.
type indexClient interface {
	initializer.IndexAdmin
	search.Searcher
}

// newIndexClient is replaced in tests.
var newIndexClient = func(cfg index.Config, log *zap.Logger) (indexClient, error) {
	return index.New(cfg, log)
}

// env holds everything a command needs once config is loaded and the
// backend is attached.
type env struct {
	settings settings
	log      *zap.Logger
	store    *sqlite.Backend
	index    indexClient
	sites    *site.Registry
	source   defaults.Source
	registry *prometheus.Registry
	metrics  *initializer.Metrics
}

// openEnv resolves directories, loads config, builds the logger and
// attaches the backend. Failures are system errors.
func openEnv(cmd *cobra.Command, f *rootFlags) (*env, error) {
	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	s, err := loadConfig(configDir)
	if err != nil {
		return nil, sysError(err)
	}

	level := s.Log.Level
	if f.logLevel != "" {
		level = f.logLevel
	}
	log, err := newLogger(level, s.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, sysError(err)
	}

	sites, err := site.NewRegistry(s.Sites)
	if err != nil {
		return nil, sysError(err)
	}

	var source defaults.Source = defaults.Embedded()
	if s.DefaultsDir != "" {
		source = defaults.NewFSSource(os.DirFS(s.DefaultsDir))
	}

	ic, err := newIndexClient(s.Index, log.Named("index"))
	if err != nil {
		return nil, sysError(err)
	}

	dataDir, err := paths.ResolveDataDir(f.dataDir, s.DataDir)
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	store := sqlite.NewBackend()
	if err := store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}); err != nil {
		return nil, sysError(fmt.Errorf("attach storage: %w", err))
	}
	log.Debug("backend attached", zap.String("data_dir", dataDir), zap.String("config_dir", configDir))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &env{
		settings: s,
		log:      log,
		store:    store,
		index:    ic,
		sites:    sites,
		source:   source,
		registry: reg,
		metrics:  initializer.NewMetrics(reg),
	}, nil
}

// newInitializer wires the reconciler and site registry of e.
func (e *env) newInitializer() *initializer.Initializer {
	rec := initializer.NewReconciler(e.store, e.source, e.index,
		initializer.WithLogger(e.log.Named("reconciler")),
		initializer.WithMetrics(e.metrics))
	return initializer.New(rec, e.sites, e.log)
}

func (e *env) listView() *search.ListView {
	return search.NewListView(e.store, e.index, e.settings.List.ItemsPerPage, e.log.Named("search"))
}

// close detaches the backend and flushes the logger.
func (e *env) close() {
	if err := e.store.Detach(); err != nil {
		e.log.Warn("detach storage", zap.Error(err))
	}
	_ = e.log.Sync()
}
