// Package wizard serves the new-tenant setup wizard: an overview of what
// default data a tenant has, one action per category that inserts the
// missing defaults, the tenant list view and the metrics endpoint.
package wizard

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/dlf/internal/initializer"
	"github.com/mesh-intelligence/dlf/internal/search"
	"github.com/mesh-intelligence/dlf/pkg/types"
)

// Flash severities.
const (
	SeverityOK    = "ok"
	SeverityError = "error"
)

// Flash is a one-shot message shown on the next overview.
type Flash struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// RecordInfo is the overview line of one category.
type RecordInfo struct {
	NumCurrent int `json:"numCurrent"`
	NumDefault int `json:"numDefault,omitempty"`
}

// Overview is the body of the index view.
type Overview struct {
	PID         int64                 `json:"pid"`
	RecordInfos map[string]RecordInfo `json:"recordInfos"`
	Messages    []Flash               `json:"messages,omitempty"`
}

// overviewKeys names each category in the overview.
var overviewKeys = map[types.Category]string{
	types.CategoryFormat:    "formats",
	types.CategoryMetadata:  "metadata",
	types.CategoryStructure: "structures",
	types.CategorySolr:      "solrcore",
}

// Server holds the wizard state. Actions on one tenant run one at a time.
type Server struct {
	init     *initializer.Initializer
	list     *search.ListView
	gatherer prometheus.Gatherer
	log      *zap.Logger

	mu      sync.Mutex
	locks   map[int64]*sync.Mutex
	flashes map[int64][]Flash
}

// New returns a wizard server. list and gatherer may be nil, which
// disables the search view and the metrics endpoint.
func New(ini *initializer.Initializer, list *search.ListView, gatherer prometheus.Gatherer, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		init:     ini,
		list:     list,
		gatherer: gatherer,
		log:      log,
		locks:    map[int64]*sync.Mutex{},
		flashes:  map[int64][]Flash{},
	}
}

// Handler returns the wizard routes.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/tenants/{pid}", s.handleIndex).Methods("GET").Name("Index")
	router.HandleFunc("/tenants/{pid}/formats", s.action(types.CategoryFormat)).Methods("POST").Name("AddFormat")
	router.HandleFunc("/tenants/{pid}/metadata", s.action(types.CategoryMetadata)).Methods("POST").Name("AddMetadata")
	router.HandleFunc("/tenants/{pid}/structures", s.action(types.CategoryStructure)).Methods("POST").Name("AddStructure")
	router.HandleFunc("/tenants/{pid}/solrcore", s.action(types.CategorySolr)).Methods("POST").Name("AddSolrCore")
	router.HandleFunc("/tenants/{pid}/error", s.handleError).Methods("GET").Name("Error")
	if s.list != nil {
		router.HandleFunc("/tenants/{pid}/search", s.handleSearch).Methods("GET").Name("Search")
	}
	if s.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}
	return router
}

// tenantPID parses the pid route variable. Tenants live on positive pages.
func tenantPID(r *http.Request) (int64, bool) {
	pid, err := strconv.ParseInt(mux.Vars(r)["pid"], 10, 64)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

func redirectToError(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/tenants/"+mux.Vars(r)["pid"]+"/error", http.StatusSeeOther)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	pid, ok := tenantPID(r)
	if !ok {
		redirectToError(w, r)
		return
	}

	rec := s.init.Reconciler()
	overview := Overview{PID: pid, RecordInfos: map[string]RecordInfo{}}
	for _, c := range types.SeedOrder {
		check, err := rec.Inspect(r.Context(), c, pid)
		if err != nil {
			s.log.Error("overview check failed", zap.Int64("pid", pid), zap.String("category", string(c)), zap.Error(err))
			http.Error(w, "checking "+string(c)+": "+err.Error(), http.StatusInternalServerError)
			return
		}
		info := RecordInfo{NumCurrent: check.Persisted}
		if c != types.CategorySolr {
			info.NumDefault = check.Desired
		}
		overview.RecordInfos[overviewKeys[c]] = info
	}
	overview.Messages = s.popFlashes(pid)

	writeJSON(w, s.log, overview)
}

// action runs the reconciliation of category c and always redirects back
// to the overview; the outcome is left as a flash message.
func (s *Server) action(c types.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pid, ok := tenantPID(r)
		if !ok {
			redirectToError(w, r)
			return
		}

		unlock := s.lockTenant(pid)
		var out bytes.Buffer
		outcome, err := s.init.Run(r.Context(), pid, string(c), &out)
		unlock()

		s.log.Debug("wizard action", zap.Int64("pid", pid), zap.String("category", string(c)), zap.String("output", out.String()))
		switch {
		case err != nil:
			s.log.Error("wizard action failed", zap.Int64("pid", pid), zap.Error(err))
			s.pushFlash(pid, Flash{Severity: SeverityError, Message: err.Error()})
		case outcome.Success():
			s.pushFlash(pid, Flash{Severity: SeverityOK, Message: initializer.Banner(c, outcome.AlreadyComplete())})
		default:
			s.pushFlash(pid, Flash{Severity: SeverityError, Message: initializer.FailureBanner(string(c))})
		}

		http.Redirect(w, r, "/tenants/"+strconv.FormatInt(pid, 10), http.StatusSeeOther)
	}
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.log, map[string]string{
		"error": "The selected page is not a valid tenant page.",
		"pid":   mux.Vars(r)["pid"],
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	pid, ok := tenantPID(r)
	if !ok {
		redirectToError(w, r)
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))

	res, err := s.list.Show(r.Context(), search.Request{
		PID:   pid,
		Query: q.Get("q"),
		Page:  page,
		Sort:  q.Get("sort"),
		Desc:  q.Get("order") == "desc",
	})
	if err != nil {
		s.log.Error("search failed", zap.Int64("pid", pid), zap.Error(err))
		http.Error(w, "search: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, s.log, res)
}

func (s *Server) lockTenant(pid int64) func() {
	s.mu.Lock()
	m, ok := s.locks[pid]
	if !ok {
		m = &sync.Mutex{}
		s.locks[pid] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func (s *Server) pushFlash(pid int64, f Flash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flashes[pid] = append(s.flashes[pid], f)
}

func (s *Server) popFlashes(pid int64) []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.flashes[pid]
	delete(s.flashes, pid)
	return out
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("write response", zap.Error(err))
	}
}
