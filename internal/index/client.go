// Package index talks to the search index that backs each tenant's core.
// Cores are Elasticsearch indices; the index name is the opaque handle
// stored on the tenant's core record.
package index

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

// Error is the error class for index failures.
var Error = errs.Class("index")

// DefaultCorePrefix names cores created without a hint.
const DefaultCorePrefix = "dlfcore"

// maxCores bounds the search for a free core name.
const maxCores = 10000

// Config configures the connection to the search cluster.
type Config struct {
	Addresses  []string      `mapstructure:"addresses"`
	Username   string        `mapstructure:"username"`
	Password   string        `mapstructure:"password"`
	APIKey     string        `mapstructure:"api_key"`
	CorePrefix string        `mapstructure:"core_prefix"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// Client creates cores and runs queries against them.
type Client struct {
	es     *elasticsearch.Client
	prefix string
	log    *zap.Logger
}

// New returns a client for cfg. It does not contact the cluster.
func New(cfg Config, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	esCfg := elasticsearch.Config{
		Addresses:  cfg.Addresses,
		Username:   cfg.Username,
		Password:   cfg.Password,
		APIKey:     cfg.APIKey,
		MaxRetries: cfg.MaxRetries,
	}
	if t := transport(cfg); t != nil {
		esCfg.Transport = t
	}
	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, Error.New("creating client: %v", err)
	}

	prefix := cfg.CorePrefix
	if prefix == "" {
		prefix = DefaultCorePrefix
	}
	return &Client{es: es, prefix: prefix, log: log}, nil
}

// transport returns the HTTP transport for cfg, or nil to keep the client
// default. It starts from http.DefaultTransport so proxy settings, dial and
// TLS handshake timeouts stay in effect.
func transport(cfg Config) *http.Transport {
	if cfg.Timeout <= 0 {
		return nil
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConnsPerHost = 10
	t.ResponseHeaderTimeout = cfg.Timeout
	return t
}

// CreateCore creates a new core and returns its name. A free hint is used
// as is; otherwise the first free "<prefix><n>" is taken.
func (c *Client) CreateCore(ctx context.Context, hint string) (string, error) {
	if hint != "" {
		exists, err := c.exists(ctx, hint)
		if err != nil {
			return "", err
		}
		if !exists {
			return hint, c.create(ctx, hint)
		}
	}

	for n := 0; n < maxCores; n++ {
		name := c.prefix + strconv.Itoa(n)
		exists, err := c.exists(ctx, name)
		if err != nil {
			return "", err
		}
		if exists {
			continue
		}
		if err := c.create(ctx, name); err != nil {
			return "", err
		}
		return name, nil
	}
	return "", Error.New("no free core name with prefix %q", c.prefix)
}

func (c *Client) exists(ctx context.Context, name string) (bool, error) {
	res, err := c.es.Indices.Exists([]string{name}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, Error.New("checking core %s: %v", name, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}
	return false, Error.New("checking core %s: unexpected status %d", name, res.StatusCode)
}

func (c *Client) create(ctx context.Context, name string) error {
	body, err := json.Marshal(map[string]any{
		"settings": map[string]any{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]any{
			"dynamic": true,
		},
	})
	if err != nil {
		return Error.Wrap(err)
	}

	res, err := c.es.Indices.Create(name,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return Error.New("creating core %s: %v", name, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return Error.New("creating core %s: %s", name, res.String())
	}
	c.log.Info("created core", zap.String("core", name))
	return nil
}

// Query selects a page of documents from a core.
type Query struct {
	Text string
	From int
	Size int

	// Sort names a field to sort ascending by. Empty sorts by relevance.
	Sort string
	Desc bool
}

// Hit is one matching document.
type Hit struct {
	ID     string
	Score  float64
	Source map[string]any
}

// Result is one page of matches.
type Result struct {
	Total int
	Hits  []Hit
}

// Search runs q against core.
func (c *Client) Search(ctx context.Context, core string, q Query) (Result, error) {
	body := map[string]any{
		"from": q.From,
		"size": q.Size,
	}
	if q.Text == "" {
		body["query"] = map[string]any{"match_all": map[string]any{}}
	} else {
		body["query"] = map[string]any{
			"query_string": map[string]any{"query": q.Text},
		}
	}
	if q.Sort != "" {
		order := "asc"
		if q.Desc {
			order = "desc"
		}
		body["sort"] = []map[string]any{{q.Sort: map[string]any{"order": order}}}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return Result{}, Error.Wrap(err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(core),
		c.es.Search.WithBody(bytes.NewReader(data)),
		c.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return Result{}, Error.New("searching %s: %v", core, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return Result{}, Error.New("searching %s: %s", core, res.String())
	}

	var decoded struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string         `json:"_id"`
				Score  float64        `json:"_score"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return Result{}, Error.New("decoding search result: %v", err)
	}

	out := Result{Total: decoded.Hits.Total.Value, Hits: make([]Hit, 0, len(decoded.Hits.Hits))}
	for _, h := range decoded.Hits.Hits {
		out.Hits = append(out.Hits, Hit{ID: h.ID, Score: h.Score, Source: h.Source})
	}
	return out, nil
}
