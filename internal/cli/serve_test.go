package cli

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/dlf/internal/index"
	"github.com/mesh-intelligence/dlf/internal/search"
	"github.com/mesh-intelligence/dlf/internal/wizard"
)

func TestServe_WizardRoundTrip(t *testing.T) {
	useIndex(t, &fakeIndex{})
	h := newHarness(t, testConfig)

	cmd := &cobra.Command{}
	cmd.SetErr(io.Discard)
	e, err := openEnv(cmd, &rootFlags{configDir: h.configDir, dataDir: h.dataDir})
	require.NoError(t, err)
	defer e.close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, e) }()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(base+"/tenants/12/formats", "application/x-www-form-urlencoded", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "redirect lands on the overview")

	var overview wizard.Overview
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&overview))
	assert.Equal(t, 6, overview.RecordInfos["formats"].NumCurrent)
	require.Len(t, overview.Messages, 1)
	assert.Equal(t, wizard.SeverityOK, overview.Messages[0].Severity)

	metrics, err := client.Get(base + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(metrics.Body)
	metrics.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `dlf_seed_records_inserted_total{category="format"} 6`)
	assert.Contains(t, string(body), "go_goroutines")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestSearch(t *testing.T) {
	idx := &fakeIndex{result: index.Result{
		Total: 3,
		Hits: []index.Hit{
			{ID: "doc-1", Source: map[string]any{"title": "Faust", "record_id": "x1"}},
		},
	}}
	useIndex(t, idx)
	h := newHarness(t, testConfig+"list:\n  items_per_page: 2\n")

	_, _, code := h.run("init", "--pid", "12", "--type", "all")
	require.Equal(t, exitSuccess, code)

	out, _, code := h.run("search", "--pid", "12", "-q", "faust", "--page", "2", "--json")
	require.Equal(t, exitSuccess, code)

	var page search.Page
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Documents, 1)
	assert.Equal(t, "Faust", page.Documents[0].Fields["title"])
	assert.NotContains(t, page.Documents[0].Fields, "record_id", "only listed fields are shown")

	require.Len(t, idx.queries, 1)
	assert.Equal(t, 2, idx.queries[0].From)
	assert.Equal(t, 2, idx.queries[0].Size)

	out, _, code = h.run("search", "--pid", "12")
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "Listed fields:")
	assert.Contains(t, out, "(title)")
}
