package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/dlf/internal/index"
)

// fakeIndex stands in for the search cluster.
type fakeIndex struct {
	mu      sync.Mutex
	cores   []string
	err     error
	result  index.Result
	queries []index.Query
}

func (f *fakeIndex) CreateCore(_ context.Context, hint string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	name := fmt.Sprintf("%s%d", index.DefaultCorePrefix, len(f.cores))
	f.cores = append(f.cores, name)
	return name, nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, q index.Query) (index.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.result, nil
}

func useIndex(t *testing.T, f *fakeIndex) {
	t.Helper()
	saved := newIndexClient
	newIndexClient = func(index.Config, *zap.Logger) (indexClient, error) { return f, nil }
	t.Cleanup(func() { newIndexClient = saved })
}

// harness runs dlfctl against private config and data directories.
type harness struct {
	t         *testing.T
	configDir string
	dataDir   string
}

const testConfig = `log:
  level: error
sites:
  - identifier: library
    root_page_id: 1
    pages: [12]
    languages:
      - language_id: 0
        locale: en_US.UTF-8
      - language_id: 1
        locale: de_DE.UTF-8
`

func newHarness(t *testing.T, config string) *harness {
	t.Helper()
	root := t.TempDir()
	h := &harness{
		t:         t,
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
	if config != "" {
		require.NoError(t, os.MkdirAll(h.configDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(h.configDir, configFileExt), []byte(config), 0o644))
	}
	return h
}

func (h *harness) run(args ...string) (stdout, stderr string, code int) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(append(args, "--config-dir", h.configDir, "--data-dir", h.dataDir))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), ExitCode(err)
}

// writeTree writes files relative to dir.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func xliff(units map[string]string) string {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<xliff version="1.2"><file source-language="en"><body>
`)
	for id, src := range units {
		fmt.Fprintf(&b, "<trans-unit id=%q><source>%s</source></trans-unit>\n", id, src)
	}
	b.WriteString("</body></file></xliff>\n")
	return b.String()
}
