// Tests for the SQLite backend lifecycle, lookups and staged writes.
package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/dlf/pkg/types"
)

// newTestBackend attaches a backend to a fresh temp directory.
func newTestBackend(t *testing.T) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { b.Detach() })
	return b, dir
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	err := b.Attach(config)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	dbPath := filepath.Join(tmpDir, DatabaseFile)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("%s not created", DatabaseFile)
	}

	err = b.Attach(config)
	if err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}

	b.Detach()
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}

func TestBackend_Detach(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "detach is idempotent")

	_, err := b.CountFormats(ctx)
	assert.ErrorIs(t, err, types.ErrBackendDetached)
	_, err = b.WriteBatch(ctx, types.NewBatch())
	assert.ErrorIs(t, err, types.ErrBackendDetached)
	assert.ErrorIs(t, b.PersistAll(ctx), types.ErrBackendDetached)
}

func TestBackend_DataPersistsAcrossReattach(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend()
	require.NoError(t, b.Attach(config))
	b.AddFormat(&types.Format{Type: "MODS", Root: "mods", Namespace: "http://www.loc.gov/mods/v3"})
	require.NoError(t, b.PersistAll(ctx))
	require.NoError(t, b.Detach())

	b2 := NewBackend()
	require.NoError(t, b2.Attach(config))
	defer b2.Detach()

	n, err := b2.CountFormats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFormats(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(t *testing.T, b *Backend)
		check func(t *testing.T, b *Backend)
	}{
		{
			name: "empty store has no formats",
			check: func(t *testing.T, b *Backend) {
				n, err := b.CountFormats(ctx)
				require.NoError(t, err)
				assert.Zero(t, n)
				_, err = b.FindFormatByType(ctx, "MODS")
				assert.ErrorIs(t, err, types.ErrNotFound)
			},
		},
		{
			name: "staged formats are invisible until persisted",
			setup: func(t *testing.T, b *Backend) {
				b.AddFormat(&types.Format{Type: "MODS", Root: "mods", Namespace: "ns"})
			},
			check: func(t *testing.T, b *Backend) {
				n, err := b.CountFormats(ctx)
				require.NoError(t, err)
				assert.Zero(t, n)

				require.NoError(t, b.PersistAll(ctx))
				n, err = b.CountFormats(ctx)
				require.NoError(t, err)
				assert.Equal(t, 1, n)
			},
		},
		{
			name: "persist assigns uids in staging order",
			check: func(t *testing.T, b *Backend) {
				mods := &types.Format{Type: "MODS", Root: "mods", Namespace: "ns1"}
				alto := &types.Format{Type: "ALTO", Root: "alto", Namespace: "ns2", Class: "Kitodo\\Dlf\\Format\\Alto"}
				b.AddFormat(mods)
				b.AddFormat(alto)
				require.NoError(t, b.PersistAll(ctx))

				assert.NotZero(t, mods.UID)
				assert.Greater(t, alto.UID, mods.UID)

				got, err := b.FindFormatByType(ctx, "ALTO")
				require.NoError(t, err)
				assert.Equal(t, alto.UID, got.UID)
				assert.Equal(t, "alto", got.Root)
				assert.Equal(t, "Kitodo\\Dlf\\Format\\Alto", got.Class)

				all, err := b.FindAllFormats(ctx)
				require.NoError(t, err)
				require.Len(t, all, 2)
				assert.Equal(t, "MODS", all[0].Type)
				assert.Equal(t, "ALTO", all[1].Type)
			},
		},
		{
			name: "persist with nothing staged is a no-op",
			check: func(t *testing.T, b *Backend) {
				require.NoError(t, b.PersistAll(ctx))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBackend(t)
			if tt.setup != nil {
				tt.setup(t, b)
			}
			tt.check(t, b)
		})
	}
}

func TestSolrCores(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t)

	_, err := b.FindSolrCoreByPID(ctx, 5)
	assert.ErrorIs(t, err, types.ErrNotFound)

	core := &types.SolrCore{PID: 5, Label: "SOLR Core (PID 5)", IndexName: "dlfCore0"}
	b.AddSolrCore(core)
	require.NoError(t, b.PersistAll(ctx))
	assert.NotZero(t, core.UID)

	got, err := b.FindSolrCoreByPID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "dlfCore0", got.IndexName)
	assert.Equal(t, "SOLR Core (PID 5)", got.Label)

	n, err := b.CountSolrCores(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = b.CountSolrCores(ctx, 6)
	require.NoError(t, err)
	assert.Zero(t, n, "cores are scoped to their tenant")
}

func TestPersistAll_FailureDropsStagedRecords(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend(t)

	f := &types.Format{Type: "MODS", Root: "mods", Namespace: "ns"}
	b.AddFormat(f)
	b.AddSolrCore(&types.SolrCore{PID: 5, Label: "SOLR Core (PID 5)", IndexName: "dlfCore0"})

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.Error(t, b.PersistAll(cancelled))
	assert.Zero(t, f.UID)

	require.NoError(t, b.PersistAll(ctx))

	n, err := b.CountFormats(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "a failed flush is not replayed")
	n, err = b.CountSolrCores(ctx, 5)
	require.NoError(t, err)
	assert.Zero(t, n)
}
