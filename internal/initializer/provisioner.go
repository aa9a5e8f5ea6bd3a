package initializer

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/dlf/pkg/types"
)

// IndexAdmin creates search index cores. CreateCore returns the handle of
// the new core, or an empty handle when nothing was created.
type IndexAdmin interface {
	CreateCore(ctx context.Context, hint string) (string, error)
}

// CoreStore is the slice of types.Store the provisioner needs.
type CoreStore interface {
	types.SolrCoreStore
	PersistAll(ctx context.Context) error
}

// Provisioner keeps at most one search core record per tenant.
type Provisioner struct {
	store CoreStore
	index IndexAdmin
	log   *zap.Logger
}

// NewProvisioner returns a provisioner creating cores through index.
func NewProvisioner(store CoreStore, index IndexAdmin, log *zap.Logger) *Provisioner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provisioner{store: store, index: index, log: log}
}

// EnsureCore returns the existing core of pid or creates one. When the
// index facade yields no handle nothing is persisted and the returned
// error is of class types.ErrIndexCreation.
func (p *Provisioner) EnsureCore(ctx context.Context, pid int64, label string) (created bool, handle string, err error) {
	existing, err := p.store.FindSolrCoreByPID(ctx, pid)
	switch {
	case err == nil:
		return false, existing.IndexName, nil
	case !errors.Is(err, types.ErrNotFound):
		return false, "", err
	}

	if p.index == nil {
		return false, "", types.ErrIndexCreation.New("no index admin configured")
	}
	handle, err = p.index.CreateCore(ctx, "")
	if err != nil {
		return false, "", types.ErrIndexCreation.Wrap(err)
	}
	if handle == "" {
		return false, "", types.ErrIndexCreation.New("index admin returned no core for pid %d", pid)
	}

	p.store.AddSolrCore(&types.SolrCore{PID: pid, Label: label, IndexName: handle})
	if err := p.store.PersistAll(ctx); err != nil {
		return false, "", err
	}
	p.log.Info("created search core", zap.Int64("pid", pid), zap.String("index_name", handle))
	return true, handle, nil
}
