package initializer

import (
	"context"

	"github.com/mesh-intelligence/dlf/pkg/types"
)

// FormatRegistry maps a format root element to the uid of the persisted
// format. It is only ever built from persisted formats, so metadata
// bindings resolved through it point at real rows.
type FormatRegistry struct {
	byRoot map[string]int64
}

// ResolveFormats builds a registry from every persisted format. When two
// formats share a root the first persisted one wins.
func ResolveFormats(ctx context.Context, store types.FormatStore) (FormatRegistry, error) {
	formats, err := store.FindAllFormats(ctx)
	if err != nil {
		return FormatRegistry{}, err
	}
	reg := FormatRegistry{byRoot: make(map[string]int64, len(formats))}
	for _, f := range formats {
		if _, ok := reg.byRoot[f.Root]; !ok {
			reg.byRoot[f.Root] = f.UID
		}
	}
	return reg, nil
}

// Lookup returns the uid of the format with the given root.
func (r FormatRegistry) Lookup(root string) (int64, bool) {
	uid, ok := r.byRoot[root]
	return uid, ok
}

// Len returns the number of resolvable roots.
func (r FormatRegistry) Len() int {
	return len(r.byRoot)
}
