package initializer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/dlf/internal/defaults"
	"github.com/mesh-intelligence/dlf/pkg/types"
)

func TestExpandTranslations(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	batch := types.NewBatch()
	tmp := batch.Stage(types.TableStructures, map[string]any{"pid": tenant, "index_name": "issue", "label": "Issue"}, nil)
	written, err := store.WriteBatch(ctx, batch)
	require.NoError(t, err)
	uid, _ := written.UID(tmp)

	labels := defaults.LabelTable{
		"default": units(map[string]string{"structure.issue": "Issue"}),
		"de":      units(map[string]string{"structure.issue": "Heft"}),
	}
	languages := []types.Language{english, german, french, {ID: 3, LabelKey: "xx"}}
	parents := []Parent{{UID: uid, Key: "structure.issue"}, {UID: uid, Key: "structure.unknown"}}

	n, err := ExpandTranslations(ctx, store, types.TableStructures, tenant, parents, labels, languages, types.DefaultLanguageID)
	require.NoError(t, err)
	assert.Equal(t, 6, n, "two parents times three non-default languages")

	shadows, err := store.FindStructureTranslations(ctx, uid)
	require.NoError(t, err)
	require.Len(t, shadows, 6)

	got := map[int64][]string{}
	for _, s := range shadows {
		assert.NotEqual(t, int64(types.DefaultLanguageID), s.LanguageID)
		got[s.LanguageID] = append(got[s.LanguageID], s.Label)
	}
	assert.ElementsMatch(t, []string{"Heft", "Missing translation for structure.unknown"}, got[1])
	assert.ElementsMatch(t, []string{"Issue", "Missing translation for structure.unknown"}, got[2])
	assert.ElementsMatch(t, []string{"Issue", "Missing translation for structure.unknown"}, got[3])
}

func TestExpandTranslations_NoParents(t *testing.T) {
	store := &countingStore{Store: newStore(t)}
	n, err := ExpandTranslations(context.Background(), store, types.TableMetadata, tenant, nil, nil,
		[]types.Language{english, german}, types.DefaultLanguageID)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, store.batches)
}
