package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchStage(t *testing.T) {
	b := NewBatch()
	parent := b.Stage(TableMetadata, map[string]any{"index_name": "title"}, nil)
	child := b.Stage(TableMetadataFormats, map[string]any{"xpath": "./mods:title"}, map[string]string{"parent_id": parent})

	require.Equal(t, 2, b.Len())
	assert.True(t, IsPlaceholder(parent))
	assert.True(t, IsPlaceholder(child))
	assert.NotEqual(t, parent, child)

	rows := b.Rows()
	assert.Equal(t, TableMetadata, rows[0].Table)
	assert.Equal(t, parent, rows[1].Refs["parent_id"])
}

func TestBatchWriteResultPreservesOrder(t *testing.T) {
	var r BatchWriteResult
	r.Assign(TableMetadata, "NEWa", 7)
	r.Assign(TableMetadataFormats, "NEWb", 3)
	r.Assign(TableMetadata, "NEWc", 8)

	assert.Equal(t, 3, r.Len())

	uid, ok := r.UID("NEWc")
	require.True(t, ok)
	assert.Equal(t, int64(8), uid)

	_, ok = r.UID("NEWmissing")
	assert.False(t, ok)

	meta := r.ForTable(TableMetadata)
	require.Len(t, meta, 2)
	assert.Equal(t, "NEWa", meta[0].TempID)
	assert.Equal(t, "NEWc", meta[1].TempID)

	all := r.Assignments()
	assert.Equal(t, []int64{7, 3, 8}, []int64{all[0].UID, all[1].UID, all[2].UID})
}

func TestEmptyBatchWriteResult(t *testing.T) {
	var r BatchWriteResult
	_, ok := r.UID("NEWx")
	assert.False(t, ok)
	assert.Zero(t, r.Len())
	assert.Empty(t, r.ForTable(TableStructures))
}
