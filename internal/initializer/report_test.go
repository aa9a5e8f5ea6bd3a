package initializer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/dlf/pkg/types"
)

func TestReporter_Check(t *testing.T) {
	tests := []struct {
		name  string
		check Check
		want  string
	}{
		{
			name:  "complete format",
			check: Check{Category: types.CategoryFormat, Persisted: 6, Desired: 6, Complete: true},
			want:  "Default Format data is inserted: 6 records stored in the database.\n",
		},
		{
			name:  "incomplete metadata",
			check: Check{Category: types.CategoryMetadata, Persisted: 3, Desired: 13},
			want:  "Default Metadata data needs to be inserted: 10 records still missing.\n",
		},
		{
			name:  "solr core present",
			check: Check{Category: types.CategorySolr, Persisted: 1, Desired: 1, Complete: true},
			want:  "There are 1 SOLR core(s) available.\n",
		},
		{
			name:  "solr core missing",
			check: Check{Category: types.CategorySolr, Desired: 1},
			want:  "There must be at least one SOLR core available.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewReporter(&buf).Check(tt.check)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestReporter_Lines(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)
	r.Inserting(types.CategoryStructure)
	r.Finished(types.CategoryStructure)
	r.Inserting(types.CategorySolr)
	r.Success(Banner(types.CategoryFormat, true))
	r.Error(FailureBanner("metadata"))

	out := buf.String()
	assert.Contains(t, out, "Inserting Structure data...\n")
	assert.Contains(t, out, "Finished inserting Structure data...\n")
	assert.Contains(t, out, "Inserting SOLR cores...\n")
	assert.Contains(t, out, "[OK] Format data already inserted!")
	assert.Contains(t, out, `[ERROR] ERROR: Initial data was not inserted for "metadata" type.`)
}

func TestReporter_NilWriter(t *testing.T) {
	assert.NotPanics(t, func() {
		NewReporter(nil).Title(Title)
	})
}
