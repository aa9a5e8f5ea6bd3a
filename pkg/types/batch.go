package types

import (
	"strings"

	"github.com/google/uuid"
)

// PlaceholderPrefix starts every temporary identity handed out by a Batch.
const PlaceholderPrefix = "NEW"

// NewPlaceholder returns a fresh temporary identity for a staged row.
func NewPlaceholder() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return PlaceholderPrefix + strings.ReplaceAll(id.String(), "-", "")
}

// IsPlaceholder reports whether s looks like a Batch temporary identity.
func IsPlaceholder(s string) bool {
	return strings.HasPrefix(s, PlaceholderPrefix)
}

// Row is one staged insert. Values holds literal column values; Refs maps a
// column to the placeholder of an earlier row in the same batch whose real
// uid is substituted at write time.
type Row struct {
	Table  string
	TempID string
	Values map[string]any
	Refs   map[string]string
}

// Batch is an ordered set of staged inserts written in one administrative
// transaction. It is owned by a single reconciliation and discarded after
// the write.
type Batch struct {
	rows []Row
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Stage appends a row and returns its placeholder. refs may only name
// placeholders staged earlier in the same batch.
func (b *Batch) Stage(table string, values map[string]any, refs map[string]string) string {
	tempID := NewPlaceholder()
	b.rows = append(b.rows, Row{
		Table:  table,
		TempID: tempID,
		Values: values,
		Refs:   refs,
	})
	return tempID
}

// Rows returns the staged rows in staging order.
func (b *Batch) Rows() []Row {
	return b.rows
}

// Len returns the number of staged rows.
func (b *Batch) Len() int {
	return len(b.rows)
}

// Assignment pairs a staged placeholder with the uid the store assigned.
type Assignment struct {
	Table  string
	TempID string
	UID    int64
}

// BatchWriteResult is the ordered placeholder-to-uid mapping produced by a
// batch write. Order matches staging order.
type BatchWriteResult struct {
	assignments []Assignment
	byTempID    map[string]int
}

// Assign records that tempID in table received uid.
func (r *BatchWriteResult) Assign(table, tempID string, uid int64) {
	if r.byTempID == nil {
		r.byTempID = make(map[string]int)
	}
	r.byTempID[tempID] = len(r.assignments)
	r.assignments = append(r.assignments, Assignment{Table: table, TempID: tempID, UID: uid})
}

// UID returns the uid assigned to tempID.
func (r BatchWriteResult) UID(tempID string) (int64, bool) {
	i, ok := r.byTempID[tempID]
	if !ok {
		return 0, false
	}
	return r.assignments[i].UID, true
}

// Assignments returns every assignment in staging order.
func (r BatchWriteResult) Assignments() []Assignment {
	return r.assignments
}

// ForTable returns the assignments of one table in staging order.
func (r BatchWriteResult) ForTable(table string) []Assignment {
	var out []Assignment
	for _, a := range r.assignments {
		if a.Table == table {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the number of assignments.
func (r BatchWriteResult) Len() int {
	return len(r.assignments)
}
