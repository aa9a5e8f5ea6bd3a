package sqlite

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-intelligence/dlf/pkg/types"
)

// WriteBatch inserts the staged rows in staging order inside one
// transaction. Refs are resolved against rows written earlier in the same
// batch; a ref to an unknown placeholder aborts the whole batch.
func (b *Backend) WriteBatch(ctx context.Context, batch *types.Batch) (types.BatchWriteResult, error) {
	var result types.BatchWriteResult

	db, err := b.conn()
	if err != nil {
		return result, err
	}
	if batch == nil || batch.Len() == 0 {
		return result, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return types.BatchWriteResult{}, Error.New("begin transaction: %v", err)
	}
	defer tx.Rollback()

	for _, row := range batch.Rows() {
		query, args, err := insertStatement(row, result)
		if err != nil {
			return types.BatchWriteResult{}, err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return types.BatchWriteResult{}, Error.New("insert into %s: %v", row.Table, err)
		}
		uid, err := res.LastInsertId()
		if err != nil {
			return types.BatchWriteResult{}, Error.Wrap(err)
		}
		result.Assign(row.Table, row.TempID, uid)
	}

	if err := tx.Commit(); err != nil {
		return types.BatchWriteResult{}, Error.New("commit: %v", err)
	}
	return result, nil
}

// insertStatement builds the INSERT for one row with columns in sorted
// order, substituting uids of earlier rows for placeholder refs.
func insertStatement(row types.Row, written types.BatchWriteResult) (string, []any, error) {
	allowed, ok := batchColumns[row.Table]
	if !ok {
		return "", nil, Error.New("unknown table %q", row.Table)
	}

	values := make(map[string]any, len(row.Values)+len(row.Refs))
	for col, v := range row.Values {
		if b, ok := v.(bool); ok {
			v = boolInt(b)
		}
		values[col] = v
	}
	for col, tempID := range row.Refs {
		uid, ok := written.UID(tempID)
		if !ok {
			return "", nil, fmt.Errorf("%w: %s.%s -> %s", types.ErrUnresolvedPlaceholder, row.Table, col, tempID)
		}
		values[col] = uid
	}
	if len(values) == 0 {
		return "", nil, Error.New("empty row for %s", row.Table)
	}

	cols := make([]string, 0, len(values))
	for col := range values {
		if !allowed[col] {
			return "", nil, Error.New("unknown column %s.%s", row.Table, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	for i, col := range cols {
		args[i] = values[col]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		row.Table, strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	return query, args, nil
}
