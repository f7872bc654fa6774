package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// The generic driver below is the only querying layer: every collection
// goes through the same filter/order/limit contract. Mutating operations
// return the affected rows (via RETURNING) as confirmation. Callers supply
// the column list and a scan function so arity mismatches surface as
// errors instead of partial objects.

// Cond is a single column comparison value.
type Cond struct {
	Col string
	Val any
}

// SetCond is a set-membership filter (IN / NOT IN).
type SetCond struct {
	Col  string
	Vals []any
}

// Where is a conjunction of equality, inequality and set-membership
// filters. A zero Where matches every row.
type Where struct {
	Eq    []Cond
	Ne    []Cond
	In    []SetCond
	NotIn []SetCond
}

// Eq builds a single-equality filter, the common case.
func WhereEq(col string, val any) Where {
	return Where{Eq: []Cond{{Col: col, Val: val}}}
}

func (w Where) clause() (string, []any) {
	var parts []string
	var args []any
	for _, c := range w.Eq {
		parts = append(parts, c.Col+" = ?")
		args = append(args, c.Val)
	}
	for _, c := range w.Ne {
		parts = append(parts, c.Col+" <> ?")
		args = append(args, c.Val)
	}
	for _, c := range w.In {
		parts = append(parts, c.Col+" IN ("+placeholders(len(c.Vals))+")")
		args = append(args, c.Vals...)
	}
	for _, c := range w.NotIn {
		parts = append(parts, c.Col+" NOT IN ("+placeholders(len(c.Vals))+")")
		args = append(args, c.Vals...)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// Order is a single ordering clause.
type Order struct {
	Col  string
	Desc bool
}

// Query parameterizes a read: filters, ordering and a row limit (0 = all).
type Query struct {
	Where Where
	Order []Order
	Limit int
}

func (q Query) tail() (string, []any) {
	clause, args := q.Where.clause()
	if len(q.Order) > 0 {
		var cols []string
		for _, o := range q.Order {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			cols = append(cols, o.Col+" "+dir)
		}
		clause += " ORDER BY " + strings.Join(cols, ",")
	}
	if q.Limit > 0 {
		clause += fmt.Sprintf(" LIMIT %d", q.Limit)
	}
	return clause, args
}

// Assign is a single SET assignment.
type Assign struct {
	Col string
	Val any
}

// Scanner abstracts *sql.Rows for scan functions.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc converts one result row into a typed value. A scan failure is
// an integrity error; the caller must not proceed with a partial object.
type ScanFunc[T any] func(Scanner) (T, error)

func collect[T any](rows *sql.Rows, scan ScanFunc[T]) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetMany returns the rows matching the query.
func GetMany[T any](ctx context.Context, d *sql.DB, table string, cols []string, q Query, scan ScanFunc[T]) ([]T, error) {
	tail, args := q.tail()
	rows, err := d.QueryContext(ctx, "SELECT "+strings.Join(cols, ",")+" FROM "+table+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	return collect(rows, scan)
}

// GetOne returns the first matching row and whether one existed.
func GetOne[T any](ctx context.Context, d *sql.DB, table string, cols []string, q Query, scan ScanFunc[T]) (T, bool, error) {
	var zero T
	q.Limit = 1
	rows, err := GetMany(ctx, d, table, cols, q, scan)
	if err != nil {
		return zero, false, err
	}
	if len(rows) == 0 {
		return zero, false, nil
	}
	return rows[0], true, nil
}

// InsertMany inserts the given value rows (one slice per row, matching
// insertCols) and returns them as stored. An empty set is a no-op.
func InsertMany[T any](ctx context.Context, d *sql.DB, table string, insertCols, returnCols []string, values [][]any, scan ScanFunc[T]) ([]T, error) {
	if len(values) == 0 {
		return nil, nil
	}
	row := "(" + placeholders(len(insertCols)) + ")"
	tuples := make([]string, len(values))
	var args []any
	for i, v := range values {
		if len(v) != len(insertCols) {
			return nil, fmt.Errorf("insert %s: row %d has %d values, want %d", table, i, len(v), len(insertCols))
		}
		tuples[i] = row
		args = append(args, v...)
	}
	stmt := "INSERT INTO " + table + " (" + strings.Join(insertCols, ",") + ") VALUES " +
		strings.Join(tuples, ",") + " RETURNING " + strings.Join(returnCols, ",")
	rows, err := d.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}
	return collect(rows, scan)
}

// InsertOne inserts a single row and returns it as stored.
func InsertOne[T any](ctx context.Context, d *sql.DB, table string, insertCols, returnCols []string, values []any, scan ScanFunc[T]) (T, error) {
	var zero T
	rows, err := InsertMany(ctx, d, table, insertCols, returnCols, [][]any{values}, scan)
	if err != nil {
		return zero, err
	}
	if len(rows) != 1 {
		return zero, fmt.Errorf("insert %s: expected 1 returned row, got %d", table, len(rows))
	}
	return rows[0], nil
}

func applyMany[T any](ctx context.Context, d *sql.DB, table string, returnCols []string, set string, args []any, w Where, scan ScanFunc[T]) ([]T, error) {
	clause, whereArgs := w.clause()
	stmt := "UPDATE " + table + " SET " + set + clause + " RETURNING " + strings.Join(returnCols, ",")
	rows, err := d.QueryContext(ctx, stmt, append(args, whereArgs...)...)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", table, err)
	}
	return collect(rows, scan)
}

// UpdateMany applies the assignments to matching rows and returns them.
// An empty assignment set is a no-op and executes no statement.
func UpdateMany[T any](ctx context.Context, d *sql.DB, table string, returnCols []string, assigns []Assign, w Where, scan ScanFunc[T]) ([]T, error) {
	if len(assigns) == 0 {
		return nil, nil
	}
	parts := make([]string, len(assigns))
	args := make([]any, len(assigns))
	for i, a := range assigns {
		parts[i] = a.Col + " = ?"
		args[i] = a.Val
	}
	return applyMany(ctx, d, table, returnCols, strings.Join(parts, ","), args, w, scan)
}

// UpdateOne applies the assignments expecting exactly one affected row;
// anything else is an integrity error.
func UpdateOne[T any](ctx context.Context, d *sql.DB, table string, returnCols []string, assigns []Assign, w Where, scan ScanFunc[T]) (T, error) {
	var zero T
	rows, err := UpdateMany(ctx, d, table, returnCols, assigns, w, scan)
	if err != nil {
		return zero, err
	}
	if len(rows) != 1 {
		return zero, fmt.Errorf("update %s: expected 1 affected row, got %d", table, len(rows))
	}
	return rows[0], nil
}

func deltaMany[T any](ctx context.Context, d *sql.DB, table string, returnCols []string, op string, assigns []Assign, w Where, scan ScanFunc[T]) ([]T, error) {
	if len(assigns) == 0 {
		return nil, nil
	}
	parts := make([]string, len(assigns))
	args := make([]any, len(assigns))
	for i, a := range assigns {
		parts[i] = a.Col + " = " + a.Col + " " + op + " ?"
		args[i] = a.Val
	}
	return applyMany(ctx, d, table, returnCols, strings.Join(parts, ","), args, w, scan)
}

// IncrementMany adds the assignment values to the current column values on
// matching rows and returns them. Empty assignment sets are no-ops.
func IncrementMany[T any](ctx context.Context, d *sql.DB, table string, returnCols []string, assigns []Assign, w Where, scan ScanFunc[T]) ([]T, error) {
	return deltaMany(ctx, d, table, returnCols, "+", assigns, w, scan)
}

// DecrementMany subtracts the assignment values from the current column
// values on matching rows and returns them.
func DecrementMany[T any](ctx context.Context, d *sql.DB, table string, returnCols []string, assigns []Assign, w Where, scan ScanFunc[T]) ([]T, error) {
	return deltaMany(ctx, d, table, returnCols, "-", assigns, w, scan)
}

// DeleteWhere removes matching rows.
func DeleteWhere(ctx context.Context, d *sql.DB, table string, w Where) error {
	clause, args := w.clause()
	if _, err := d.ExecContext(ctx, "DELETE FROM "+table+clause, args...); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

// Truncate removes every row and resets the autoincrement sequence.
func Truncate(ctx context.Context, d *sql.DB, table string) error {
	if _, err := d.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("truncate %s: %w", table, err)
	}
	// sqlite_sequence only exists once an AUTOINCREMENT insert has
	// happened; on a pristine database there is no counter to reset.
	if _, err := d.ExecContext(ctx, "UPDATE sqlite_sequence SET seq = 0 WHERE name = ?", table); err != nil &&
		!strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("truncate %s: reset sequence: %w", table, err)
	}
	return nil
}
