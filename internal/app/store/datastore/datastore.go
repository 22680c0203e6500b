// Package datastore defines the table-level contract every data backend
// implements: equality-filtered selects plus insert, update and delete that
// return the affected rows.
//
// Filters are equality only. There are no ranges, no OR, and no pagination;
// callers load whole tables (or equality slices of them) and aggregate in
// memory. Typed repositories in the sibling store packages sit on top of
// this interface so handlers never build filters by hand.
package datastore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Row is one record as returned by the backend. Numbers are json.Number so
// integer ids survive the round trip.
type Row map[string]any

// Filter is a single column = value match.
type Filter struct {
	Column string
	Value  any
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Query describes a select.
type Query struct {
	Table   string
	Columns []string // empty means all columns
	Filters []Filter
}

// Projection returns the comma-joined column list, or "*".
func (q Query) Projection() string {
	if len(q.Columns) == 0 {
		return "*"
	}
	return strings.Join(q.Columns, ",")
}

// Store is the remote data accessor.
type Store interface {
	Select(ctx context.Context, q Query) ([]Row, error)
	Insert(ctx context.Context, table string, row Row) ([]Row, error)
	Update(ctx context.Context, table string, row Row, filters ...Filter) ([]Row, error)
	Delete(ctx context.Context, table string, filters ...Filter) ([]Row, error)
	Ping(ctx context.Context) error
}

// FormatValue renders a filter value the way it is matched on the wire.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(x)
	}
}

// TimeValue renders t the way timestamp columns are written.
func TimeValue(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// DecodeRows maps rows onto out (a pointer to a slice of structs) through
// the structs' JSON tags.
func DecodeRows(rows []Row, out any) error {
	if rows == nil {
		rows = []Row{}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode rows: %w", err)
	}
	return nil
}

// EncodeRow turns a struct (or map) into a Row through its JSON tags.
func EncodeRow(v any) (Row, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	dec := json.NewDecoder(strings.NewReader(string(b)))
	dec.UseNumber()
	var row Row
	if err := dec.Decode(&row); err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	return row, nil
}
