package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/dalemusser/pghub/internal/app/store/datastore"
)

// MemStore is an in-memory datastore.Store. Rows get sequential numeric ids
// the way the REST backend assigns them. Failures can be injected per table
// or per operation, and every call is counted.
type MemStore struct {
	mu      sync.Mutex
	tables  map[string][]datastore.Row
	nextID  int
	fail    map[string]error
	pingErr error
	calls   map[string]int
}

var _ datastore.Store = (*MemStore)(nil)

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		tables: map[string][]datastore.Row{},
		fail:   map[string]error{},
		calls:  map[string]int{},
	}
}

// FailTable makes every call against table return err. Pass nil to clear.
func (m *MemStore) FailTable(table string, err error) {
	m.failKey("*:"+table, err)
}

// FailOp makes op ("select", "insert", "update", "delete") on table return err.
func (m *MemStore) FailOp(op, table string, err error) {
	m.failKey(op+":"+table, err)
}

// FailPing makes Ping return err.
func (m *MemStore) FailPing(err error) {
	m.mu.Lock()
	m.pingErr = err
	m.mu.Unlock()
}

// Calls reports how many times op ran against table.
func (m *MemStore) Calls(op, table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op+":"+table]
}

// Rows returns a copy of table's rows in insertion order.
func (m *MemStore) Rows(table string) []datastore.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]datastore.Row, 0, len(m.tables[table]))
	for _, r := range m.tables[table] {
		out = append(out, copyRow(r, nil))
	}
	return out
}

func (m *MemStore) Select(ctx context.Context, q datastore.Query) ([]datastore.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("select", q.Table); err != nil {
		return nil, err
	}
	out := []datastore.Row{}
	for _, r := range m.tables[q.Table] {
		if matches(r, q.Filters) {
			out = append(out, copyRow(r, q.Columns))
		}
	}
	return out, nil
}

func (m *MemStore) Insert(ctx context.Context, table string, row datastore.Row) ([]datastore.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("insert", table); err != nil {
		return nil, err
	}
	m.nextID++
	r := copyRow(row, nil)
	r["id"] = json.Number(strconv.Itoa(m.nextID))
	m.tables[table] = append(m.tables[table], r)
	return []datastore.Row{copyRow(r, nil)}, nil
}

func (m *MemStore) Update(ctx context.Context, table string, row datastore.Row, filters ...datastore.Filter) ([]datastore.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("update", table); err != nil {
		return nil, err
	}
	out := []datastore.Row{}
	for _, r := range m.tables[table] {
		if !matches(r, filters) {
			continue
		}
		for k, v := range row {
			if k == "id" {
				continue
			}
			r[k] = v
		}
		out = append(out, copyRow(r, nil))
	}
	return out, nil
}

func (m *MemStore) Delete(ctx context.Context, table string, filters ...datastore.Filter) ([]datastore.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("delete", table); err != nil {
		return nil, err
	}
	out := []datastore.Row{}
	kept := m.tables[table][:0]
	for _, r := range m.tables[table] {
		if matches(r, filters) {
			out = append(out, copyRow(r, nil))
			continue
		}
		kept = append(kept, r)
	}
	m.tables[table] = kept
	return out, nil
}

func (m *MemStore) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["ping:"]++
	return m.pingErr
}

// Seed inserts rows directly, assigning ids, and returns the ids in order.
func (m *MemStore) Seed(table string, rows ...datastore.Row) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		out, err := m.Insert(context.Background(), table, r)
		if err != nil {
			panic(fmt.Sprintf("seed %s: %v", table, err))
		}
		ids = append(ids, datastore.FormatValue(out[0]["id"]))
	}
	// Seeding is setup, not traffic.
	m.mu.Lock()
	delete(m.calls, "insert:"+table)
	m.mu.Unlock()
	return ids
}

func (m *MemStore) failKey(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, key)
		return
	}
	m.fail[key] = err
}

// begin counts the call and returns any injected failure. Callers hold mu.
func (m *MemStore) begin(op, table string) error {
	m.calls[op+":"+table]++
	if err := m.fail[op+":"+table]; err != nil {
		return err
	}
	return m.fail["*:"+table]
}

func matches(r datastore.Row, filters []datastore.Filter) bool {
	for _, f := range filters {
		v, ok := r[f.Column]
		if !ok || datastore.FormatValue(v) != datastore.FormatValue(f.Value) {
			return false
		}
	}
	return true
}

func copyRow(r datastore.Row, columns []string) datastore.Row {
	out := datastore.Row{}
	if len(columns) == 0 {
		for k, v := range r {
			out[k] = v
		}
		return out
	}
	for _, c := range columns {
		if v, ok := r[c]; ok {
			out[c] = v
		}
	}
	return out
}
