package baas

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const memoryTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// MemoryTables is an in-process Tables implementation for local development
// and tests. It understands the same filters and ordering as the REST API.
type MemoryTables struct {
	mu     sync.RWMutex
	tables map[string][]map[string]any
	now    func() time.Time
}

// NewMemoryTables constructs an empty store.
func NewMemoryTables(now func() time.Time) *MemoryTables {
	if now == nil {
		now = time.Now
	}
	return &MemoryTables{
		tables: make(map[string][]map[string]any),
		now:    now,
	}
}

func (m *MemoryTables) Select(ctx context.Context, table string, q Query, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := make([]map[string]any, 0)
	for _, row := range m.tables[table] {
		if matches(row, q.Filters) {
			rows = append(rows, row)
		}
	}

	if len(q.Order) > 0 {
		sort.SliceStable(rows, func(i, j int) bool {
			for _, o := range q.Order {
				c := compareValues(rows[i][o.Column], stringify(rows[j][o.Column]))
				if c == 0 {
					continue
				}
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return remarshal(rows, out)
}

func (m *MemoryTables) Insert(ctx context.Context, table string, row any, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := toRecord(row)
	if err != nil {
		return err
	}
	if s, _ := record["id"].(string); strings.TrimSpace(s) == "" {
		record["id"] = uuid.NewString()
	}
	if s, _ := record["created_at"].(string); isZeroTime(s) {
		record["created_at"] = m.now().UTC().Format(memoryTimeLayout)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.tables[table] {
		if existing["id"] == record["id"] {
			return &Error{Status: 409, Code: "23505", Message: "duplicate key value violates unique constraint"}
		}
	}
	m.tables[table] = append(m.tables[table], record)
	return remarshal([]map[string]any{record}, out)
}

func (m *MemoryTables) Update(ctx context.Context, table string, q Query, patch any, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(q.Filters) == 0 {
		return fmt.Errorf("baas update %s: refusing unfiltered update", table)
	}
	changes, err := toRecord(patch)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	updated := make([]map[string]any, 0)
	for _, row := range m.tables[table] {
		if !matches(row, q.Filters) {
			continue
		}
		for k, v := range changes {
			row[k] = v
		}
		updated = append(updated, row)
	}
	return remarshal(updated, out)
}

func (m *MemoryTables) Delete(ctx context.Context, table string, q Query) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(q.Filters) == 0 {
		return fmt.Errorf("baas delete %s: refusing unfiltered delete", table)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.tables[table][:0]
	for _, row := range m.tables[table] {
		if !matches(row, q.Filters) {
			kept = append(kept, row)
		}
	}
	m.tables[table] = kept
	return nil
}

func matches(row map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v := row[f.Column]
		switch f.Op {
		case OpEq:
			if stringify(v) != f.Value {
				return false
			}
		case OpNeq:
			if stringify(v) == f.Value {
				return false
			}
		case OpGt:
			if compareValues(v, f.Value) <= 0 {
				return false
			}
		case OpGte:
			if compareValues(v, f.Value) < 0 {
				return false
			}
		case OpLt:
			if compareValues(v, f.Value) >= 0 {
				return false
			}
		case OpLte:
			if compareValues(v, f.Value) > 0 {
				return false
			}
		case OpIn:
			found := false
			for _, candidate := range strings.Split(f.Value, ",") {
				if stringify(v) == candidate {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func compareValues(v any, other string) int {
	left := stringify(v)
	if lf, err := strconv.ParseFloat(left, 64); err == nil {
		if rf, err := strconv.ParseFloat(other, 64); err == nil {
			switch {
			case lf < rf:
				return -1
			case lf > rf:
				return 1
			default:
				return 0
			}
		}
	}
	if lt, err := time.Parse(time.RFC3339Nano, left); err == nil {
		if rt, err := time.Parse(time.RFC3339Nano, other); err == nil {
			return lt.Compare(rt)
		}
	}
	return strings.Compare(left, other)
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

func isZeroTime(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	return err == nil && t.IsZero()
}

func toRecord(v any) (map[string]any, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("baas encode row: %w", err)
	}
	record := map[string]any{}
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("baas row must be an object: %w", err)
	}
	return record, nil
}

func remarshal(v any, out any) error {
	if out == nil {
		return nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, out)
}

var _ Tables = (*MemoryTables)(nil)
