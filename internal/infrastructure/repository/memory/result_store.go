package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/courtdata/statsync/internal/usecase"
)

type resultTable struct {
	columns []string
	rows    [][]string
}

// ResultStore keeps collected payloads in memory. It serves both sides of
// the loop: the resolver reads it through the result.Store interface and the
// executor writes into it through usecase.ResultWriter.
type ResultStore struct {
	mu     sync.RWMutex
	tables map[string]*resultTable
}

func NewResultStore() *ResultStore {
	return &ResultStore{tables: make(map[string]*resultTable)}
}

// Seed installs a table for an endpoint with the given columns and rows.
func (r *ResultStore) Seed(endpointName string, columns []string, rows [][]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	table := &resultTable{columns: append([]string(nil), columns...)}
	for _, row := range rows {
		table.rows = append(table.rows, append([]string(nil), row...))
	}
	r.tables[endpointName] = table
}

func (r *ResultStore) Columns(_ context.Context, endpointName string) ([]string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table, ok := r.tables[endpointName]
	if !ok {
		return nil, false, nil
	}
	return append([]string(nil), table.columns...), true, nil
}

func (r *ResultStore) Distinct(_ context.Context, endpointName string, columns []string) ([][]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table, ok := r.tables[endpointName]
	if !ok {
		return nil, nil
	}

	idx := make([]int, 0, len(columns))
	for _, want := range columns {
		found := -1
		for i, col := range table.columns {
			if strings.EqualFold(col, want) {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, nil
		}
		idx = append(idx, found)
	}

	seen := make(map[string]struct{})
	var out [][]string
	for _, row := range table.rows {
		tuple := make([]string, len(idx))
		for i, col := range idx {
			if col < len(row) {
				tuple[i] = row[col]
			}
		}
		key := strings.Join(tuple, "\x00")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tuple)
	}
	return out, nil
}

func (r *ResultStore) Write(_ context.Context, endpointName string, params map[string]string, payload usecase.Payload) error {
	if payload.Empty() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	paramKeys := make([]string, 0, len(params))
	for k := range params {
		paramKeys = append(paramKeys, k)
	}
	sort.Strings(paramKeys)

	table, ok := r.tables[endpointName]
	if !ok {
		columns := append([]string(nil), payload.Columns...)
		for _, k := range paramKeys {
			if !containsFold(columns, k) {
				columns = append(columns, k)
			}
		}
		table = &resultTable{columns: columns}
		r.tables[endpointName] = table
	}

	for _, row := range payload.Rows {
		full := make([]string, len(table.columns))
		for i, col := range table.columns {
			for j, payloadCol := range payload.Columns {
				if strings.EqualFold(col, payloadCol) && j < len(row) {
					full[i] = row[j]
					break
				}
			}
			if full[i] == "" {
				if v, ok := params[col]; ok {
					full[i] = v
				}
			}
		}
		table.rows = append(table.rows, full)
	}
	return nil
}

func containsFold(items []string, want string) bool {
	for _, item := range items {
		if strings.EqualFold(item, want) {
			return true
		}
	}
	return false
}
