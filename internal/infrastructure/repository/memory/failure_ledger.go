package memory

import (
	"context"
	"sync"

	"github.com/courtdata/statsync/internal/domain/failure"
)

// FailureLedger keeps failure records in memory, one per (endpoint,
// combination key), mirroring the upsert behavior of the Postgres ledger.
type FailureLedger struct {
	mu      sync.RWMutex
	records map[string]map[string]failure.Record
}

func NewFailureLedger() *FailureLedger {
	return &FailureLedger{records: make(map[string]map[string]failure.Record)}
}

func (r *FailureLedger) Record(_ context.Context, rec failure.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byKey, ok := r.records[rec.Endpoint]
	if !ok {
		byKey = make(map[string]failure.Record)
		r.records[rec.Endpoint] = byKey
	}
	byKey[rec.CombinationKey] = rec
	return nil
}

func (r *FailureLedger) Excluded(_ context.Context, endpointName string) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]struct{})
	for key, rec := range r.records[endpointName] {
		if rec.Permanent {
			out[key] = struct{}{}
		}
	}
	return out, nil
}

func (r *FailureLedger) IsExcluded(_ context.Context, endpointName, combinationKey string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[endpointName][combinationKey]
	return ok && rec.Permanent, nil
}
