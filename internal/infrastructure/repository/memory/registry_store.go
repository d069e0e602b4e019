package memory

import (
	"context"
	"sync"

	"github.com/courtdata/statsync/internal/domain/registry"
)

// RegistryStore is the in-memory registry used by tests and dry runs.
type RegistryStore struct {
	mu        sync.RWMutex
	snapshots map[registry.Domain]registry.Snapshot
}

func NewRegistryStore() *RegistryStore {
	return &RegistryStore{snapshots: make(map[registry.Domain]registry.Snapshot)}
}

// Seed replaces the identifier list for a domain.
func (r *RegistryStore) Seed(domain registry.Domain, column string, ids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots[domain] = registry.Snapshot{
		Domain: domain,
		Column: column,
		IDs:    append([]string(nil), ids...),
	}
}

func (r *RegistryStore) Get(_ context.Context, domain registry.Domain) (registry.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := r.snapshots[domain]
	out := registry.Snapshot{Domain: domain, Column: snap.Column}
	out.IDs = append(out.IDs, snap.IDs...)
	return out, nil
}

func (r *RegistryStore) Exists(_ context.Context, domain registry.Domain) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.snapshots[domain]
	return ok, nil
}

func (r *RegistryStore) RowCount(_ context.Context, domain registry.Domain) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.snapshots[domain].IDs), nil
}
