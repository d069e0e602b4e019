package registry

import "context"

// Store reads persisted entity registries. Implementations must locate the
// identifier column through ranked candidate spellings rather than assuming
// a fixed one, and must fail fast when the backing table does not exist.
type Store interface {
	Get(ctx context.Context, domain Domain) (Snapshot, error)
	Exists(ctx context.Context, domain Domain) (bool, error)
	RowCount(ctx context.Context, domain Domain) (int, error)
}
