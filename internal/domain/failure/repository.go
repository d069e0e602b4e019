package failure

import "context"

// Ledger persists failure records and answers exclusion queries. Only
// permanent failures are excluded from future resolution; transient records
// are kept for audit but stay retryable.
type Ledger interface {
	Record(ctx context.Context, rec Record) error
	// Excluded returns the combination keys permanently excluded for the
	// endpoint.
	Excluded(ctx context.Context, endpoint string) (map[string]struct{}, error)
	IsExcluded(ctx context.Context, endpoint, combinationKey string) (bool, error)
}
