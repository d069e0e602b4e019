package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/courtdata/statsync/internal/domain/failure"
	qb "github.com/courtdata/statsync/internal/platform/querybuilder"
)

const failureTable = "collection_failures"

// FailureLedger persists collection failures. Records are upserted on
// (endpoint, combination_key): a repeat failure refreshes the reason,
// durability and timestamp and bumps the attempt counter, so the ledger
// holds one row per combination no matter how often it fails.
type FailureLedger struct {
	db *sqlx.DB
}

func NewFailureLedger(db *sqlx.DB) *FailureLedger {
	return &FailureLedger{db: db}
}

func (r *FailureLedger) Record(ctx context.Context, rec failure.Record) error {
	params, err := sonic.Marshal(rec.Params)
	if err != nil {
		return fmt.Errorf("marshal failure params: %w", err)
	}

	query, args, err := qb.InsertInto(failureTable).
		Columns("endpoint", "combination_key", "params", "reason", "permanent", "failed_at").
		Values(rec.Endpoint, rec.CombinationKey, string(params), rec.Reason, rec.Permanent, rec.FailedAt).
		Suffix(`ON CONFLICT (endpoint, combination_key) DO UPDATE SET
			params = EXCLUDED.params,
			reason = EXCLUDED.reason,
			permanent = EXCLUDED.permanent,
			failed_at = EXCLUDED.failed_at,
			fail_count = collection_failures.fail_count + 1`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build failure upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record failure for %s %s: %w", rec.Endpoint, rec.CombinationKey, err)
	}
	return nil
}

func (r *FailureLedger) Excluded(ctx context.Context, endpointName string) (map[string]struct{}, error) {
	query, args, err := qb.Select("combination_key").
		From(failureTable).
		Where(
			qb.Eq("endpoint", endpointName),
			qb.Expr("permanent = TRUE"),
		).
		OrderBy("combination_key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build exclusion query: %w", err)
	}

	var keys []string
	if err := r.db.SelectContext(ctx, &keys, query, args...); err != nil {
		return nil, fmt.Errorf("select exclusions for %s: %w", endpointName, err)
	}

	out := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		out[key] = struct{}{}
	}
	return out, nil
}

func (r *FailureLedger) IsExcluded(ctx context.Context, endpointName, combinationKey string) (bool, error) {
	query, args, err := qb.Select("1").
		From(failureTable).
		Where(
			qb.Eq("endpoint", endpointName),
			qb.Eq("combination_key", combinationKey),
			qb.Expr("permanent = TRUE"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build exclusion check: %w", err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check exclusion for %s %s: %w", endpointName, combinationKey, err)
	}
	return true, nil
}
