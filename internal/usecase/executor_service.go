package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/courtdata/statsync/internal/domain/endpoint"
	"github.com/courtdata/statsync/internal/domain/failure"
	"github.com/courtdata/statsync/internal/platform/logging"
)

// Payload is one fetched result set: the provider's column headers plus row
// values rendered as strings.
type Payload struct {
	Columns []string
	Rows    [][]string
}

func (p Payload) Empty() bool {
	return len(p.Rows) == 0
}

// StatsProvider fetches one endpoint call from the upstream stats API.
type StatsProvider interface {
	Fetch(ctx context.Context, endpointName string, params map[string]string) (Payload, error)
}

// ResultWriter lands a fetched payload in the result store.
type ResultWriter interface {
	Write(ctx context.Context, endpointName string, params map[string]string, payload Payload) error
}

const (
	itemStatusSuccess = "success"
	itemStatusFailed  = "failed"
	itemStatusSkipped = "skipped"
)

type ExecuteInput struct {
	MaxWorkers int
	// DryRun fetches nothing and reports the items that would run.
	DryRun bool
}

type ExecuteResult struct {
	Endpoint     string           `json:"endpoint"`
	ItemCount    int              `json:"item_count"`
	SuccessCount int              `json:"success_count"`
	FailedCount  int              `json:"failed_count"`
	SkippedCount int              `json:"skipped_count"`
	WorkerCount  int              `json:"worker_count"`
	Items        []ExecuteItemRow `json:"items"`
}

type ExecuteItemRow struct {
	CombinationKey string `json:"combination_key"`
	Status         string `json:"status"`
	Rows           int    `json:"rows"`
	Permanent      bool   `json:"permanent,omitempty"`
	DurationMs     int64  `json:"duration_ms"`
	Message        string `json:"message,omitempty"`
}

// ExecutorService runs resolved work items against the provider on a bounded
// worker pool and records every failure in the ledger with its durability.
type ExecutorService struct {
	provider StatsProvider
	writer   ResultWriter
	ledger   failure.Ledger
	logger   *logging.Logger
	now      func() time.Time
}

func NewExecutorService(provider StatsProvider, writer ResultWriter, ledger failure.Ledger, logger *logging.Logger) *ExecutorService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ExecutorService{
		provider: provider,
		writer:   writer,
		ledger:   ledger,
		logger:   logger,
		now:      time.Now,
	}
}

// Execute fetches every work item. A failed item never aborts the batch;
// the failure is recorded and the remaining items keep running.
func (s *ExecutorService) Execute(ctx context.Context, items []endpoint.WorkItem, input ExecuteInput) (ExecuteResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExecutorService.Execute")
	defer span.End()

	if s.provider == nil || s.writer == nil {
		return ExecuteResult{}, fmt.Errorf("%w: executor is not fully configured", ErrDependencyNotReady)
	}

	workerCount := normalizeWorkerCount(input.MaxWorkers, len(items))
	result := ExecuteResult{
		ItemCount:   len(items),
		WorkerCount: workerCount,
		Items:       make([]ExecuteItemRow, 0, len(items)),
	}
	if len(items) == 0 {
		return result, nil
	}
	result.Endpoint = items[0].Endpoint

	rows := make(chan ExecuteItemRow, len(items))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ExecuteResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, item := range items {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := s.now()
			row := s.runItem(ctx, item, input.DryRun)
			row.DurationMs = s.now().Sub(start).Milliseconds()

			switch row.Status {
			case itemStatusSuccess:
				successCount.Add(1)
			case itemStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}

			rows <- row
		}); err != nil {
			workers.Done()
			return ExecuteResult{}, fmt.Errorf("submit item to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Items = append(result.Items, row)
	}
	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].CombinationKey < result.Items[j].CombinationKey
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())

	s.logger.InfoContext(ctx, "execution batch finished",
		"endpoint", result.Endpoint,
		"items", result.ItemCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)
	return result, nil
}

func (s *ExecutorService) runItem(ctx context.Context, item endpoint.WorkItem, dryRun bool) ExecuteItemRow {
	row := ExecuteItemRow{CombinationKey: item.Combination.Key()}

	if dryRun {
		row.Status = itemStatusSkipped
		row.Message = "dry run"
		return row
	}

	payload, err := s.provider.Fetch(ctx, item.Endpoint, item.Params)
	if err != nil {
		return s.failItem(ctx, item, row, err)
	}
	if payload.Empty() {
		row.Status = itemStatusSkipped
		row.Message = "provider returned no rows"
		return row
	}

	if err := s.writer.Write(ctx, item.Endpoint, item.Params, payload); err != nil {
		return s.failItem(ctx, item, row, fmt.Errorf("write payload: %w", err))
	}

	row.Status = itemStatusSuccess
	row.Rows = len(payload.Rows)
	return row
}

func (s *ExecutorService) failItem(ctx context.Context, item endpoint.WorkItem, row ExecuteItemRow, cause error) ExecuteItemRow {
	reason, permanent := ClassifyFailure(cause)
	row.Status = itemStatusFailed
	row.Message = reason
	row.Permanent = permanent

	if s.ledger != nil {
		rec := failure.Record{
			Endpoint:       item.Endpoint,
			CombinationKey: item.Combination.Key(),
			Params:         item.Params,
			Reason:         reason,
			Permanent:      permanent,
			FailedAt:       s.now().UTC(),
		}
		if err := s.ledger.Record(ctx, rec); err != nil {
			s.logger.ErrorContext(ctx, "record collection failure",
				"endpoint", item.Endpoint,
				"combination", rec.CombinationKey,
				"error", err,
			)
		}
	}

	s.logger.WarnContext(ctx, "collection item failed",
		"endpoint", item.Endpoint,
		"combination", row.CombinationKey,
		"permanent", permanent,
		"error", cause,
	)
	return row
}

func normalizeWorkerCount(value int, itemCount int) int {
	if itemCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > itemCount {
		value = itemCount
	}
	return value
}
