package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/courtdata/statsync/internal/domain/endpoint"
)

type stubProvider struct {
	payloads map[string]Payload
	errs     map[string]error
}

func (s *stubProvider) Fetch(_ context.Context, _ string, params map[string]string) (Payload, error) {
	key := params["game_id"]
	if err, ok := s.errs[key]; ok {
		return Payload{}, err
	}
	return s.payloads[key], nil
}

type stubWriter struct {
	mu     sync.Mutex
	writes []string
	err    error
}

func (s *stubWriter) Write(_ context.Context, _ string, params map[string]string, _ Payload) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, params["game_id"])
	return nil
}

func executorItems(ids ...string) []endpoint.WorkItem {
	out := make([]endpoint.WorkItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, endpoint.WorkItem{
			Endpoint:    "boxscoretraditional",
			Combination: endpoint.Combination{{Name: "game_id", Value: id}},
			Params:      map[string]string{"game_id": id},
		})
	}
	return out
}

func TestExecutorService_Execute_MixedOutcomes(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		payloads: map[string]Payload{
			"0022300001": {Columns: []string{"gameid", "pts"}, Rows: [][]string{{"0022300001", "110"}}},
			"0022300002": {}, // upstream has nothing for this game
		},
		errs: map[string]error{
			"0022300003": errors.New("status 400: invalid game id"),
			"0022300004": errors.New("connection reset by peer"),
		},
	}
	writer := &stubWriter{}
	ledger := &stubLedger{}
	svc := NewExecutorService(provider, writer, ledger, nil)

	result, err := svc.Execute(context.Background(),
		executorItems("0022300001", "0022300002", "0022300003", "0022300004"),
		ExecuteInput{MaxWorkers: 2},
	)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if result.SuccessCount != 1 || result.SkippedCount != 1 || result.FailedCount != 2 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(writer.writes) != 1 || writer.writes[0] != "0022300001" {
		t.Fatalf("unexpected writes: %v", writer.writes)
	}

	// Rows come back keyed and ordered regardless of worker interleaving.
	if len(result.Items) != 4 {
		t.Fatalf("expected 4 item rows, got=%d", len(result.Items))
	}
	for i := 1; i < len(result.Items); i++ {
		if result.Items[i-1].CombinationKey > result.Items[i].CombinationKey {
			t.Fatalf("item rows are not sorted: %+v", result.Items)
		}
	}

	if len(ledger.recorded) != 2 {
		t.Fatalf("expected 2 ledger records, got=%d", len(ledger.recorded))
	}
	byKey := make(map[string]bool, len(ledger.recorded))
	for _, rec := range ledger.recorded {
		byKey[rec.CombinationKey] = rec.Permanent
	}
	if !byKey["game_id=0022300003"] {
		t.Fatalf("invalid game id failure must be permanent")
	}
	if byKey["game_id=0022300004"] {
		t.Fatalf("connection reset must stay retryable")
	}
}

func TestExecutorService_Execute_DryRun(t *testing.T) {
	t.Parallel()

	writer := &stubWriter{}
	svc := NewExecutorService(&stubProvider{}, writer, &stubLedger{}, nil)

	result, err := svc.Execute(context.Background(),
		executorItems("0022300001", "0022300002"),
		ExecuteInput{DryRun: true},
	)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.SkippedCount != 2 || result.SuccessCount != 0 || result.FailedCount != 0 {
		t.Fatalf("unexpected dry run counts: %+v", result)
	}
	if len(writer.writes) != 0 {
		t.Fatalf("dry run must not write, got %v", writer.writes)
	}
}

func TestExecutorService_Execute_NotConfigured(t *testing.T) {
	t.Parallel()

	svc := NewExecutorService(nil, nil, nil, nil)
	_, err := svc.Execute(context.Background(), executorItems("0022300001"), ExecuteInput{})
	if !errors.Is(err, ErrDependencyNotReady) {
		t.Fatalf("expected ErrDependencyNotReady, got %v", err)
	}
}
