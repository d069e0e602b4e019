package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/courtdata/statsync/internal/domain/failure"
	failuremock "github.com/courtdata/statsync/internal/mocks/domain/failure"
	"github.com/stretchr/testify/mock"
)

func TestExecutorService_Execute_RecordsPermanentFailureUsingMockery(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		errs: map[string]error{
			"0022300099": errors.New("status 400: invalid game id"),
		},
	}
	ledger := failuremock.NewLedger(t)
	ledger.
		On("Record", mock.Anything, mock.MatchedBy(func(rec failure.Record) bool {
			return rec.Endpoint == "boxscoretraditional" &&
				rec.CombinationKey == "game_id=0022300099" &&
				rec.Permanent
		})).
		Return(nil).
		Once()

	svc := NewExecutorService(provider, &stubWriter{}, ledger, nil)
	result, err := svc.Execute(context.Background(), executorItems("0022300099"), ExecuteInput{MaxWorkers: 1})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.FailedCount != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if !result.Items[0].Permanent {
		t.Fatalf("item row must carry durability: %+v", result.Items[0])
	}
}
