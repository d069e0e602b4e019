package hoopstats

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/courtdata/statsync/internal/platform/resilience"
)

func TestClient_Fetch_FlattensResultSet(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("season"); got != "2023-24" {
			t.Errorf("season param = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"resource": "leaguegamelog",
			"resultSets": [{
				"name": "LeagueGameLog",
				"headers": ["GAME_ID", "PTS", "WL"],
				"rowSet": [["0022300001", 110, "W"], ["0022300002", null, "L"]]
			}]
		}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL})
	payload, err := client.Fetch(context.Background(), "leaguegamelog", map[string]string{"season": "2023-24"})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if len(payload.Columns) != 3 || payload.Columns[0] != "GAME_ID" {
		t.Fatalf("unexpected columns: %v", payload.Columns)
	}
	if len(payload.Rows) != 2 {
		t.Fatalf("expected 2 rows, got=%d", len(payload.Rows))
	}
	if payload.Rows[0][1] != "110" {
		t.Fatalf("numeric value must render without exponent, got %q", payload.Rows[0][1])
	}
	if payload.Rows[1][1] != "" {
		t.Fatalf("null must render empty, got %q", payload.Rows[1][1])
	}
}

func TestClient_Fetch_ClientErrorIsPermanent(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "Invalid Game ID", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, MaxRetries: 3})
	_, err := client.Fetch(context.Background(), "boxscoretraditional", map[string]string{"game_id": "nope"})
	if err == nil {
		t.Fatalf("expected error")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if !statusErr.PermanentFailure() {
		t.Fatalf("400 must be permanent")
	}
	if calls.Load() != 1 {
		t.Fatalf("client errors must not be retried, got %d calls", calls.Load())
	}
}

func TestClient_Fetch_ServerErrorRetriesThenTripsBreaker(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL:    srv.URL,
		MaxRetries: 1,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			HalfOpenMaxReq:   1,
		},
	})

	_, err := client.Fetch(context.Background(), "leaguegamelog", nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.PermanentFailure() {
		t.Fatalf("502 must stay transient")
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one retry, got %d calls", calls.Load())
	}

	// The breaker is open now; the next call must not reach the server.
	_, err = client.Fetch(context.Background(), "leaguegamelog", nil)
	if err == nil {
		t.Fatalf("expected circuit rejection")
	}
	if calls.Load() != 2 {
		t.Fatalf("open circuit must short-circuit, got %d calls", calls.Load())
	}
}
