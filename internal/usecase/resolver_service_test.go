package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/courtdata/statsync/internal/domain/endpoint"
	"github.com/courtdata/statsync/internal/domain/failure"
	"github.com/courtdata/statsync/internal/domain/registry"
)

type stubResultStore struct {
	columns map[string][]string
	tuples  map[string][][]string
}

func (s *stubResultStore) Columns(_ context.Context, endpointName string) ([]string, bool, error) {
	cols, ok := s.columns[endpointName]
	return cols, ok, nil
}

func (s *stubResultStore) Distinct(_ context.Context, endpointName string, _ []string) ([][]string, error) {
	return s.tuples[endpointName], nil
}

type stubLedger struct {
	mu       sync.Mutex
	excluded map[string]map[string]struct{}
	recorded []failure.Record
}

func (s *stubLedger) Record(_ context.Context, rec failure.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorded = append(s.recorded, rec)
	return nil
}

func (s *stubLedger) Excluded(_ context.Context, endpointName string) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(s.excluded[endpointName]))
	for key := range s.excluded[endpointName] {
		out[key] = struct{}{}
	}
	return out, nil
}

func (s *stubLedger) IsExcluded(_ context.Context, endpointName, key string) (bool, error) {
	_, ok := s.excluded[endpointName][key]
	return ok, nil
}

func TestResolverService_Missing_SetDifference(t *testing.T) {
	t.Parallel()

	contract := endpoint.Contract{
		Name:   "leaguegamelog",
		Params: []string{"season", "season_type"},
	}

	// 45 collected combinations: every season type for the first seven
	// seasons, plus three regular seasons on top.
	nba := nbaOnly()[0]
	var tuples [][]string
	for _, season := range nba.Seasons(2002) {
		for _, seasonType := range nba.SeasonTypes {
			tuples = append(tuples, []string{season, seasonType})
		}
	}
	tuples = append(tuples,
		[]string{"2003-04", "Regular Season"},
		[]string{"2004-05", "Regular Season"},
		[]string{"2005-06", "Regular Season"},
	)
	if len(tuples) != 45 {
		t.Fatalf("fixture expects 45 collected tuples, got=%d", len(tuples))
	}

	results := &stubResultStore{
		columns: map[string][]string{"leaguegamelog": {"season", "season_type", "pts"}},
		tuples:  map[string][][]string{"leaguegamelog": tuples},
	}
	ledger := &stubLedger{
		excluded: map[string]map[string]struct{}{
			"leaguegamelog": {
				"season=2003-04|season_type=All Star": {},
				"season=2004-05|season_type=All Star": {},
				"season=2005-06|season_type=IST":      {},
			},
		},
	}

	combos := NewCombinationService(nbaOnly(), &stubRegistryStore{}, 2024, nil)
	svc := NewResolverService(combos, results, ledger, nil, nil)

	report, err := svc.Missing(context.Background(), contract)
	if err != nil {
		t.Fatalf("Missing error: %v", err)
	}

	if report.SpaceSize != 174 {
		t.Fatalf("expected space of 174, got=%d", report.SpaceSize)
	}
	if report.Collected != 45 {
		t.Fatalf("expected 45 collected, got=%d", report.Collected)
	}
	if report.Excluded != 3 {
		t.Fatalf("expected 3 excluded, got=%d", report.Excluded)
	}
	if len(report.Missing) != 126 {
		t.Fatalf("expected 126 missing items, got=%d", len(report.Missing))
	}

	seen := make(map[string]struct{}, len(report.Missing))
	for _, item := range report.Missing {
		key := item.Combination.Key()
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate missing combination %s", key)
		}
		seen[key] = struct{}{}
	}
	for _, tuple := range tuples {
		key := fmt.Sprintf("season=%s|season_type=%s", tuple[0], tuple[1])
		if _, ok := seen[key]; ok {
			t.Fatalf("collected combination %s reappeared as missing", key)
		}
	}
	if _, ok := seen["season=2003-04|season_type=All Star"]; ok {
		t.Fatalf("permanently failed combination reappeared as missing")
	}
}

func TestResolverService_Missing_NothingCollectedYet(t *testing.T) {
	t.Parallel()

	combos := NewCombinationService(nbaOnly(), &stubRegistryStore{}, 2024, nil)
	svc := NewResolverService(combos, &stubResultStore{}, &stubLedger{}, nil, nil)

	report, err := svc.Missing(context.Background(), endpoint.Contract{
		Name:   "leaguegamelog",
		Params: []string{"season", "season_type"},
	})
	if err != nil {
		t.Fatalf("Missing error: %v", err)
	}
	if len(report.Missing) != report.SpaceSize {
		t.Fatalf("expected full space missing, got=%d of %d", len(report.Missing), report.SpaceSize)
	}
}

func TestResolverService_Missing_ConcurrentCallsIdentical(t *testing.T) {
	t.Parallel()

	contract := endpoint.Contract{
		Name:   "leaguegamelog",
		Params: []string{"season", "season_type"},
	}
	results := &stubResultStore{
		columns: map[string][]string{"leaguegamelog": {"season", "season_type"}},
		tuples: map[string][][]string{
			"leaguegamelog": {{"1996-97", "Regular Season"}, {"1996-97", "Playoffs"}},
		},
	}
	combos := NewCombinationService(nbaOnly(), &stubRegistryStore{}, 2024, nil)
	svc := NewResolverService(combos, results, &stubLedger{}, nil, nil)

	const callers = 8
	reports := make([]ResolveReport, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := svc.Missing(context.Background(), contract)
			if err != nil {
				t.Errorf("Missing error: %v", err)
				return
			}
			reports[i] = report
		}()
	}
	wg.Wait()

	want := reports[0]
	for i := 1; i < callers; i++ {
		got := reports[i]
		if len(got.Missing) != len(want.Missing) {
			t.Fatalf("caller %d resolved %d items, caller 0 resolved %d", i, len(got.Missing), len(want.Missing))
		}
		for j := range got.Missing {
			if got.Missing[j].Combination.Key() != want.Missing[j].Combination.Key() {
				t.Fatalf("caller %d diverges at item %d", i, j)
			}
		}
	}
}

func TestResolverService_Missing_CollectedOutsideSpace(t *testing.T) {
	t.Parallel()

	results := &stubResultStore{
		columns: map[string][]string{"leaguegamelog": {"season", "season_type"}},
		tuples: map[string][][]string{
			"leaguegamelog": {{"1987-88", "Regular Season"}},
		},
	}

	combos := NewCombinationService(nbaOnly(), &stubRegistryStore{}, 2024, nil)
	svc := NewResolverService(combos, results, &stubLedger{}, nil, nil)

	_, err := svc.Missing(context.Background(), endpoint.Contract{
		Name:   "leaguegamelog",
		Params: []string{"season", "season_type"},
	})
	if !errors.Is(err, ErrCollectedOutsideSpace) {
		t.Fatalf("expected ErrCollectedOutsideSpace, got %v", err)
	}
}

func TestResolverService_Missing_EntityColumnReconciled(t *testing.T) {
	t.Parallel()

	registries := &stubRegistryStore{
		snapshots: map[registry.Domain]registry.Snapshot{
			registry.DomainPlayer: {
				Domain: registry.DomainPlayer,
				Column: "player_id",
				IDs:    []string{"1629029", "201939", "2544"},
			},
		},
	}
	// The result store spells the identifier PERSONID; the axis is player_id.
	results := &stubResultStore{
		columns: map[string][]string{"playercareerstats": {"PERSONID", "pts"}},
		tuples:  map[string][][]string{"playercareerstats": {{"2544"}}},
	}

	contract := endpoint.Contract{
		Name:   "playercareerstats",
		Params: []string{"player_id"},
	}
	combos := NewCombinationService(nbaOnly(), registries, 2024, nil)
	svc := NewResolverService(combos, results, &stubLedger{}, nil, nil)

	report, err := svc.Missing(context.Background(), contract)
	if err != nil {
		t.Fatalf("Missing error: %v", err)
	}
	if report.Collected != 1 {
		t.Fatalf("expected 1 collected through the reconciled column, got=%d", report.Collected)
	}
	want := []string{"player_id=1629029", "player_id=201939"}
	if len(report.Missing) != len(want) {
		t.Fatalf("expected %d missing items, got=%d", len(want), len(report.Missing))
	}
	for i, item := range report.Missing {
		if item.Combination.Key() != want[i] {
			t.Fatalf("missing %d = %s, want %s", i, item.Combination.Key(), want[i])
		}
	}

	// With no recognizable identifier spelling at all, projection must fail
	// loudly instead of resolving the full space.
	results.columns["playercareerstats"] = []string{"pts", "reb"}
	if _, err := svc.Missing(context.Background(), contract); !errors.Is(err, ErrSchemaAmbiguous) {
		t.Fatalf("expected ErrSchemaAmbiguous, got %v", err)
	}
}

func TestResolverService_Missing_UnmappableAxisColumn(t *testing.T) {
	t.Parallel()

	results := &stubResultStore{
		columns: map[string][]string{"leaguegamelog": {"pts", "reb"}},
	}

	combos := NewCombinationService(nbaOnly(), &stubRegistryStore{}, 2024, nil)
	svc := NewResolverService(combos, results, &stubLedger{}, nil, nil)

	_, err := svc.Missing(context.Background(), endpoint.Contract{
		Name:   "leaguegamelog",
		Params: []string{"season", "season_type"},
	})
	if !errors.Is(err, ErrSchemaAmbiguous) {
		t.Fatalf("expected ErrSchemaAmbiguous, got %v", err)
	}
}
