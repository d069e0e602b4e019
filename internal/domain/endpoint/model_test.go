package endpoint

import (
	"testing"

	"github.com/courtdata/statsync/internal/domain/registry"
)

func TestRecognizeAxesCanonicalOrder(t *testing.T) {
	t.Parallel()

	contract := Contract{
		Name: "playergamelog",
		// Declared out of order on purpose; recognition reorders.
		Params: []string{"player_id", "season_type", "league_id", "season", "game_date"},
	}

	axes := contract.Axes()
	wantNames := []string{"league_id", "season", "season_type", "player_id"}
	if len(axes) != len(wantNames) {
		t.Fatalf("expected %d axes, got=%d", len(wantNames), len(axes))
	}
	for i, axis := range axes {
		if axis.Name != wantNames[i] {
			t.Fatalf("axis %d = %s, want %s", i, axis.Name, wantNames[i])
		}
	}
	if axes[3].Kind != KindEntity || axes[3].Domain != registry.DomainPlayer {
		t.Fatalf("player_id must be a player entity axis, got %+v", axes[3])
	}
}

func TestRecognizeAxesKeepsContractSpelling(t *testing.T) {
	t.Parallel()

	contract := Contract{
		Name:   "commonplayerinfo",
		Params: []string{"person_id", "season_nullable"},
	}

	axes := contract.Axes()
	if len(axes) != 2 {
		t.Fatalf("expected 2 axes, got=%d", len(axes))
	}
	if axes[0].Name != "season_nullable" || axes[0].Kind != KindSeason {
		t.Fatalf("unexpected season axis: %+v", axes[0])
	}
	if axes[1].Name != "person_id" || axes[1].Domain != registry.DomainPlayer {
		t.Fatalf("unexpected entity axis: %+v", axes[1])
	}
}

func TestRecognizeAxesOneAxisPerDimension(t *testing.T) {
	t.Parallel()

	contract := Contract{
		Name:   "weird",
		Params: []string{"season", "season_nullable", "player_id", "person_id"},
	}

	axes := contract.Axes()
	if len(axes) != 2 {
		t.Fatalf("expected one season axis and one player axis, got %+v", axes)
	}
	if axes[0].Name != "season" {
		t.Fatalf("ranked recognition must prefer season over season_nullable, got %s", axes[0].Name)
	}
	if axes[1].Name != "player_id" {
		t.Fatalf("ranked recognition must prefer player_id over person_id, got %s", axes[1].Name)
	}
}

func TestDependsOnSkipsProducedDomain(t *testing.T) {
	t.Parallel()

	producer := Contract{
		Name:     "leaguegamelog",
		Params:   []string{"season", "season_type"},
		Produces: registry.DomainGame,
	}
	if deps := producer.DependsOn(); len(deps) != 0 {
		t.Fatalf("producer without entity axes must have no deps, got %v", deps)
	}

	consumer := Contract{
		Name:   "boxscoretraditional",
		Params: []string{"game_id"},
	}
	deps := consumer.DependsOn()
	if len(deps) != 1 || deps[0] != registry.DomainGame {
		t.Fatalf("expected game dependency, got %v", deps)
	}
}

func TestCombinationKey(t *testing.T) {
	t.Parallel()

	combo := Combination{
		{Name: "season", Value: "2023-24"},
		{Name: "season_type", Value: "Regular Season"},
	}
	if got := combo.Key(); got != "season=2023-24|season_type=Regular Season" {
		t.Fatalf("unexpected key: %s", got)
	}

	if got := (Combination{}).Key(); got != "" {
		t.Fatalf("empty combination key must be empty, got %q", got)
	}
}
