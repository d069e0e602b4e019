package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/courtdata/statsync/internal/domain/registry"
)

func writeContracts(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contracts.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write contracts fixture: %v", err)
	}
	return path
}

func TestLoadContracts(t *testing.T) {
	t.Parallel()

	path := writeContracts(t, `[
		{
			"name": "leaguegamelog",
			"params": ["league_id", "season", "season_type"],
			"produces": "game"
		},
		{
			"name": "boxscoretraditional",
			"params": ["game_id"],
			"static": {"start_period": "0", "end_period": "10"}
		}
	]`)

	contracts, err := LoadContracts(path)
	if err != nil {
		t.Fatalf("LoadContracts error: %v", err)
	}
	if len(contracts) != 2 {
		t.Fatalf("expected 2 contracts, got=%d", len(contracts))
	}
	if contracts[0].Produces != registry.DomainGame {
		t.Fatalf("unexpected producer domain: %s", contracts[0].Produces)
	}
	if contracts[1].Static["start_period"] != "0" {
		t.Fatalf("static params not loaded: %+v", contracts[1].Static)
	}
}

func TestLoadContractsRejectsBadInput(t *testing.T) {
	t.Parallel()

	if _, err := LoadContracts(writeContracts(t, `[]`)); err == nil {
		t.Fatalf("empty catalog must fail")
	}
	if _, err := LoadContracts(writeContracts(t, `[{"params": ["season"]}]`)); err == nil {
		t.Fatalf("missing name must fail")
	}
	if _, err := LoadContracts(writeContracts(t, `[
		{"name": "a", "params": []},
		{"name": "a", "params": []}
	]`)); err == nil {
		t.Fatalf("duplicate names must fail")
	}
	if _, err := LoadContracts(writeContracts(t, `[{"name": "a", "produces": "arena"}]`)); err == nil {
		t.Fatalf("unknown produced domain must fail")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ServiceName != "statsync" {
		t.Fatalf("unexpected service name: %s", cfg.ServiceName)
	}
	if cfg.MaxWorkers != 4 {
		t.Fatalf("unexpected default workers: %d", cfg.MaxWorkers)
	}
	if len(cfg.Leagues) != 1 || cfg.Leagues[0] != "00" {
		t.Fatalf("unexpected default leagues: %v", cfg.Leagues)
	}
}
