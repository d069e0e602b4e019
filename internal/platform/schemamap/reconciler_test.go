package schemamap

import "testing"

func TestResolveColumnRankedOrder(t *testing.T) {
	r := New(nil)

	tests := []struct {
		name      string
		domain    string
		available []string
		want      string
		wantOK    bool
	}{
		{
			name:      "player prefers personid over player_id",
			domain:    "player",
			available: []string{"player_id", "personid", "season"},
			want:      "personid",
			wantOK:    true,
		},
		{
			name:      "game falls through to id",
			domain:    "game",
			available: []string{"season", "id"},
			want:      "id",
			wantOK:    true,
		},
		{
			name:      "case insensitive match keeps original spelling",
			domain:    "team",
			available: []string{"TeamID", "name"},
			want:      "TeamID",
			wantOK:    true,
		},
		{
			name:      "no candidate present",
			domain:    "player",
			available: []string{"season", "pts"},
			wantOK:    false,
		},
		{
			name:      "unknown domain",
			domain:    "arena",
			available: []string{"id"},
			wantOK:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := r.ResolveColumn(tc.domain, tc.available)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if got != tc.want {
				t.Fatalf("column = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestZeroValueUsesDefaults(t *testing.T) {
	var r Reconciler
	got, ok := r.ResolveColumn("game", []string{"game_id"})
	if !ok || got != "game_id" {
		t.Fatalf("got %q, %v", got, ok)
	}
}
