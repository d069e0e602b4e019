// Package schemamap resolves logical identifier columns against the columns
// a table actually has. Upstream responses spell the same identifier several
// ways (person_id vs player_id, with and without underscores), so lookups go
// through ranked candidate lists instead of fixed names.
package schemamap

import "strings"

// DefaultCandidates maps each entity domain to its ranked column spellings.
// Order matters: the first candidate present in a table wins.
var DefaultCandidates = map[string][]string{
	"game":   {"gameid", "game_id", "id"},
	"player": {"personid", "player_id", "playerid", "person_id", "id"},
	"team":   {"teamid", "team_id", "id"},
}

// Reconciler resolves a domain's identifier column from a list of available
// columns. The zero value uses DefaultCandidates.
type Reconciler struct {
	candidates map[string][]string
}

func New(candidates map[string][]string) *Reconciler {
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	return &Reconciler{candidates: candidates}
}

// ResolveColumn returns the first ranked candidate for domain present in
// available, comparing case-insensitively. ok is false when no candidate
// matches; the caller decides whether that is ambiguity or absence.
func (r *Reconciler) ResolveColumn(domain string, available []string) (string, bool) {
	candidates := r.lookup(domain)
	if len(candidates) == 0 {
		return "", false
	}

	present := make(map[string]string, len(available))
	for _, col := range available {
		present[strings.ToLower(strings.TrimSpace(col))] = col
	}

	for _, candidate := range candidates {
		if col, ok := present[candidate]; ok {
			return col, true
		}
	}
	return "", false
}

// Candidates returns the ranked spellings for domain.
func (r *Reconciler) Candidates(domain string) []string {
	return append([]string(nil), r.lookup(domain)...)
}

func (r *Reconciler) lookup(domain string) []string {
	if r == nil || len(r.candidates) == 0 {
		return DefaultCandidates[strings.ToLower(domain)]
	}
	return r.candidates[strings.ToLower(domain)]
}
