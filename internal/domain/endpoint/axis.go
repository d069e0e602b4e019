package endpoint

import (
	"strings"

	"github.com/courtdata/statsync/internal/domain/registry"
)

// AxisKind classifies one dimension of an endpoint's parameter space.
type AxisKind string

const (
	KindLeague     AxisKind = "league"
	KindSeason     AxisKind = "season"
	KindSeasonType AxisKind = "season_type"
	KindEntity     AxisKind = "entity"
)

// Axis is one recognized dimension. Name keeps the contract's own parameter
// spelling so emitted work items use the spelling the upstream expects.
// Domain is set for entity axes only.
type Axis struct {
	Name   string
	Kind   AxisKind
	Domain registry.Domain
}

type axisAlias struct {
	name   string
	kind   AxisKind
	domain registry.Domain
}

// axisCatalog is the declarative recognition table: every parameter spelling
// the upstream uses for an enumerable dimension, ranked. Recognition walks
// this list in order, so when a contract carries two spellings of the same
// dimension the earlier one wins.
var axisCatalog = []axisAlias{
	{name: "league_id", kind: KindLeague},
	{name: "league_id_nullable", kind: KindLeague},
	{name: "season", kind: KindSeason},
	{name: "season_nullable", kind: KindSeason},
	{name: "season_type", kind: KindSeasonType},
	{name: "season_type_nullable", kind: KindSeasonType},
	{name: "season_type_all_star", kind: KindSeasonType},
	{name: "game_id", kind: KindEntity, domain: registry.DomainGame},
	{name: "player_id", kind: KindEntity, domain: registry.DomainPlayer},
	{name: "person_id", kind: KindEntity, domain: registry.DomainPlayer},
	{name: "team_id", kind: KindEntity, domain: registry.DomainTeam},
}

// AxisAliases returns every recognized spelling for the given kind (and
// domain, for entity axes), ranked. Projection uses it to find the matching
// result-store column when spellings drift.
func AxisAliases(kind AxisKind, domain registry.Domain) []string {
	out := make([]string, 0, 3)
	for _, alias := range axisCatalog {
		if alias.kind != kind {
			continue
		}
		if kind == KindEntity && alias.domain != domain {
			continue
		}
		out = append(out, alias.name)
	}
	return out
}

// recognizeAxes matches a contract's parameter names against the catalog and
// returns the recognized axes in canonical order: league, season,
// season-type, then entity axes. One axis per dimension; parameters that
// match nothing are left for the caller to supply statically.
func recognizeAxes(params []string) []Axis {
	present := make(map[string]struct{}, len(params))
	for _, p := range params {
		present[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}

	byKind := make(map[AxisKind]Axis, 4)
	var entities []Axis
	seenDomains := make(map[registry.Domain]struct{}, 2)

	for _, alias := range axisCatalog {
		if _, ok := present[alias.name]; !ok {
			continue
		}

		axis := Axis{Name: alias.name, Kind: alias.kind, Domain: alias.domain}
		if alias.kind == KindEntity {
			if _, dup := seenDomains[alias.domain]; dup {
				continue
			}
			seenDomains[alias.domain] = struct{}{}
			entities = append(entities, axis)
			continue
		}
		if _, dup := byKind[alias.kind]; dup {
			continue
		}
		byKind[alias.kind] = axis
	}

	out := make([]Axis, 0, 3+len(entities))
	for _, kind := range []AxisKind{KindLeague, KindSeason, KindSeasonType} {
		if axis, ok := byKind[kind]; ok {
			out = append(out, axis)
		}
	}
	out = append(out, entities...)
	return out
}
