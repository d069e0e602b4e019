package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/courtdata/statsync/internal/domain/endpoint"
	"github.com/courtdata/statsync/internal/domain/league"
	"github.com/courtdata/statsync/internal/domain/registry"
	"github.com/courtdata/statsync/internal/platform/logging"
)

// CombinationService generates the full parameter space of an endpoint from
// its recognized axes. Spaces are pure values: built on demand from the
// league catalog and the current registries, never persisted, and emitted in
// a fixed order so two builds against unchanged state are identical.
type CombinationService struct {
	leagues     []league.League
	registries  registry.Store
	throughYear int
	logger      *logging.Logger
}

// NewCombinationService wires the generator. throughYear is the start year
// of the newest season to include; zero means the previous calendar year,
// the newest season guaranteed to have started.
func NewCombinationService(leagues []league.League, registries registry.Store, throughYear int, logger *logging.Logger) *CombinationService {
	if len(leagues) == 0 {
		leagues = league.Defaults()
	}
	if throughYear <= 0 {
		throughYear = time.Now().Year() - 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CombinationService{
		leagues:     leagues,
		registries:  registries,
		throughYear: throughYear,
		logger:      logger,
	}
}

// Build generates the endpoint's combination space. An endpoint with no
// recognized axes yields exactly one empty combination, meaning "call once".
// Entity axes require the backing registry: a missing table fails with
// ErrRegistryUnavailable and an empty one with ErrDependencyNotReady, never a
// silently partial space.
func (s *CombinationService) Build(ctx context.Context, contract endpoint.Contract) (endpoint.Space, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CombinationService.Build")
	defer span.End()

	if err := contract.Validate(); err != nil {
		return endpoint.Space{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	axes := contract.Axes()

	var leagueAxis, seasonAxis, typeAxis *endpoint.Axis
	var entityAxes []endpoint.Axis
	for i := range axes {
		switch axes[i].Kind {
		case endpoint.KindLeague:
			leagueAxis = &axes[i]
		case endpoint.KindSeason:
			seasonAxis = &axes[i]
		case endpoint.KindSeasonType:
			typeAxis = &axes[i]
		case endpoint.KindEntity:
			entityAxes = append(entityAxes, axes[i])
		}
	}

	ids, err := s.loadRegistryIDs(ctx, contract, entityAxes)
	if err != nil {
		return endpoint.Space{}, err
	}

	var prefixes [][]endpoint.Pair
	if leagueAxis != nil {
		// Seasons and season types nest under the league so single-year
		// WNBA seasons never pair with the NBA league id.
		for _, lg := range s.leagues {
			prefixes = append(prefixes, expandLeague(lg, leagueAxis, seasonAxis, typeAxis, s.throughYear)...)
		}
	} else {
		scope := s.leagues[:1]
		if contract.LeagueScoped {
			scope = s.leagues
		}
		prefixes = expandWithoutLeagueAxis(scope, seasonAxis, typeAxis, s.throughYear)
	}

	combos := prefixes
	for _, axis := range entityAxes {
		domainIDs := ids[axis.Domain]
		next := make([][]endpoint.Pair, 0, len(combos)*len(domainIDs))
		for _, prefix := range combos {
			for _, id := range domainIDs {
				pairs := make([]endpoint.Pair, 0, len(prefix)+1)
				pairs = append(pairs, prefix...)
				pairs = append(pairs, endpoint.Pair{Name: axis.Name, Value: id})
				next = append(next, pairs)
			}
		}
		combos = next
	}

	space := endpoint.Space{
		Endpoint: contract.Name,
		Axes:     axes,
		Combos:   make([]endpoint.Combination, 0, len(combos)),
	}
	for _, pairs := range combos {
		space.Combos = append(space.Combos, endpoint.Combination(pairs))
	}

	s.logger.DebugContext(ctx, "combination space built",
		"endpoint", contract.Name,
		"axes", len(axes),
		"size", space.Size(),
	)
	return space, nil
}

func (s *CombinationService) loadRegistryIDs(ctx context.Context, contract endpoint.Contract, entityAxes []endpoint.Axis) (map[registry.Domain][]string, error) {
	if len(entityAxes) == 0 {
		return nil, nil
	}
	if s.registries == nil {
		return nil, fmt.Errorf("%w: no registry store configured", ErrRegistryUnavailable)
	}

	out := make(map[registry.Domain][]string, len(entityAxes))
	for _, axis := range entityAxes {
		exists, err := s.registries.Exists(ctx, axis.Domain)
		if err != nil {
			return nil, fmt.Errorf("check %s registry for %s: %w", axis.Domain, contract.Name, err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: %s registry table is missing", ErrRegistryUnavailable, axis.Domain)
		}

		snap, err := s.registries.Get(ctx, axis.Domain)
		if err != nil {
			return nil, fmt.Errorf("load %s registry for %s: %w", axis.Domain, contract.Name, err)
		}
		if snap.Empty() {
			return nil, fmt.Errorf("%w: %s registry is empty", ErrDependencyNotReady, axis.Domain)
		}

		ids := append([]string(nil), snap.IDs...)
		sort.Strings(ids)
		out[axis.Domain] = ids
	}
	return out, nil
}

func expandLeague(lg league.League, leagueAxis, seasonAxis, typeAxis *endpoint.Axis, throughYear int) [][]endpoint.Pair {
	seasons := []string{""}
	if seasonAxis != nil {
		seasons = lg.Seasons(throughYear)
	}
	types := []string{""}
	if typeAxis != nil {
		types = lg.SeasonTypes
	}

	out := make([][]endpoint.Pair, 0, len(seasons)*len(types))
	for _, season := range seasons {
		for _, seasonType := range types {
			pairs := []endpoint.Pair{{Name: leagueAxis.Name, Value: lg.ID}}
			if seasonAxis != nil {
				pairs = append(pairs, endpoint.Pair{Name: seasonAxis.Name, Value: season})
			}
			if typeAxis != nil {
				pairs = append(pairs, endpoint.Pair{Name: typeAxis.Name, Value: seasonType})
			}
			out = append(out, pairs)
		}
	}
	return out
}

// expandWithoutLeagueAxis covers endpoints that take seasons without a
// league parameter. The season and season-type domains are the ordered union
// across the in-scope leagues so no combination key can repeat.
func expandWithoutLeagueAxis(scope []league.League, seasonAxis, typeAxis *endpoint.Axis, throughYear int) [][]endpoint.Pair {
	seasons := []string{""}
	if seasonAxis != nil {
		seasons = unionValues(scope, func(lg league.League) []string { return lg.Seasons(throughYear) })
	}
	types := []string{""}
	if typeAxis != nil {
		types = unionValues(scope, func(lg league.League) []string { return lg.SeasonTypes })
	}

	out := make([][]endpoint.Pair, 0, len(seasons)*len(types))
	for _, season := range seasons {
		for _, seasonType := range types {
			var pairs []endpoint.Pair
			if seasonAxis != nil {
				pairs = append(pairs, endpoint.Pair{Name: seasonAxis.Name, Value: season})
			}
			if typeAxis != nil {
				pairs = append(pairs, endpoint.Pair{Name: typeAxis.Name, Value: seasonType})
			}
			out = append(out, pairs)
		}
	}
	return out
}

func unionValues(scope []league.League, pick func(league.League) []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, lg := range scope {
		for _, v := range pick(lg) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}
