package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/courtdata/statsync/internal/domain/endpoint"
	"github.com/courtdata/statsync/internal/domain/failure"
	"github.com/courtdata/statsync/internal/domain/result"
	"github.com/courtdata/statsync/internal/platform/logging"
	"github.com/courtdata/statsync/internal/platform/schemamap"
)

// ResolverService computes what remains to collect for an endpoint: the
// generated combination space minus what the result store already holds,
// minus permanently failed combinations.
type ResolverService struct {
	combos   *CombinationService
	results  result.Store
	failures failure.Ledger
	schema   *schemamap.Reconciler
	logger   *logging.Logger
}

func NewResolverService(
	combos *CombinationService,
	results result.Store,
	failures failure.Ledger,
	schema *schemamap.Reconciler,
	logger *logging.Logger,
) *ResolverService {
	if schema == nil {
		schema = schemamap.New(nil)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ResolverService{
		combos:   combos,
		results:  results,
		failures: failures,
		schema:   schema,
		logger:   logger,
	}
}

// ResolveReport summarizes one resolution pass.
type ResolveReport struct {
	Endpoint  string              `json:"endpoint"`
	SpaceSize int                 `json:"space_size"`
	Collected int                 `json:"collected"`
	Excluded  int                 `json:"excluded"`
	Missing   []endpoint.WorkItem `json:"-"`
}

// Missing resolves the endpoint's outstanding work. The returned items
// follow the space's generation order, so two passes against unchanged
// state produce identical lists. A collected combination that falls outside
// the generated space fails the pass with ErrCollectedOutsideSpace; that
// means either the space definition or the collected data is wrong, and
// neither should be papered over.
func (s *ResolverService) Missing(ctx context.Context, contract endpoint.Contract) (ResolveReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResolverService.Missing")
	defer span.End()

	space, err := s.combos.Build(ctx, contract)
	if err != nil {
		return ResolveReport{}, err
	}

	collected, err := s.collectedKeys(ctx, contract, space)
	if err != nil {
		return ResolveReport{}, err
	}

	excluded := map[string]struct{}{}
	if s.failures != nil {
		excluded, err = s.failures.Excluded(ctx, contract.Name)
		if err != nil {
			return ResolveReport{}, fmt.Errorf("load failure exclusions for %s: %w", contract.Name, err)
		}
	}

	report := ResolveReport{
		Endpoint:  contract.Name,
		SpaceSize: space.Size(),
		Collected: len(collected),
	}

	for _, combo := range space.Combos {
		key := combo.Key()
		if _, ok := collected[key]; ok {
			continue
		}
		if _, ok := excluded[key]; ok {
			report.Excluded++
			continue
		}
		report.Missing = append(report.Missing, endpoint.WorkItem{
			Endpoint:    contract.Name,
			Combination: combo,
			Params:      mergeParams(contract.Static, combo),
		})
	}

	s.logger.InfoContext(ctx, "resolved missing combinations",
		"endpoint", contract.Name,
		"space_size", report.SpaceSize,
		"collected", report.Collected,
		"excluded", report.Excluded,
		"missing", len(report.Missing),
	)
	return report, nil
}

// collectedKeys projects the result store onto the endpoint's axes and
// returns the set of already-collected combination keys.
func (s *ResolverService) collectedKeys(ctx context.Context, contract endpoint.Contract, space endpoint.Space) (map[string]struct{}, error) {
	if s.results == nil {
		return map[string]struct{}{}, nil
	}

	cols, ok, err := s.results.Columns(ctx, contract.Name)
	if err != nil {
		return nil, fmt.Errorf("inspect collected columns for %s: %w", contract.Name, err)
	}
	if !ok {
		// Nothing collected yet. An absent table is an empty set, not an
		// error.
		return map[string]struct{}{}, nil
	}

	if len(space.Axes) == 0 {
		// A no-axis endpoint is collected once its table exists.
		return map[string]struct{}{"": {}}, nil
	}

	physical := make([]string, 0, len(space.Axes))
	for _, axis := range space.Axes {
		col, err := s.resolveAxisColumn(contract.Name, axis, cols)
		if err != nil {
			return nil, err
		}
		physical = append(physical, col)
	}

	tuples, err := s.results.Distinct(ctx, contract.Name, physical)
	if err != nil {
		return nil, fmt.Errorf("load collected combinations for %s: %w", contract.Name, err)
	}

	spaceKeys := space.KeySet()
	out := make(map[string]struct{}, len(tuples))
	for _, tuple := range tuples {
		if len(tuple) != len(space.Axes) {
			return nil, fmt.Errorf("%w: %s returned %d columns for %d axes", ErrSchemaAmbiguous, contract.Name, len(tuple), len(space.Axes))
		}

		combo := make(endpoint.Combination, 0, len(tuple))
		incomplete := false
		for i, raw := range tuple {
			value := strings.TrimSpace(raw)
			if value == "" {
				incomplete = true
				break
			}
			combo = append(combo, endpoint.Pair{Name: space.Axes[i].Name, Value: value})
		}
		if incomplete {
			continue
		}

		key := combo.Key()
		if _, inSpace := spaceKeys[key]; !inSpace {
			return nil, fmt.Errorf("%w: %s has collected %q", ErrCollectedOutsideSpace, contract.Name, key)
		}
		out[key] = struct{}{}
	}
	return out, nil
}

func (s *ResolverService) resolveAxisColumn(endpointName string, axis endpoint.Axis, available []string) (string, error) {
	if axis.Kind == endpoint.KindEntity {
		col, ok := s.schema.ResolveColumn(string(axis.Domain), available)
		if !ok {
			return "", fmt.Errorf("%w: no %s identifier column in %s", ErrSchemaAmbiguous, axis.Domain, endpointName)
		}
		return col, nil
	}

	present := make(map[string]string, len(available))
	for _, col := range available {
		present[strings.ToLower(strings.TrimSpace(col))] = col
	}
	for _, alias := range endpoint.AxisAliases(axis.Kind, "") {
		if col, ok := present[alias]; ok {
			return col, nil
		}
	}
	return "", fmt.Errorf("%w: no %s column in %s", ErrSchemaAmbiguous, axis.Kind, endpointName)
}

func mergeParams(static map[string]string, combo endpoint.Combination) map[string]string {
	out := make(map[string]string, len(static)+len(combo))
	for k, v := range static {
		out[k] = v
	}
	for _, pair := range combo {
		out[pair.Name] = pair.Value
	}
	return out
}
