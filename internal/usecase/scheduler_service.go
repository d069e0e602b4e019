package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/courtdata/statsync/internal/domain/endpoint"
	"github.com/courtdata/statsync/internal/domain/registry"
	"github.com/courtdata/statsync/internal/platform/logging"
)

type TaskState string

const (
	TaskStatePending  TaskState = "pending"
	TaskStateEligible TaskState = "eligible"
	TaskStateRunning  TaskState = "running"
	TaskStateDone     TaskState = "done"
	TaskStateFailed   TaskState = "failed"
)

type schedulerTask struct {
	contract endpoint.Contract
	state    TaskState
	deps     []registry.Domain
	blocked  bool
}

// SchedulerService orders endpoint processing by registry dependencies.
// Registry producers run first; an endpoint keyed on entity identifiers
// becomes eligible only once every registry it reads is populated and its
// producing endpoint, when one is configured, has finished. Dependents of a
// failed producer never become eligible in this run.
type SchedulerService struct {
	registries registry.Store
	logger     *logging.Logger

	mu        sync.Mutex
	order     []string
	tasks     map[string]*schedulerTask
	producers map[registry.Domain]string
}

func NewSchedulerService(contracts []endpoint.Contract, registries registry.Store, logger *logging.Logger) (*SchedulerService, error) {
	if len(contracts) == 0 {
		return nil, fmt.Errorf("%w: at least one endpoint contract is required", ErrInvalidInput)
	}
	if logger == nil {
		logger = logging.Default()
	}

	s := &SchedulerService{
		registries: registries,
		logger:     logger,
		order:      make([]string, 0, len(contracts)),
		tasks:      make(map[string]*schedulerTask, len(contracts)),
		producers:  make(map[registry.Domain]string, 3),
	}

	for _, contract := range contracts {
		if err := contract.Validate(); err != nil {
			return nil, fmt.Errorf("%w: contract %s: %v", ErrInvalidInput, contract.Name, err)
		}
		if _, dup := s.tasks[contract.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate endpoint contract %s", ErrInvalidInput, contract.Name)
		}
		if contract.IsProducer() {
			if other, dup := s.producers[contract.Produces]; dup {
				return nil, fmt.Errorf("%w: both %s and %s produce the %s registry", ErrInvalidInput, other, contract.Name, contract.Produces)
			}
			s.producers[contract.Produces] = contract.Name
		}
		s.order = append(s.order, contract.Name)
		s.tasks[contract.Name] = &schedulerTask{
			contract: contract,
			state:    TaskStatePending,
			deps:     contract.DependsOn(),
		}
	}
	return s, nil
}

// Refresh recomputes eligibility for every pending task against the current
// registry state. Call it after each completed task; completing a producer
// can unlock its dependents.
func (s *SchedulerService) Refresh(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SchedulerService.Refresh")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	ready := make(map[registry.Domain]bool, 3)
	for _, name := range s.order {
		task := s.tasks[name]
		if task.state != TaskStatePending {
			continue
		}

		eligible := true
		task.blocked = false
		for _, dep := range task.deps {
			if producer, ok := s.producers[dep]; ok {
				switch s.tasks[producer].state {
				case TaskStateFailed:
					task.blocked = true
					eligible = false
				case TaskStateDone:
					// Producer finished; registry readiness still decides.
				default:
					eligible = false
				}
				if !eligible {
					break
				}
			}

			populated, checked := ready[dep]
			if !checked {
				var err error
				populated, err = s.registryPopulated(ctx, dep)
				if err != nil {
					return err
				}
				ready[dep] = populated
			}
			if !populated {
				eligible = false
				break
			}
		}

		if eligible {
			task.state = TaskStateEligible
		}
	}
	return nil
}

func (s *SchedulerService) registryPopulated(ctx context.Context, domain registry.Domain) (bool, error) {
	if s.registries == nil {
		return false, fmt.Errorf("%w: no registry store configured", ErrRegistryUnavailable)
	}
	exists, err := s.registries.Exists(ctx, domain)
	if err != nil {
		return false, fmt.Errorf("check %s registry: %w", domain, err)
	}
	if !exists {
		return false, nil
	}
	count, err := s.registries.RowCount(ctx, domain)
	if err != nil {
		return false, fmt.Errorf("count %s registry: %w", domain, err)
	}
	return count > 0, nil
}

// Next hands out the first eligible task in declaration order and marks it
// running. ok is false when nothing is currently eligible.
func (s *SchedulerService) Next() (endpoint.Contract, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range s.order {
		task := s.tasks[name]
		if task.state != TaskStateEligible {
			continue
		}
		task.state = TaskStateRunning
		return task.contract, true
	}
	return endpoint.Contract{}, false
}

func (s *SchedulerService) MarkDone(name string) error {
	return s.finish(name, TaskStateDone)
}

func (s *SchedulerService) MarkFailed(name string) error {
	return s.finish(name, TaskStateFailed)
}

func (s *SchedulerService) finish(name string, state TaskState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[name]
	if !ok {
		return fmt.Errorf("%w: unknown endpoint %s", ErrNotFound, name)
	}
	if task.state != TaskStateRunning {
		return fmt.Errorf("%w: endpoint %s is %s, not running", ErrInvalidInput, name, task.state)
	}
	task.state = state
	return nil
}

// Blocked lists pending endpoints whose producing dependency failed. They
// cannot become eligible until the producer succeeds in a later run.
func (s *SchedulerService) Blocked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, name := range s.order {
		task := s.tasks[name]
		if task.state == TaskStatePending && task.blocked {
			out = append(out, name)
		}
	}
	return out
}

// States returns a snapshot of every task's state.
func (s *SchedulerService) States() map[string]TaskState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]TaskState, len(s.tasks))
	for name, task := range s.tasks {
		out[name] = task.state
	}
	return out
}

// Finished reports whether no task can make further progress.
func (s *SchedulerService) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, task := range s.tasks {
		switch task.state {
		case TaskStateEligible, TaskStateRunning:
			return false
		case TaskStatePending:
			if !task.blocked {
				return false
			}
		}
	}
	return true
}
