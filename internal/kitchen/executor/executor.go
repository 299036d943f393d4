// Package executor runs kitchen commands through the constraint gate and, on
// success, applies the write and its outbox event in one transaction.
package executor

import (
	"context"
	stderrors "errors"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/harvestline/kitchenops/internal/kitchen/command"
	"github.com/harvestline/kitchenops/internal/kitchen/constraint"
	"github.com/harvestline/kitchenops/internal/kitchen/storage"
	"github.com/harvestline/kitchenops/internal/platform/errors"
	"github.com/harvestline/kitchenops/internal/platform/id"
)

const tracerName = "github.com/harvestline/kitchenops/internal/kitchen/executor"

// Status classifies the outcome of a command execution.
type Status string

const (
	// StatusApplied means the write and its outbox event committed.
	StatusApplied Status = "applied"
	// StatusBlocked means a blocking constraint stopped the command. The
	// command may be resubmitted with an override.
	StatusBlocked Status = "blocked"
	// StatusRejected means a structural failure stopped the command.
	// Rejections are never override-able.
	StatusRejected Status = "rejected"
)

// Result is the single return value of a command execution. Exactly one of
// the three statuses applies; callers switch on Status and handle all arms.
type Result struct {
	Status      Status
	AggregateID string
	// Outcomes records every rule evaluation in catalog order, passed
	// rules included. Triggered() narrows to the ones that fired.
	Outcomes constraint.Outcomes
	// Overridden lists the blocking constraint IDs suppressed by an
	// override on an applied command.
	Overridden []string
	// Rejection carries the structural failure when Status is rejected.
	Rejection *errors.Error
}

// OverridePolicy decides whether an actor may override a blocking constraint.
type OverridePolicy interface {
	CanOverride(ctx context.Context, actorID, constraintID string) bool
}

// PermitAllPolicy allows any authenticated actor to override any constraint.
type PermitAllPolicy struct{}

// CanOverride always returns true.
func (PermitAllPolicy) CanOverride(context.Context, string, string) bool { return true }

// ViewInvalidator is notified after a command commits so read models can
// refresh. Invalidation failures are logged, never surfaced.
type ViewInvalidator interface {
	Invalidate(ctx context.Context, tenantID string, aggregateType command.AggregateType, aggregateID string)
}

// ViewInvalidatorFunc adapts a function to ViewInvalidator.
type ViewInvalidatorFunc func(ctx context.Context, tenantID string, aggregateType command.AggregateType, aggregateID string)

// Invalidate calls the wrapped function.
func (f ViewInvalidatorFunc) Invalidate(ctx context.Context, tenantID string, aggregateType command.AggregateType, aggregateID string) {
	f(ctx, tenantID, aggregateType, aggregateID)
}

// Config assembles an Executor. Store and Engine are required; the rest
// default to production implementations.
type Config struct {
	Store       storage.Store
	Engine      *constraint.Engine
	Policy      OverridePolicy
	Invalidator ViewInvalidator
	Now         func() time.Time
	NewID       func() (string, error)
	Logger      *log.Logger
}

// Executor runs commands against the store through the constraint gate.
type Executor struct {
	store       storage.Store
	engine      *constraint.Engine
	policy      OverridePolicy
	invalidator ViewInvalidator
	now         func() time.Time
	newID       func() (string, error)
	logger      *log.Logger
	tracer      trace.Tracer
}

// New creates an executor from the config.
func New(cfg Config) (*Executor, error) {
	if cfg.Store == nil {
		return nil, stderrors.New("store is required")
	}
	if cfg.Engine == nil {
		return nil, stderrors.New("engine is required")
	}
	if cfg.Policy == nil {
		cfg.Policy = PermitAllPolicy{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = id.NewID
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Executor{
		store:       cfg.Store,
		engine:      cfg.Engine,
		policy:      cfg.Policy,
		invalidator: cfg.Invalidator,
		now:         cfg.Now,
		newID:       cfg.NewID,
		logger:      cfg.Logger,
		tracer:      otel.Tracer(tracerName),
	}, nil
}

// Execute runs a command without an override. Blocking constraints stop it.
func (e *Executor) Execute(ctx context.Context, cmd command.Command) Result {
	return e.execute(ctx, cmd, nil)
}

// ExecuteWithOverride resubmits a blocked command with an override request.
// Blocking constraints are re-evaluated against fresh state; only
// acknowledged and authorized ones are suppressed.
func (e *Executor) ExecuteWithOverride(ctx context.Context, cmd command.Command, override command.OverrideRequest) Result {
	return e.execute(ctx, cmd, &override)
}

// errHalt aborts the transaction after the result has been captured.
var errHalt = stderrors.New("halt")

func (e *Executor) execute(ctx context.Context, cmd command.Command, override *command.OverrideRequest) Result {
	ctx, span := e.tracer.Start(ctx, "kitchen.execute",
		trace.WithAttributes(
			attribute.String("command.type", string(cmd.Type)),
			attribute.String("command.aggregate", string(cmd.Type.Aggregate())),
			attribute.Bool("command.override", override != nil),
		))
	defer span.End()

	result := e.run(ctx, cmd, override)
	span.SetAttributes(attribute.String("command.result", string(result.Status)))

	if result.Status == StatusApplied {
		for _, outcome := range result.Outcomes.Triggered() {
			if outcome.Severity == constraint.SeverityWarn {
				e.logger.Printf("warn constraint %s on %s %s: %s",
					outcome.ConstraintID, cmd.Type, result.AggregateID, outcome.Message)
			}
		}
		if e.invalidator != nil {
			e.invalidator.Invalidate(ctx, cmd.TenantID, cmd.Type.Aggregate(), result.AggregateID)
		}
	}
	return result
}

func (e *Executor) run(ctx context.Context, cmd command.Command, override *command.OverrideRequest) Result {
	if err := cmd.Validate(); err != nil {
		return rejected(cmd.AggregateID, rejectionFrom(err))
	}
	if override != nil {
		if err := override.Validate(); err != nil {
			return rejected(cmd.AggregateID, rejectionFrom(err))
		}
		if override.ActorID != cmd.ActorID {
			return rejected(cmd.AggregateID, errors.WithMetadata(errors.CodeOverrideActorMismatch,
				"override actor does not match command actor",
				map[string]string{"ActorID": override.ActorID}))
		}
	}

	apply, ok := registry[cmd.Type]
	if !ok {
		return rejected(cmd.AggregateID, errors.WithMetadata(errors.CodeCommandTypeUnknown,
			"no handler for command type", map[string]string{"CommandType": string(cmd.Type)}))
	}

	var result Result
	err := e.store.WithinTx(ctx, func(uow storage.UnitOfWork) error {
		state, err := e.loadState(ctx, uow, cmd)
		if err != nil {
			result = rejected(cmd.AggregateID, rejectionFrom(err))
			return errHalt
		}

		outcomes := e.engine.Evaluate(cmd, state)
		blocking := outcomes.Blocking()

		var overridden []string
		if len(blocking) > 0 {
			if override == nil {
				result = Result{Status: StatusBlocked, AggregateID: cmd.AggregateID, Outcomes: outcomes}
				return errHalt
			}
			for _, outcome := range blocking {
				if !override.Acknowledges(outcome.ConstraintID) {
					result = Result{Status: StatusBlocked, AggregateID: cmd.AggregateID, Outcomes: outcomes}
					return errHalt
				}
				if !e.policy.CanOverride(ctx, cmd.ActorID, outcome.ConstraintID) {
					result = rejected(cmd.AggregateID, errors.WithMetadata(errors.CodeOverrideNotAuthorized,
						"actor may not override constraint",
						map[string]string{"ConstraintID": outcome.ConstraintID}))
					return errHalt
				}
			}
			overridden = blocking.IDs()
		}

		draft, err := apply(ctx, applyDeps{uow: uow, now: e.now, newID: e.newID}, cmd, state)
		if err != nil {
			result = rejected(cmd.AggregateID, rejectionFrom(err))
			return errHalt
		}

		now := e.now().UTC()
		for _, constraintID := range overridden {
			recordID, err := e.newID()
			if err != nil {
				result = rejected(draft.AggregateID, rejectionFrom(err))
				return errHalt
			}
			record := storage.OverrideRecord{
				ID:            recordID,
				TenantID:      cmd.TenantID,
				AggregateType: string(cmd.Type.Aggregate()),
				AggregateID:   draft.AggregateID,
				ConstraintID:  constraintID,
				ReasonCode:    string(override.ReasonCode),
				Details:       override.Details,
				ActorID:       cmd.ActorID,
				CreatedAt:     now,
			}
			if err := uow.RecordOverride(ctx, record); err != nil {
				result = rejected(draft.AggregateID, rejectionFrom(err))
				return errHalt
			}
		}

		event, err := e.buildOutboxEvent(cmd, draft, outcomes, override, overridden, now)
		if err != nil {
			result = rejected(draft.AggregateID, rejectionFrom(err))
			return errHalt
		}
		if err := uow.EnqueueOutboxEvent(ctx, event); err != nil {
			result = rejected(draft.AggregateID, rejectionFrom(err))
			return errHalt
		}

		result = Result{
			Status:      StatusApplied,
			AggregateID: draft.AggregateID,
			Outcomes:    outcomes,
			Overridden:  overridden,
		}
		return nil
	})
	if err != nil && !stderrors.Is(err, errHalt) {
		return rejected(cmd.AggregateID, rejectionFrom(err))
	}
	return result
}

// loadState reads the current aggregate state for non-create commands.
func (e *Executor) loadState(ctx context.Context, uow storage.UnitOfWork, cmd command.Command) (constraint.State, error) {
	if cmd.Type.IsCreate() {
		return constraint.State{}, nil
	}

	switch cmd.Type.Aggregate() {
	case command.AggregateMenu:
		menu, err := uow.GetMenu(ctx, cmd.TenantID, cmd.AggregateID)
		if err != nil {
			return constraint.State{}, err
		}
		count, err := uow.CountMenuDishes(ctx, cmd.TenantID, cmd.AggregateID)
		if err != nil {
			return constraint.State{}, err
		}
		return constraint.State{Menu: &menu, MenuDishCount: count}, nil
	case command.AggregateDish:
		dish, err := uow.GetDish(ctx, cmd.TenantID, cmd.AggregateID)
		if err != nil {
			return constraint.State{}, err
		}
		return constraint.State{Dish: &dish}, nil
	case command.AggregatePrepList:
		list, err := uow.GetPrepList(ctx, cmd.TenantID, cmd.AggregateID)
		if err != nil {
			return constraint.State{}, err
		}
		return constraint.State{PrepList: &list}, nil
	default:
		return constraint.State{}, errors.WithMetadata(errors.CodeCommandTypeUnknown,
			"unknown aggregate", map[string]string{"CommandType": string(cmd.Type)})
	}
}

func rejected(aggregateID string, rejection *errors.Error) Result {
	return Result{Status: StatusRejected, AggregateID: aggregateID, Rejection: rejection}
}

// rejectionFrom maps any failure to a structured rejection. Domain errors
// pass through; missing rows become not-found; everything else is an
// infrastructure failure.
func rejectionFrom(err error) *errors.Error {
	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	if stderrors.Is(err, storage.ErrNotFound) {
		return errors.New(errors.CodeNotFound, "not found or access denied")
	}
	return errors.Wrap(errors.CodeInfrastructureFailure, "storage failure", err)
}
