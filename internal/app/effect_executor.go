// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/stargate/internal/core/duty"
	"github.com/example/stargate/internal/core/effects"
	"github.com/example/stargate/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) (*ExecutionResult, error)
}

// ExecutionResult collects the IDs assigned by create effects, keyed by entity.
type ExecutionResult struct {
	Created map[string]int64
}

// DefaultEffectExecutor implements EffectExecutor against the repositories.
// Callers wanting atomicity run Execute inside TransactionManager.RunInTx.
type DefaultEffectExecutor struct {
	dutyRepo   secondary.AstronautDutyRepository
	detailRepo secondary.AstronautDetailRepository
	logger     *slog.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(
	dutyRepo secondary.AstronautDutyRepository,
	detailRepo secondary.AstronautDetailRepository,
	logger *slog.Logger,
) *DefaultEffectExecutor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DefaultEffectExecutor{
		dutyRepo:   dutyRepo,
		detailRepo: detailRepo,
		logger:     logger,
	}
}

// Execute processes a slice of effects, executing each in sequence.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) (*ExecutionResult, error) {
	result := &ExecutionResult{Created: make(map[string]int64)}
	if err := e.execute(ctx, effs, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (e *DefaultEffectExecutor) execute(ctx context.Context, effs []effects.Effect, result *ExecutionResult) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff, result); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect, result *ExecutionResult) error {
	switch typed := eff.(type) {
	case effects.PersistEffect:
		return e.executePersist(ctx, typed, result)
	case effects.CompositeEffect:
		return e.execute(ctx, typed.Effects, result)
	case effects.LogEffect:
		e.executeLog(ctx, typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executePersist(ctx context.Context, eff effects.PersistEffect, result *ExecutionResult) error {
	switch eff.Entity {
	case duty.EntityDuty:
		return e.executeDutyOp(ctx, eff, result)
	case duty.EntityDetail:
		return e.executeDetailOp(ctx, eff, result)
	default:
		return fmt.Errorf("unknown entity: %s", eff.Entity)
	}
}

func (e *DefaultEffectExecutor) executeDutyOp(ctx context.Context, eff effects.PersistEffect, result *ExecutionResult) error {
	switch eff.Operation {
	case duty.OpClose:
		data, ok := eff.Data.(duty.DutyClosure)
		if !ok {
			return fmt.Errorf("invalid duty close data type: %T", eff.Data)
		}
		return e.dutyRepo.Close(ctx, data.DutyID, data.EndDate)
	case duty.OpCreate:
		data, ok := eff.Data.(duty.NewDuty)
		if !ok {
			return fmt.Errorf("invalid duty create data type: %T", eff.Data)
		}
		record := &secondary.AstronautDutyRecord{
			PersonID:      data.PersonID,
			Rank:          data.Rank,
			DutyTitle:     data.DutyTitle,
			DutyStartDate: data.StartDate,
		}
		if err := e.dutyRepo.Create(ctx, record); err != nil {
			return err
		}
		result.Created[duty.EntityDuty] = record.ID
		return nil
	default:
		return fmt.Errorf("unknown duty operation: %s", eff.Operation)
	}
}

func (e *DefaultEffectExecutor) executeDetailOp(ctx context.Context, eff effects.PersistEffect, result *ExecutionResult) error {
	data, ok := eff.Data.(duty.DetailState)
	if !ok {
		return fmt.Errorf("invalid detail data type: %T", eff.Data)
	}
	record := &secondary.AstronautDetailRecord{
		ID:               data.ID,
		PersonID:         data.PersonID,
		CurrentRank:      data.CurrentRank,
		CurrentDutyTitle: data.CurrentDutyTitle,
		CareerStartDate:  data.CareerStartDate,
		CareerEndDate:    data.CareerEndDate,
	}

	switch eff.Operation {
	case duty.OpCreate:
		if err := e.detailRepo.Create(ctx, record); err != nil {
			return err
		}
		result.Created[duty.EntityDetail] = record.ID
		return nil
	case duty.OpUpdate:
		return e.detailRepo.Update(ctx, record)
	default:
		return fmt.Errorf("unknown detail operation: %s", eff.Operation)
	}
}

func (e *DefaultEffectExecutor) executeLog(ctx context.Context, eff effects.LogEffect) {
	attrs := make([]slog.Attr, 0, len(eff.Fields))
	for k, v := range eff.Fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	e.logger.LogAttrs(ctx, logLevel(eff.Level), eff.Message, attrs...)
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
