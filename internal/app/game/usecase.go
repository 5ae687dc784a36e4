// Package game is the serialized entry point for one running game: every
// call runs under the tx manager, then fans out to the journal and metrics.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hearthfield/internal/app/action"
	"hearthfield/internal/app/ports"
	"hearthfield/internal/app/rules"
	"hearthfield/internal/app/techtree"
	"hearthfield/internal/domain/catalog"
	"hearthfield/internal/domain/forage"
)

var ErrInvalidRequest = errors.New("invalid game request")

// MaxTickBatch bounds a single AdvanceTick call.
const MaxTickBatch = 10000

const (
	EventActionPerformed = "action_performed"
	EventActionRejected  = "action_rejected"
	EventTechUnlocked    = "technology_unlocked"
	EventTechRejected    = "technology_rejected"
	EventCropMatured     = "crop_matured"
	EventTrackerReset    = "tracker_reset"
)

type UseCase struct {
	TxManager ports.TxManager
	Engine    *action.Engine
	Tech      *techtree.Orchestrator
	State     *forage.State
	Events    ports.EventRepository
	Metrics   ports.GameMetrics
	SessionID string
	Now       func() time.Time
	Logger    *slog.Logger
}

// BuildEngine wires the catalog's CEL chain declarations into an action
// engine sharing rng.
func BuildEngine(cat *catalog.Catalog, rng forage.Rand, logger *slog.Logger) (*action.Engine, error) {
	reg, err := rules.NewRegistry(rng, logger)
	if err != nil {
		return nil, err
	}
	chains, err := reg.CompileChains(cat.Chains())
	if err != nil {
		return nil, fmt.Errorf("compile chains: %w", err)
	}
	return action.NewEngine(cat, rng, action.WithLogger(logger), action.WithChains(chains...))
}

func (u UseCase) PerformAction(ctx context.Context, req ActionRequest) (ActionResponse, error) {
	actionType, err := u.resolveAction(req.Action)
	if err != nil {
		return ActionResponse{}, err
	}
	resource, err := u.resolveResource(req.Resource)
	if err != nil {
		return ActionResponse{}, err
	}

	var out ActionResponse
	applied := false
	err = u.TxManager.RunInTx(ctx, func(ctx context.Context) error {
		res, err := u.Engine.PerformNamedAction(u.State, resource, actionType)
		if err != nil {
			return err
		}
		applied = true
		out = ActionResponse{Result: res, State: u.State.Snapshot()}
		if !res.Performed {
			u.logger().Debug("action rejected", "action", res.Action.String(), "reason", res.Reason, "condition", res.FailedCondition)
		}
		u.journal(ctx, u.actionEvents(res))
		return nil
	})
	if err := u.settle(err, applied); err != nil {
		return ActionResponse{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordAction(actionType, out.Result.Performed)
		for _, sub := range out.Result.Chained {
			u.Metrics.RecordAction(sub.Action.Action, sub.Performed)
		}
	}
	return out, nil
}

func (u UseCase) UnlockTechnology(ctx context.Context, req UnlockRequest) (UnlockResponse, error) {
	id, err := u.resolveTech(req.TechID)
	if err != nil {
		return UnlockResponse{}, err
	}

	var out UnlockResponse
	applied := false
	err = u.TxManager.RunInTx(ctx, func(ctx context.Context) error {
		res, err := u.Tech.Unlock(u.State, id)
		if err != nil {
			return err
		}
		applied = true
		out = UnlockResponse{Result: res, State: u.State.Snapshot()}
		evtType := EventTechUnlocked
		if !res.Unlocked {
			evtType = EventTechRejected
		}
		payload := map[string]any{
			"tech_id":  string(res.TechID),
			"unlocked": res.Unlocked,
		}
		if res.Reason != techtree.ReasonNone {
			payload["reason"] = string(res.Reason)
		}
		if len(res.Spent) > 0 {
			spent := make(map[string]any, len(res.Spent))
			for rid, n := range res.Spent {
				spent[string(rid)] = n
			}
			payload["spent"] = spent
		}
		u.journal(ctx, []forage.DomainEvent{u.event(evtType, payload)})
		return nil
	})
	if err := u.settle(err, applied); err != nil {
		return UnlockResponse{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordUnlock(out.Result.Unlocked)
	}
	return out, nil
}

// AdvanceTick moves the logical clock count steps, evaluating crop growth
// after each step.
func (u UseCase) AdvanceTick(ctx context.Context, req TickRequest) (TickResponse, error) {
	if req.Count <= 0 || req.Count > MaxTickBatch {
		return TickResponse{}, fmt.Errorf("%w: tick count must be in [1,%d]", ErrInvalidRequest, MaxTickBatch)
	}

	var out TickResponse
	applied := false
	err := u.TxManager.RunInTx(ctx, func(ctx context.Context) error {
		crop := u.Engine.Catalog().Planting().Crop
		var events []forage.DomainEvent
		for i := 0; i < req.Count; i++ {
			out.Tick = u.State.AdvanceTick()
			ps := u.State.Planting()
			if crop == "" || !ps.Planted || ps.Ready {
				continue
			}
			res, err := u.Engine.PerformNamedAction(u.State, crop, forage.ActionGrow)
			if err != nil {
				return err
			}
			if res.Performed {
				out.Matured = true
				events = append(events, u.event(EventCropMatured, map[string]any{
					"crop":            string(crop),
					"planted_at_tick": ps.PlantedAtTick,
				}))
			}
		}
		applied = true
		u.journal(ctx, events)
		return nil
	})
	if err := u.settle(err, applied); err != nil {
		return TickResponse{}, err
	}
	return out, nil
}

func (u UseCase) Status(ctx context.Context) (StatusResponse, error) {
	var out StatusResponse
	err := u.TxManager.RunInTx(ctx, func(context.Context) error {
		out = StatusResponse{
			SessionID:        u.SessionID,
			State:            u.State.Snapshot(),
			AvailableActions: u.Engine.AvailableActions(u.State),
		}
		return nil
	})
	return out, err
}

func (u UseCase) Technologies(ctx context.Context) (TechnologiesResponse, error) {
	var out TechnologiesResponse
	err := u.TxManager.RunInTx(ctx, func(context.Context) error {
		out = TechnologiesResponse{
			Offers:   u.Tech.Offers(u.State),
			Unlocked: u.State.UnlockedTechs(),
			Revealed: u.State.RevealedTechs(),
		}
		return nil
	})
	return out, err
}

// ResetTracker clears interaction statistics. The tick counter is kept.
func (u UseCase) ResetTracker(ctx context.Context) (StatusResponse, error) {
	var out StatusResponse
	applied := false
	err := u.TxManager.RunInTx(ctx, func(ctx context.Context) error {
		u.State.Tracker().Reset()
		applied = true
		out = StatusResponse{
			SessionID:        u.SessionID,
			State:            u.State.Snapshot(),
			AvailableActions: u.Engine.AvailableActions(u.State),
		}
		u.journal(ctx, []forage.DomainEvent{u.event(EventTrackerReset, nil)})
		return nil
	})
	if err := u.settle(err, applied); err != nil {
		return StatusResponse{}, err
	}
	return out, nil
}

// settle decides what a tx error means. Once the state has changed the call
// succeeded; a failure after that point can only come from the journal.
func (u UseCase) settle(err error, applied bool) error {
	if err == nil {
		return nil
	}
	if applied {
		u.logger().Warn("journal commit failed", "session_id", u.SessionID, "err", err)
		return nil
	}
	if u.Metrics != nil {
		u.Metrics.RecordFailure()
	}
	return err
}

func (u UseCase) actionEvents(res action.Result) []forage.DomainEvent {
	events := make([]forage.DomainEvent, 0, 1+len(res.Chained))
	events = append(events, u.actionEvent(res))
	for _, sub := range res.Chained {
		events = append(events, u.actionEvent(sub))
	}
	return events
}

func (u UseCase) actionEvent(res action.Result) forage.DomainEvent {
	evtType := EventActionPerformed
	if !res.Performed {
		evtType = EventActionRejected
	}
	payload := map[string]any{
		"action":       res.Action.String(),
		"performed":    res.Performed,
		"attempted":    res.Attempted,
		"amount":       res.Amount,
		"gained":       res.Gained,
		"hunger_spent": res.HungerSpent,
		"hunger_after": u.State.Hunger(),
		"via_chain":    res.ViaChain,
	}
	if res.Reason != action.ReasonNone {
		payload["reason"] = string(res.Reason)
	}
	if res.FailedCondition != "" {
		payload["failed_condition"] = res.FailedCondition
	}
	return u.event(evtType, payload)
}

func (u UseCase) event(evtType string, payload map[string]any) forage.DomainEvent {
	if payload == nil {
		payload = map[string]any{}
	}
	return forage.DomainEvent{
		ID:         uuid.NewString(),
		Type:       evtType,
		Tick:       u.State.CurrentTick(),
		OccurredAt: u.now(),
		Payload:    payload,
	}
}

func (u UseCase) journal(ctx context.Context, events []forage.DomainEvent) {
	if u.Events == nil || len(events) == 0 {
		return
	}
	if err := u.Events.Append(ctx, u.SessionID, events); err != nil {
		u.logger().Warn("journal append failed", "session_id", u.SessionID, "events", len(events), "err", err)
	}
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger == nil {
		return slog.Default()
	}
	return u.Logger
}
