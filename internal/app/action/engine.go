package action

import (
	"errors"
	"fmt"
	"log/slog"

	"hearthfield/internal/domain/catalog"
	"hearthfield/internal/domain/forage"
)

var (
	ErrUnknownActionType = errors.New("unknown action type")
	ErrMalformedRule     = errors.New("malformed action rule")
)

// Engine resolves actions against a game state. It keeps no game state of its
// own but its random source is not safe for concurrent use, so callers
// serialize dispatches.
type Engine struct {
	catalog *catalog.Catalog
	rules   map[forage.ActionType]ActionRule
	rand    forage.Rand
	logger  *slog.Logger
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRule replaces the registered rule for rule.Type.
func WithRule(rule ActionRule) Option {
	return func(e *Engine) {
		e.rules[rule.Type] = rule
	}
}

func WithChains(bindings ...ChainBinding) Option {
	return func(e *Engine) {
		for _, b := range bindings {
			rule := e.rules[b.On]
			rule.Chain = append(rule.Chain, b.Rule)
			e.rules[b.On] = rule
		}
	}
}

func NewEngine(cat *catalog.Catalog, rng forage.Rand, opts ...Option) (*Engine, error) {
	if cat == nil || rng == nil {
		return nil, fmt.Errorf("%w: catalog and random source are required", ErrMalformedRule)
	}
	e := &Engine{
		catalog: cat,
		rules:   actionRegistry(cat),
		rand:    rng,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.validateRules(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) validateRules() error {
	for t, rule := range e.rules {
		if rule.Handler == nil {
			return fmt.Errorf("%w: %s has no perform handler", ErrMalformedRule, t)
		}
		if rule.Type != t {
			return fmt.Errorf("%w: rule registered as %s declares %s", ErrMalformedRule, t, rule.Type)
		}
		for _, ch := range rule.Chain {
			if _, ok := e.rules[ch.Action]; !ok {
				return fmt.Errorf("%w: %s chains unknown action %s", ErrMalformedRule, t, ch.Action)
			}
			if !e.catalog.HasResource(ch.Target) {
				return fmt.Errorf("%w: %s chains unknown resource %s", ErrMalformedRule, t, ch.Target)
			}
		}
	}
	return nil
}

func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

func (e *Engine) Rule(t forage.ActionType) (ActionRule, bool) {
	rule, ok := e.rules[t]
	return rule, ok
}

// AvailableActions lists the unlocked actions the engine can dispatch.
func (e *Engine) AvailableActions(st *forage.State) []forage.ActionKey {
	keys := st.UnlockedActions()
	out := keys[:0]
	for _, key := range keys {
		if _, ok := e.rules[key.Action]; ok {
			out = append(out, key)
		}
	}
	return out
}

// PerformNamedAction runs one player action. Rejections come back as a
// Result with Performed=false; errors are reserved for unknown action types,
// unknown resources and broken rules.
func (e *Engine) PerformNamedAction(st *forage.State, resource forage.ResourceID, actionType forage.ActionType) (Result, error) {
	rule, ok := e.rules[actionType]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownActionType, actionType)
	}
	kind, err := e.resolveResource(st, resource)
	if err != nil {
		return Result{}, err
	}
	key := forage.NewActionKey(actionType, resource)
	if !st.IsActionUnlocked(key) {
		return Result{Action: key, Reason: ReasonLocked}, nil
	}

	res := e.run(st, rule, kind, false)
	if res.Performed {
		cc := ConditionContext{Resource: resource, Action: actionType, State: st}
		for _, ch := range rule.Chain {
			if !conditionsHold(ch.Conditions, cc) {
				continue
			}
			sub, err := e.runChained(st, ch)
			if err != nil {
				return res, err
			}
			e.logger.Debug("chain triggered", "from", key.String(), "to", sub.Action.String(), "performed", sub.Performed)
			res.Chained = append(res.Chained, sub)
		}
	}
	e.chargeHunger(st, rule, &res)
	return res, nil
}

func (e *Engine) resolveResource(st *forage.State, resource forage.ResourceID) (catalog.ResourceKind, error) {
	kind, err := e.catalog.Resource(resource)
	if err != nil {
		return catalog.ResourceKind{}, err
	}
	if !st.HasResource(resource) {
		return catalog.ResourceKind{}, &forage.NotFoundError{Kind: "resource", ID: string(resource)}
	}
	return kind, nil
}

// runChained performs a chain entry. Chained actions skip the unlock check and
// never process chains of their own.
func (e *Engine) runChained(st *forage.State, ch ChainRule) (Result, error) {
	rule, ok := e.rules[ch.Action]
	if !ok {
		return Result{}, fmt.Errorf("%w: chained action %s", ErrMalformedRule, ch.Action)
	}
	kind, err := e.resolveResource(st, ch.Target)
	if err != nil {
		return Result{}, err
	}
	res := e.run(st, rule, kind, true)
	e.chargeHunger(st, rule, &res)
	return res, nil
}

func (e *Engine) run(st *forage.State, rule ActionRule, kind catalog.ResourceKind, chained bool) Result {
	res := Result{Action: forage.NewActionKey(rule.Type, kind.ID), ViaChain: chained}
	if rule.BlockWhenStarving && st.Starving() {
		res.Reason = ReasonStarving
		return res
	}

	cc := ConditionContext{Resource: kind.ID, Action: rule.Type, State: st}
	for _, cond := range rule.Conditions {
		if cond.Check != nil && !cond.Check(cc) {
			res.Reason = ReasonConditionFailed
			res.FailedCondition = cond.Name
			e.track(st, rule, kind.ID, forage.FailedAttempt())
			return res
		}
	}

	out := rule.Handler.Perform(&ActionContext{
		Resource: kind.ID,
		Kind:     kind,
		Rule:     rule,
		State:    st,
		Catalog:  e.catalog,
		Rand:     e.rand,
		Chained:  chained,
	})
	res.Performed = out.Performed
	res.Attempted = out.Attempted || out.Performed
	res.Amount = out.Amount
	res.Gained = out.Gained
	res.AffectsHunger = out.AffectsHunger
	res.Reason = out.Reason
	if out.Performed {
		e.track(st, rule, kind.ID, forage.SuccessfulAttempt(out.Gained))
	} else {
		e.track(st, rule, kind.ID, forage.FailedAttempt())
	}
	return res
}

func (e *Engine) chargeHunger(st *forage.State, rule ActionRule, res *Result) {
	if rule.HungerCost <= 0 {
		res.AffectsHunger = false
		return
	}
	charge := (res.Performed && res.AffectsHunger) ||
		(!res.Performed && res.Attempted && rule.AlwaysConsumesHunger)
	if !charge {
		res.AffectsHunger = false
		return
	}
	before := st.Hunger()
	res.HungerSpent = before - st.AdjustHunger(-rule.HungerCost)
	res.AffectsHunger = true
}

func (e *Engine) track(st *forage.State, rule ActionRule, resource forage.ResourceID, delta forage.InteractionStats) {
	if rule.Untracked {
		return
	}
	st.Tracker().Record(resource, rule.Type, delta)
}

func conditionsHold(conds []Condition, cc ConditionContext) bool {
	for _, cond := range conds {
		if cond.Check != nil && !cond.Check(cc) {
			return false
		}
	}
	return true
}
