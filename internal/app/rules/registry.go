// Package rules compiles the catalog's chain conditions into engine
// predicates. Conditions are CEL expressions over the primary action context.
package rules

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"

	"hearthfield/internal/app/action"
	"hearthfield/internal/domain/catalog"
	"hearthfield/internal/domain/forage"
)

var ErrInvalidExpression = errors.New("invalid rule expression")

// Registry holds the CEL environment. Programs share the registry's random
// source through the chance() function.
type Registry struct {
	env    *cel.Env
	logger *slog.Logger
}

func NewRegistry(rng forage.Rand, logger *slog.Logger) (*Registry, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrInvalidExpression)
	}
	if logger == nil {
		logger = slog.Default()
	}
	env, err := cel.NewEnv(
		cel.Variable("resource", cel.StringType),
		cel.Variable("action", cel.StringType),
		cel.Variable("hunger", cel.IntType),
		cel.Variable("tick", cel.IntType),
		cel.Variable("planted", cel.BoolType),
		cel.Variable("ready", cel.BoolType),
		cel.Variable("quantity", cel.MapType(cel.StringType, cel.IntType)),

		cel.Function("chance",
			cel.Overload("chance_double",
				[]*cel.Type{cel.DoubleType},
				cel.BoolType,
				cel.UnaryBinding(func(val ref.Val) ref.Val {
					p, ok := val.Value().(float64)
					if !ok {
						return types.NewErr("chance: expected double, got %T", val.Value())
					}
					return types.Bool(rng.Float64() < p)
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Registry{env: env, logger: logger}, nil
}

// Compile parses and type-checks a boolean expression.
func (r *Registry) Compile(expr string) (cel.Program, error) {
	ast, issues := r.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidExpression, expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: %q evaluates to %s, want bool", ErrInvalidExpression, expr, ast.OutputType())
	}
	prg, err := r.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL program error: %w", err)
	}
	return prg, nil
}

// Eval compiles and runs expr against the context in one go.
func (r *Registry) Eval(expr string, cc action.ConditionContext) (bool, error) {
	prg, err := r.Compile(expr)
	if err != nil {
		return false, err
	}
	return evalBool(prg, cc)
}

// Condition wraps expr as an engine predicate. Evaluation errors count as a
// failed condition.
func (r *Registry) Condition(expr string) (action.Condition, error) {
	prg, err := r.Compile(expr)
	if err != nil {
		return action.Condition{}, err
	}
	return action.Condition{Name: expr, Check: func(cc action.ConditionContext) bool {
		ok, err := evalBool(prg, cc)
		if err != nil {
			r.logger.Warn("rule evaluation failed", "expr", expr, "err", err)
			return false
		}
		return ok
	}}, nil
}

func (r *Registry) CompileChains(defs []catalog.ChainDef) ([]action.ChainBinding, error) {
	out := make([]action.ChainBinding, 0, len(defs))
	for _, def := range defs {
		conds := make([]action.Condition, 0, len(def.When))
		for _, expr := range def.When {
			cond, err := r.Condition(expr)
			if err != nil {
				return nil, fmt.Errorf("chain %s -> %s_%s: %w", def.Action, def.ChainedAction, def.Target, err)
			}
			conds = append(conds, cond)
		}
		out = append(out, action.ChainBinding{
			On: def.Action,
			Rule: action.ChainRule{
				Target:     def.Target,
				Action:     def.ChainedAction,
				Conditions: conds,
			},
		})
	}
	return out, nil
}

// Activation builds the CEL variables for a condition context.
func Activation(cc action.ConditionContext) map[string]any {
	vars := map[string]any{
		"resource": string(cc.Resource),
		"action":   string(cc.Action),
		"hunger":   int64(0),
		"tick":     int64(0),
		"planted":  false,
		"ready":    false,
		"quantity": map[string]int64{},
	}
	st := cc.State
	if st == nil {
		return vars
	}
	qty := make(map[string]int64, len(st.ResourceIDs()))
	for _, id := range st.ResourceIDs() {
		qty[string(id)] = int64(st.Quantity(id))
	}
	ps := st.Planting()
	vars["hunger"] = int64(st.Hunger())
	vars["tick"] = st.CurrentTick()
	vars["planted"] = ps.Planted
	vars["ready"] = ps.Ready
	vars["quantity"] = qty
	return vars
}

func evalBool(prg cel.Program, cc action.ConditionContext) (bool, error) {
	out, _, err := prg.Eval(Activation(cc))
	if err != nil {
		return false, fmt.Errorf("CEL eval error: %w", err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL eval error: non-bool result %T", out.Value())
	}
	return b, nil
}
