package action

import (
	"hearthfield/internal/domain/catalog"
	"hearthfield/internal/domain/forage"
)

type eatActionHandler struct{}

func (eatActionHandler) Perform(ac *ActionContext) Outcome {
	cost := ac.Kind.EatCost
	if _, err := ac.State.AddResource(ac.Resource, -cost); err != nil {
		return Outcome{Reason: ReasonConditionFailed}
	}
	ac.State.AdjustHunger(ac.Kind.HungerRestore)
	return Outcome{Performed: true, Attempted: true, Amount: cost}
}

type feastActionHandler struct{}

func (feastActionHandler) Perform(ac *ActionContext) Outcome {
	cost := FeastCost(ac.Kind, ac.State.Hunger())
	if _, err := ac.State.AddResource(ac.Resource, -cost); err != nil {
		return Outcome{Reason: ReasonConditionFailed}
	}
	ac.State.SetHunger(forage.MaxHunger)
	return Outcome{Performed: true, Attempted: true, Amount: cost}
}

// FeastCost is the number of units needed to bring hunger back to the
// maximum, rounded up to whole eat portions.
func FeastCost(kind catalog.ResourceKind, hunger int) int {
	missing := forage.MaxHunger - hunger
	if missing <= 0 || kind.HungerRestore <= 0 {
		return 0
	}
	portions := (missing + kind.HungerRestore - 1) / kind.HungerRestore
	return portions * kind.EatCost
}
