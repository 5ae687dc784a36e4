package action

import "hearthfield/internal/domain/forage"

// processActionHandler covers grind and bake. Every click consumes one input
// unit; the click that reaches the recipe count produces one output unit.
type processActionHandler struct{}

func (processActionHandler) Perform(ac *ActionContext) Outcome {
	recipe, ok := ac.Catalog.Recipe(ac.Rule.Type, ac.Resource)
	if !ok {
		return Outcome{Reason: ReasonNoRecipe}
	}
	if _, err := ac.State.AddResource(recipe.Input, -1); err != nil {
		return Outcome{Reason: ReasonConditionFailed}
	}

	key := forage.NewActionKey(ac.Rule.Type, ac.Resource)
	out := Outcome{Performed: true, Attempted: true, Amount: 1, AffectsHunger: true}
	if ac.State.AddProcessClick(key) < recipe.Clicks {
		return out
	}
	ac.State.ResetProcessClicks(key)
	gained, err := ac.State.AddResource(recipe.Output, 1)
	if err != nil {
		return out
	}
	_, _ = ac.State.MarkDiscovered(recipe.Output)
	out.Gained = gained
	return out
}
