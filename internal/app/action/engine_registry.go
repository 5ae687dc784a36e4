package action

import (
	"hearthfield/internal/domain/catalog"
	"hearthfield/internal/domain/forage"
)

// ConditionContext is what rule and chain predicates see. For chain
// conditions it describes the primary action, not the chained one.
type ConditionContext struct {
	Resource forage.ResourceID
	Action   forage.ActionType
	State    *forage.State
}

type Condition struct {
	Name  string
	Check func(ConditionContext) bool
}

type ChainRule struct {
	Target     forage.ResourceID
	Action     forage.ActionType
	Conditions []Condition
}

// ChainBinding attaches a chain entry to the rule of action On.
type ChainBinding struct {
	On   forage.ActionType
	Rule ChainRule
}

type ActionRule struct {
	Type                 forage.ActionType
	BlockWhenStarving    bool
	AlwaysConsumesHunger bool
	Untracked            bool
	HungerCost           int
	Conditions           []Condition
	Handler              ActionHandler
	Chain                []ChainRule
}

type ActionHandler interface {
	Perform(ac *ActionContext) Outcome
}

type ActionContext struct {
	Resource forage.ResourceID
	Kind     catalog.ResourceKind
	Rule     ActionRule
	State    *forage.State
	Catalog  *catalog.Catalog
	Rand     forage.Rand
	Chained  bool
}

// Outcome is what a handler reports back to the dispatcher. Amount is the
// number of units of the subject resource added or consumed; Gained is the
// number of units newly produced into the inventory.
type Outcome struct {
	Performed     bool
	Attempted     bool
	Amount        int
	Gained        int
	AffectsHunger bool
	Reason        Reason
}

func actionRegistry(cat *catalog.Catalog) map[forage.ActionType]ActionRule {
	planting := cat.Planting()
	return map[forage.ActionType]ActionRule{
		forage.ActionHarvest: {
			Type:                 forage.ActionHarvest,
			BlockWhenStarving:    true,
			AlwaysConsumesHunger: true,
			HungerCost:           forage.DefaultActionHungerCost,
			Conditions:           []Condition{harvestable(cat), belowCapacity(), cropReadyIfCrop(planting)},
			Handler:              harvestActionHandler{},
		},
		forage.ActionEat: {
			Type:       forage.ActionEat,
			Conditions: []Condition{edible(cat), notSated(), canAffordEat(cat)},
			Handler:    eatActionHandler{},
		},
		forage.ActionFeast: {
			Type:       forage.ActionFeast,
			Conditions: []Condition{edible(cat), notSated(), canAffordFeast(cat)},
			Handler:    feastActionHandler{},
		},
		forage.ActionPlant: {
			Type:              forage.ActionPlant,
			BlockWhenStarving: true,
			HungerCost:        forage.DefaultActionHungerCost,
			Conditions:        []Condition{isCrop(planting), hasSeeds(planting), plotEmpty()},
			Handler:           plantActionHandler{},
		},
		forage.ActionGrow: {
			Type:       forage.ActionGrow,
			Untracked:  true,
			Conditions: []Condition{isCrop(planting), cropPlanted(), cropNotReady()},
			Handler:    growActionHandler{},
		},
		forage.ActionGrind: {
			Type:              forage.ActionGrind,
			BlockWhenStarving: true,
			HungerCost:        forage.DefaultActionHungerCost,
			Conditions:        []Condition{hasRecipe(cat), recipeInputAvailable(cat), recipeOutputHasRoom(cat)},
			Handler:           processActionHandler{},
		},
		forage.ActionBake: {
			Type:              forage.ActionBake,
			BlockWhenStarving: true,
			HungerCost:        forage.DefaultActionHungerCost,
			Conditions:        []Condition{hasRecipe(cat), recipeInputAvailable(cat), recipeOutputHasRoom(cat)},
			Handler:           processActionHandler{},
		},
	}
}
