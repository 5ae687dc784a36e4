package action

import (
	"hearthfield/internal/domain/catalog"
	"hearthfield/internal/domain/forage"
)

func harvestable(cat *catalog.Catalog) Condition {
	return Condition{Name: "harvestable", Check: func(cc ConditionContext) bool {
		kind, err := cat.Resource(cc.Resource)
		if err != nil {
			return false
		}
		extra := cc.State.HarvestModifier(cc.Resource).ExtraYield
		return kind.Yield.Max+extra.Max > 0
	}}
}

func belowCapacity() Condition {
	return Condition{Name: "below_capacity", Check: func(cc ConditionContext) bool {
		return !cc.State.AtCapacity(cc.Resource)
	}}
}

// cropReadyIfCrop only lets the planted crop be harvested once it matured.
func cropReadyIfCrop(p catalog.Planting) Condition {
	return Condition{Name: "crop_ready", Check: func(cc ConditionContext) bool {
		if p.Crop == "" || cc.Resource != p.Crop {
			return true
		}
		return cc.State.Planting().Ready
	}}
}

func edible(cat *catalog.Catalog) Condition {
	return Condition{Name: "edible", Check: func(cc ConditionContext) bool {
		kind, err := cat.Resource(cc.Resource)
		return err == nil && kind.Edible && kind.HungerRestore > 0 && kind.EatCost > 0
	}}
}

func notSated() Condition {
	return Condition{Name: "not_sated", Check: func(cc ConditionContext) bool {
		return cc.State.Hunger() < forage.MaxHunger
	}}
}

func canAffordEat(cat *catalog.Catalog) Condition {
	return Condition{Name: "has_eat_cost", Check: func(cc ConditionContext) bool {
		kind, err := cat.Resource(cc.Resource)
		return err == nil && cc.State.Quantity(cc.Resource) >= kind.EatCost
	}}
}

func canAffordFeast(cat *catalog.Catalog) Condition {
	return Condition{Name: "has_feast_cost", Check: func(cc ConditionContext) bool {
		kind, err := cat.Resource(cc.Resource)
		if err != nil {
			return false
		}
		return cc.State.Quantity(cc.Resource) >= FeastCost(kind, cc.State.Hunger())
	}}
}

func isCrop(p catalog.Planting) Condition {
	return Condition{Name: "is_crop", Check: func(cc ConditionContext) bool {
		return p.Crop != "" && cc.Resource == p.Crop
	}}
}

func hasSeeds(p catalog.Planting) Condition {
	return Condition{Name: "has_seeds", Check: func(cc ConditionContext) bool {
		return cc.State.Quantity(p.Seed) >= p.SeedCost
	}}
}

func plotEmpty() Condition {
	return Condition{Name: "plot_empty", Check: func(cc ConditionContext) bool {
		ps := cc.State.Planting()
		return !ps.Planted && !ps.Ready
	}}
}

func cropPlanted() Condition {
	return Condition{Name: "crop_planted", Check: func(cc ConditionContext) bool {
		return cc.State.Planting().Planted
	}}
}

func cropNotReady() Condition {
	return Condition{Name: "crop_not_ready", Check: func(cc ConditionContext) bool {
		return !cc.State.Planting().Ready
	}}
}

func hasRecipe(cat *catalog.Catalog) Condition {
	return Condition{Name: "has_recipe", Check: func(cc ConditionContext) bool {
		_, ok := cat.Recipe(cc.Action, cc.Resource)
		return ok
	}}
}

func recipeInputAvailable(cat *catalog.Catalog) Condition {
	return Condition{Name: "has_input", Check: func(cc ConditionContext) bool {
		recipe, ok := cat.Recipe(cc.Action, cc.Resource)
		return ok && cc.State.Quantity(recipe.Input) >= 1
	}}
}

func recipeOutputHasRoom(cat *catalog.Catalog) Condition {
	return Condition{Name: "output_has_room", Check: func(cc ConditionContext) bool {
		recipe, ok := cat.Recipe(cc.Action, cc.Resource)
		return ok && !cc.State.AtCapacity(recipe.Output)
	}}
}

// ResourceIs is the predicate form of `resource == id`.
func ResourceIs(id forage.ResourceID) Condition {
	return Condition{Name: "resource_is_" + string(id), Check: func(cc ConditionContext) bool {
		return cc.Resource == id
	}}
}

// Chance holds with probability p, drawn from r.
func Chance(r forage.Rand, p float64) Condition {
	return Condition{Name: "chance", Check: func(ConditionContext) bool {
		return r.Float64() < p
	}}
}
