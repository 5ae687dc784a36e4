// Package catalog holds the static resource and technology registries. A
// catalog is built once at startup and is read-only afterwards.
package catalog

import (
	"slices"

	"hearthfield/internal/domain/forage"
)

type ResourceKind struct {
	ID            forage.ResourceID `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Edible        bool              `json:"edible"`
	HungerRestore int               `json:"hunger_restore,omitempty"`
	EatCost       int               `json:"eat_cost,omitempty"`
	Yield         forage.YieldRange `json:"yield"`
	SuccessRate   float64           `json:"success_rate"`
	// Capacity <= 0 means unbounded.
	Capacity   int  `json:"capacity"`
	Discovered bool `json:"discovered"`
}

type Unlocks struct {
	Resources    []forage.ResourceID `json:"resources,omitempty"`
	Actions      []forage.ActionKey  `json:"actions,omitempty"`
	Technologies []forage.TechID     `json:"technologies,omitempty"`
	Effects      []forage.Effect     `json:"-"`
}

type Technology struct {
	ID          forage.TechID             `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Cost        map[forage.ResourceID]int `json:"cost"`
	Requires    []forage.TechID           `json:"requires,omitempty"`
	Unlocks     Unlocks                   `json:"unlocks"`
}

// Recipe drives the click-accumulation actions: every invocation consumes one
// input unit and the Clicks-th invocation yields one output unit.
type Recipe struct {
	Action forage.ActionType `json:"action"`
	Input  forage.ResourceID `json:"input"`
	Output forage.ResourceID `json:"output"`
	Clicks int               `json:"clicks"`
}

type Planting struct {
	Crop      forage.ResourceID `json:"crop"`
	Seed      forage.ResourceID `json:"seed"`
	SeedCost  int               `json:"seed_cost"`
	GrowTicks int64             `json:"grow_ticks"`
}

// ChainDef attaches a secondary action to a rule. When holds CEL expressions
// evaluated against the primary action context.
type ChainDef struct {
	Action        forage.ActionType `json:"action"`
	Target        forage.ResourceID `json:"target"`
	ChainedAction forage.ActionType `json:"chained_action"`
	When          []string          `json:"when,omitempty"`
}

type Catalog struct {
	resources      []ResourceKind
	resourceIndex  map[forage.ResourceID]int
	techs          []Technology
	techIndex      map[forage.TechID]int
	recipes        []Recipe
	planting       Planting
	chains         []ChainDef
	initialActions []forage.ActionKey
	initialHunger  int
}

func (c *Catalog) Resource(id forage.ResourceID) (ResourceKind, error) {
	i, ok := c.resourceIndex[id]
	if !ok {
		return ResourceKind{}, &forage.NotFoundError{Kind: "resource", ID: string(id)}
	}
	return c.resources[i], nil
}

func (c *Catalog) HasResource(id forage.ResourceID) bool {
	_, ok := c.resourceIndex[id]
	return ok
}

func (c *Catalog) Resources() []ResourceKind {
	return slices.Clone(c.resources)
}

func (c *Catalog) ResourceIDs() []forage.ResourceID {
	out := make([]forage.ResourceID, 0, len(c.resources))
	for _, r := range c.resources {
		out = append(out, r.ID)
	}
	return out
}

func (c *Catalog) Technology(id forage.TechID) (Technology, error) {
	i, ok := c.techIndex[id]
	if !ok {
		return Technology{}, &forage.NotFoundError{Kind: "technology", ID: string(id)}
	}
	return c.techs[i], nil
}

func (c *Catalog) Technologies() []Technology {
	return slices.Clone(c.techs)
}

func (c *Catalog) TechIDs() []forage.TechID {
	out := make([]forage.TechID, 0, len(c.techs))
	for _, t := range c.techs {
		out = append(out, t.ID)
	}
	return out
}

func (c *Catalog) Recipe(action forage.ActionType, input forage.ResourceID) (Recipe, bool) {
	for _, r := range c.recipes {
		if r.Action == action && r.Input == input {
			return r, true
		}
	}
	return Recipe{}, false
}

func (c *Catalog) Recipes() []Recipe {
	return slices.Clone(c.recipes)
}

func (c *Catalog) Planting() Planting {
	return c.planting
}

func (c *Catalog) Chains() []ChainDef {
	return slices.Clone(c.chains)
}

func (c *Catalog) InitialActions() []forage.ActionKey {
	return slices.Clone(c.initialActions)
}

// NewGameState builds the starting state: every resource empty, default
// discoveries applied and the initial actions unlocked.
func (c *Catalog) NewGameState() *forage.State {
	slots := make([]forage.ResourceSlot, 0, len(c.resources))
	for _, r := range c.resources {
		slots = append(slots, forage.ResourceSlot{ID: r.ID, BaseCapacity: r.Capacity})
	}
	state := forage.NewState(slots)
	state.SetHunger(c.initialHunger)
	for _, r := range c.resources {
		if r.Discovered {
			_, _ = state.MarkDiscovered(r.ID)
		}
	}
	for _, key := range c.initialActions {
		state.MarkActionUnlocked(key)
	}
	return state
}
