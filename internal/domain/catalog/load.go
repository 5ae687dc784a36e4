package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"hearthfield/internal/domain/forage"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalogYAML []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

type fileDoc struct {
	InitialHunger  *int          `yaml:"initial_hunger,omitempty"`
	InitialActions []string      `yaml:"initial_actions"`
	Resources      []resourceDoc `yaml:"resources"`
	Technologies   []techDoc     `yaml:"technologies"`
	Recipes        []recipeDoc   `yaml:"recipes,omitempty"`
	Planting       *plantingDoc  `yaml:"planting,omitempty"`
	Chains         []chainDoc    `yaml:"chains,omitempty"`
}

type resourceDoc struct {
	ID            string            `yaml:"id"`
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description,omitempty"`
	Edible        bool              `yaml:"edible,omitempty"`
	HungerRestore int               `yaml:"hunger_restore,omitempty"`
	EatCost       int               `yaml:"eat_cost,omitempty"`
	Yield         forage.YieldRange `yaml:"yield,omitempty"`
	SuccessRate   float64           `yaml:"success_rate,omitempty"`
	Capacity      int               `yaml:"capacity,omitempty"`
	Discovered    bool              `yaml:"discovered,omitempty"`
}

type techDoc struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Cost        map[string]int `yaml:"cost"`
	Requires    []string       `yaml:"requires,omitempty"`
	Unlocks     unlocksDoc     `yaml:"unlocks,omitempty"`
}

type unlocksDoc struct {
	Resources    []string    `yaml:"resources,omitempty"`
	Actions      []string    `yaml:"actions,omitempty"`
	Technologies []string    `yaml:"technologies,omitempty"`
	Effects      []effectDoc `yaml:"effects,omitempty"`
}

type effectDoc struct {
	Type             string            `yaml:"type"`
	Resource         string            `yaml:"resource,omitempty"`
	SuccessRateBonus float64           `yaml:"success_rate_bonus,omitempty"`
	ExtraYield       forage.YieldRange `yaml:"extra_yield,omitempty"`
	Amount           int               `yaml:"amount,omitempty"`
}

type recipeDoc struct {
	Action string `yaml:"action"`
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Clicks int    `yaml:"clicks"`
}

type plantingDoc struct {
	Crop      string `yaml:"crop"`
	Seed      string `yaml:"seed"`
	SeedCost  int    `yaml:"seed_cost,omitempty"`
	GrowTicks int64  `yaml:"grow_ticks,omitempty"`
}

type chainDoc struct {
	Action        string   `yaml:"action"`
	Target        string   `yaml:"target"`
	ChainedAction string   `yaml:"chained_action"`
	When          []string `yaml:"when,omitempty"`
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Load(defaultCatalogYAML)
}

func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("default catalog: %v", err))
	}
	return c
}

func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Load(b)
}

func Load(data []byte) (*Catalog, error) {
	var doc fileDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c, err := fromDoc(doc)
	if err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, fmt.Sprintf(format, args...))
}

func fromDoc(doc fileDoc) (*Catalog, error) {
	c := &Catalog{
		resourceIndex: make(map[forage.ResourceID]int, len(doc.Resources)),
		techIndex:     make(map[forage.TechID]int, len(doc.Technologies)),
		initialHunger: forage.MaxHunger,
	}
	if doc.InitialHunger != nil {
		c.initialHunger = *doc.InitialHunger
	}

	for _, r := range doc.Resources {
		id := forage.ResourceID(r.ID)
		if _, dup := c.resourceIndex[id]; dup {
			return nil, invalidf("duplicate resource %q", r.ID)
		}
		c.resourceIndex[id] = len(c.resources)
		c.resources = append(c.resources, ResourceKind{
			ID:            id,
			Name:          r.Name,
			Description:   r.Description,
			Edible:        r.Edible,
			HungerRestore: r.HungerRestore,
			EatCost:       r.EatCost,
			Yield:         r.Yield,
			SuccessRate:   r.SuccessRate,
			Capacity:      r.Capacity,
			Discovered:    r.Discovered,
		})
	}

	for _, t := range doc.Technologies {
		id := forage.TechID(t.ID)
		if _, dup := c.techIndex[id]; dup {
			return nil, invalidf("duplicate technology %q", t.ID)
		}
		tech := Technology{
			ID:          id,
			Name:        t.Name,
			Description: t.Description,
			Cost:        make(map[forage.ResourceID]int, len(t.Cost)),
		}
		for res, qty := range t.Cost {
			tech.Cost[forage.ResourceID(res)] = qty
		}
		for _, req := range t.Requires {
			tech.Requires = append(tech.Requires, forage.TechID(req))
		}
		for _, res := range t.Unlocks.Resources {
			tech.Unlocks.Resources = append(tech.Unlocks.Resources, forage.ResourceID(res))
		}
		for _, raw := range t.Unlocks.Actions {
			key, err := forage.ParseActionKey(raw)
			if err != nil {
				return nil, invalidf("technology %q: %v", t.ID, err)
			}
			tech.Unlocks.Actions = append(tech.Unlocks.Actions, key)
		}
		for _, sub := range t.Unlocks.Technologies {
			tech.Unlocks.Technologies = append(tech.Unlocks.Technologies, forage.TechID(sub))
		}
		for _, e := range t.Unlocks.Effects {
			tech.Unlocks.Effects = append(tech.Unlocks.Effects, effectFromDoc(e))
		}
		c.techIndex[id] = len(c.techs)
		c.techs = append(c.techs, tech)
	}

	for _, r := range doc.Recipes {
		c.recipes = append(c.recipes, Recipe{
			Action: forage.ActionType(r.Action),
			Input:  forage.ResourceID(r.Input),
			Output: forage.ResourceID(r.Output),
			Clicks: r.Clicks,
		})
	}

	if doc.Planting != nil {
		c.planting = Planting{
			Crop:      forage.ResourceID(doc.Planting.Crop),
			Seed:      forage.ResourceID(doc.Planting.Seed),
			SeedCost:  doc.Planting.SeedCost,
			GrowTicks: doc.Planting.GrowTicks,
		}
		if c.planting.SeedCost <= 0 {
			c.planting.SeedCost = forage.DefaultSeedCost
		}
		if c.planting.GrowTicks <= 0 {
			c.planting.GrowTicks = forage.DefaultGrowTicks
		}
	}

	for _, ch := range doc.Chains {
		c.chains = append(c.chains, ChainDef{
			Action:        forage.ActionType(ch.Action),
			Target:        forage.ResourceID(ch.Target),
			ChainedAction: forage.ActionType(ch.ChainedAction),
			When:          append([]string(nil), ch.When...),
		})
	}

	for _, raw := range doc.InitialActions {
		key, err := forage.ParseActionKey(raw)
		if err != nil {
			return nil, invalidf("initial actions: %v", err)
		}
		c.initialActions = append(c.initialActions, key)
	}
	return c, nil
}

func effectFromDoc(e effectDoc) forage.Effect {
	switch forage.EffectKind(e.Type) {
	case forage.EffectHarvestBonus:
		return forage.HarvestBonus{
			Resource:         forage.ResourceID(e.Resource),
			SuccessRateBonus: e.SuccessRateBonus,
			ExtraYield:       e.ExtraYield,
		}
	case forage.EffectCapacityBonus:
		return forage.CapacityBonus{Resource: forage.ResourceID(e.Resource), Amount: e.Amount}
	default:
		return forage.UnknownEffect{Tag: e.Type}
	}
}

func effectToDoc(e forage.Effect) effectDoc {
	switch v := e.(type) {
	case forage.HarvestBonus:
		return effectDoc{Type: string(v.Kind()), Resource: string(v.Resource), SuccessRateBonus: v.SuccessRateBonus, ExtraYield: v.ExtraYield}
	case forage.CapacityBonus:
		return effectDoc{Type: string(v.Kind()), Resource: string(v.Resource), Amount: v.Amount}
	default:
		return effectDoc{Type: string(e.Kind())}
	}
}

// MarshalYAML renders the catalog in the same shape Load accepts.
func (c *Catalog) MarshalYAML() (any, error) {
	hunger := c.initialHunger
	doc := fileDoc{InitialHunger: &hunger}
	for _, key := range c.initialActions {
		doc.InitialActions = append(doc.InitialActions, key.String())
	}
	for _, r := range c.resources {
		doc.Resources = append(doc.Resources, resourceDoc{
			ID:            string(r.ID),
			Name:          r.Name,
			Description:   r.Description,
			Edible:        r.Edible,
			HungerRestore: r.HungerRestore,
			EatCost:       r.EatCost,
			Yield:         r.Yield,
			SuccessRate:   r.SuccessRate,
			Capacity:      r.Capacity,
			Discovered:    r.Discovered,
		})
	}
	for _, t := range c.techs {
		td := techDoc{
			ID:          string(t.ID),
			Name:        t.Name,
			Description: t.Description,
			Cost:        make(map[string]int, len(t.Cost)),
		}
		for res, qty := range t.Cost {
			td.Cost[string(res)] = qty
		}
		for _, req := range t.Requires {
			td.Requires = append(td.Requires, string(req))
		}
		for _, res := range t.Unlocks.Resources {
			td.Unlocks.Resources = append(td.Unlocks.Resources, string(res))
		}
		for _, key := range t.Unlocks.Actions {
			td.Unlocks.Actions = append(td.Unlocks.Actions, key.String())
		}
		for _, sub := range t.Unlocks.Technologies {
			td.Unlocks.Technologies = append(td.Unlocks.Technologies, string(sub))
		}
		for _, e := range t.Unlocks.Effects {
			td.Unlocks.Effects = append(td.Unlocks.Effects, effectToDoc(e))
		}
		doc.Technologies = append(doc.Technologies, td)
	}
	for _, r := range c.recipes {
		doc.Recipes = append(doc.Recipes, recipeDoc{Action: string(r.Action), Input: string(r.Input), Output: string(r.Output), Clicks: r.Clicks})
	}
	if c.planting.Crop != "" {
		doc.Planting = &plantingDoc{
			Crop:      string(c.planting.Crop),
			Seed:      string(c.planting.Seed),
			SeedCost:  c.planting.SeedCost,
			GrowTicks: c.planting.GrowTicks,
		}
	}
	for _, ch := range c.chains {
		doc.Chains = append(doc.Chains, chainDoc{
			Action:        string(ch.Action),
			Target:        string(ch.Target),
			ChainedAction: string(ch.ChainedAction),
			When:          ch.When,
		})
	}
	return doc, nil
}

func (c *Catalog) validate() error {
	if len(c.resources) == 0 {
		return invalidf("no resources declared")
	}
	if c.initialHunger < forage.MinHunger || c.initialHunger > forage.MaxHunger {
		return invalidf("initial hunger %d outside [%d,%d]", c.initialHunger, forage.MinHunger, forage.MaxHunger)
	}
	for _, r := range c.resources {
		if r.ID == "" || r.ID == forage.ResourceAll {
			return invalidf("resource id %q is reserved or empty", r.ID)
		}
		if r.Yield.Min > r.Yield.Max {
			return invalidf("resource %q: yield min %d > max %d", r.ID, r.Yield.Min, r.Yield.Max)
		}
		if r.SuccessRate < 0 || r.SuccessRate > 1 {
			return invalidf("resource %q: success rate %v outside [0,1]", r.ID, r.SuccessRate)
		}
		if r.Edible && (r.HungerRestore <= 0 || r.EatCost <= 0) {
			return invalidf("resource %q: edible resources need hunger_restore and eat_cost", r.ID)
		}
	}
	if err := c.validateActionKeys("initial actions", c.initialActions); err != nil {
		return err
	}
	for _, t := range c.techs {
		if t.ID == "" {
			return invalidf("technology with empty id")
		}
		for res, qty := range t.Cost {
			if !c.HasResource(res) {
				return invalidf("technology %q: cost names unknown resource %q", t.ID, res)
			}
			if qty < 0 {
				return invalidf("technology %q: negative cost for %q", t.ID, res)
			}
		}
		for _, req := range t.Requires {
			if _, ok := c.techIndex[req]; !ok {
				return invalidf("technology %q: requires unknown technology %q", t.ID, req)
			}
		}
		for _, res := range t.Unlocks.Resources {
			if !c.HasResource(res) {
				return invalidf("technology %q: unlocks unknown resource %q", t.ID, res)
			}
		}
		if err := c.validateActionKeys(fmt.Sprintf("technology %q", t.ID), t.Unlocks.Actions); err != nil {
			return err
		}
		for _, sub := range t.Unlocks.Technologies {
			if _, ok := c.techIndex[sub]; !ok {
				return invalidf("technology %q: reveals unknown technology %q", t.ID, sub)
			}
		}
		for _, e := range t.Unlocks.Effects {
			if err := c.validateEffect(t.ID, e); err != nil {
				return err
			}
		}
	}
	if err := c.validatePrerequisiteGraph(); err != nil {
		return err
	}
	for _, r := range c.recipes {
		if r.Action != forage.ActionGrind && r.Action != forage.ActionBake {
			return invalidf("recipe action %q is not a processing action", r.Action)
		}
		if !c.HasResource(r.Input) || !c.HasResource(r.Output) {
			return invalidf("recipe %s: unknown input %q or output %q", r.Action, r.Input, r.Output)
		}
		if r.Clicks <= 0 {
			return invalidf("recipe %s_%s: clicks must be positive", r.Action, r.Input)
		}
	}
	if c.planting.Crop != "" {
		if !c.HasResource(c.planting.Crop) || !c.HasResource(c.planting.Seed) {
			return invalidf("planting: unknown crop %q or seed %q", c.planting.Crop, c.planting.Seed)
		}
	}
	for _, ch := range c.chains {
		if !forage.IsKnownActionType(ch.Action) || !forage.IsKnownActionType(ch.ChainedAction) {
			return invalidf("chain %s -> %s_%s: unknown action type", ch.Action, ch.ChainedAction, ch.Target)
		}
		if !c.HasResource(ch.Target) {
			return invalidf("chain %s: unknown target %q", ch.Action, ch.Target)
		}
	}
	return nil
}

func (c *Catalog) validateActionKeys(owner string, keys []forage.ActionKey) error {
	for _, key := range keys {
		if !forage.IsKnownActionType(key.Action) {
			return invalidf("%s: unknown action type in %q", owner, key.String())
		}
		if !c.HasResource(key.Resource) {
			return invalidf("%s: unknown resource in %q", owner, key.String())
		}
	}
	return nil
}

func (c *Catalog) validateEffect(owner forage.TechID, e forage.Effect) error {
	switch v := e.(type) {
	case forage.HarvestBonus:
		if !c.HasResource(v.Resource) {
			return invalidf("technology %q: harvest bonus on unknown resource %q", owner, v.Resource)
		}
		if v.ExtraYield.Min > v.ExtraYield.Max {
			return invalidf("technology %q: inverted extra yield on %q", owner, v.Resource)
		}
	case forage.CapacityBonus:
		if v.Resource != forage.ResourceAll && !c.HasResource(v.Resource) {
			return invalidf("technology %q: capacity bonus on unknown resource %q", owner, v.Resource)
		}
	}
	return nil
}

func (c *Catalog) validatePrerequisiteGraph() error {
	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[forage.TechID]int, len(c.techs))
	var visit func(id forage.TechID, path []forage.TechID) error
	visit = func(id forage.TechID, path []forage.TechID) error {
		switch marks[id] {
		case visiting:
			return invalidf("prerequisite cycle through %v", append(path, id))
		case done:
			return nil
		}
		marks[id] = visiting
		for _, req := range c.techs[c.techIndex[id]].Requires {
			if err := visit(req, append(path, id)); err != nil {
				return err
			}
		}
		marks[id] = done
		return nil
	}
	ids := c.TechIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if err := visit(id, nil); err != nil {
			return err
		}
	}
	return nil
}
