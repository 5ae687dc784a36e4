package forage

type ResourceView struct {
	ID         ResourceID `json:"id"`
	Quantity   int        `json:"quantity"`
	Capacity   int        `json:"capacity"`
	Discovered bool       `json:"discovered"`
}

// Snapshot is a read-only copy of the state, safe to hand to other goroutines.
type Snapshot struct {
	Resources            []ResourceView                                 `json:"resources"`
	Hunger               int                                            `json:"hunger"`
	DiscoveredResources  []ResourceID                                   `json:"discovered_resources"`
	UnlockedActions      []ActionKey                                    `json:"unlocked_actions"`
	UnlockedTechnologies []TechID                                       `json:"unlocked_technologies"`
	RevealedTechnologies []TechID                                       `json:"revealed_technologies"`
	HarvestModifiers     map[ResourceID]HarvestModifier                 `json:"harvest_modifiers"`
	Planting             PlantingState                                  `json:"planting"`
	ProcessClicks        map[string]int                                 `json:"process_clicks"`
	InteractionStats     map[ResourceID]map[ActionType]InteractionStats `json:"interaction_stats"`
	CurrentTick          int64                                          `json:"current_tick"`
}

func (s *State) Snapshot() Snapshot {
	resources := make([]ResourceView, 0, len(s.order))
	for _, id := range s.order {
		resources = append(resources, ResourceView{
			ID:         id,
			Quantity:   s.quantities[id],
			Capacity:   s.Capacity(id),
			Discovered: s.IsDiscovered(id),
		})
	}
	mods := make(map[ResourceID]HarvestModifier, len(s.harvestModifiers))
	for id, mod := range s.harvestModifiers {
		mods[id] = mod
	}
	clicks := make(map[string]int, len(s.clicks))
	for key, n := range s.clicks {
		clicks[key.String()] = n
	}
	return Snapshot{
		Resources:            resources,
		Hunger:               s.hunger,
		DiscoveredResources:  s.Discovered(),
		UnlockedActions:      s.UnlockedActions(),
		UnlockedTechnologies: s.UnlockedTechs(),
		RevealedTechnologies: s.RevealedTechs(),
		HarvestModifiers:     mods,
		Planting:             s.planting,
		ProcessClicks:        clicks,
		InteractionStats:     s.tracker.Snapshot(),
		CurrentTick:          s.tracker.CurrentTick(),
	}
}

func (s Snapshot) Quantity(id ResourceID) int {
	for _, r := range s.Resources {
		if r.ID == id {
			return r.Quantity
		}
	}
	return 0
}
