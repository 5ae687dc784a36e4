package forage

import (
	"slices"
	"sort"
)

// ResourceSlot declares one stored resource and its base capacity. A base
// capacity of zero or less means unbounded.
type ResourceSlot struct {
	ID           ResourceID
	BaseCapacity int
}

// State is the single mutable game state. Every mutation goes through a
// setter that enforces the owning invariant; no action logic lives here.
type State struct {
	order         []ResourceID
	quantities    map[ResourceID]int
	baseCapacity  map[ResourceID]int
	capacityBonus map[ResourceID]int
	hunger        int

	discovered      map[ResourceID]struct{}
	unlockedActions map[ActionKey]struct{}
	unlockedTechs   map[TechID]struct{}
	revealedTechs   map[TechID]struct{}

	harvestModifiers map[ResourceID]HarvestModifier
	planting         PlantingState
	clicks           map[ActionKey]int
	tracker          *Tracker
}

func NewState(slots []ResourceSlot) *State {
	s := &State{
		order:            make([]ResourceID, 0, len(slots)),
		quantities:       make(map[ResourceID]int, len(slots)),
		baseCapacity:     make(map[ResourceID]int, len(slots)),
		capacityBonus:    make(map[ResourceID]int),
		hunger:           MaxHunger,
		discovered:       make(map[ResourceID]struct{}),
		unlockedActions:  make(map[ActionKey]struct{}),
		unlockedTechs:    make(map[TechID]struct{}),
		revealedTechs:    make(map[TechID]struct{}),
		harvestModifiers: make(map[ResourceID]HarvestModifier),
		clicks:           make(map[ActionKey]int),
		tracker:          NewTracker(),
	}
	for _, slot := range slots {
		if _, dup := s.quantities[slot.ID]; dup {
			continue
		}
		s.order = append(s.order, slot.ID)
		s.quantities[slot.ID] = 0
		s.baseCapacity[slot.ID] = slot.BaseCapacity
	}
	return s
}

func (s *State) ResourceIDs() []ResourceID {
	return slices.Clone(s.order)
}

func (s *State) HasResource(id ResourceID) bool {
	_, ok := s.quantities[id]
	return ok
}

func (s *State) Quantity(id ResourceID) int {
	return s.quantities[id]
}

// Capacity returns the effective cap (base plus bonus) or Unbounded.
func (s *State) Capacity(id ResourceID) int {
	base, ok := s.baseCapacity[id]
	if !ok || base <= 0 {
		return Unbounded
	}
	limit := base + s.capacityBonus[id]
	if limit < 0 {
		return 0
	}
	return limit
}

func (s *State) AtCapacity(id ResourceID) bool {
	limit := s.Capacity(id)
	return limit != Unbounded && s.quantities[id] >= limit
}

func (s *State) clamp(id ResourceID, qty int) int {
	if qty < 0 {
		qty = 0
	}
	if limit := s.Capacity(id); limit != Unbounded && qty > limit {
		qty = limit
	}
	return qty
}

// SetResourceQuantity stores qty clamped to [0, capacity] and returns the
// stored value.
func (s *State) SetResourceQuantity(id ResourceID, qty int) (int, error) {
	if !s.HasResource(id) {
		return 0, unknownResource(id)
	}
	stored := s.clamp(id, qty)
	s.quantities[id] = stored
	return stored, nil
}

// AddResource applies delta and returns the change actually stored.
func (s *State) AddResource(id ResourceID, delta int) (int, error) {
	before := s.quantities[id]
	after, err := s.SetResourceQuantity(id, before+delta)
	if err != nil {
		return 0, err
	}
	return after - before, nil
}

func (s *State) Hunger() int {
	return s.hunger
}

func (s *State) SetHunger(v int) int {
	switch {
	case v < MinHunger:
		v = MinHunger
	case v > MaxHunger:
		v = MaxHunger
	}
	s.hunger = v
	return v
}

func (s *State) AdjustHunger(delta int) int {
	return s.SetHunger(s.hunger + delta)
}

func (s *State) Starving() bool {
	return s.hunger <= MinHunger
}

// MarkDiscovered reports whether the resource was newly discovered.
func (s *State) MarkDiscovered(id ResourceID) (bool, error) {
	if !s.HasResource(id) {
		return false, unknownResource(id)
	}
	if _, ok := s.discovered[id]; ok {
		return false, nil
	}
	s.discovered[id] = struct{}{}
	return true, nil
}

func (s *State) IsDiscovered(id ResourceID) bool {
	_, ok := s.discovered[id]
	return ok
}

// Discovered lists discovered resources in catalog order.
func (s *State) Discovered() []ResourceID {
	out := make([]ResourceID, 0, len(s.discovered))
	for _, id := range s.order {
		if _, ok := s.discovered[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (s *State) MarkActionUnlocked(key ActionKey) bool {
	if _, ok := s.unlockedActions[key]; ok {
		return false
	}
	s.unlockedActions[key] = struct{}{}
	return true
}

func (s *State) IsActionUnlocked(key ActionKey) bool {
	_, ok := s.unlockedActions[key]
	return ok
}

func (s *State) UnlockedActions() []ActionKey {
	out := make([]ActionKey, 0, len(s.unlockedActions))
	for key := range s.unlockedActions {
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (s *State) MarkTechUnlocked(id TechID) bool {
	if _, ok := s.unlockedTechs[id]; ok {
		return false
	}
	s.unlockedTechs[id] = struct{}{}
	return true
}

func (s *State) IsTechUnlocked(id TechID) bool {
	_, ok := s.unlockedTechs[id]
	return ok
}

func (s *State) UnlockedTechs() []TechID {
	return sortedTechIDs(s.unlockedTechs)
}

func (s *State) MarkTechRevealed(id TechID) bool {
	if _, ok := s.revealedTechs[id]; ok {
		return false
	}
	s.revealedTechs[id] = struct{}{}
	return true
}

func (s *State) RevealedTechs() []TechID {
	return sortedTechIDs(s.revealedTechs)
}

func sortedTechIDs(set map[TechID]struct{}) []TechID {
	out := make([]TechID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// MergeHarvestModifier adds mod onto the accumulated modifier of a resource.
func (s *State) MergeHarvestModifier(id ResourceID, mod HarvestModifier) error {
	if !s.HasResource(id) {
		return unknownResource(id)
	}
	cur := s.harvestModifiers[id]
	cur.SuccessRateBonus += mod.SuccessRateBonus
	cur.ExtraYield = cur.ExtraYield.Add(mod.ExtraYield)
	s.harvestModifiers[id] = cur
	return nil
}

func (s *State) HarvestModifier(id ResourceID) HarvestModifier {
	return s.harvestModifiers[id]
}

// AddCapacityBonus raises (or lowers) a resource cap; the stored quantity is
// re-clamped to the new cap.
func (s *State) AddCapacityBonus(id ResourceID, amount int) error {
	if !s.HasResource(id) {
		return unknownResource(id)
	}
	s.capacityBonus[id] += amount
	s.quantities[id] = s.clamp(id, s.quantities[id])
	return nil
}

func (s *State) CapacityBonus(id ResourceID) int {
	return s.capacityBonus[id]
}

func (s *State) Planting() PlantingState {
	return s.planting
}

func (s *State) Plant(atTick int64) {
	s.planting = PlantingState{Planted: true, PlantedAtTick: atTick}
}

func (s *State) MarkCropReady() {
	s.planting.Ready = true
}

func (s *State) ResetPlanting() {
	s.planting = PlantingState{}
}

func (s *State) ProcessClicks(key ActionKey) int {
	return s.clicks[key]
}

func (s *State) AddProcessClick(key ActionKey) int {
	s.clicks[key]++
	return s.clicks[key]
}

func (s *State) ResetProcessClicks(key ActionKey) {
	delete(s.clicks, key)
}

func (s *State) Tracker() *Tracker {
	return s.tracker
}

func (s *State) CurrentTick() int64 {
	return s.tracker.CurrentTick()
}

func (s *State) AdvanceTick() int64 {
	return s.tracker.AdvanceTick()
}
