// Package techtree unlocks technologies and fans their payload out to the
// game state.
package techtree

import (
	"fmt"
	"log/slog"
	"slices"

	"hearthfield/internal/domain/catalog"
	"hearthfield/internal/domain/forage"
)

type Reason string

const (
	ReasonNone               Reason = ""
	ReasonUnknownTechnology  Reason = "unknown_technology"
	ReasonAlreadyUnlocked    Reason = "already_unlocked"
	ReasonPrerequisitesUnmet Reason = "prerequisites_unmet"
	ReasonUnaffordable       Reason = "unaffordable"
)

type UnlockResult struct {
	TechID   forage.TechID             `json:"tech_id"`
	Unlocked bool                      `json:"unlocked"`
	Reason   Reason                    `json:"reason,omitempty"`
	Spent    map[forage.ResourceID]int `json:"spent,omitempty"`
	Missing  []forage.TechID           `json:"missing,omitempty"`
}

// Offer is a discoverable technology and whether the player can pay for it now.
type Offer struct {
	Technology catalog.Technology `json:"technology"`
	Affordable bool               `json:"affordable"`
}

type Orchestrator struct {
	Catalog *catalog.Catalog
	Logger  *slog.Logger
}

func New(cat *catalog.Catalog, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{Catalog: cat, Logger: logger}
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Unlock pays for and applies a technology. Every rejection leaves the state
// untouched.
func (o *Orchestrator) Unlock(st *forage.State, id forage.TechID) (UnlockResult, error) {
	res := UnlockResult{TechID: id}
	tech, err := o.Catalog.Technology(id)
	if err != nil {
		res.Reason = ReasonUnknownTechnology
		return res, nil
	}
	if st.IsTechUnlocked(id) {
		res.Reason = ReasonAlreadyUnlocked
		return res, nil
	}
	if missing := MissingPrerequisites(tech, st.IsTechUnlocked); len(missing) > 0 {
		res.Reason = ReasonPrerequisitesUnmet
		res.Missing = missing
		return res, nil
	}
	if !CanAfford(tech, st) {
		res.Reason = ReasonUnaffordable
		return res, nil
	}

	if err := deduct(st, tech.Cost); err != nil {
		return res, fmt.Errorf("unlock %s: %w", id, err)
	}
	st.MarkTechUnlocked(id)
	o.applyUnlocks(st, tech)

	res.Unlocked = true
	res.Spent = cloneCost(tech.Cost)
	o.logger().Debug("technology unlocked", "tech", id)
	return res, nil
}

func (o *Orchestrator) applyUnlocks(st *forage.State, tech catalog.Technology) {
	for _, effect := range tech.Unlocks.Effects {
		forage.ApplyEffect(st, effect, o.logger())
	}
	for _, key := range tech.Unlocks.Actions {
		st.MarkActionUnlocked(key)
	}
	for _, rid := range tech.Unlocks.Resources {
		if _, err := st.MarkDiscovered(rid); err != nil {
			o.logger().Warn("unlock references unknown resource", "tech", tech.ID, "resource", rid)
		}
	}
	for _, tid := range tech.Unlocks.Technologies {
		st.MarkTechRevealed(tid)
	}
}

// deduct checks every line before touching any quantity.
func deduct(st *forage.State, cost map[forage.ResourceID]int) error {
	next := make(map[forage.ResourceID]int, len(cost))
	for rid, amount := range cost {
		if !st.HasResource(rid) {
			return &forage.NotFoundError{Kind: "resource", ID: string(rid)}
		}
		next[rid] = st.Quantity(rid) - amount
	}
	for rid, qty := range next {
		if _, err := st.SetResourceQuantity(rid, qty); err != nil {
			return err
		}
	}
	return nil
}

func cloneCost(cost map[forage.ResourceID]int) map[forage.ResourceID]int {
	out := make(map[forage.ResourceID]int, len(cost))
	for k, v := range cost {
		out[k] = v
	}
	return out
}

// CanAfford reports whether every cost line is covered by the current stock.
func CanAfford(tech catalog.Technology, st *forage.State) bool {
	for rid, amount := range tech.Cost {
		if st.Quantity(rid) < amount {
			return false
		}
	}
	return true
}

func MissingPrerequisites(tech catalog.Technology, isUnlocked func(forage.TechID) bool) []forage.TechID {
	var missing []forage.TechID
	for _, req := range tech.Requires {
		if !isUnlocked(req) {
			missing = append(missing, req)
		}
	}
	return missing
}

// IsTechDiscoverable is true when tech is still locked and all of its
// prerequisites are unlocked. Affordability plays no part.
func IsTechDiscoverable(tech catalog.Technology, isUnlocked func(forage.TechID) bool) bool {
	if isUnlocked(tech.ID) {
		return false
	}
	return len(MissingPrerequisites(tech, isUnlocked)) == 0
}

// Offers lists discoverable technologies in catalog order.
func (o *Orchestrator) Offers(st *forage.State) []Offer {
	var out []Offer
	for _, tech := range o.Catalog.Technologies() {
		if !IsTechDiscoverable(tech, st.IsTechUnlocked) {
			continue
		}
		out = append(out, Offer{Technology: tech, Affordable: CanAfford(tech, st)})
	}
	return out
}

// CostLines returns the cost sorted by resource id, for stable rendering.
func CostLines(tech catalog.Technology) []forage.ResourceID {
	ids := make([]forage.ResourceID, 0, len(tech.Cost))
	for rid := range tech.Cost {
		ids = append(ids, rid)
	}
	slices.Sort(ids)
	return ids
}
