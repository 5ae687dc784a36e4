package forage

import "log/slog"

type EffectKind string

const (
	EffectHarvestBonus  EffectKind = "harvest_bonus"
	EffectCapacityBonus EffectKind = "capacity_bonus"
)

// Effect is the closed set of technology unlock effects.
type Effect interface {
	Kind() EffectKind
}

type HarvestBonus struct {
	Resource         ResourceID
	SuccessRateBonus float64
	ExtraYield       YieldRange
}

func (HarvestBonus) Kind() EffectKind { return EffectHarvestBonus }

// CapacityBonus targets one resource, or every resource when Resource is
// ResourceAll.
type CapacityBonus struct {
	Resource ResourceID
	Amount   int
}

func (CapacityBonus) Kind() EffectKind { return EffectCapacityBonus }

// UnknownEffect keeps effect tags this build does not understand. Applying it
// is a logged no-op.
type UnknownEffect struct {
	Tag string
}

func (e UnknownEffect) Kind() EffectKind { return EffectKind(e.Tag) }

// ApplyEffect folds one effect into the modifier state. Effects stack
// additively and never fail; problems are logged and skipped.
func ApplyEffect(s *State, effect Effect, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	switch e := effect.(type) {
	case HarvestBonus:
		err := s.MergeHarvestModifier(e.Resource, HarvestModifier{
			SuccessRateBonus: e.SuccessRateBonus,
			ExtraYield:       e.ExtraYield,
		})
		if err != nil {
			logger.Warn("harvest bonus skipped", "resource", e.Resource, "error", err)
		}
	case CapacityBonus:
		if e.Resource == ResourceAll {
			for _, id := range s.order {
				_ = s.AddCapacityBonus(id, e.Amount)
			}
			return
		}
		if err := s.AddCapacityBonus(e.Resource, e.Amount); err != nil {
			logger.Warn("capacity bonus skipped", "resource", e.Resource, "error", err)
		}
	case nil:
		logger.Warn("ignoring nil effect")
	default:
		logger.Warn("ignoring unknown effect", "kind", effect.Kind())
	}
}
