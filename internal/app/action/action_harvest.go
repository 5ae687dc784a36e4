package action

import "hearthfield/internal/domain/forage"

type harvestActionHandler struct{}

func (harvestActionHandler) Perform(ac *ActionContext) Outcome {
	mod := ac.State.HarvestModifier(ac.Resource)
	p := min(max(ac.Kind.SuccessRate+mod.SuccessRateBonus, 0), 1)
	if ac.Rand.Float64() >= p {
		return Outcome{Attempted: true, Reason: ReasonRollFailed}
	}

	yield := forage.IntBetween(ac.Rand, ac.Kind.Yield.Min, ac.Kind.Yield.Max) +
		forage.IntBetween(ac.Rand, mod.ExtraYield.Min, mod.ExtraYield.Max)
	if yield <= 0 {
		return Outcome{Attempted: true, Reason: ReasonEmptyYield}
	}

	gained, err := ac.State.AddResource(ac.Resource, yield)
	if err != nil {
		return Outcome{Attempted: true, Reason: ReasonConditionFailed}
	}
	_, _ = ac.State.MarkDiscovered(ac.Resource)
	if crop := ac.Catalog.Planting().Crop; crop != "" && crop == ac.Resource {
		ac.State.ResetPlanting()
	}
	return Outcome{
		Performed:     true,
		Attempted:     true,
		Amount:        gained,
		Gained:        gained,
		AffectsHunger: true,
	}
}
