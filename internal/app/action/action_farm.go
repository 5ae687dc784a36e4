package action

type plantActionHandler struct{}

func (plantActionHandler) Perform(ac *ActionContext) Outcome {
	p := ac.Catalog.Planting()
	if _, err := ac.State.AddResource(p.Seed, -p.SeedCost); err != nil {
		return Outcome{Reason: ReasonConditionFailed}
	}
	ac.State.Plant(ac.State.CurrentTick())
	return Outcome{Performed: true, Attempted: true, Amount: p.SeedCost, AffectsHunger: true}
}

// growActionHandler matures the crop once enough ticks elapsed since planting.
type growActionHandler struct{}

func (growActionHandler) Perform(ac *ActionContext) Outcome {
	p := ac.Catalog.Planting()
	ps := ac.State.Planting()
	if ac.State.CurrentTick()-ps.PlantedAtTick < p.GrowTicks {
		return Outcome{Reason: ReasonNotMature}
	}
	ac.State.MarkCropReady()
	_, _ = ac.State.MarkDiscovered(p.Crop)
	return Outcome{Performed: true, Attempted: true}
}
