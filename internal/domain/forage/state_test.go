package forage

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState() *State {
	return NewState([]ResourceSlot{
		{ID: ResourceRocks, BaseCapacity: 100},
		{ID: ResourceWildWheat, BaseCapacity: 150},
		{ID: ResourceSeeds, BaseCapacity: 50},
		{ID: ResourceFlour},
	})
}

func TestNewState_Defaults(t *testing.T) {
	s := newTestState()

	assert.Equal(t, MaxHunger, s.Hunger())
	assert.Equal(t, []ResourceID{ResourceRocks, ResourceWildWheat, ResourceSeeds, ResourceFlour}, s.ResourceIDs())
	for _, id := range s.ResourceIDs() {
		assert.Zero(t, s.Quantity(id))
	}
	assert.Empty(t, s.Discovered())
	assert.Empty(t, s.UnlockedActions())
	assert.Zero(t, s.CurrentTick())
}

func TestSetResourceQuantity_ClampsToCapacity(t *testing.T) {
	s := newTestState()

	got, err := s.SetResourceQuantity(ResourceRocks, 250)
	require.NoError(t, err)
	assert.Equal(t, 100, got)

	got, err = s.SetResourceQuantity(ResourceRocks, -4)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = s.SetResourceQuantity(ResourceFlour, 10_000)
	require.NoError(t, err)
	assert.Equal(t, 10_000, got, "flour has no base capacity")
	assert.Equal(t, Unbounded, s.Capacity(ResourceFlour))
}

func TestSetResourceQuantity_UnknownResource(t *testing.T) {
	s := newTestState()

	_, err := s.SetResourceQuantity("obsidian", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "resource", nf.Kind)
	assert.Equal(t, "obsidian", nf.ID)
}

func TestAddResource_ReportsStoredDelta(t *testing.T) {
	s := newTestState()
	_, _ = s.SetResourceQuantity(ResourceSeeds, 48)

	delta, err := s.AddResource(ResourceSeeds, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, delta)
	assert.Equal(t, 50, s.Quantity(ResourceSeeds))
}

func TestSetHunger_Clamps(t *testing.T) {
	s := newTestState()

	assert.Equal(t, 0, s.SetHunger(-20))
	assert.True(t, s.Starving())
	assert.Equal(t, 100, s.SetHunger(180))
	assert.Equal(t, 97, s.AdjustHunger(-3))
}

func TestMarkers_AreIdempotent(t *testing.T) {
	s := newTestState()
	key := NewActionKey(ActionHarvest, ResourceRocks)

	first, err := s.MarkDiscovered(ResourceRocks)
	require.NoError(t, err)
	second, err := s.MarkDiscovered(ResourceRocks)
	require.NoError(t, err)
	assert.True(t, first)
	assert.False(t, second)

	assert.True(t, s.MarkActionUnlocked(key))
	assert.False(t, s.MarkActionUnlocked(key))
	assert.Len(t, s.UnlockedActions(), 1)

	assert.True(t, s.MarkTechUnlocked("pottery"))
	assert.False(t, s.MarkTechUnlocked("pottery"))
	assert.Equal(t, []TechID{"pottery"}, s.UnlockedTechs())

	_, err = s.MarkDiscovered("obsidian")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddCapacityBonus_ReclampsWhenLowered(t *testing.T) {
	s := newTestState()
	_, _ = s.SetResourceQuantity(ResourceRocks, 90)

	require.NoError(t, s.AddCapacityBonus(ResourceRocks, -20))

	assert.Equal(t, 80, s.Capacity(ResourceRocks))
	assert.Equal(t, 80, s.Quantity(ResourceRocks))
}

func TestMergeHarvestModifier_Sums(t *testing.T) {
	s := newTestState()

	require.NoError(t, s.MergeHarvestModifier(ResourceWildWheat, HarvestModifier{SuccessRateBonus: 0.25, ExtraYield: YieldRange{Min: 4, Max: 7}}))
	require.NoError(t, s.MergeHarvestModifier(ResourceWildWheat, HarvestModifier{SuccessRateBonus: 0.1, ExtraYield: YieldRange{Min: 1, Max: 1}}))

	mod := s.HarvestModifier(ResourceWildWheat)
	assert.InDelta(t, 0.35, mod.SuccessRateBonus, 1e-9)
	assert.Equal(t, YieldRange{Min: 5, Max: 8}, mod.ExtraYield)
}

func TestPlantingAndClicks(t *testing.T) {
	s := newTestState()
	key := NewActionKey(ActionGrind, ResourceWildWheat)

	s.Plant(7)
	assert.Equal(t, PlantingState{Planted: true, PlantedAtTick: 7}, s.Planting())
	s.MarkCropReady()
	assert.True(t, s.Planting().Ready)
	s.ResetPlanting()
	assert.Equal(t, PlantingState{}, s.Planting())

	assert.Equal(t, 1, s.AddProcessClick(key))
	assert.Equal(t, 2, s.AddProcessClick(key))
	s.ResetProcessClicks(key)
	assert.Zero(t, s.ProcessClicks(key))
}

func TestSnapshot_IsDetachedCopy(t *testing.T) {
	s := newTestState()
	_, _ = s.SetResourceQuantity(ResourceRocks, 3)
	_, _ = s.MarkDiscovered(ResourceRocks)
	s.MarkActionUnlocked(NewActionKey(ActionHarvest, ResourceRocks))
	s.Tracker().Record(ResourceRocks, ActionHarvest, SuccessfulAttempt(3))

	snap := s.Snapshot()
	_, _ = s.SetResourceQuantity(ResourceRocks, 9)
	s.Tracker().Record(ResourceRocks, ActionHarvest, FailedAttempt())

	assert.Equal(t, 3, snap.Quantity(ResourceRocks))
	assert.Equal(t, 1, snap.InteractionStats[ResourceRocks][ActionHarvest].Attempted)
	assert.Equal(t, []ResourceID{ResourceRocks}, snap.DiscoveredResources)

	b, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"unlocked_actions":["harvest_rocks"]`)
}

func TestParseActionKey(t *testing.T) {
	key, err := ParseActionKey("harvest_primitiveWheat")
	require.NoError(t, err)
	assert.Equal(t, ActionKey{Action: ActionHarvest, Resource: ResourcePrimitiveWheat}, key)

	for _, bad := range []string{"", "harvest", "_rocks", "harvest_"} {
		_, err := ParseActionKey(bad)
		assert.Error(t, err, bad)
	}
}
