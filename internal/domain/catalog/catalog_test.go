package catalog

import (
	"errors"
	"strings"
	"testing"

	"hearthfield/internal/domain/forage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefault_Loads(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []forage.ResourceID{
		forage.ResourceRocks,
		forage.ResourceWildWheat,
		forage.ResourcePrimitiveWheat,
		forage.ResourceSeeds,
		forage.ResourceFlour,
		forage.ResourceBread,
	}, c.ResourceIDs())
	assert.Len(t, c.Technologies(), 11)

	bread, err := c.Resource(forage.ResourceBread)
	require.NoError(t, err)
	assert.True(t, bread.Edible)
	assert.Equal(t, 30, bread.HungerRestore)
	assert.Equal(t, 1, bread.EatCost)

	stone, err := c.Technology("stoneTools")
	require.NoError(t, err)
	assert.Equal(t, []forage.TechID{"discoverFire"}, stone.Requires)
	require.Len(t, stone.Unlocks.Effects, 2)
	assert.Equal(t, forage.HarvestBonus{
		Resource:         forage.ResourceWildWheat,
		SuccessRateBonus: 0.25,
		ExtraYield:       forage.YieldRange{Min: 4, Max: 7},
	}, stone.Unlocks.Effects[0])

	pottery, err := c.Technology("pottery")
	require.NoError(t, err)
	assert.Equal(t, []forage.Effect{forage.CapacityBonus{Resource: forage.ResourceAll, Amount: 100}}, pottery.Unlocks.Effects)

	grind, ok := c.Recipe(forage.ActionGrind, forage.ResourcePrimitiveWheat)
	require.True(t, ok)
	assert.Equal(t, forage.ResourceFlour, grind.Output)
	assert.Equal(t, 5, grind.Clicks)

	assert.Equal(t, Planting{Crop: forage.ResourcePrimitiveWheat, Seed: forage.ResourceSeeds, SeedCost: 5, GrowTicks: 20}, c.Planting())
	require.Len(t, c.Chains(), 1)
	assert.Equal(t, forage.ResourceSeeds, c.Chains()[0].Target)
}

func TestLookup_NotFound(t *testing.T) {
	c := MustDefault()

	_, err := c.Resource("obsidian")
	assert.True(t, errors.Is(err, forage.ErrNotFound))

	_, err = c.Technology("teleportation")
	var nf *forage.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "technology", nf.Kind)
}

func TestNewGameState_InitialDefaults(t *testing.T) {
	s := MustDefault().NewGameState()

	assert.Equal(t, 100, s.Hunger())
	assert.Equal(t, []forage.ResourceID{forage.ResourceRocks}, s.Discovered())
	assert.Equal(t, []forage.ActionKey{forage.NewActionKey(forage.ActionHarvest, forage.ResourceRocks)}, s.UnlockedActions())
	assert.Equal(t, 100, s.Capacity(forage.ResourceRocks))
	assert.Equal(t, 150, s.Capacity(forage.ResourceWildWheat))
	for _, id := range s.ResourceIDs() {
		assert.Zero(t, s.Quantity(id), id)
	}
}

func TestLoad_UnknownEffectIsKept(t *testing.T) {
	src := `
initial_actions: [harvest_rocks]
resources:
  - id: rocks
    name: Rocks
    yield: {min: 1, max: 1}
    success_rate: 1
technologies:
  - id: rain
    name: Rain
    cost: {rocks: 1}
    unlocks:
      effects:
        - type: weather_bonus
`
	c, err := Load([]byte(src))
	require.NoError(t, err)
	tech, err := c.Technology("rain")
	require.NoError(t, err)
	assert.Equal(t, []forage.Effect{forage.UnknownEffect{Tag: "weather_bonus"}}, tech.Unlocks.Effects)
}

func TestLoad_RejectsInvalidCatalogs(t *testing.T) {
	base := func(extra string) string {
		return `
resources:
  - id: rocks
    name: Rocks
    yield: {min: 1, max: 3}
    success_rate: 0.5
` + extra
	}
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"duplicate resource", base("  - id: rocks\n    name: Again\n"), "duplicate resource"},
		{"inverted yield", "resources:\n  - id: rocks\n    yield: {min: 3, max: 1}\n", "yield min"},
		{"success rate", "resources:\n  - id: rocks\n    success_rate: 1.5\n", "success rate"},
		{"edible without cost", "resources:\n  - id: berry\n    edible: true\n", "edible"},
		{"unknown cost resource", base("technologies:\n  - id: a\n    cost: {gold: 1}\n"), "unknown resource"},
		{"unknown prerequisite", base("technologies:\n  - id: a\n    requires: [b]\n"), "requires unknown"},
		{"bad action type", base("initial_actions: [juggle_rocks]\n"), "unknown action type"},
		{"unknown action resource", base("initial_actions: [harvest_gold]\n"), "unknown resource"},
		{"cycle", base("technologies:\n  - id: a\n    requires: [b]\n  - id: b\n    requires: [a]\n"), "cycle"},
		{"unknown field", base("colour: red\n"), "colour"},
		{"capacity bonus target", base("technologies:\n  - id: a\n    unlocks:\n      effects:\n        - {type: capacity_bonus, resource: gold, amount: 1}\n"), "capacity bonus"},
		{"chain target", base("chains:\n  - {action: harvest, target: gold, chained_action: harvest}\n"), "unknown target"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestMarshalYAML_RoundTrips(t *testing.T) {
	c := MustDefault()

	out, err := yaml.Marshal(c)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), "harvest_wildWheat"))

	again, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, c.ResourceIDs(), again.ResourceIDs())
	assert.Equal(t, c.TechIDs(), again.TechIDs())
	assert.Equal(t, c.Chains(), again.Chains())
	assert.Equal(t, c.Planting(), again.Planting())

	potteryA, _ := c.Technology("pottery")
	potteryB, _ := again.Technology("pottery")
	assert.Equal(t, potteryA, potteryB)
}
