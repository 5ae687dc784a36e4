package forage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_RecordAccumulates(t *testing.T) {
	tr := NewTracker()

	tr.Record(ResourceRocks, ActionHarvest, SuccessfulAttempt(2))
	tr.Record(ResourceRocks, ActionHarvest, SuccessfulAttempt(3))
	tr.Record(ResourceRocks, ActionHarvest, FailedAttempt())
	tr.Record(ResourceWildWheat, ActionEat, FailedAttempt())

	assert.Equal(t, InteractionStats{Attempted: 3, Succeeded: 2, Failed: 1, Gained: 5}, tr.Stats(ResourceRocks, ActionHarvest))
	assert.Equal(t, InteractionStats{Attempted: 1, Failed: 1}, tr.Stats(ResourceWildWheat, ActionEat))
	assert.Equal(t, InteractionStats{}, tr.Stats(ResourceSeeds, ActionHarvest))
}

func TestTracker_ResetKeepsTick(t *testing.T) {
	tr := NewTracker()
	tr.Record(ResourceRocks, ActionHarvest, SuccessfulAttempt(1))
	for i := 0; i < 4; i++ {
		tr.AdvanceTick()
	}

	tr.Reset()

	assert.Empty(t, tr.Snapshot())
	assert.Equal(t, int64(4), tr.CurrentTick())
	assert.Equal(t, int64(5), tr.AdvanceTick())
}

type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) IntN(n int) int {
	if r.n >= n {
		return n - 1
	}
	return r.n
}

func TestIntBetween(t *testing.T) {
	assert.Equal(t, 4, IntBetween(fixedRand{n: 0}, 4, 7))
	assert.Equal(t, 7, IntBetween(fixedRand{n: 99}, 4, 7))
	assert.Equal(t, 3, IntBetween(fixedRand{n: 99}, 3, 3))
	assert.Equal(t, 2, IntBetween(fixedRand{n: 0}, 5, 2))

	r := NewSeededRand(42)
	for i := 0; i < 1000; i++ {
		v := IntBetween(r, 1, 3)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 3)
	}
}

func TestNewSeededRand_IsDeterministic(t *testing.T) {
	a, b := NewSeededRand(7), NewSeededRand(7)
	for i := 0; i < 16; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}
