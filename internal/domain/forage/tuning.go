package forage

const (
	MinHunger = 0
	MaxHunger = 100

	// Unbounded is the capacity reported for resources without a limit.
	Unbounded = -1

	DefaultActionHungerCost = 1

	DefaultSeedCost  = 5
	DefaultGrowTicks = 20

	DefaultGrindClicks = 5
	DefaultBakeClicks  = 3
)
