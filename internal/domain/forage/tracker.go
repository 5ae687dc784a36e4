package forage

type InteractionStats struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Gained    int `json:"gained"`
}

func (s InteractionStats) add(o InteractionStats) InteractionStats {
	return InteractionStats{
		Attempted: s.Attempted + o.Attempted,
		Succeeded: s.Succeeded + o.Succeeded,
		Failed:    s.Failed + o.Failed,
		Gained:    s.Gained + o.Gained,
	}
}

func SuccessfulAttempt(gained int) InteractionStats {
	return InteractionStats{Attempted: 1, Succeeded: 1, Gained: gained}
}

func FailedAttempt() InteractionStats {
	return InteractionStats{Attempted: 1, Failed: 1}
}

// Tracker accumulates interaction counters per (resource, action) pair and
// owns the logical tick clock used for growth timing.
type Tracker struct {
	stats map[ResourceID]map[ActionType]InteractionStats
	tick  int64
}

func NewTracker() *Tracker {
	return &Tracker{stats: make(map[ResourceID]map[ActionType]InteractionStats)}
}

func (t *Tracker) Record(resource ResourceID, action ActionType, delta InteractionStats) {
	byAction, ok := t.stats[resource]
	if !ok {
		byAction = make(map[ActionType]InteractionStats)
		t.stats[resource] = byAction
	}
	byAction[action] = byAction[action].add(delta)
}

func (t *Tracker) Stats(resource ResourceID, action ActionType) InteractionStats {
	return t.stats[resource][action]
}

func (t *Tracker) Snapshot() map[ResourceID]map[ActionType]InteractionStats {
	out := make(map[ResourceID]map[ActionType]InteractionStats, len(t.stats))
	for resource, byAction := range t.stats {
		copied := make(map[ActionType]InteractionStats, len(byAction))
		for action, stats := range byAction {
			copied[action] = stats
		}
		out[resource] = copied
	}
	return out
}

func (t *Tracker) AdvanceTick() int64 {
	t.tick++
	return t.tick
}

func (t *Tracker) CurrentTick() int64 {
	return t.tick
}

// Reset clears the counters. The tick keeps running so planted crops mature on
// schedule.
func (t *Tracker) Reset() {
	t.stats = make(map[ResourceID]map[ActionType]InteractionStats)
}
