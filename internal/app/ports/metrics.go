package ports

import "hearthfield/internal/domain/forage"

type GameMetrics interface {
	RecordAction(action forage.ActionType, performed bool)
	RecordUnlock(unlocked bool)
	RecordFailure()
}
