package replay

import "hearthfield/internal/domain/forage"

type Request struct {
	SessionID    string
	Limit        int
	OccurredFrom int64
	OccurredTo   int64
}

// Summary is the most recent hunger and tick recorded in the journal.
type Summary struct {
	Hunger int   `json:"hunger"`
	Tick   int64 `json:"tick"`
	Known  bool  `json:"known"`
}

type Response struct {
	Events []forage.DomainEvent `json:"events"`
	Latest Summary              `json:"latest"`
}
