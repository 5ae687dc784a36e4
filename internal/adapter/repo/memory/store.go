package memory

import (
	"sync"

	"hearthfield/internal/domain/forage"
)

const DefaultEventLimit = 1000

// Store backs the in-process tx manager and journal. tx serializes game
// calls; mu guards the journal so readers outside a tx never race a writer.
type Store struct {
	tx     sync.Mutex
	mu     sync.RWMutex
	events map[string][]forage.DomainEvent
	limit  int
}

// NewStore keeps at most limit events per session; older ones are dropped.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	return &Store{
		events: make(map[string][]forage.DomainEvent),
		limit:  limit,
	}
}
