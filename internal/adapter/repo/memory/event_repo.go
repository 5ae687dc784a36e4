package memory

import (
	"context"

	"hearthfield/internal/app/ports"
	"hearthfield/internal/domain/forage"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(_ context.Context, sessionID string, events []forage.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	log := append(r.store.events[sessionID], events...)
	if over := len(log) - r.store.limit; over > 0 {
		log = append([]forage.DomainEvent(nil), log[over:]...)
	}
	r.store.events[sessionID] = log
	return nil
}

// ListBySessionID returns events newest first.
func (r EventRepo) ListBySessionID(_ context.Context, sessionID string, limit int) ([]forage.DomainEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	log := r.store.events[sessionID]
	if len(log) == 0 {
		return nil, ports.ErrNotFound
	}
	n := len(log)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]forage.DomainEvent, 0, n)
	for i := len(log) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, log[i])
	}
	return out, nil
}
