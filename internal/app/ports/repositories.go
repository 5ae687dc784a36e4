package ports

import (
	"context"

	"hearthfield/internal/domain/forage"
)

// EventRepository is the append-only game journal. Events are grouped by the
// session that produced them and listed newest first.
type EventRepository interface {
	Append(ctx context.Context, sessionID string, events []forage.DomainEvent) error
	ListBySessionID(ctx context.Context, sessionID string, limit int) ([]forage.DomainEvent, error)
}
