package sqliterepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"hearthfield/internal/app/ports"
	"hearthfield/internal/domain/forage"
)

type eventRow struct {
	EventID    string `db:"event_id"`
	Type       string `db:"type"`
	Tick       int64  `db:"tick"`
	OccurredAt int64  `db:"occurred_at"`
	Payload    string `db:"payload"`
}

type EventRepo struct {
	db *sqlx.DB
}

func NewEventRepo(db *sqlx.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, sessionID string, events []forage.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", e.Type, err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO game_events (event_id, session_id, type, tick, occurred_at, payload) VALUES (?, ?, ?, ?, ?, ?)",
			e.ID, sessionID, e.Type, e.Tick, e.OccurredAt.UnixNano(), string(b),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListBySessionID returns events newest first.
func (r EventRepo) ListBySessionID(ctx context.Context, sessionID string, limit int) ([]forage.DomainEvent, error) {
	if limit <= 0 {
		limit = -1
	}
	var rows []eventRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT event_id, type, tick, occurred_at, payload FROM game_events WHERE session_id = ? ORDER BY occurred_at DESC, id DESC LIMIT ?",
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}
	out := make([]forage.DomainEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if row.Payload != "" {
			_ = json.Unmarshal([]byte(row.Payload), &payload)
		}
		out = append(out, forage.DomainEvent{
			ID:         row.EventID,
			Type:       row.Type,
			Tick:       row.Tick,
			OccurredAt: time.Unix(0, row.OccurredAt).UTC(),
			Payload:    payload,
		})
	}
	return out, nil
}
