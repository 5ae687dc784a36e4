package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hearthfield/internal/adapter/repo/gorm/model"
	"hearthfield/internal/app/ports"
	"hearthfield/internal/domain/forage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, sessionID string, events []forage.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.GameEvent, 0, len(events))
	for _, e := range events {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", e.Type, err)
		}
		rows = append(rows, model.GameEvent{
			EventID:    e.ID,
			SessionID:  sessionID,
			Type:       e.Type,
			Tick:       e.Tick,
			OccurredAt: e.OccurredAt,
			Payload:    b,
		})
	}
	err := conn(ctx, r.db).Create(&rows).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: event already journaled", ports.ErrConflict)
	}
	return err
}

func (r EventRepo) ListBySessionID(ctx context.Context, sessionID string, limit int) ([]forage.DomainEvent, error) {
	rows := []model.GameEvent{}
	query := conn(ctx, r.db).
		Where(&model.GameEvent{SessionID: sessionID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{
				{Column: clause.Column{Name: "occurred_at"}, Desc: true},
				{Column: clause.Column{Name: "id"}, Desc: true},
			},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}

	out := make([]forage.DomainEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, forage.DomainEvent{
			ID:         row.EventID,
			Type:       row.Type,
			Tick:       row.Tick,
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}
