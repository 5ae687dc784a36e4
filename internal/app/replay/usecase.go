package replay

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"hearthfield/internal/app/ports"
	"hearthfield/internal/domain/forage"
)

var ErrInvalidRequest = errors.New("invalid replay request")

type UseCase struct {
	Events ports.EventRepository
}

// Execute returns the session's journal in chronological order.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.SessionID) == "" || req.Limit < 0 {
		return Response{}, ErrInvalidRequest
	}
	if req.OccurredFrom > 0 && req.OccurredTo > 0 && req.OccurredFrom > req.OccurredTo {
		return Response{}, ErrInvalidRequest
	}
	events, err := u.Events.ListBySessionID(ctx, req.SessionID, req.Limit)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return Response{Events: []forage.DomainEvent{}}, nil
		}
		return Response{}, err
	}
	events = filterByTimeWindow(events, req.OccurredFrom, req.OccurredTo)
	slices.SortStableFunc(events, func(a, b forage.DomainEvent) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})
	return Response{Events: events, Latest: summarize(events)}, nil
}

func filterByTimeWindow(events []forage.DomainEvent, from, to int64) []forage.DomainEvent {
	if from <= 0 && to <= 0 {
		return events
	}
	out := make([]forage.DomainEvent, 0, len(events))
	for _, evt := range events {
		ts := evt.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func summarize(events []forage.DomainEvent) Summary {
	out := Summary{}
	for _, evt := range events {
		if evt.Tick > out.Tick {
			out.Tick = evt.Tick
		}
		h, ok := evt.Payload["hunger_after"]
		if !ok {
			continue
		}
		out.Hunger = int(num(h))
		out.Known = true
	}
	return out
}

func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		if t, ok := v.(time.Time); ok {
			return float64(t.Unix())
		}
		return 0
	}
}
