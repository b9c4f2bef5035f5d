package history

import (
	"context"
	"errors"
	"strings"

	"questforge/internal/app/ports"
	"questforge/internal/domain/adventure"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

var ErrInvalidRequest = errors.New("invalid history request")

type UseCase struct {
	Events ports.EventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.UserID) == "" || u.Events == nil {
		return Response{}, ErrInvalidRequest
	}
	if req.OccurredFrom > 0 && req.OccurredTo > 0 && req.OccurredFrom > req.OccurredTo {
		return Response{}, ErrInvalidRequest
	}
	limit := req.Limit
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	events, err := u.Events.ListByUserID(ctx, strings.TrimSpace(req.UserID), limit)
	if err != nil {
		return Response{}, err
	}
	events = filterByTimeWindow(events, req.OccurredFrom, req.OccurredTo)
	if events == nil {
		events = []adventure.Event{}
	}
	return Response{Events: events, Summary: summarize(events)}, nil
}

// filterByTimeWindow keeps events within [from, to], both unix seconds; zero
// means unbounded.
func filterByTimeWindow(events []adventure.Event, from, to int64) []adventure.Event {
	if from <= 0 && to <= 0 {
		return events
	}
	out := make([]adventure.Event, 0, len(events))
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

func summarize(events []adventure.Event) Summary {
	var s Summary
	for _, evt := range events {
		switch evt.Type {
		case adventure.EventEnergyAdded:
			s.EnergyAdded += int(num(evt.Payload["amount"]))
		case adventure.EventAdventureStarted:
			s.AdventuresStarted++
			if n := int(num(evt.Payload["adventure_ordinal"])); n > s.LatestOrdinal {
				s.LatestOrdinal = n
			}
		case adventure.EventAdventureCompleted:
			s.AdventuresCompleted++
		case adventure.EventRewardCollected:
			s.DiamondsCollected += int(num(evt.Payload["amount"]))
		case adventure.EventAdventureReset:
			s.Resets++
		}
	}
	return s
}

// num reads a payload number that may have gone through a JSON round trip.
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
		return 0
	}
}
