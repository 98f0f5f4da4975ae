// Package audit subscribes to domain events and writes a structured
// audit trail of sharing and reservation activity.
package audit

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/wishlist-management/internal/core/events"
)

type EventHandler struct {
	logger *slog.Logger
}

func NewEventHandler(logger *slog.Logger) *EventHandler {
	return &EventHandler{
		logger: logger.With("component", "audit"),
	}
}

func (h *EventHandler) HandleEvent(ctx context.Context, event events.Event) error {
	attrs := []any{
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"occurred_at", event.OccurredAt(),
	}
	if data, ok := event.Payload().(map[string]interface{}); ok {
		for k, v := range data {
			attrs = append(attrs, k, v)
		}
	}
	h.logger.Info("audit", attrs...)
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	auditedTypes := []string{
		events.EventTypeListCreated,
		events.EventTypeListUpdated,
		events.EventTypeListDeleted,
		events.EventTypeListShared,
		events.EventTypeListUnshared,
		events.EventTypeCoManagerAdded,
		events.EventTypeCoManagerRemoved,
		events.EventTypeInvitationSent,
		events.EventTypeInvitationAccepted,
		events.EventTypeWishReserved,
		events.EventTypeReservationCanceled,
	}

	for _, eventType := range auditedTypes {
		eventBus.Subscribe(eventType, h.HandleEvent)
	}

	h.logger.Info("audit event handlers registered", "handlers", auditedTypes)
}
