package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/scholarlift/escalation-service/internal/events"
)

// NotificationService logs lifecycle events for operators. Actual
// delivery channels (email, SMS) live outside this service.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventEscalationCreated, n.handleEvent("EscalationCreated"))
	n.dispatcher.Subscribe(events.EventEscalationAssigned, n.handleEvent("EscalationAssigned"))
	n.dispatcher.Subscribe(events.EventEscalationStatusChanged, n.handleEvent("EscalationStatusChanged"))
	n.dispatcher.Subscribe(events.EventEscalationResolved, n.handleEvent("EscalationResolved"))
}

func (n *NotificationService) handleEvent(name string) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		n.logger.Info(name,
			zap.String("escalation_id", event.EscalationID),
			zap.String("actor_id", event.ActorID),
			zap.Any("payload", event.Payload))
		return nil
	}
}
