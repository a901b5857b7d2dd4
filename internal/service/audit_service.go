package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mediccare/platform/internal/events"
)

const forwardTimeout = 5 * time.Second

// EventForwarder ships lifecycle events off-process.
type EventForwarder interface {
	Forward(ctx context.Context, event events.Event) error
}

// AuditService records every account lifecycle event.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	forwarder  EventForwarder
}

// NewAuditService creates the service. forwarder may be nil.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, forwarder EventForwarder) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		forwarder:  forwarder,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		a.dispatcher.Subscribe(eventType, a.handle)
	}
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("account_id", event.AccountID),
		zap.String("username", event.Username),
		zap.String("role", string(event.Role)),
		zap.Any("payload", event.Payload))
	a.forward(ctx, event)
	return nil
}

// forward outlives the request that produced the event.
func (a *AuditService) forward(ctx context.Context, event events.Event) {
	if a.forwarder == nil {
		return
	}
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), forwardTimeout)
	defer cancel()
	if err := a.forwarder.Forward(fctx, event); err != nil {
		a.logger.Warn("event forward failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
