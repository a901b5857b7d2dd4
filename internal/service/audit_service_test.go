package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mediccare/platform/internal/events"
)

type fakeForwarder struct {
	forwarded []events.Event
	err       error
}

func (f *fakeForwarder) Forward(ctx context.Context, event events.Event) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("forward without deadline")
	}
	f.forwarded = append(f.forwarded, event)
	return f.err
}

func TestAuditServiceLogsAndForwards(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	forwarder := &fakeForwarder{}
	NewAuditService(dispatcher, zap.New(core), forwarder).RegisterHandlers()

	for _, eventType := range events.AllEventTypes {
		err := dispatcher.Publish(context.Background(), events.Event{Type: eventType, Username: "alice"})
		require.NoError(t, err)
	}

	assert.Len(t, forwarder.forwarded, len(events.AllEventTypes))
	assert.Equal(t, len(events.AllEventTypes), logs.FilterField(zap.String("username", "alice")).Len())
}

func TestAuditServiceForwardFailureIsNotPropagated(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	dispatcher := events.NewInMemoryDispatcher()
	NewAuditService(dispatcher, zap.New(core), &fakeForwarder{err: errors.New("broker down")}).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventAccountDeleted})
	assert.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("event forward failed").Len())
}

func TestAuditServiceWithoutForwarder(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	NewAuditService(dispatcher, zap.NewNop(), nil).RegisterHandlers()

	assert.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventAccountApproved}))
}
