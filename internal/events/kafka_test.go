package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherForward(t *testing.T) {
	w := &recordingWriter{}
	p := NewKafkaPublisherWithWriter(w)
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	err := p.Forward(context.Background(), Event{
		ID:        "evt-1",
		Type:      EventAccountApproved,
		AccountID: "acc-1",
		Username:  "dr_who",
		Role:      "DOCTOR",
		Timestamp: ts,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "acc-1", string(msg.Key))
	assert.Equal(t, ts, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "account.approved", string(msg.Headers[0].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "dr_who", decoded.Username)
	assert.Equal(t, EventAccountApproved, decoded.Type)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "topic")
	assert.Error(t, err)

	_, err = NewKafkaPublisher([]string{"127.0.0.1:9092"}, "")
	assert.Error(t, err)
}

func TestNewKafkaPublisherFlushesPromptly(t *testing.T) {
	p, err := NewKafkaPublisher([]string{"127.0.0.1:9092"}, "mediccare.account-lifecycle")
	require.NoError(t, err)
	defer p.Close() //nolint:errcheck

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, batchTimeout, w.BatchTimeout)
	assert.Less(t, w.BatchTimeout, 100*time.Millisecond)
	assert.Equal(t, "mediccare.account-lifecycle", w.Topic)
}
