package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishMapsMessages(t *testing.T) {
	fw := &fakeWriter{}
	p := newPublisherWith(logger.Nop(), fw)

	err := p.Publish(context.Background(), Message{
		Topic:   "storefront.orders",
		Key:     "42",
		Value:   []byte(`{"order_id":42}`),
		Headers: map[string]string{"event_type": "order.created"},
	})
	require.NoError(t, err)
	require.Len(t, fw.msgs, 1)
	assert.Equal(t, "storefront.orders", fw.msgs[0].Topic)
	assert.Equal(t, []byte("42"), fw.msgs[0].Key)
	require.Len(t, fw.msgs[0].Headers, 1)
	assert.Equal(t, "event_type", fw.msgs[0].Headers[0].Key)

	require.NoError(t, p.Close())
	assert.True(t, fw.closed)
}

func TestPublishRejectsMissingTopic(t *testing.T) {
	fw := &fakeWriter{}
	p := newPublisherWith(logger.Nop(), fw)
	err := p.Publish(context.Background(), Message{Key: "1"})
	require.Error(t, err)
	assert.Empty(t, fw.msgs)
}

func TestPublishWrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := newPublisherWith(logger.Nop(), &fakeWriter{err: boom})
	err := p.Publish(context.Background(), Message{Topic: "t", Key: "1"})
	assert.ErrorIs(t, err, boom)
}

func TestNewPublisherRequiresBrokers(t *testing.T) {
	_, err := NewPublisher(logger.Nop(), Config{Brokers: []string{" ", ""}})
	assert.Error(t, err)
}
