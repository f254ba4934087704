package kafka

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

// Message is one record to publish. Topic is required.
type Message struct {
	Topic   string
	Key     string
	Value   []byte
	Headers map[string]string
}

type Publisher interface {
	Publish(ctx context.Context, msgs ...Message) error
	Close() error
}

// messageWriter is the subset of kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Config struct {
	Brokers      []string
	BatchTimeout time.Duration
}

type publisher struct {
	log    *logger.Logger
	writer messageWriter
}

// NewPublisher builds a synchronous writer that routes by message topic and
// hashes keys onto partitions.
func NewPublisher(log *logger.Logger, cfg Config) (Publisher, error) {
	var brokers []string
	for _, b := range cfg.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           batchTimeout,
		AllowAutoTopicCreation: true,
	}
	return newPublisherWith(log, w), nil
}

func newPublisherWith(log *logger.Logger, w messageWriter) Publisher {
	return &publisher{log: log.With("client", "KafkaPublisher"), writer: w}
}

func (p *publisher) Publish(ctx context.Context, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]kafka.Message, 0, len(msgs))
	for i, m := range msgs {
		if strings.TrimSpace(m.Topic) == "" {
			return fmt.Errorf("kafka: message %d has no topic", i)
		}
		km := kafka.Message{Topic: m.Topic, Key: []byte(m.Key), Value: m.Value}
		for k, v := range m.Headers {
			km.Headers = append(km.Headers, kafka.Header{Key: k, Value: []byte(v)})
		}
		out = append(out, km)
	}
	if err := p.writer.WriteMessages(ctx, out...); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (p *publisher) Close() error {
	return p.writer.Close()
}
