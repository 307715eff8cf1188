package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mohit-mindspick/whatsapp/internal/logging"
	"github.com/mohit-mindspick/whatsapp/internal/metrics"
)

const publishTimeout = 5 * time.Second

// Writer is the subset of *kafka.Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher interface {
	Publish(ctx context.Context, event BaseEvent) error
	Close() error
}

type KafkaPublisher struct {
	writer Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &KafkaPublisher{writer: w}
}

func NewKafkaPublisherWithWriter(w Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish writes the event as JSON keyed by its entity id.
func (p *KafkaPublisher) Publish(ctx context.Context, event BaseEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}
	msg := kafka.Message{Key: []byte(event.EntityID), Value: data}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, BaseEvent) error { return nil }
func (NopPublisher) Close() error                             { return nil }

// Emitter publishes best-effort: failures are logged and counted, never
// returned to the caller.
type Emitter struct {
	pub     Publisher
	metrics *metrics.Metrics
}

func NewEmitter(pub Publisher, m *metrics.Metrics) *Emitter {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &Emitter{pub: pub, metrics: m}
}

func (e *Emitter) Emit(ctx context.Context, event BaseEvent) {
	if e == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := e.pub.Publish(pubCtx, event)
	e.metrics.EventPublished(err == nil)
	if err != nil {
		logging.FromContext(ctx).Error("publish_event_error",
			"event_type", event.EventType,
			"entity_type", event.EntityType,
			"entity_id", event.EntityID,
			"error", err)
	}
}

// EnsureTopic creates the topic on the cluster controller. An existing topic
// is not an error.
func EnsureTopic(ctx context.Context, brokers []string, topic string, partitions, replicas int) error {
	if len(brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}
	var d kafka.Dialer
	conn, err := d.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("dial kafka: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("kafka controller: %w", err)
	}
	cconn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("dial kafka controller: %w", err)
	}
	defer cconn.Close()

	err = cconn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: replicas,
	})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	return nil
}
