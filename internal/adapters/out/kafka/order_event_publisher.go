// Package kafka publishes committed domain events to Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"escrow/internal/pkg/ddd"

	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafkago.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// EventPublisher implements ports.EventPublisher. Each event is keyed by its
// aggregate id, so all changes of one order land on one partition in order.
type EventPublisher struct {
	writer       MessageWriter
	defaultTopic string
	topicByEvent map[string]string
}

func NewEventPublisher(brokers []string, defaultTopic string, topicByEvent map[string]string) (*EventPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher requires at least one broker")
	}
	writer := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		RequiredAcks:           kafkago.RequireAll,
		Balancer:               &kafkago.Hash{},
		AllowAutoTopicCreation: true,
	}
	return NewEventPublisherWithWriter(writer, defaultTopic, topicByEvent)
}

func NewEventPublisherWithWriter(writer MessageWriter, defaultTopic string, topicByEvent map[string]string) (*EventPublisher, error) {
	if writer == nil {
		return nil, errors.New("kafka publisher requires a writer")
	}
	if defaultTopic == "" {
		return nil, errors.New("kafka publisher requires a default topic")
	}
	return &EventPublisher{
		writer:       writer,
		defaultTopic: defaultTopic,
		topicByEvent: topicByEvent,
	}, nil
}

func (p *EventPublisher) Publish(ctx context.Context, events ...ddd.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, 0, len(events))
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.EventName(), err)
		}
		msgs = append(msgs, kafkago.Message{
			Topic: p.topicFor(e.EventName()),
			Key:   []byte(e.AggregateID()),
			Value: payload,
			Time:  e.OccurredAt(),
			Headers: []kafkago.Header{
				{Key: "event-name", Value: []byte(e.EventName())},
				{Key: "event-id", Value: []byte(e.EventID().String())},
			},
		})
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *EventPublisher) topicFor(eventName string) string {
	if topic, ok := p.topicByEvent[eventName]; ok && topic != "" {
		return topic
	}
	return p.defaultTopic
}

func (p *EventPublisher) Close() error {
	return p.writer.Close()
}
