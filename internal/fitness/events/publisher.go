package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"github.com/Ankush-patel1/Fitness/internal/telemetry/tracing"
)

const (
	TypeWorkoutCreated = "workout.created"
	TypeStreakUpdated  = "streak.updated"
)

type WorkoutCreated struct {
	WorkoutID string    `json:"workoutId"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Duration  int       `json:"duration"`
	CreatedAt time.Time `json:"createdAt"`
}

type StreakUpdated struct {
	UserID        string `json:"userId"`
	CurrentStreak int    `json:"currentStreak"`
	LongestStreak int    `json:"longestStreak"`
}

// Envelope is the message value written to the topic.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

type Publisher interface {
	PublishWorkoutCreated(ctx context.Context, event WorkoutCreated) error
	PublishStreakUpdated(ctx context.Context, event StreakUpdated) error
	Close() error
}

var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = NoopPublisher{}
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes activity events keyed by user id, so one user's events
// stay ordered within a partition.
type KafkaPublisher struct {
	writer  messageWriter
	NowFunc func() time.Time
}

const (
	// each publish carries a single message, a full batch is flushed at once
	writerBatchSize    = 1
	writerBatchTimeout = 10 * time.Millisecond
	writerWriteTimeout = 5 * time.Second
)

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchSize:    writerBatchSize,
		BatchTimeout: writerBatchTimeout,
		WriteTimeout: writerWriteTimeout,
	})
}

func newKafkaPublisher(writer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{
		writer:  writer,
		NowFunc: time.Now,
	}
}

func (p *KafkaPublisher) PublishWorkoutCreated(ctx context.Context, event WorkoutCreated) error {
	return p.publish(ctx, TypeWorkoutCreated, event.UserID, event)
}

func (p *KafkaPublisher) PublishStreakUpdated(ctx context.Context, event StreakUpdated) error {
	return p.publish(ctx, TypeStreakUpdated, event.UserID, event)
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType, key string, payload any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "events.publish."+eventType)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	value, err := json.Marshal(Envelope{
		Type:       eventType,
		OccurredAt: p.NowFunc().UTC(),
		Payload:    payloadJson,
	})
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", eventType, err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	}); err != nil {
		return fmt.Errorf("write %s message: %w", eventType, err)
	}

	log.Tracef("event [%s] published for [%s]", eventType, key)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishWorkoutCreated(context.Context, WorkoutCreated) error { return nil }
func (NoopPublisher) PublishStreakUpdated(context.Context, StreakUpdated) error   { return nil }
func (NoopPublisher) Close() error                                                { return nil }
