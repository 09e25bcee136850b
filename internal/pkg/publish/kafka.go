// Package publish ships assembled odds aggregates to Kafka for
// downstream consumers (analytics, arbitrage screens).
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mazyy/RobbinOdds/internal/pkg/models"
)

// KafkaPublisher wraps one topic writer. Messages are keyed by match ID
// so all updates for a match land on the same partition, in order.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not provided")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic not provided")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		ReadTimeout:            10 * time.Second,
		WriteTimeout:           10 * time.Second,
	}

	return &KafkaPublisher{writer: writer}, nil
}

// Publish serializes the aggregate and writes it to the topic.
func (p *KafkaPublisher) Publish(ctx context.Context, odds *models.MatchEventOdds) error {
	value, err := json.Marshal(odds)
	if err != nil {
		return fmt.Errorf("marshal odds aggregate: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(odds.MatchID),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish odds aggregate: %w", err)
	}

	slog.Debug("Published odds aggregate",
		"match_id", odds.MatchID,
		"betting_type", odds.CurrentBettingType,
		"scope", odds.CurrentScope)
	return nil
}

// Close finalizes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
