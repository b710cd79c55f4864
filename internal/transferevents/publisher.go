// Package transferevents publishes completed transfers to Kafka.
package transferevents

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const writeTimeout = 10 * time.Second

// Event is the message value of a completed transfer.
type Event struct {
	TransactionID      int64     `json:"transaction_id"`
	SenderID           int64     `json:"sender_id"`
	RecipientID        int64     `json:"recipient_id"`
	SenderAccountID    int64     `json:"sender_account_id"`
	RecipientAccountID int64     `json:"recipient_account_id"`
	Amount             int64     `json:"amount"`
	Fee                int64     `json:"fee"`
	TransactionType    string    `json:"transaction_type"`
	Status             string    `json:"status"`
	OccurredAt         time.Time `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per transfer, keyed by the sender account,
// so the events of an account stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher returns a publisher writing to the topic on the brokers.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: writeTimeout,
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Debug().Msgf(msg, args...)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error().Msgf(msg, args...)
		}),
	}

	return &KafkaPublisher{writer: w, topic: topic}
}

// PublishTransfer writes the transaction as an Event.
func (p *KafkaPublisher) PublishTransfer(ctx context.Context, tx domain.Transaction) error {
	msg, err := newMessage(tx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write transfer event to %s: %w", p.topic, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("topic", p.topic).
		Int64("transaction_id", tx.ID).
		Msg("transfer event published")

	return nil
}

// Close flushes pending writes and closes the connections.
func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("close kafka writer: %w", err)
	}

	return nil
}

func newMessage(tx domain.Transaction) (kafka.Message, error) {
	occurredAt := tx.CreatedAt
	if tx.CompletedAt != nil {
		occurredAt = *tx.CompletedAt
	}

	value, err := json.Marshal(Event{
		TransactionID:      tx.ID,
		SenderID:           tx.SenderID,
		RecipientID:        tx.RecipientID,
		SenderAccountID:    tx.SenderAccountID,
		RecipientAccountID: tx.RecipientAccountID,
		Amount:             tx.Amount,
		Fee:                tx.Fee,
		TransactionType:    tx.TransactionType,
		Status:             string(tx.Status),
		OccurredAt:         occurredAt,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal transfer event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(strconv.FormatInt(tx.SenderAccountID, 10)),
		Value: value,
		Time:  occurredAt,
	}, nil
}
