package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/connectapi/connect-api/internal/logger"
)

// KafkaReader defines a Kafka consumer abstraction.
type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)            // Blocks until a message arrives
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error    // Marks messages as processed
	Close() error                                                       // Closes the Kafka reader
}

// DeliveryMarker records that a welcome mail has been handed to the
// transport for a user. MarkDelivered returns false when the user was
// already marked, which keeps delivery at-most-once per registration.
type DeliveryMarker interface {
	MarkDelivered(ctx context.Context, userID string) (bool, error)
}

// RedisMarker implements DeliveryMarker on top of a redis SETNX key.
type RedisMarker struct {
	rdb *redis.Client
}

// NewRedisMarker creates a RedisMarker.
func NewRedisMarker(rdb *redis.Client) *RedisMarker {
	return &RedisMarker{rdb: rdb}
}

// MarkDelivered sets the per-user marker, reporting whether this call won.
func (m *RedisMarker) MarkDelivered(ctx context.Context, userID string) (bool, error) {
	return m.rdb.SetNX(ctx, "welcome_email:"+userID, 1, 0).Result()
}

// Worker consumes queued welcome-email messages and sends the mail.
type Worker struct {
	reader KafkaReader
	sender Sender
	marker DeliveryMarker
}

// NewWorker creates a Worker.
func NewWorker(reader KafkaReader, sender Sender, marker DeliveryMarker) *Worker {
	return &Worker{
		reader: reader,
		sender: sender,
		marker: marker,
	}
}

// Run consumes messages until the context is cancelled. Processing failures
// are logged and the message is committed anyway: welcome mail carries no
// delivery guarantee and must never wedge the queue.
func (w *Worker) Run(ctx context.Context) error {
	for {
		msg, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		w.process(ctx, msg)

		if err := w.reader.CommitMessages(ctx, msg); err != nil {
			logger.Log.Errorw("failed to commit message", "offset", msg.Offset, "error", err)
		}
	}
}

func (w *Worker) process(ctx context.Context, msg kafka.Message) {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		logger.Log.Errorw("failed to decode welcome notification", "offset", msg.Offset, "error", err)
		return
	}

	won, err := w.marker.MarkDelivered(ctx, payload.UserID)
	if err != nil {
		logger.Log.Errorw("delivery marker check failed", "user_id", payload.UserID, "error", err)
		return
	}
	if !won {
		logger.Log.Infow("welcome mail already sent, skipping", "user_id", payload.UserID)
		return
	}

	if err := w.sender.SendWelcome(ctx, payload.Email, payload.Username); err != nil {
		logger.Log.Errorw("failed to send welcome mail", "email", payload.Email, "error", err)
		return
	}

	logger.Log.Infow("welcome mail sent", "email", payload.Email, "username", payload.Username)
}
