package notifications

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/connectapi/connect-api/internal/logger"
	"github.com/connectapi/connect-api/internal/models"
)

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// WelcomeEmailPayload is the message body enqueued for the mail worker.
type WelcomeEmailPayload struct {
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Publisher enqueues welcome-email notifications for newly registered users.
type Publisher struct {
	writer KafkaWriter
}

// NewPublisher creates a new Publisher.
func NewPublisher(writer KafkaWriter) *Publisher {
	return &Publisher{writer: writer}
}

// NotifyRegistered publishes a welcome-email message for the user. Delivery
// is fire-and-forget: the call does not wait for the mail to be sent, and a
// publish failure is logged without affecting the registration.
func (p *Publisher) NotifyRegistered(ctx context.Context, user *models.UserDB) error {
	if p.writer == nil {
		logger.Log.Warnw("kafka writer not configured, skipping welcome notification", "username", user.Username)
		return nil
	}

	payload := WelcomeEmailPayload{
		UserID:       user.UserID.String(),
		Username:     user.Username,
		Email:        user.Email,
		RegisteredAt: user.CreatedAt,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Errorw("failed to marshal welcome notification", "username", user.Username, "error", err)
		return err
	}

	msg := kafka.Message{
		Key:   []byte(payload.UserID),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish welcome notification", "username", user.Username, "error", err)
		return err
	}

	logger.Log.Infow("welcome notification enqueued", "username", user.Username, "email", user.Email)
	return nil
}
