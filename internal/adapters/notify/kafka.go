package notify

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"bookit-api/internal/config"
	"bookit-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// MailEvent is the message published for every notification
type MailEvent struct {
	ID        string              `json:"id"`
	Template  domain.MailTemplate `json:"template"`
	Recipient string              `json:"recipient"`
	Data      map[string]any      `json:"data"`
	CreatedAt time.Time           `json:"created_at"`
}

// KafkaDispatcher publishes mail events for the mailer worker
type KafkaDispatcher struct {
	writer *kafka.Writer
}

// NewKafkaDispatcher creates a producer for cfg.Topic.
// SASL/PLAIN over TLS is used when credentials are configured.
func NewKafkaDispatcher(cfg config.KafkaConfig) *KafkaDispatcher {
	transport := &kafka.Transport{}
	if cfg.Username != "" {
		transport.SASL = plain.Mechanism{Username: cfg.Username, Password: cfg.Password}
		transport.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return &KafkaDispatcher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Broker),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			Transport:    transport,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Send publishes one event keyed by recipient
func (d *KafkaDispatcher) Send(ctx context.Context, tmpl domain.MailTemplate, to string, data map[string]any) error {
	event := MailEvent{
		ID:        uuid.NewString(),
		Template:  tmpl,
		Recipient: to,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal mail event: %w", err)
	}

	if err := d.writer.WriteMessages(ctx, kafka.Message{Key: []byte(to), Value: payload}); err != nil {
		return fmt.Errorf("publish mail event: %w", err)
	}
	return nil
}

// Close flushes and closes the producer
func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}

// KafkaConsumer reads mail events and hands them to a delivering dispatcher
type KafkaConsumer struct {
	reader  *kafka.Reader
	handler *EventHandler
}

// NewKafkaConsumer creates a consumer group reader for cfg.Topic
func NewKafkaConsumer(cfg config.KafkaConfig, handler *EventHandler) *KafkaConsumer {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if cfg.Username != "" {
		dialer.SASLMechanism = plain.Mechanism{Username: cfg.Username, Password: cfg.Password}
		dialer.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  []string{cfg.Broker},
			GroupID:  cfg.GroupID,
			Topic:    cfg.Topic,
			MinBytes: 10e3,
			MaxBytes: 10e6,
			Dialer:   dialer,
		}),
		handler: handler,
	}
}

// Listen blocks until ctx is cancelled
func (c *KafkaConsumer) Listen(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[MAILER] read error: %v", err)
			continue
		}

		if err := c.handler.Handle(ctx, msg.Value); err != nil {
			log.Printf("[MAILER] handler error at offset %d: %v", msg.Offset, err)
		}
	}
}

// Close closes the reader
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

// Sender delivers a rendered notification
type Sender interface {
	Send(ctx context.Context, tmpl domain.MailTemplate, to string, data map[string]any) error
}

// EventHandler decodes a mail event and delivers it
type EventHandler struct {
	sender Sender
}

// NewEventHandler creates a new event handler
func NewEventHandler(sender Sender) *EventHandler {
	return &EventHandler{sender: sender}
}

// Handle decodes one payload and sends it
func (h *EventHandler) Handle(ctx context.Context, payload []byte) error {
	var event MailEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("invalid mail event: %w", err)
	}
	if event.Recipient == "" {
		return errors.New("mail event has no recipient")
	}

	log.Printf("[MAILER] event %s: %s to=%s", event.ID, event.Template, event.Recipient)

	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return h.sender.Send(sendCtx, event.Template, event.Recipient, event.Data)
}
