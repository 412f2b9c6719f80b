// Package notify delivers templated emails over SMTP, Kafka or the log.
package notify

import (
	"context"
	"fmt"
	"log"

	"bookit-api/internal/config"
	"bookit-api/internal/core/domain"
)

// Dispatcher is a closable notification sender
type Dispatcher interface {
	Send(ctx context.Context, tmpl domain.MailTemplate, to string, data map[string]any) error
	Close() error
}

// New builds the dispatcher selected by NOTIFY_DRIVER
func New(cfg *config.Config) (Dispatcher, error) {
	switch cfg.Notify.Driver {
	case "smtp":
		renderer, err := NewRenderer()
		if err != nil {
			return nil, err
		}
		log.Printf("📧 Notifications via SMTP %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
		return NewSMTPDispatcher(cfg.SMTP, renderer), nil
	case "kafka":
		log.Printf("📧 Notifications via Kafka topic %s", cfg.Kafka.Topic)
		return NewKafkaDispatcher(cfg.Kafka), nil
	case "log", "":
		renderer, err := NewRenderer()
		if err != nil {
			return nil, err
		}
		log.Println("📧 Notifications are logged, not delivered")
		return NewLogDispatcher(renderer), nil
	default:
		return nil, fmt.Errorf("unknown notify driver %q", cfg.Notify.Driver)
	}
}

// LogDispatcher renders and logs notifications. Used in development.
type LogDispatcher struct {
	renderer *Renderer
}

// NewLogDispatcher creates a new log dispatcher
func NewLogDispatcher(renderer *Renderer) *LogDispatcher {
	return &LogDispatcher{renderer: renderer}
}

// Send renders tmpl and logs the subject
func (d *LogDispatcher) Send(_ context.Context, tmpl domain.MailTemplate, to string, data map[string]any) error {
	subject, _, err := d.renderer.Render(tmpl, data)
	if err != nil {
		return err
	}
	log.Printf("[MAIL] %s to=%s subject=%q data=%v", tmpl, to, subject, data)
	return nil
}

// Close is a no-op
func (d *LogDispatcher) Close() error {
	return nil
}
