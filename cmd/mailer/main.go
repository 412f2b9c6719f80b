// Command mailer consumes mail events from Kafka and delivers them over SMTP.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"bookit-api/internal/adapters/notify"
	"bookit-api/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}
	if cfg.Kafka.Broker == "" {
		log.Fatal("❌ KAFKA_BROKER is required for the mailer")
	}

	renderer, err := notify.NewRenderer()
	if err != nil {
		log.Fatalf("❌ Failed to parse mail templates: %v", err)
	}

	sender := notify.NewSMTPDispatcher(cfg.SMTP, renderer)
	consumer := notify.NewKafkaConsumer(cfg.Kafka, notify.NewEventHandler(sender))
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("📬 Mailer listening on %s (group %s)", cfg.Kafka.Topic, cfg.Kafka.GroupID)
	consumer.Listen(ctx)
	log.Println("✅ Mailer stopped")
}
