package services

import (
	"context"
	"io"
	"log"
	"time"

	"bookit-api/internal/core/domain"
)

// Dispatcher renders and delivers a templated notification
type Dispatcher interface {
	Send(ctx context.Context, tmpl domain.MailTemplate, to string, data map[string]any) error
}

// MediaStore hosts uploaded images and returns stable URLs
type MediaStore interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// ImageFile is an uploaded image handed over by a handler
type ImageFile struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// Clock returns the current time
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// dispatchTimeout bounds a single background send
const dispatchTimeout = 30 * time.Second

// dispatchAsync sends in the background; failures are logged, never returned.
// The request context is detached so the send outlives the response.
func dispatchAsync(ctx context.Context, d Dispatcher, tmpl domain.MailTemplate, to string, data map[string]any) {
	if d == nil || to == "" {
		log.Printf("⚠️ Skipping %s notification: no dispatcher or recipient", tmpl)
		return
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
		defer cancel()

		if err := d.Send(sendCtx, tmpl, to, data); err != nil {
			log.Printf("❌ Failed to send %s email to %s: %v", tmpl, to, err)
			return
		}
		log.Printf("📧 %s email sent to %s", tmpl, to)
	}()
}
