package testfixtures

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"bookit-api/internal/core/domain"
)

// SentMail is one recorded dispatch
type SentMail struct {
	Template domain.MailTemplate
	To       string
	Data     map[string]any
}

// FakeDispatcher records notifications instead of sending them
type FakeDispatcher struct {
	mu   sync.Mutex
	sent []SentMail
	Err  error
}

func (f *FakeDispatcher) Send(_ context.Context, tmpl domain.MailTemplate, to string, data map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, SentMail{Template: tmpl, To: to, Data: data})
	return f.Err
}

// Sent returns a copy of all recorded mails
func (f *FakeDispatcher) Sent() []SentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SentMail, len(f.sent))
	copy(out, f.sent)
	return out
}

// ByTemplate returns recorded mails of one template
func (f *FakeDispatcher) ByTemplate(tmpl domain.MailTemplate) []SentMail {
	var out []SentMail
	for _, m := range f.Sent() {
		if m.Template == tmpl {
			out = append(out, m)
		}
	}
	return out
}

// WaitFor blocks until n mails of tmpl were recorded or the timeout passes.
// Dispatch from services runs in background goroutines.
func (f *FakeDispatcher) WaitFor(tmpl domain.MailTemplate, n int, timeout time.Duration) []SentMail {
	deadline := time.Now().Add(timeout)
	for {
		got := f.ByTemplate(tmpl)
		if len(got) >= n || time.Now().After(deadline) {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// FakeMediaStore keeps uploads in memory
type FakeMediaStore struct {
	mu        sync.Mutex
	Uploaded  []string
	Deleted   []string
	UploadErr error
	DeleteErr error
}

func (f *FakeMediaStore) Upload(_ context.Context, folder, filename string, r io.Reader) (string, error) {
	if f.UploadErr != nil {
		return "", f.UploadErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	url := fmt.Sprintf("https://media.test/%s/%s", folder, filename)
	f.Uploaded = append(f.Uploaded, url)
	return url, nil
}

func (f *FakeMediaStore) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, url)
	return f.DeleteErr
}
