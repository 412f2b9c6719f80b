package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"bookit-api/internal/config"
	"bookit-api/internal/core/domain"
)

const (
	smtpDialTimeout = 8 * time.Second
	smtpIOTimeout   = 15 * time.Second
)

// SMTPDispatcher renders templates and delivers them over SMTP
type SMTPDispatcher struct {
	cfg      config.SMTPConfig
	renderer *Renderer
}

// NewSMTPDispatcher creates a new SMTP dispatcher
func NewSMTPDispatcher(cfg config.SMTPConfig, renderer *Renderer) *SMTPDispatcher {
	return &SMTPDispatcher{cfg: cfg, renderer: renderer}
}

// Send renders tmpl and delivers it to one recipient
func (d *SMTPDispatcher) Send(ctx context.Context, tmpl domain.MailTemplate, to string, data map[string]any) error {
	subject, body, err := d.renderer.Render(tmpl, data)
	if err != nil {
		return err
	}

	msg := d.buildMessage(to, subject, body)
	log.Printf("[MAIL] smtp sending %s to=%s via=%s:%d", tmpl, to, d.cfg.Host, d.cfg.Port)
	return d.deliver(ctx, to, msg)
}

// Close is a no-op; connections are opened per message
func (d *SMTPDispatcher) Close() error {
	return nil
}

func (d *SMTPDispatcher) buildMessage(to, subject, body string) []byte {
	from := d.cfg.From
	if d.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("UTF-8", d.cfg.FromName), d.cfg.From)
	}

	return []byte(strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + mime.QEncoding.Encode("UTF-8", subject),
		"Date: " + time.Now().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		body,
	}, "\r\n"))
}

// deliver uses implicit TLS on 465 and STARTTLS when offered otherwise
func (d *SMTPDispatcher) deliver(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(d.cfg.Host, strconv.Itoa(d.cfg.Port))
	tlsConfig := &tls.Config{ServerName: d.cfg.Host, MinVersion: tls.VersionTLS12}

	dialer := &net.Dialer{Timeout: smtpDialTimeout}
	var conn net.Conn
	var err error
	if d.cfg.Port == 465 {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	deadline := time.Now().Add(smtpIOTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, d.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() { _ = c.Quit() }()

	if d.cfg.Port != 465 {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if d.cfg.User != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", d.cfg.User, d.cfg.Password, d.cfg.Host)); err != nil {
				return fmt.Errorf("auth: %w", err)
			}
		}
	}

	if err := c.Mail(d.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
