package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	texttemplate "text/template"

	"bookit-api/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var subjects = map[domain.MailTemplate]string{
	domain.TemplateSignupVerification:  "Verify your BookIt account",
	domain.TemplatePasswordReset:       "Your BookIt password reset code",
	domain.TemplateBookingConfirmation: "Booking received - {{.confirmation_number}}",
	domain.TemplatePaymentConfirmation: "Payment confirmed - {{.confirmation_number}}",
	domain.TemplateBookingCancellation: "Booking cancelled - {{.confirmation_number}}",
	domain.TemplateContactForm:         "New contact message from {{.name}}",
}

var funcs = template.FuncMap{"money": formatMoney}

// Renderer turns a template name and data into a subject and HTML body
type Renderer struct {
	bodies   map[domain.MailTemplate]*template.Template
	subjects map[domain.MailTemplate]*texttemplate.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		bodies:   make(map[domain.MailTemplate]*template.Template, len(subjects)),
		subjects: make(map[domain.MailTemplate]*texttemplate.Template, len(subjects)),
	}

	for name, subject := range subjects {
		body, err := template.New(string(name)).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+string(name)+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		st, err := texttemplate.New(string(name)).Parse(subject)
		if err != nil {
			return nil, fmt.Errorf("parse %s subject: %w", name, err)
		}
		r.bodies[name] = body
		r.subjects[name] = st
	}
	return r, nil
}

// Render executes the subject and body for tmpl
func (r *Renderer) Render(tmpl domain.MailTemplate, data map[string]any) (string, string, error) {
	body, ok := r.bodies[tmpl]
	if !ok {
		return "", "", fmt.Errorf("unknown mail template %q", tmpl)
	}

	var subject bytes.Buffer
	if err := r.subjects[tmpl].Execute(&subject, data); err != nil {
		return "", "", fmt.Errorf("render %s subject: %w", tmpl, err)
	}

	var html bytes.Buffer
	if err := body.ExecuteTemplate(&html, "layout", data); err != nil {
		return "", "", fmt.Errorf("render %s body: %w", tmpl, err)
	}

	return strings.TrimSpace(subject.String()), html.String(), nil
}

// formatMoney prints an amount as pesos with thousands separators.
// Amounts decoded from JSON arrive as float64.
func formatMoney(v any) string {
	var amount float64
	switch n := v.(type) {
	case float64:
		amount = n
	case float32:
		amount = float64(n)
	case int:
		amount = float64(n)
	case int64:
		amount = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return n
		}
		amount = parsed
	default:
		return fmt.Sprint(v)
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	fixed := strconv.FormatFloat(amount, 'f', 2, 64)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + "₱" + b.String() + "." + frac
}
