package email

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// Address is one recipient
type Address struct {
	Name  string
	Email string
}

// Message is a plain text email with an optional HTML body
type Message struct {
	To      []Address
	Subject string
	Text    string
	HTML    string
}

// Sender delivers messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config holds the sender settings
type Config struct {
	SendgridAPIKey string
	FromEmail      string
	FromName       string
}

// NewSender returns a SendGrid sender when an API key is configured and a
// console sender otherwise
func NewSender(cfg Config, logger zerolog.Logger) Sender {
	if cfg.SendgridAPIKey == "" {
		logger.Warn().Msg("SendGrid API key not configured - emails will be logged instead of sent")
		return &ConsoleSender{logger: logger}
	}
	return &SendgridSender{
		key:        cfg.SendgridAPIKey,
		from:       sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		subjPrefix: "[" + cfg.FromName + "] ",
		logger:     logger,
	}
}

// SendgridSender sends through the SendGrid v3 API
type SendgridSender struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
	logger     zerolog.Logger
}

func (s *SendgridSender) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Email))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}

// Send posts the message; recipients-less messages are dropped
func (s *SendgridSender) Send(_ context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return nil
	}

	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned %d: %s", res.StatusCode, res.Body)
	}
	s.logger.Debug().Int("recipients", len(msg.To)).Str("subject", msg.Subject).Msg("Email sent")
	return nil
}

// ConsoleSender logs messages instead of sending them
type ConsoleSender struct {
	logger zerolog.Logger
}

func NewConsoleSender(logger zerolog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

func (s *ConsoleSender) Send(_ context.Context, msg Message) error {
	to := make([]string, 0, len(msg.To))
	for _, a := range msg.To {
		to = append(to, a.Email)
	}
	s.logger.Info().
		Str("to", strings.Join(to, ", ")).
		Str("subject", msg.Subject).
		Str("body", msg.Text).
		Msg("Email (console)")
	return nil
}
