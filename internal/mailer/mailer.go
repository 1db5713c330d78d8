package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quickcart-be/internal/logger"

	"go.uber.org/zap"
)

type Message struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Transport hands a rendered message to a delivery channel.
type Transport interface {
	Deliver(ctx context.Context, msg Message) error
}

// Mailer renders account emails and delivers them through a Transport.
type Mailer struct {
	transport Transport
	baseURL   string
	from      string
}

func New(transport Transport, baseURL, from string) *Mailer {
	return &Mailer{
		transport: transport,
		baseURL:   strings.TrimRight(baseURL, "/"),
		from:      from,
	}
}

// VerificationLink builds the storefront URL that confirms an email address.
func (m *Mailer) VerificationLink(email, token string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)
	return m.baseURL + "/verify?" + q.Encode()
}

func (m *Mailer) SendVerification(ctx context.Context, to, name, token string) error {
	greeting := "Hi"
	if name != "" {
		greeting = "Hi " + name
	}

	msg := Message{
		From:    m.from,
		To:      to,
		Subject: "Verify your QuickCart account",
		Body: fmt.Sprintf("%s,\n\nConfirm your email address to finish signing up:\n%s\n",
			greeting, m.VerificationLink(to, token)),
	}
	if err := m.transport.Deliver(ctx, msg); err != nil {
		return fmt.Errorf("send verification: %w", err)
	}
	return nil
}

// LogTransport writes messages to the log. Used when no relay is configured.
type LogTransport struct{}

func (LogTransport) Deliver(ctx context.Context, msg Message) error {
	logger.FromCtx(ctx).Info("mail not relayed, logging instead",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}

// RelayTransport posts messages as JSON to an HTTP mail relay.
type RelayTransport struct {
	endpoint string
	client   *http.Client
}

func NewRelayTransport(baseURL string, client *http.Client) *RelayTransport {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RelayTransport{
		endpoint: strings.TrimRight(baseURL, "/") + "/send",
		client:   client,
	}
}

func (t *RelayTransport) Deliver(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail relay returned status %d", resp.StatusCode)
	}
	return nil
}
