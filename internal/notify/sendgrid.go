package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/umaimaes/AgroTrace-MS/internal/logger"
)

const sendgridURL = "https://api.sendgrid.com/v3/mail/send"

// Sendgrid sends reset codes through the SendGrid v3 mail API.
// A 202 response means accepted for delivery.
type Sendgrid struct {
	apiKey string
	from   string
	url    string
	client *http.Client
}

func NewSendgrid(apiKey, from string) *Sendgrid {
	return &Sendgrid{
		apiKey: apiKey,
		from:   from,
		url:    sendgridURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type sendgridAddress struct {
	Email string `json:"email"`
}

type sendgridPersonalization struct {
	To []sendgridAddress `json:"to"`
}

type sendgridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendgridPayload struct {
	Personalizations []sendgridPersonalization `json:"personalizations"`
	From             sendgridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendgridContent         `json:"content"`
}

func (s *Sendgrid) Send(ctx context.Context, recipient, code string) (Delivery, error) {
	payload := sendgridPayload{
		Personalizations: []sendgridPersonalization{{To: []sendgridAddress{{Email: recipient}}}},
		From:             sendgridAddress{Email: s.from},
		Subject:          "Your password reset code",
		Content: []sendgridContent{{
			Type:  "text/plain",
			Value: fmt.Sprintf("Your verification code is %s. It expires in 15 minutes.", code),
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Delivery{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return Delivery{}, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Delivery{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Delivery{}, fmt.Errorf("sendgrid send failed: %d %s", resp.StatusCode, detail)
	}

	logger.Log.Info("reset code email sent via sendgrid", "recipient", recipient)
	return Delivery{Sent: true}, nil
}
