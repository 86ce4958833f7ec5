// Package notify delivers password-reset codes by email through an ordered
// chain of providers: an HTTP API provider first, then plain SMTP, then a
// disabled no-op. Delivery is best-effort: a failed provider logs and falls
// through, and the chain never surfaces an error to the reset flow.
package notify

import (
	"context"

	"github.com/umaimaes/AgroTrace-MS/internal/config"
	"github.com/umaimaes/AgroTrace-MS/internal/logger"
)

// Delivery is the uniform result reported to callers regardless of which
// underlying channel succeeded.
type Delivery struct {
	Sent       bool   `json:"sent"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

type Notifier interface {
	Send(ctx context.Context, recipient, code string) (Delivery, error)
}

// Chain tries each provider in order and returns the first successful
// delivery. If every provider fails it reports {Sent: false} with no error.
type Chain struct {
	providers []Notifier
}

func NewChain(providers ...Notifier) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Send(ctx context.Context, recipient, code string) (Delivery, error) {
	for _, p := range c.providers {
		delivery, err := p.Send(ctx, recipient, code)
		if err != nil {
			logger.Log.Warn("notification provider failed, falling through",
				"recipient", recipient, "error", err)
			continue
		}
		if delivery.Sent {
			return delivery, nil
		}
	}
	return Delivery{}, nil
}

// NewFromConfig assembles the provider chain the configuration enables.
// With no SendGrid key and no SMTP credentials the chain degrades to the
// disabled provider and reset codes are simply not emailed.
func NewFromConfig(cfg *config.Config) *Chain {
	var providers []Notifier
	if cfg.Private.SendgridAPIKey != "" {
		providers = append(providers, NewSendgrid(cfg.Private.SendgridAPIKey, cfg.Public.Email.From))
	}
	if cfg.Public.Email.SMTPServer != "" && cfg.Private.SMTPUsername != "" {
		providers = append(providers, NewSMTP(&cfg.Public.Email, cfg.Private.SMTPUsername, cfg.Private.SMTPPassword))
	}
	providers = append(providers, Disabled{})
	return NewChain(providers...)
}
