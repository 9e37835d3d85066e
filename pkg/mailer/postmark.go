package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mrz1836/postmark"
)

// PostmarkConfig holds the Postmark API credentials. BaseURL and HTTPClient
// are optional overrides.
type PostmarkConfig struct {
	ServerToken  string
	AccountToken string
	BaseURL      string
	HTTPClient   *http.Client
}

// PostmarkTransport delivers mail through Postmark's transactional API.
type PostmarkTransport struct {
	client *postmark.Client
}

// NewPostmarkTransport validates cfg and returns a transport.
func NewPostmarkTransport(cfg PostmarkConfig) (*PostmarkTransport, error) {
	if cfg.ServerToken == "" {
		return nil, fmt.Errorf("%w: Postmark server token is required", ErrInvalidConfig)
	}

	client := postmark.NewClient(cfg.ServerToken, cfg.AccountToken)
	if cfg.BaseURL != "" {
		client.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		client.HTTPClient = cfg.HTTPClient
	}

	return &PostmarkTransport{client: client}, nil
}

// Verify fetches the server bound to the server token, which fails on a bad
// token or an unreachable API.
func (t *PostmarkTransport) Verify(ctx context.Context) error {
	if _, err := t.client.GetCurrentServer(ctx); err != nil {
		return errors.Join(ErrVerifyFailed, err)
	}
	return nil
}

// Send implements Transport. Tracking stays off; these are one-to-one mails.
func (t *PostmarkTransport) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	resp, err := t.client.SendEmail(ctx, postmark.Email{
		From:     sanitizeHeader(msg.From),
		To:       sanitizeHeader(msg.To),
		ReplyTo:  sanitizeHeader(msg.ReplyTo),
		Subject:  sanitizeHeader(msg.Subject),
		Tag:      msg.Tag,
		HTMLBody: msg.HTML,
		TextBody: msg.Text,
	})
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrSendFailed,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}
