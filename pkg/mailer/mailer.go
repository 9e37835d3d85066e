package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

// bareAddress is the local@domain.tld shape accepted at intake. Addresses of
// that shape that net/mail rejects (john..doe@example.com) are still sent.
var bareAddress = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrInvalidConfig  = errors.New("mailer: invalid config")
	ErrInvalidMessage = errors.New("mailer: invalid message")
	ErrVerifyFailed   = errors.New("mailer: verify failed")
	ErrSendFailed     = errors.New("mailer: send failed")
)

// Drivers accepted by New.
const (
	DriverSMTP     = "smtp"
	DriverPostmark = "postmark"
	DriverFile     = "file"
)

// Message is one outbound mail. ReplyTo is optional.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
	Tag     string
}

// Validate checks the addressing of the message before it reaches a driver.
func (m Message) Validate() error {
	if strings.TrimSpace(m.From) == "" {
		return fmt.Errorf("%w: sender is required", ErrInvalidMessage)
	}
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidMessage)
	}
	if !validAddress(m.To) {
		return fmt.Errorf("%w: malformed recipient %q", ErrInvalidMessage, m.To)
	}
	if m.ReplyTo != "" {
		if !validAddress(m.ReplyTo) {
			return fmt.Errorf("%w: malformed reply-to %q", ErrInvalidMessage, m.ReplyTo)
		}
	}
	if m.HTML == "" && m.Text == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidMessage)
	}
	return nil
}

// Transport is an authenticated channel that delivers mail.
type Transport interface {
	// Verify confirms the transport can connect and authenticate.
	Verify(ctx context.Context) error
	// Send delivers one message.
	Send(ctx context.Context, msg Message) error
}

// Config selects and configures a driver.
type Config struct {
	Driver string

	SMTP     SMTPConfig
	Postmark PostmarkConfig

	// DumpDir is where the file driver writes messages.
	DumpDir string
}

// New builds the transport for cfg.Driver.
func New(cfg Config) (Transport, error) {
	var (
		t   Transport
		err error
	)
	switch strings.ToLower(cfg.Driver) {
	case DriverSMTP, "":
		t, err = NewSMTPTransport(cfg.SMTP)
	case DriverPostmark:
		t, err = NewPostmarkTransport(cfg.Postmark)
	case DriverFile:
		t, err = NewFileTransport(cfg.DumpDir)
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func validAddress(v string) bool {
	if _, err := mail.ParseAddress(v); err == nil {
		return true
	}
	return bareAddress.MatchString(v)
}

// sanitizeHeader strips CR and LF so values cannot inject extra headers.
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", "", "\n", " ").Replace(v)
}

func messageID(host string, now time.Time) string {
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("<%d@%s>", now.UnixNano(), host)
}
