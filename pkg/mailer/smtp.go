package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"
)

// TLS modes for SMTPConfig.TLSMode.
const (
	TLSModeSTARTTLS = "starttls"
	TLSModeTLS      = "tls"
	TLSModePlain    = "plain"
)

const defaultSMTPTimeout = 10 * time.Second

// SMTPConfig holds the SMTP account the site owner sends from.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	TLSMode  string
	Timeout  time.Duration
}

// SMTPTransport delivers mail over SMTP with PLAIN auth. Each call opens its
// own connection, so it is safe for concurrent use.
type SMTPTransport struct {
	cfg  SMTPConfig
	auth smtp.Auth
	now  func() time.Time
}

// NewSMTPTransport validates cfg and returns a transport.
func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: SMTP host is required", ErrInvalidConfig)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: SMTP port must be between 1 and 65535", ErrInvalidConfig)
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("%w: SMTP username and password are required", ErrInvalidConfig)
	}
	if cfg.TLSMode == "" {
		cfg.TLSMode = TLSModeSTARTTLS
	}
	switch cfg.TLSMode {
	case TLSModeSTARTTLS, TLSModeTLS, TLSModePlain:
	default:
		return nil, fmt.Errorf("%w: TLS mode must be starttls, tls, or plain", ErrInvalidConfig)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSMTPTimeout
	}

	return &SMTPTransport{
		cfg:  cfg,
		auth: smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
		now:  time.Now,
	}, nil
}

// Verify connects, upgrades to TLS when configured, authenticates and quits.
func (t *SMTPTransport) Verify(ctx context.Context) error {
	client, err := t.connect(ctx)
	if err != nil {
		return errors.Join(ErrVerifyFailed, err)
	}
	defer func() { _ = client.Close() }()

	if err := client.Quit(); err != nil {
		return errors.Join(ErrVerifyFailed, fmt.Errorf("quit: %w", err))
	}
	return nil
}

// Send delivers msg as a multipart/alternative mail.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	body, err := buildMIME(msg, t.cfg.Host, t.now())
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	client, err := t.connect(ctx)
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	defer func() { _ = client.Close() }()

	if err := client.Mail(envelopeAddress(msg.From)); err != nil {
		return errors.Join(ErrSendFailed, fmt.Errorf("failed to set sender: %w", err))
	}
	if err := client.Rcpt(envelopeAddress(msg.To)); err != nil {
		return errors.Join(ErrSendFailed, fmt.Errorf("failed to set recipient: %w", err))
	}

	w, err := client.Data()
	if err != nil {
		return errors.Join(ErrSendFailed, fmt.Errorf("failed to get data writer: %w", err))
	}
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return errors.Join(ErrSendFailed, fmt.Errorf("failed to write message: %w", err))
	}
	if err := w.Close(); err != nil {
		return errors.Join(ErrSendFailed, fmt.Errorf("failed to close data writer: %w", err))
	}

	// Some servers drop the connection right after DATA; the message is accepted at this point.
	_ = client.Quit()
	return nil
}

func (t *SMTPTransport) connect(ctx context.Context) (*smtp.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))
	dialer := &net.Dialer{Timeout: t.cfg.Timeout}
	tlsConfig := &tls.Config{ServerName: t.cfg.Host, MinVersion: tls.VersionTLS12}

	var (
		conn net.Conn
		err  error
	)
	if t.cfg.TLSMode == TLSModeTLS {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}

	deadline := time.Now().Add(t.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	client, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if t.cfg.TLSMode == TLSModeSTARTTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			_ = client.Close()
			return nil, errors.New("server does not support STARTTLS")
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if ok, _ := client.Extension("AUTH"); !ok {
		_ = client.Close()
		return nil, errors.New("server does not support AUTH")
	}
	if err := client.Auth(t.auth); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	return client, nil
}

func envelopeAddress(v string) string {
	if addr, err := mail.ParseAddress(v); err == nil {
		return addr.Address
	}
	return v
}

// buildMIME renders msg as RFC 5322 headers plus a multipart/alternative body
// with quoted-printable text and HTML parts.
func buildMIME(msg Message, host string, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	headers := [][2]string{
		{"From", sanitizeHeader(msg.From)},
		{"To", sanitizeHeader(msg.To)},
	}
	if msg.ReplyTo != "" {
		headers = append(headers, [2]string{"Reply-To", sanitizeHeader(msg.ReplyTo)})
	}
	headers = append(headers,
		[2]string{"Subject", mime.QEncoding.Encode("utf-8", sanitizeHeader(msg.Subject))},
		[2]string{"Date", now.Format(time.RFC1123Z)},
		[2]string{"Message-ID", messageID(host, now)},
		[2]string{"MIME-Version", "1.0"},
		[2]string{"Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", mw.Boundary())},
	)
	for _, h := range headers {
		fmt.Fprintf(&buf, "%s: %s\r\n", h[0], h[1])
	}
	buf.WriteString("\r\n")

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=UTF-8", msg.Text},
		{"text/html; charset=UTF-8", msg.HTML},
	}
	for _, p := range parts {
		if p.body == "" {
			continue
		}
		pw, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create mime part: %w", err)
		}
		qp := quotedprintable.NewWriter(pw)
		if _, err := qp.Write([]byte(p.body)); err != nil {
			return nil, fmt.Errorf("failed to encode mime part: %w", err)
		}
		if err := qp.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode mime part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close mime writer: %w", err)
	}

	return buf.Bytes(), nil
}
