package mailer_test

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/textproto"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/pkg/mailer"
)

type receivedMail struct {
	From string
	To   []string
	Data string
}

// fakeSMTP is a minimal loopback SMTP server: EHLO, AUTH PLAIN, MAIL, RCPT, DATA, QUIT.
type fakeSMTP struct {
	ln       net.Listener
	authFail bool

	mu    sync.Mutex
	mails []receivedMail
}

func startFakeSMTP(t *testing.T, authFail bool) *fakeSMTP {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeSMTP{ln: ln, authFail: authFail}
	go s.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

func (s *fakeSMTP) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *fakeSMTP) received() []receivedMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]receivedMail(nil), s.mails...)
}

func (s *fakeSMTP) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeSMTP) handle(conn net.Conn) {
	defer func() { _ = conn.Close() }()

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 fake ESMTP ready")

	var cur receivedMail
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		upper := strings.ToUpper(line)

		switch {
		case strings.HasPrefix(upper, "EHLO"):
			_ = tp.PrintfLine("250-fake greets you")
			_ = tp.PrintfLine("250-AUTH PLAIN")
			_ = tp.PrintfLine("250 8BITMIME")
		case strings.HasPrefix(upper, "HELO"):
			_ = tp.PrintfLine("250 fake")
		case strings.HasPrefix(upper, "AUTH"):
			if s.authFail {
				_ = tp.PrintfLine("535 5.7.8 Authentication credentials invalid")
				continue
			}
			_ = tp.PrintfLine("235 2.7.0 Authentication successful")
		case strings.HasPrefix(upper, "MAIL FROM:"):
			cur = receivedMail{From: trimAngle(line[len("MAIL FROM:"):])}
			_ = tp.PrintfLine("250 OK")
		case strings.HasPrefix(upper, "RCPT TO:"):
			cur.To = append(cur.To, trimAngle(line[len("RCPT TO:"):]))
			_ = tp.PrintfLine("250 OK")
		case upper == "DATA":
			_ = tp.PrintfLine("354 End data with <CR><LF>.<CR><LF>")
			data, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			cur.Data = string(data)
			s.mu.Lock()
			s.mails = append(s.mails, cur)
			s.mu.Unlock()
			_ = tp.PrintfLine("250 OK queued")
		case upper == "QUIT":
			_ = tp.PrintfLine("221 Bye")
			return
		case upper == "RSET", upper == "NOOP":
			_ = tp.PrintfLine("250 OK")
		default:
			_ = tp.PrintfLine("502 Command not implemented")
		}
	}
}

func trimAngle(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	return strings.Trim(s, "<>")
}

func newTestSMTP(t *testing.T, port int) *mailer.SMTPTransport {
	t.Helper()

	tr, err := mailer.NewSMTPTransport(mailer.SMTPConfig{
		Host:     "127.0.0.1",
		Port:     port,
		Username: "owner@example.com",
		Password: "app-password",
		TLSMode:  mailer.TLSModePlain,
		Timeout:  2 * time.Second,
	})
	require.NoError(t, err)
	return tr
}

func testMessage() mailer.Message {
	return mailer.Message{
		From:    "owner@example.com",
		To:      "owner@example.com",
		ReplyTo: "ada@example.com",
		Subject: "Contact Form: Analytical engines",
		Text:    "Message:\nLine one\nLine two with trailing space \n\n.leading dot\n" + strings.Repeat("long ", 40),
		HTML:    "<p>Line one<br>Line two</p>",
	}
}

func parseParts(t *testing.T, msg *mail.Message) map[string]string {
	t.Helper()

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/alternative", mediaType)

	parts := map[string]string{}
	mr := multipart.NewReader(msg.Body, params["boundary"])
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(p)
		require.NoError(t, err)
		ct, _, err := mime.ParseMediaType(p.Header.Get("Content-Type"))
		require.NoError(t, err)
		parts[ct] = string(body)
	}
	return parts
}

func TestSMTPTransport_SendDeliversMultipart(t *testing.T) {
	t.Parallel()

	srv := startFakeSMTP(t, false)
	tr := newTestSMTP(t, srv.port())
	want := testMessage()

	require.NoError(t, tr.Send(context.Background(), want))

	mails := srv.received()
	require.Len(t, mails, 1)
	assert.Equal(t, "owner@example.com", mails[0].From)
	assert.Equal(t, []string{"owner@example.com"}, mails[0].To)

	msg, err := mail.ReadMessage(strings.NewReader(mails[0].Data))
	require.NoError(t, err)
	assert.Equal(t, want.From, msg.Header.Get("From"))
	assert.Equal(t, want.To, msg.Header.Get("To"))
	assert.Equal(t, want.ReplyTo, msg.Header.Get("Reply-To"))
	assert.Equal(t, "1.0", msg.Header.Get("MIME-Version"))
	assert.NotEmpty(t, msg.Header.Get("Message-ID"))

	subject, err := new(mime.WordDecoder).DecodeHeader(msg.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, want.Subject, subject)

	parts := parseParts(t, msg)
	assert.Equal(t, want.Text, parts["text/plain"])
	assert.Equal(t, want.HTML, parts["text/html"])
}

func TestSMTPTransport_SendEncodesUnicodeSubject(t *testing.T) {
	t.Parallel()

	srv := startFakeSMTP(t, false)
	tr := newTestSMTP(t, srv.port())
	want := testMessage()
	want.Subject = "Contact Form: Grüße aus München"

	require.NoError(t, tr.Send(context.Background(), want))

	mails := srv.received()
	require.Len(t, mails, 1)
	msg, err := mail.ReadMessage(strings.NewReader(mails[0].Data))
	require.NoError(t, err)

	raw := msg.Header.Get("Subject")
	assert.True(t, strings.HasPrefix(raw, "=?utf-8?q?"), raw)
	subject, err := new(mime.WordDecoder).DecodeHeader(raw)
	require.NoError(t, err)
	assert.Equal(t, want.Subject, subject)
}

func TestSMTPTransport_SendStripsHeaderInjection(t *testing.T) {
	t.Parallel()

	srv := startFakeSMTP(t, false)
	tr := newTestSMTP(t, srv.port())
	want := testMessage()
	want.Subject = "Hello\r\nBcc: victim@example.com"

	require.NoError(t, tr.Send(context.Background(), want))

	mails := srv.received()
	require.Len(t, mails, 1)
	msg, err := mail.ReadMessage(strings.NewReader(mails[0].Data))
	require.NoError(t, err)
	assert.Empty(t, msg.Header.Get("Bcc"))
	assert.Equal(t, []string{"owner@example.com"}, mails[0].To)
}

func TestSMTPTransport_Verify(t *testing.T) {
	t.Parallel()

	t.Run("accepts credentials", func(t *testing.T) {
		t.Parallel()

		srv := startFakeSMTP(t, false)
		require.NoError(t, newTestSMTP(t, srv.port()).Verify(context.Background()))
		assert.Empty(t, srv.received())
	})

	t.Run("rejects bad credentials", func(t *testing.T) {
		t.Parallel()

		srv := startFakeSMTP(t, true)
		err := newTestSMTP(t, srv.port()).Verify(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, mailer.ErrVerifyFailed)
		assert.Contains(t, err.Error(), "authentication failed")
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		port := ln.Addr().(*net.TCPAddr).Port
		require.NoError(t, ln.Close())

		err = newTestSMTP(t, port).Verify(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, mailer.ErrVerifyFailed)
	})

	t.Run("starttls required but not offered", func(t *testing.T) {
		t.Parallel()

		srv := startFakeSMTP(t, false)
		tr, err := mailer.NewSMTPTransport(mailer.SMTPConfig{
			Host:     "127.0.0.1",
			Port:     srv.port(),
			Username: "owner@example.com",
			Password: "app-password",
			TLSMode:  mailer.TLSModeSTARTTLS,
			Timeout:  2 * time.Second,
		})
		require.NoError(t, err)

		err = tr.Verify(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "STARTTLS")
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		srv := startFakeSMTP(t, false)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := newTestSMTP(t, srv.port()).Verify(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSMTPTransport_SendFailures(t *testing.T) {
	t.Parallel()

	t.Run("auth failure", func(t *testing.T) {
		t.Parallel()

		srv := startFakeSMTP(t, true)
		err := newTestSMTP(t, srv.port()).Send(context.Background(), testMessage())
		require.Error(t, err)
		assert.ErrorIs(t, err, mailer.ErrSendFailed)
		assert.Empty(t, srv.received())
	})

	t.Run("malformed recipient", func(t *testing.T) {
		t.Parallel()

		srv := startFakeSMTP(t, false)
		msg := testMessage()
		msg.To = "not an address"

		err := newTestSMTP(t, srv.port()).Send(context.Background(), msg)
		require.Error(t, err)
		assert.ErrorIs(t, err, mailer.ErrSendFailed)
		assert.ErrorIs(t, err, mailer.ErrInvalidMessage)
		assert.Empty(t, srv.received())
	})
}

func TestNewSMTPTransport_Validation(t *testing.T) {
	t.Parallel()

	valid := mailer.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "user@example.com",
		Password: "password",
		TLSMode:  mailer.TLSModeSTARTTLS,
	}

	tests := []struct {
		name   string
		mutate func(c *mailer.SMTPConfig)
		errMsg string
	}{
		{"valid", func(c *mailer.SMTPConfig) {}, ""},
		{"default tls mode", func(c *mailer.SMTPConfig) { c.TLSMode = "" }, ""},
		{"empty host", func(c *mailer.SMTPConfig) { c.Host = "" }, "SMTP host is required"},
		{"zero port", func(c *mailer.SMTPConfig) { c.Port = 0 }, "port must be between"},
		{"port too high", func(c *mailer.SMTPConfig) { c.Port = 70000 }, "port must be between"},
		{"missing password", func(c *mailer.SMTPConfig) { c.Password = "" }, "username and password are required"},
		{"bad tls mode", func(c *mailer.SMTPConfig) { c.TLSMode = "ssl" }, "TLS mode must be"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid
			tt.mutate(&cfg)
			tr, err := mailer.NewSMTPTransport(cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)
				assert.NotNil(t, tr)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, mailer.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestMessage_Validate(t *testing.T) {
	t.Parallel()

	base := testMessage()
	tests := []struct {
		name   string
		mutate func(m *mailer.Message)
		valid  bool
	}{
		{"valid", func(m *mailer.Message) {}, true},
		{"display name recipient", func(m *mailer.Message) { m.To = "Ada <ada@example.com>" }, true},
		{"no reply-to", func(m *mailer.Message) { m.ReplyTo = "" }, true},
		{"missing from", func(m *mailer.Message) { m.From = " " }, false},
		{"missing to", func(m *mailer.Message) { m.To = "" }, false},
		{"bad reply-to", func(m *mailer.Message) { m.ReplyTo = "nope" }, false},
		{"consecutive dots in reply-to", func(m *mailer.Message) { m.ReplyTo = "john..doe@example.com" }, true},
		{"brackets in reply-to", func(m *mailer.Message) { m.ReplyTo = "a[b]@example.com" }, true},
		{"comma in recipient", func(m *mailer.Message) { m.To = "a,b@example.com" }, true},
		{"leading dot in recipient", func(m *mailer.Message) { m.To = ".ada@example.com" }, true},
		{"space in recipient", func(m *mailer.Message) { m.To = "ada @example.com" }, false},
		{"no body", func(m *mailer.Message) { m.HTML, m.Text = "", "" }, false},
	}

	for _, tt := range tests {
		msg := base
		tt.mutate(&msg)
		err := msg.Validate()
		if tt.valid {
			assert.NoError(t, err, tt.name)
			continue
		}
		assert.ErrorIs(t, err, mailer.ErrInvalidMessage, tt.name)
	}
}

func TestNew_SelectsDriver(t *testing.T) {
	t.Parallel()

	tr, err := mailer.New(mailer.Config{Driver: "file", DumpDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &mailer.FileTransport{}, tr)

	tr, err = mailer.New(mailer.Config{Driver: "postmark", Postmark: mailer.PostmarkConfig{ServerToken: "token"}})
	require.NoError(t, err)
	assert.IsType(t, &mailer.PostmarkTransport{}, tr)

	tr, err = mailer.New(mailer.Config{Driver: "SMTP", SMTP: mailer.SMTPConfig{
		Host: "smtp.example.com", Port: 465, Username: "u", Password: "p", TLSMode: mailer.TLSModeTLS,
	}})
	require.NoError(t, err)
	assert.IsType(t, &mailer.SMTPTransport{}, tr)

	_, err = mailer.New(mailer.Config{Driver: "pigeon"})
	assert.ErrorIs(t, err, mailer.ErrInvalidConfig)
	assert.Contains(t, err.Error(), strconv.Quote("pigeon"))
}
