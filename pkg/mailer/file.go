package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"
)

// FileTransport writes each message to a directory instead of sending it.
// Intended for local development.
type FileTransport struct {
	dir string
	seq atomic.Uint64
	now func() time.Time
}

// NewFileTransport returns a transport that dumps messages into dir.
func NewFileTransport(dir string) (*FileTransport, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: dump directory is required", ErrInvalidConfig)
	}
	return &FileTransport{dir: dir, now: time.Now}, nil
}

type fileMetadata struct {
	Timestamp string `json:"timestamp"`
	From      string `json:"from"`
	To        string `json:"to"`
	ReplyTo   string `json:"reply_to,omitempty"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag,omitempty"`
}

// Verify makes sure the dump directory exists and is writable.
func (f *FileTransport) Verify(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(ErrVerifyFailed, err)
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return errors.Join(ErrVerifyFailed, fmt.Errorf("failed to create directory: %w", err))
	}
	probe, err := os.CreateTemp(f.dir, ".verify-*")
	if err != nil {
		return errors.Join(ErrVerifyFailed, fmt.Errorf("directory is not writable: %w", err))
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}

// Send writes <base>.html, <base>.txt and <base>.json for msg.
func (f *FileTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if err := msg.Validate(); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return errors.Join(ErrSendFailed, fmt.Errorf("failed to create directory: %w", err))
	}

	now := f.now()
	identifier := msg.Tag
	if identifier == "" {
		identifier = msg.Subject
	}
	base := fmt.Sprintf("%s_%04d_%s", now.Format("2006_01_02_150405"), f.seq.Add(1), sanitizeFilename(identifier))

	if msg.HTML != "" {
		if err := os.WriteFile(filepath.Join(f.dir, base+".html"), []byte(msg.HTML), 0o644); err != nil {
			return errors.Join(ErrSendFailed, fmt.Errorf("failed to write HTML file: %w", err))
		}
	}
	if msg.Text != "" {
		if err := os.WriteFile(filepath.Join(f.dir, base+".txt"), []byte(msg.Text), 0o644); err != nil {
			return errors.Join(ErrSendFailed, fmt.Errorf("failed to write text file: %w", err))
		}
	}

	meta, err := json.MarshalIndent(fileMetadata{
		Timestamp: now.Format(time.RFC3339),
		From:      msg.From,
		To:        msg.To,
		ReplyTo:   msg.ReplyTo,
		Subject:   msg.Subject,
		Tag:       msg.Tag,
	}, "", "  ")
	if err != nil {
		return errors.Join(ErrSendFailed, fmt.Errorf("failed to marshal metadata: %w", err))
	}
	if err := os.WriteFile(filepath.Join(f.dir, base+".json"), meta, 0o644); err != nil {
		return errors.Join(ErrSendFailed, fmt.Errorf("failed to write JSON file: %w", err))
	}

	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	if len(s) > 80 {
		s = s[:80]
	}
	if s == "" {
		s = "mail"
	}
	return strings.ToLower(s)
}
