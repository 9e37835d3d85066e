package mailer_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/pkg/mailer"
)

func TestFileTransport_SendWritesAllParts(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "mail")
	tr, err := mailer.NewFileTransport(dir)
	require.NoError(t, err)

	msg := testMessage()
	msg.Tag = "contact-admin"
	require.NoError(t, tr.Send(context.Background(), msg))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byExt := map[string]string{}
	for _, e := range entries {
		assert.Contains(t, e.Name(), "contact-admin")
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		byExt[filepath.Ext(e.Name())] = string(data)
	}

	assert.Equal(t, msg.HTML, byExt[".html"])
	assert.Equal(t, msg.Text, byExt[".txt"])

	var meta map[string]string
	require.NoError(t, json.Unmarshal([]byte(byExt[".json"]), &meta))
	assert.Equal(t, msg.To, meta["to"])
	assert.Equal(t, msg.ReplyTo, meta["reply_to"])
	assert.Equal(t, msg.Subject, meta["subject"])
}

func TestFileTransport_IdenticalMessagesDoNotCollide(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tr, err := mailer.NewFileTransport(dir)
	require.NoError(t, err)

	require.NoError(t, tr.Send(context.Background(), testMessage()))
	require.NoError(t, tr.Send(context.Background(), testMessage()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var jsonFiles int
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".json") {
			jsonFiles++
		}
	}
	assert.Equal(t, 2, jsonFiles)
}

func TestFileTransport_Verify(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "mail")
	tr, err := mailer.NewFileTransport(dir)
	require.NoError(t, err)
	require.NoError(t, tr.Verify(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	tr, err = mailer.NewFileTransport(blocker)
	require.NoError(t, err)
	assert.ErrorIs(t, tr.Verify(context.Background()), mailer.ErrVerifyFailed)
}

func TestNewFileTransport_RequiresDir(t *testing.T) {
	t.Parallel()

	_, err := mailer.NewFileTransport("  ")
	assert.ErrorIs(t, err, mailer.ErrInvalidConfig)
}
