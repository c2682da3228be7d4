package mailer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/ghe-archiver/internal/config"
)

func TestBuild(t *testing.T) {
	m, err := Build(Message{
		From:    "a-sender@example.com",
		To:      []string{"user1@example.com", "user2@example.com"},
		Subject: "GHE Snapshot Archiving Failed!",
		Body:    "Unable to create archive an-archive from snapshot at a-snapshot.\n",
	})
	require.NoError(t, err)

	rcpts, err := m.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"user1@example.com", "user2@example.com"}, rcpts)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Subject: GHE Snapshot Archiving Failed!")
	assert.Contains(t, out, "a-sender@example.com")
	assert.Contains(t, out, "Unable to create archive an-archive from snapshot at a-snapshot.")
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(Message{From: "a-sender@example.com"})
	assert.Error(t, err)

	_, err = Build(Message{From: "not an address", To: []string{"user1@example.com"}})
	assert.Error(t, err)

	_, err = Build(Message{From: "a-sender@example.com", To: []string{"@@"}})
	assert.Error(t, err)
}

func TestSendWithoutHost(t *testing.T) {
	s := NewSMTP(config.SMTPConfig{})
	err := s.Send(context.Background(), Message{
		From: "a-sender@example.com",
		To:   []string{"user1@example.com"},
	})
	assert.Error(t, err)
}
