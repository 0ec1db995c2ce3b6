package email

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSenderFallsBackToConsole(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(Config{FromEmail: "no-reply@x.dz", FromName: "InternHub"}, zerolog.New(&buf))

	console, ok := s.(*ConsoleSender)
	require.True(t, ok)

	require.NoError(t, console.Send(context.Background(), Message{
		To:      []Address{{Name: "A", Email: "a@x.dz"}},
		Subject: "Task graded",
		Text:    "You got an A",
	}))
	assert.Contains(t, buf.String(), "a@x.dz")
	assert.Contains(t, buf.String(), "Task graded")
}

func TestSendgridPrepare(t *testing.T) {
	s := NewSender(Config{SendgridAPIKey: "key", FromEmail: "no-reply@x.dz", FromName: "InternHub"}, zerolog.Nop())
	sg, ok := s.(*SendgridSender)
	require.True(t, ok)

	m := sg.prepare(Message{To: []Address{{Email: "a@x.dz"}, {Email: "b@x.dz"}}, Subject: "Hi", Text: "body"})
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "[InternHub] Hi", m.Personalizations[0].Subject)
	assert.Len(t, m.Personalizations[0].To, 2)
	assert.Len(t, m.Content, 1)

	assert.NoError(t, sg.Send(context.Background(), Message{Subject: "nobody"}))
}
