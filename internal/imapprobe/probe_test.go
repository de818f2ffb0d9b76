package imapprobe

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mail-console/internal/model"
)

func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestProbe_Incomplete(t *testing.T) {
	p := New(time.Second, zerolog.Nop())

	cases := []Target{
		{Port: 993, Encryption: model.EncryptionSSL},
		{Host: "imap.example.com", Encryption: model.EncryptionSSL},
		{Host: "imap.example.com", Port: 993},
	}
	for _, tc := range cases {
		assert.ErrorIs(t, p.Probe(context.Background(), tc), ErrIncomplete)
	}
}

func TestProbe_ConnectionRefused(t *testing.T) {
	p := New(2*time.Second, zerolog.Nop())

	err := p.Probe(context.Background(), Target{
		Host:       "127.0.0.1",
		Port:       closedPort(t),
		Encryption: model.EncryptionNone,
		Username:   "u",
		Password:   "p",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connecting to IMAP 127.0.0.1:")

	var authErr *AuthError
	assert.False(t, errors.As(err, &authErr))
}

func TestAuthError(t *testing.T) {
	inner := errors.New("NO [AUTHENTICATIONFAILED] invalid credentials")
	err := &AuthError{Username: "me@example.com", Err: inner}

	assert.Equal(t, "authentication failed for me@example.com: NO [AUTHENTICATIONFAILED] invalid credentials", err.Error())
	assert.ErrorIs(t, err, inner)
}
