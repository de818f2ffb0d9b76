// Package imapprobe checks that a set of IMAP settings can log in.
package imapprobe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/rs/zerolog"

	"github.com/nhle/mail-console/internal/model"
)

// ErrIncomplete is returned when a Target lacks the fields needed to dial.
var ErrIncomplete = errors.New("IMAP host, port and encryption are required")

// AuthError reports that the server was reachable but refused the login.
type AuthError struct {
	Username string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed for %s: %v", e.Username, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Target is the IMAP account to probe.
type Target struct {
	Host       string
	Port       int
	Encryption model.Encryption
	Username   string
	Password   string
}

func (t Target) addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// Prober dials, logs in and logs out again.
type Prober struct {
	timeout time.Duration
	logger  zerolog.Logger
}

// New creates a Prober. A zero timeout means 15 seconds.
func New(timeout time.Duration, logger zerolog.Logger) *Prober {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Prober{timeout: timeout, logger: logger}
}

// Probe connects to t with the selected encryption and performs a LOGIN.
// SSL dials implicit TLS, TLS upgrades a plain connection with STARTTLS and
// NONE stays in clear text.
func (p *Prober) Probe(ctx context.Context, t Target) error {
	if t.Host == "" || t.Port <= 0 || !t.Encryption.Valid() {
		return ErrIncomplete
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	client, err := p.dial(ctx, t)
	if err != nil {
		p.logger.Warn().Err(err).Str("addr", t.addr()).Msg("imap probe dial failed")
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Login(t.Username, t.Password).Wait(); err != nil {
		_ = client.Logout().Wait()
		p.logger.Warn().Err(err).Str("addr", t.addr()).Msg("imap probe login refused")
		return &AuthError{Username: t.Username, Err: err}
	}

	if err := client.Logout().Wait(); err != nil {
		return fmt.Errorf("logging out of IMAP %s: %w", t.addr(), err)
	}

	p.logger.Info().
		Str("addr", t.addr()).
		Dur("duration", time.Since(start)).
		Msg("imap probe ok")
	return nil
}

func (p *Prober) dial(ctx context.Context, t Target) (*imapclient.Client, error) {
	addr := t.addr()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	opts := &imapclient.Options{
		TLSConfig: &tls.Config{ServerName: t.Host},
	}

	var client *imapclient.Client
	switch t.Encryption {
	case model.EncryptionSSL:
		tlsConn := tls.Client(conn, opts.TLSConfig)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("TLS handshake with IMAP %s: %w", addr, err)
		}
		client = imapclient.New(tlsConn, opts)
	case model.EncryptionTLS:
		client, err = imapclient.NewStartTLS(conn, opts)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("STARTTLS with IMAP %s: %w", addr, err)
		}
	default:
		client = imapclient.New(conn, opts)
	}

	return client, nil
}
