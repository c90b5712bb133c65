// Package transport moves rendered pages between the local workspace and the
// remote web host. Two implementations exist, classic FTP and SFTP, behind
// the shared interfaces.Transport contract so the sync workflows never branch
// on protocol.
package transport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-publish/pkg/interfaces"
)

// Protocol labels accepted by New.
const (
	ProtocolFTP  = "ftp"
	ProtocolSFTP = "sftp"
)

// ErrNotConnected is returned by operations invoked before Connect or after
// Disconnect.
var ErrNotConnected = errors.New("transport: not connected")

// Config carries everything a transport needs to reach the remote host.
type Config struct {
	Protocol string
	Host     string
	Port     int
	Username string
	Password string
	// KeyFile is an SSH private key path. SFTP only; takes precedence over
	// Password, which in turn takes precedence over the SSH agent.
	KeyFile string

	Logger interfaces.LoggerProvider
}

// ConnectionError reports a failure to establish or use a remote session.
type ConnectionError struct {
	Protocol string
	Host     string
	Op       string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("transport: %s %s on %s: %v", e.Protocol, e.Op, e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// New builds a transport for the configured protocol. Unknown labels are
// rejected so a typo in configuration fails before any connection attempt.
func New(cfg Config) (interfaces.Transport, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Protocol)) {
	case ProtocolSFTP:
		return newSFTP(cfg), nil
	case ProtocolFTP, "":
		return newFTP(cfg), nil
	default:
		return nil, fmt.Errorf("transport: unsupported protocol %q", cfg.Protocol)
	}
}

func (c Config) address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
