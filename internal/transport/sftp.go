package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"

	"github.com/goliatone/go-publish/internal/logging"
	"github.com/goliatone/go-publish/pkg/interfaces"
)

type sftpTransport struct {
	cfg    Config
	ssh    *ssh.Client
	client *sftp.Client
	logger interfaces.Logger
}

func newSFTP(cfg Config) *sftpTransport {
	return &sftpTransport{
		cfg:    cfg,
		logger: logging.TransportLogger(cfg.Logger),
	}
}

func (t *sftpTransport) Protocol() string { return ProtocolSFTP }

// Connect opens the SSH session and an SFTP subsystem channel on top of it.
// Credential priority: configured key file, then password, then whatever the
// SSH agent holds.
func (t *sftpTransport) Connect(ctx context.Context) error {
	auth, err := t.authMethods()
	if err != nil {
		return &ConnectionError{Protocol: ProtocolSFTP, Host: t.cfg.Host, Op: "auth", Err: err}
	}

	sshConfig := &ssh.ClientConfig{
		User: t.cfg.Username,
		Auth: auth,
		// Shared hosting targets rotate keys without notice; pinning them
		// would strand every workflow.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}

	dialer := net.Dialer{Timeout: dialTimeout}
	netConn, err := dialer.DialContext(ctx, "tcp", t.cfg.address())
	if err != nil {
		return &ConnectionError{Protocol: ProtocolSFTP, Host: t.cfg.Host, Op: "dial", Err: err}
	}
	sshConn, channels, requests, err := ssh.NewClientConn(netConn, t.cfg.address(), sshConfig)
	if err != nil {
		_ = netConn.Close()
		return &ConnectionError{Protocol: ProtocolSFTP, Host: t.cfg.Host, Op: "handshake", Err: err}
	}
	sshClient := ssh.NewClient(sshConn, channels, requests)

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return &ConnectionError{Protocol: ProtocolSFTP, Host: t.cfg.Host, Op: "subsystem", Err: err}
	}

	t.ssh = sshClient
	t.client = client
	t.logger.Info("connected", "protocol", ProtocolSFTP, "host", t.cfg.Host, "port", t.cfg.Port)
	return nil
}

func (t *sftpTransport) authMethods() ([]ssh.AuthMethod, error) {
	if keyFile := strings.TrimSpace(t.cfg.KeyFile); keyFile != "" {
		signer, err := loadKeyFile(keyFile)
		if err != nil {
			return nil, err
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	}
	if t.cfg.Password != "" {
		return []ssh.AuthMethod{ssh.Password(t.cfg.Password)}, nil
	}

	sock := os.Getenv("SSH_AUTH_SOCK")
	if sock == "" {
		return nil, fmt.Errorf("no key file, password, or SSH agent available")
	}
	conn, err := net.Dial("unix", sock)
	if err != nil {
		return nil, fmt.Errorf("ssh agent: %w", err)
	}
	return []ssh.AuthMethod{ssh.PublicKeysCallback(agent.NewClient(conn).Signers)}, nil
}

func loadKeyFile(keyFile string) (ssh.Signer, error) {
	if strings.HasPrefix(keyFile, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("expand key path: %w", err)
		}
		keyFile = filepath.Join(home, keyFile[2:])
	}
	raw, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("parse key file: %w", err)
	}
	return signer, nil
}

func (t *sftpTransport) List(ctx context.Context, remotePath string) ([]string, error) {
	if t.client == nil {
		return nil, ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := t.client.ReadDir(remotePath)
	if err != nil {
		return nil, &ConnectionError{Protocol: ProtocolSFTP, Host: t.cfg.Host, Op: "list", Err: err}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

func (t *sftpTransport) ReadText(ctx context.Context, remotePath string) (string, error) {
	if t.client == nil {
		return "", ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	file, err := t.client.Open(remotePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", &ConnectionError{Protocol: ProtocolSFTP, Host: t.cfg.Host, Op: "read", Err: err}
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return "", &ConnectionError{Protocol: ProtocolSFTP, Host: t.cfg.Host, Op: "read", Err: err}
	}
	return string(raw), nil
}

func (t *sftpTransport) WriteText(ctx context.Context, content, remotePath string) error {
	if t.client == nil {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := path.Dir(remotePath); dir != "" && dir != "." && dir != "/" {
		if err := t.client.MkdirAll(dir); err != nil {
			return &ConnectionError{Protocol: ProtocolSFTP, Host: t.cfg.Host, Op: "mkdir", Err: err}
		}
	}

	file, err := t.client.Create(remotePath)
	if err != nil {
		return &ConnectionError{Protocol: ProtocolSFTP, Host: t.cfg.Host, Op: "write", Err: err}
	}
	defer file.Close()

	if _, err := file.Write([]byte(content)); err != nil {
		return &ConnectionError{Protocol: ProtocolSFTP, Host: t.cfg.Host, Op: "write", Err: err}
	}

	t.logger.Debug("uploaded", "remote_path", remotePath, "bytes", len(content))
	return nil
}

func (t *sftpTransport) Remove(ctx context.Context, remotePath string) error {
	if t.client == nil {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := t.client.Remove(remotePath); err != nil && !os.IsNotExist(err) {
		return &ConnectionError{Protocol: ProtocolSFTP, Host: t.cfg.Host, Op: "remove", Err: err}
	}
	return nil
}

func (t *sftpTransport) Disconnect() error {
	if t.client == nil && t.ssh == nil {
		return nil
	}
	var firstErr error
	if t.client != nil {
		firstErr = t.client.Close()
		t.client = nil
	}
	if t.ssh != nil {
		if err := t.ssh.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		t.ssh = nil
	}
	if firstErr != nil {
		return &ConnectionError{Protocol: ProtocolSFTP, Host: t.cfg.Host, Op: "close", Err: firstErr}
	}
	return nil
}
