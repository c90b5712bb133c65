package transport

import (
	"context"
	"errors"
	"io"
	"net/textproto"
	"path"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/goliatone/go-publish/internal/logging"
	"github.com/goliatone/go-publish/pkg/interfaces"
)

// dialTimeout bounds the initial FTP handshake. Shared hosting boxes are
// slow but anything beyond this is a dead host.
const dialTimeout = 30 * time.Second

type ftpTransport struct {
	cfg    Config
	conn   *ftp.ServerConn
	logger interfaces.Logger
}

func newFTP(cfg Config) *ftpTransport {
	return &ftpTransport{
		cfg:    cfg,
		logger: logging.TransportLogger(cfg.Logger),
	}
}

func (t *ftpTransport) Protocol() string { return ProtocolFTP }

// Connect dials the server and switches the session to binary mode. Data
// connections use passive mode, which is what shared hosts behind firewalls
// expect.
func (t *ftpTransport) Connect(ctx context.Context) error {
	conn, err := ftp.Dial(t.cfg.address(),
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(dialTimeout),
	)
	if err != nil {
		return &ConnectionError{Protocol: ProtocolFTP, Host: t.cfg.Host, Op: "dial", Err: err}
	}
	if err := conn.Login(t.cfg.Username, t.cfg.Password); err != nil {
		_ = conn.Quit()
		return &ConnectionError{Protocol: ProtocolFTP, Host: t.cfg.Host, Op: "login", Err: err}
	}
	if err := conn.Type(ftp.TransferTypeBinary); err != nil {
		_ = conn.Quit()
		return &ConnectionError{Protocol: ProtocolFTP, Host: t.cfg.Host, Op: "binary mode", Err: err}
	}

	t.conn = conn
	t.logger.Info("connected", "protocol", ProtocolFTP, "host", t.cfg.Host, "port", t.cfg.Port)
	return nil
}

func (t *ftpTransport) List(ctx context.Context, remotePath string) ([]string, error) {
	if t.conn == nil {
		return nil, ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := t.conn.List(remotePath)
	if err != nil {
		return nil, &ConnectionError{Protocol: ProtocolFTP, Host: t.cfg.Host, Op: "list", Err: err}
	}

	var names []string
	for _, entry := range entries {
		if entry.Type != ftp.EntryTypeFile {
			continue
		}
		names = append(names, entry.Name)
	}
	return names, nil
}

func (t *ftpTransport) ReadText(ctx context.Context, remotePath string) (string, error) {
	if t.conn == nil {
		return "", ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	resp, err := t.conn.Retr(remotePath)
	if err != nil {
		if isFTPMissing(err) {
			return "", nil
		}
		return "", &ConnectionError{Protocol: ProtocolFTP, Host: t.cfg.Host, Op: "read", Err: err}
	}
	defer resp.Close()

	raw, err := io.ReadAll(resp)
	if err != nil {
		return "", &ConnectionError{Protocol: ProtocolFTP, Host: t.cfg.Host, Op: "read", Err: err}
	}
	return string(raw), nil
}

func (t *ftpTransport) WriteText(ctx context.Context, content, remotePath string) error {
	if t.conn == nil {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t.ensureDir(path.Dir(remotePath))
	if err := t.conn.Stor(remotePath, strings.NewReader(content)); err != nil {
		return &ConnectionError{Protocol: ProtocolFTP, Host: t.cfg.Host, Op: "write", Err: err}
	}

	t.logger.Debug("uploaded", "remote_path", remotePath, "bytes", len(content))
	return nil
}

func (t *ftpTransport) Remove(ctx context.Context, remotePath string) error {
	if t.conn == nil {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := t.conn.Delete(remotePath); err != nil && !isFTPMissing(err) {
		return &ConnectionError{Protocol: ProtocolFTP, Host: t.cfg.Host, Op: "remove", Err: err}
	}
	return nil
}

func (t *ftpTransport) Disconnect() error {
	if t.conn == nil {
		return nil
	}
	err := t.conn.Quit()
	t.conn = nil
	if err != nil {
		return &ConnectionError{Protocol: ProtocolFTP, Host: t.cfg.Host, Op: "quit", Err: err}
	}
	return nil
}

// ensureDir creates the remote directory chain one segment at a time.
// Servers answer 550 for segments that already exist, which is fine.
func (t *ftpTransport) ensureDir(remoteDir string) {
	remoteDir = strings.Trim(remoteDir, "/")
	if remoteDir == "" || remoteDir == "." {
		return
	}
	current := ""
	for _, segment := range strings.Split(remoteDir, "/") {
		current = current + "/" + segment
		if err := t.conn.MakeDir(current); err != nil && !isFTPMissing(err) {
			t.logger.Debug("mkdir skipped", "remote_path", current, "reason", err)
		}
	}
}

// isFTPMissing reports whether the server answered 550, the catch-all for
// "file unavailable" on both reads and deletes of absent paths.
func isFTPMissing(err error) bool {
	var proto *textproto.Error
	return errors.As(err, &proto) && proto.Code == ftp.StatusFileUnavailable
}
