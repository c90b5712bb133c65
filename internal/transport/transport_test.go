package transport

import (
	"errors"
	"fmt"
	"net/textproto"
	"testing"
)

func TestNewSelectsProtocol(t *testing.T) {
	cases := []struct {
		protocol string
		want     string
	}{
		{"ftp", ProtocolFTP},
		{"FTP", ProtocolFTP},
		{"", ProtocolFTP},
		{"sftp", ProtocolSFTP},
		{"SFTP", ProtocolSFTP},
	}
	for _, tc := range cases {
		tr, err := New(Config{Protocol: tc.protocol, Host: "example.com", Port: 21})
		if err != nil {
			t.Fatalf("New(%q): %v", tc.protocol, err)
		}
		if tr.Protocol() != tc.want {
			t.Fatalf("New(%q) selected %s, want %s", tc.protocol, tr.Protocol(), tc.want)
		}
	}
}

func TestNewRejectsUnknownProtocol(t *testing.T) {
	if _, err := New(Config{Protocol: "gopher"}); err == nil {
		t.Fatal("expected error for unknown protocol")
	}
}

func TestOperationsRequireConnection(t *testing.T) {
	for _, tr := range []struct {
		name string
		t    interface {
			Disconnect() error
		}
	}{
		{"ftp", newFTP(Config{Host: "example.com"})},
		{"sftp", newSFTP(Config{Host: "example.com"})},
	} {
		if err := tr.t.Disconnect(); err != nil {
			t.Fatalf("%s: Disconnect before Connect must be a no-op, got %v", tr.name, err)
		}
	}
}

func TestFTPMissingDetection(t *testing.T) {
	missing := &textproto.Error{Code: 550, Msg: "file unavailable"}
	if !isFTPMissing(missing) {
		t.Fatal("550 must read as a missing path")
	}
	if !isFTPMissing(fmt.Errorf("retr: %w", missing)) {
		t.Fatal("wrapped 550 must read as a missing path")
	}
	if isFTPMissing(&textproto.Error{Code: 530, Msg: "not logged in"}) {
		t.Fatal("530 is not a missing path")
	}
	if isFTPMissing(errors.New("plain failure")) {
		t.Fatal("non-protocol errors are not missing paths")
	}
}

func TestConnectionErrorUnwraps(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &ConnectionError{Protocol: ProtocolFTP, Host: "example.com", Op: "dial", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatal("ConnectionError must unwrap to its cause")
	}
}

func TestWebURLStripsHostPrefixAndDocumentRoot(t *testing.T) {
	cases := []struct {
		host     string
		path     string
		filename string
		want     string
	}{
		{"ftp.example.com", "/public_html/blog", "post.html", "http://example.com/blog/post.html"},
		{"ftp.example.com", "/public_html", "", "http://example.com/"},
		{"example.com", "/var/www/html", "index.html", "http://example.com/index.html"},
		{"example.com", "/htdocs/site", "", "http://example.com/site/"},
		{"example.com", "", "a.html", "http://example.com/a.html"},
		{"example.com", "blog", "a.html", "http://example.com/blog/a.html"},
	}
	for _, tc := range cases {
		got := WebURL(tc.host, tc.path, tc.filename)
		if got != tc.want {
			t.Fatalf("WebURL(%q, %q, %q) = %q, want %q", tc.host, tc.path, tc.filename, got, tc.want)
		}
	}
}
