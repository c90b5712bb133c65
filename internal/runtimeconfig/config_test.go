package runtimeconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Protocol != "ftp" || cfg.Server.Port != DefaultFTPPort {
		t.Fatalf("server defaults wrong: %+v", cfg.Server)
	}
	if cfg.Site.Name != "Cualquier Tiempo Pasado Fue Anterior" || !cfg.Site.AutoIndex {
		t.Fatalf("site defaults wrong: %+v", cfg.Site)
	}
	if cfg.Local.ArticlesPath != "./articles" {
		t.Fatalf("local defaults wrong: %+v", cfg.Local)
	}
}

func TestLoadRoundTripsSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	want := Default()
	want.Server.Protocol = "sftp"
	want.Server.Host = "example.com"
	want.Server.Port = 2222
	want.Server.Username = "deploy"
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Server != want.Server {
		t.Fatalf("server section lost:\nwant %+v\ngot  %+v", want.Server, got.Server)
	}
}

func TestLoadDefaultsPortByProtocol(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server":{"protocol":"SFTP","host":"h","username":"u"}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Protocol != "sftp" {
		t.Fatalf("protocol not normalized: %q", cfg.Server.Protocol)
	}
	if cfg.Server.Port != DefaultSFTPPort {
		t.Fatalf("sftp default port: %d", cfg.Server.Port)
	}

	ftpPath := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(ftpPath, []byte(`{"server":{"protocol":"ftp","host":"h","username":"u"}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err = Load(ftpPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != DefaultFTPPort {
		t.Fatalf("ftp default port: %d", cfg.Server.Port)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.Server.Host = "from-file.example.com"
	cfg.Server.Password = "file-secret"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	t.Setenv(EnvHost, "from-env.example.com")
	t.Setenv(EnvPassword, "env-secret")
	t.Setenv(EnvPort, "2121")

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Server.Host != "from-env.example.com" {
		t.Fatalf("host override: %q", got.Server.Host)
	}
	if got.Server.Password != "env-secret" {
		t.Fatalf("password override: %q", got.Server.Password)
	}
	if got.Server.Port != 2121 {
		t.Fatalf("port override: %d", got.Server.Port)
	}
}

func TestValidateRejectsIncompleteServer(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure for empty host and username")
	}

	cfg.Server.Host = "example.com"
	cfg.Server.Username = "deploy"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("complete config must validate: %v", err)
	}
}

func TestValidateRejectsUnknownProtocol(t *testing.T) {
	cfg := Default()
	cfg.Server.Host = "example.com"
	cfg.Server.Username = "deploy"
	cfg.Server.Protocol = "gopher"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure for unknown protocol")
	}
}
