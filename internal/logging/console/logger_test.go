package console

import (
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
}

func TestConsoleLoggerWritesFormattedEntry(t *testing.T) {
	var buf strings.Builder
	provider := NewProvider(Options{Writer: &buf, TimeFunc: fixedClock})

	logger := provider.GetLogger("publish.sync")
	logger.Info("upload complete", "file", "mi-primer-dia.html", "bytes", 2048)

	entry := buf.String()
	for _, want := range []string{"INFO", "upload complete", "logger=publish.sync", "file=mi-primer-dia.html", "bytes=2048"} {
		if !strings.Contains(entry, want) {
			t.Fatalf("entry missing %q: %s", want, entry)
		}
	}
}

func TestConsoleLoggerHonorsMinLevel(t *testing.T) {
	var buf strings.Builder
	min := LevelWarn
	provider := NewProvider(Options{Writer: &buf, TimeFunc: fixedClock, MinLevel: &min})

	logger := provider.GetLogger("publish")
	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Warn("visible")

	entries := strings.TrimSpace(buf.String())
	if strings.Contains(entries, "hidden") {
		t.Fatalf("sub-threshold entries leaked: %s", entries)
	}
	if !strings.Contains(entries, "visible") {
		t.Fatalf("expected warn entry, got: %s", entries)
	}
}

func TestConsoleLoggerQuotesValuesWithSpaces(t *testing.T) {
	var buf strings.Builder
	provider := NewProvider(Options{Writer: &buf, TimeFunc: fixedClock})

	provider.GetLogger("publish").Info("status", "msg", "conexión establecida ok")

	if !strings.Contains(buf.String(), `msg="conexión establecida ok"`) {
		t.Fatalf("expected quoted value, got: %s", buf.String())
	}
}
