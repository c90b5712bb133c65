package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-publish/pkg/interfaces"
)

const (
	rootModule      = "publish"
	storeModule     = "publish.store"
	renderModule    = "publish.render"
	extractModule   = "publish.extract"
	transportModule = "publish.transport"
	syncModule      = "publish.sync"
)

const (
	fieldRemotePath = "remote_path"
	fieldProtocol   = "protocol"
	fieldWorkflow   = "workflow"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// StoreLogger returns the logger namespace reserved for the article store.
func StoreLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storeModule)
}

// RenderLogger returns the logger namespace reserved for page rendering.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// ExtractLogger returns the logger namespace reserved for reverse extraction.
func ExtractLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, extractModule)
}

// TransportLogger returns the logger namespace reserved for remote transports.
func TransportLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, transportModule)
}

// SyncLogger returns the logger namespace reserved for sync workflows.
func SyncLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, syncModule)
}

// WithTransferContext enriches the provided logger with common transfer fields
// such as remote path, protocol label, and workflow name. Empty values are
// ignored.
func WithTransferContext(logger interfaces.Logger, remotePath, protocol, workflow string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(remotePath); trimmed != "" {
		fields[fieldRemotePath] = trimmed
	}
	if trimmed := strings.TrimSpace(protocol); trimmed != "" {
		fields[fieldProtocol] = trimmed
	}
	if trimmed := strings.TrimSpace(workflow); trimmed != "" {
		fields[fieldWorkflow] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
