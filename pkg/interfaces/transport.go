package interfaces

import "context"

// Transport is the capability contract every remote-file protocol variant
// implements. The sync workflows drive it without knowing which variant is
// active; Protocol is only used for human-readable status lines.
//
// Semantics shared by all variants:
//   - ReadText returns ("", nil) when the remote path does not exist; callers
//     treat "missing" and "empty" the same way.
//   - WriteText overwrites unconditionally and creates intermediate remote
//     directories when the protocol requires explicit creation.
//   - Remove treats an already-absent path as success.
//   - Disconnect is safe to call even when Connect partially failed.
type Transport interface {
	Connect(ctx context.Context) error
	List(ctx context.Context, remotePath string) ([]string, error)
	ReadText(ctx context.Context, remotePath string) (string, error)
	WriteText(ctx context.Context, content string, remotePath string) error
	Remove(ctx context.Context, remotePath string) error
	Disconnect() error
	Protocol() string
}
