package interfaces

import "github.com/google/uuid"

// ProgressEvent is a single progress notification emitted by a running sync
// workflow. Percent is -1 when the workflow cannot estimate completion yet.
type ProgressEvent struct {
	RunID   uuid.UUID
	Line    string
	Status  string
	Percent int
}

// ProgressSink receives workflow progress events. Implementations must be
// cheap and non-blocking; workflows call Publish from their own goroutine and
// a slow sink delays the transfer loop.
type ProgressSink interface {
	Publish(event ProgressEvent)
}

// ProgressFunc adapts a plain function to the ProgressSink contract.
type ProgressFunc func(event ProgressEvent)

// Publish satisfies ProgressSink.
func (f ProgressFunc) Publish(event ProgressEvent) {
	if f != nil {
		f(event)
	}
}
