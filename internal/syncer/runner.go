package syncer

import (
	"github.com/goliatone/go-publish/pkg/interfaces"
)

// eventBuffer sizes the progress channel. A stalled consumer drops narration
// lines rather than blocking the workflow.
const eventBuffer = 64

// Workflow is a bound workflow invocation ready to run against a sink.
type Workflow func(interfaces.ProgressSink) (*Result, error)

// Runner executes one workflow in the background and streams its progress
// events to a single consumer. The result is delivered exactly once through
// Wait.
type Runner struct {
	events chan interfaces.ProgressEvent
	done   chan struct{}
	result *Result
	err    error
}

// Run starts the workflow. The events channel closes when the run finishes.
func Run(workflow Workflow) *Runner {
	r := &Runner{
		events: make(chan interfaces.ProgressEvent, eventBuffer),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(r.done)
		defer close(r.events)

		r.result, r.err = workflow(interfaces.ProgressFunc(func(event interfaces.ProgressEvent) {
			select {
			case r.events <- event:
			default:
			}
		}))
	}()

	return r
}

// Events returns the progress stream. It is closed once the workflow ends.
func (r *Runner) Events() <-chan interfaces.ProgressEvent {
	return r.events
}

// Wait blocks until the workflow finishes and returns its result.
func (r *Runner) Wait() (*Result, error) {
	<-r.done
	return r.result, r.err
}
