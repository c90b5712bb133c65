package syncer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-publish/pkg/interfaces"
)

// Step identifies the workflow phase in progress. Failures report the last
// completed step so operators know how far a run got.
type Step string

const (
	StepValidating    Step = "validating"
	StepConnecting    Step = "connecting"
	StepRendering     Step = "rendering"
	StepExtracting    Step = "extracting"
	StepTransferring  Step = "transferring"
	StepFinalizing    Step = "finalizing"
	StepDisconnecting Step = "disconnecting"
	StepDone          Step = "done"
)

// Result summarizes a workflow run. Counts only accumulate for the phases a
// workflow actually has; an export run, for instance, never uploads.
type Result struct {
	RunID    uuid.UUID
	Workflow string
	Uploaded int
	Imported int
	Exported int
	Skipped  int
	Failed   int
	LastStep Step
	// Notes carries per-item observations: skips, extraction failures,
	// and the "nothing to do" short-circuit.
	Notes []string
}

func newResult(workflow string) *Result {
	return &Result{RunID: uuid.New(), Workflow: workflow, LastStep: StepValidating}
}

func (r *Result) note(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// emitter fans workflow narration out to the optional progress sink while
// tracking the running percentage.
type emitter struct {
	runID   uuid.UUID
	sink    interfaces.ProgressSink
	status  string
	percent int
}

func newEmitter(runID uuid.UUID, sink interfaces.ProgressSink) *emitter {
	// Percent stays -1 until the first item count is known.
	return &emitter{runID: runID, sink: sink, percent: -1}
}

func (e *emitter) publish(line string) {
	if e.sink == nil {
		return
	}
	e.sink.Publish(interfaces.ProgressEvent{
		RunID:   e.runID,
		Line:    line,
		Status:  e.status,
		Percent: e.percent,
	})
}

func (e *emitter) line(format string, args ...any) {
	e.publish(fmt.Sprintf(format, args...))
}

func (e *emitter) setStatus(status string) {
	e.status = status
	e.publish("")
}

func (e *emitter) progress(done, total int) {
	if total <= 0 {
		return
	}
	e.percent = done * 100 / total
	e.publish("")
}
