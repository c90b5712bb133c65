package syncer

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-publish/pkg/interfaces"
)

func TestRunnerStreamsEventsAndDeliversResult(t *testing.T) {
	runID := uuid.New()
	runner := Run(func(sink interfaces.ProgressSink) (*Result, error) {
		for i := 0; i < 3; i++ {
			sink.Publish(interfaces.ProgressEvent{RunID: runID, Line: "paso"})
		}
		return &Result{RunID: runID, Uploaded: 3, LastStep: StepDone}, nil
	})

	var count int
	for range runner.Events() {
		count++
	}
	if count != 3 {
		t.Fatalf("events received: %d", count)
	}

	res, err := runner.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if res.Uploaded != 3 || res.RunID != runID {
		t.Fatalf("result: %+v", res)
	}

	// Wait is idempotent; the result is the same instance every time.
	again, _ := runner.Wait()
	if again != res {
		t.Fatal("Wait must return the same result")
	}
}

func TestRunnerPropagatesWorkflowError(t *testing.T) {
	boom := errors.New("boom")
	runner := Run(func(interfaces.ProgressSink) (*Result, error) {
		return &Result{LastStep: StepConnecting}, boom
	})

	res, err := runner.Wait()
	if !errors.Is(err, boom) {
		t.Fatalf("expected workflow error, got %v", err)
	}
	if res.LastStep != StepConnecting {
		t.Fatalf("last step: %s", res.LastStep)
	}
}

func TestRunnerDropsEventsWhenConsumerLags(t *testing.T) {
	runner := Run(func(sink interfaces.ProgressSink) (*Result, error) {
		for i := 0; i < eventBuffer*2; i++ {
			sink.Publish(interfaces.ProgressEvent{Line: "ruido"})
		}
		return &Result{LastStep: StepDone}, nil
	})

	if _, err := runner.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	var count int
	for range runner.Events() {
		count++
	}
	if count > eventBuffer {
		t.Fatalf("expected drops beyond the buffer, got %d", count)
	}
}
