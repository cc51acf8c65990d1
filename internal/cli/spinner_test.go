package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinner("Computing graph layout...")
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Rendering svg...")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "Rendering timeline view...")
	s.Start()

	cancel()
	time.Sleep(2 * spinnerInterval)

	if !s.Cancelled() {
		t.Error("spinner should report cancelled after the parent context ends")
	}
	s.Stop()
}

func TestSpinnerTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), spinnerInterval/2)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Loading snapshot...")
	s.Start()
	time.Sleep(2 * spinnerInterval)

	if !s.Cancelled() {
		t.Error("spinner should report cancelled after the context deadline")
	}
	s.Stop()
}

func TestSpinnerStopMessages(t *testing.T) {
	s := newSpinner("Importing manifest...")
	s.Start()
	s.StopWithSuccess("Imported")

	s = newSpinner("Importing manifest...")
	s.Start()
	s.StopWithError("Import failed")
}
