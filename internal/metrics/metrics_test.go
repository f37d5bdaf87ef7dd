package metrics

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

// captureBackend records every call for assertions.
type captureBackend struct {
	counters  map[string]float64
	labels    map[string]Labels
	durations map[string][]float64
	flushed   int
}

func newCapture() *captureBackend {
	return &captureBackend{
		counters:  map[string]float64{},
		labels:    map[string]Labels{},
		durations: map[string][]float64{},
	}
}

func (c *captureBackend) IncCounter(name string, delta float64, labels Labels) {
	c.counters[name] += delta
	c.labels[name] = labels
}

func (c *captureBackend) ObserveDuration(name string, value float64, labels Labels) {
	c.durations[name] = append(c.durations[name], value)
}

func (c *captureBackend) Flush() error {
	c.flushed++
	return nil
}

/*
TestRecordStep verifies the step counter and duration metric are emitted
with job/step/status labels, and that a non-nil error flips status to
"failure".
*/
func TestRecordStep(t *testing.T) {
	be := newCapture()
	SetBackend(be)
	defer SetBackend(nopBackend{})

	RecordStep("fy2016", "merge", nil, 50*time.Millisecond)
	if be.counters["report_step_total"] != 1 {
		t.Fatalf("step counter = %v, want 1", be.counters["report_step_total"])
	}
	want := Labels{"job": "fy2016", "step": "merge", "status": "success"}
	if !reflect.DeepEqual(be.labels["report_step_total"], want) {
		t.Fatalf("labels = %v, want %v", be.labels["report_step_total"], want)
	}
	if len(be.durations["report_step_duration_seconds"]) != 1 {
		t.Fatalf("no duration observed")
	}

	RecordStep("fy2016", "archive", errors.New("boom"), time.Millisecond)
	if be.labels["report_step_total"]["status"] != "failure" {
		t.Fatalf("status = %v, want failure", be.labels["report_step_total"]["status"])
	}
}

/*
TestRecordRow verifies record counters carry the kind label and that
non-positive deltas are dropped.
*/
func TestRecordRow(t *testing.T) {
	be := newCapture()
	SetBackend(be)
	defer SetBackend(nopBackend{})

	RecordRow("fy2016", "processed", 42)
	RecordRow("fy2016", "skipped", 0)
	RecordRow("fy2016", "skipped", -3)

	if be.counters["report_records_total"] != 42 {
		t.Fatalf("records counter = %v, want 42", be.counters["report_records_total"])
	}
}

/*
TestSetBackend_NilKeepsExisting verifies nil is ignored and Flush delegates.
*/
func TestSetBackend_NilKeepsExisting(t *testing.T) {
	be := newCapture()
	SetBackend(be)
	defer SetBackend(nopBackend{})

	SetBackend(nil)
	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if be.flushed != 1 {
		t.Fatalf("flushed = %d, want 1", be.flushed)
	}
}
