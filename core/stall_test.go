package core

import (
	"testing"
)

func TestStallDetection(t *testing.T) {
	c, _, _ := newTestController(t, testParams())
	c.Move(0.5, -1)

	// The first sample only primes the detector
	if c.CheckForStall(100) {
		t.Error("First sample must not report a stall")
	}
	if !c.CheckForStall(100) {
		t.Error("Repeated sample while moving should report a stall")
	}
	if c.CheckForStall(105) {
		t.Error("Advancing sample should clear the stall")
	}
	if !c.CheckForStall(105) {
		t.Error("Repeated sample should report a stall again")
	}
}

func TestStallIgnoredWhenDisabled(t *testing.T) {
	c, _, _ := newTestController(t, testParams())

	if c.CheckForStall(100) || c.CheckForStall(100) {
		t.Error("Stopped motor must never report a stall")
	}
}

func TestStallDetectorSurvivesStopStart(t *testing.T) {
	c, _, _ := newTestController(t, testParams())

	c.Move(0.5, -1)
	c.CheckForStall(100)
	c.Stop()

	// Samples while stopped are discarded
	if c.CheckForStall(100) {
		t.Error("Stopped motor reported a stall")
	}

	c.Move(0.5, -1)
	if !c.CheckForStall(100) {
		t.Error("Primed detector should report a repeated sample after restart")
	}
}

type fakeEncoder struct {
	pos uint32
}

func (f *fakeEncoder) ReadPosition() uint32 { return f.pos }

func TestPollStall(t *testing.T) {
	c, _, _ := newTestController(t, testParams())
	c.Move(0.5, -1)

	// No reader attached
	if c.PollStall() {
		t.Error("PollStall without a reader should report false")
	}

	enc := &fakeEncoder{pos: 42}
	c.SetPositionReader(enc)

	if c.PollStall() {
		t.Error("First poll must only prime the detector")
	}
	if !c.PollStall() {
		t.Error("Stuck encoder should report a stall")
	}

	enc.pos = 43
	if c.PollStall() {
		t.Error("Moving encoder must not report a stall")
	}
}
