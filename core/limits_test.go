package core

import (
	"testing"
)

func TestLimitStopsMotionTowardIt(t *testing.T) {
	c, _, _ := newTestController(t, testParams())

	c.Move(0.5, -1)
	if !c.Direction() {
		t.Fatal("Expected forward direction")
	}

	HandleLimitEdge(testLimEndPin)
	if c.Enabled() {
		t.Error("End limit should stop forward motion")
	}
	if c.CurrentVelocity() != 0 {
		t.Errorf("CurrentVelocity = %v after limit stop", c.CurrentVelocity())
	}
}

func TestLimitIgnoredWhenMovingAway(t *testing.T) {
	c, _, _ := newTestController(t, testParams())

	c.Move(0.5, -1)
	HandleLimitEdge(testLimStartPin)
	if !c.Enabled() {
		t.Error("Start limit must not stop forward motion")
	}

	c.Stop()
	c.Move(-0.5, -1)
	HandleLimitEdge(testLimEndPin)
	if !c.Enabled() {
		t.Error("End limit must not stop backward motion")
	}
}

func TestLimitStopsBackwardMotion(t *testing.T) {
	c, _, _ := newTestController(t, testParams())

	c.Move(-0.5, -1)
	HandleLimitEdge(testLimStartPin)
	if c.Enabled() {
		t.Error("Start limit should stop backward motion")
	}
}

func TestLimitEdgeWhileDisabled(t *testing.T) {
	c, _, _ := newTestController(t, testParams())

	HandleLimitEdge(testLimEndPin)
	st := c.Status()
	if st.Enabled || st.CurrentVel != 0 {
		t.Errorf("Edge on a stopped motor changed state: %+v", st)
	}
}

func TestLimitEdgeUnknownPin(t *testing.T) {
	c, _, _ := newTestController(t, testParams())

	c.Move(0.5, -1)
	HandleLimitEdge(GPIOPin(99))
	if !c.Enabled() {
		t.Error("Unknown pin must not affect any controller")
	}
}

func TestMoveRefusedByAssertedLimit(t *testing.T) {
	c, gpio, _ := newTestController(t, testParams())

	gpio.pins[testLimEndPin] = true
	if c.Move(0.5, 1.0) {
		t.Error("Forward move into asserted end limit should be refused")
	}
	if c.Enabled() || c.CurrentVelocity() != 0 {
		t.Errorf("Refused move left residual state: %+v", c.Status())
	}
	if timerList != nil {
		t.Error("Refused move must not leave a velocity update scheduled")
	}

	// The opposite direction is clear
	if !c.Move(-0.5, 1.0) {
		t.Error("Backward move away from end limit should be allowed")
	}
}

func TestMoveRefusedByAssertedStartLimit(t *testing.T) {
	c, gpio, _ := newTestController(t, testParams())

	gpio.pins[testLimStartPin] = true
	if c.Move(-0.5, -1) {
		t.Error("Backward move into asserted start limit should be refused")
	}
	if !c.Move(0.5, -1) {
		t.Error("Forward move away from start limit should be allowed")
	}
}

func TestRegistryCapacity(t *testing.T) {
	_, _, _ = newTestController(t, testParams())

	// Fill the remaining routing table slots
	for i := limitCount; i < MaxControllers; i++ {
		_, err := NewController(MotorConfig{
			DirPin:      GPIOPin(10 + uint32(i)*4),
			EnablePin:   GPIOPin(11 + uint32(i)*4),
			LimStartPin: GPIOPin(12 + uint32(i)*4),
			LimEndPin:   GPIOPin(13 + uint32(i)*4),
			StepGen:     newMockStepGen(),
			Params:      testParams(),
		})
		if err != nil {
			t.Fatalf("Controller %d failed: %v", i, err)
		}
	}

	_, err := NewController(MotorConfig{
		DirPin:      GPIOPin(30),
		EnablePin:   GPIOPin(31),
		LimStartPin: GPIOPin(32),
		LimEndPin:   GPIOPin(33),
		StepGen:     newMockStepGen(),
		Params:      testParams(),
	})
	if err != ErrRegistryFull {
		t.Errorf("Expected ErrRegistryFull, got %v", err)
	}
}
