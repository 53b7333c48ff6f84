package core

// StepGenerator is the abstract step-pulse capability the motion
// controller drives. Implementations map the period and clock divider
// onto real hardware (a PWM slice, a PIO state machine). The generator
// is an exclusive per-motor resource: nothing else may program it while
// the controller is active.
type StepGenerator interface {
	// BaseClockHz returns the undivided clock available to the period counter.
	BaseClockHz() uint32

	// SetClockDivider selects the divider feeding the period counter.
	SetClockDivider(div uint32)

	// ClockHz returns the effective clock after the current divider.
	ClockHz() uint32

	// SetPeriod programs the step period in clock ticks.
	SetPeriod(ticks uint32)

	// Period returns the last programmed period in clock ticks.
	Period() uint32

	// SetPulseWidth programs the high time of the step pulse in clock ticks.
	SetPulseWidth(ticks uint32)

	// SetOutput connects (true) or disconnects (false) the step output pin.
	SetOutput(on bool)

	// Start enables pulse generation.
	Start()

	// Stop halts pulse generation.
	Stop()
}
