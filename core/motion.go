// Stepper motion controller
// Velocity-ramped, direction-aware, limit-protected control of a linear
// axis stepper. The controller owns the direction and enable lines and a
// step-pulse generator; a scheduler event updates the velocity at a fixed
// rate until the target is reached.
package core

import (
	"errors"
)

// Params holds the physical tuning of one motor.
type Params struct {
	VelMax             float32 // Maximum velocity (m/s)
	AccMax             float32 // Maximum acceleration (m/s^2)
	Kv                 float32 // Step frequency per velocity unit (Hz per m/s)
	VelUpdateFrequency uint16  // Velocity update rate (Hz)

	// Maintained by the frequency mapper. Do not set.
	VelMin      float32 // Smallest representable velocity at the current divider (m/s)
	PwmDeadZone uint32  // Smallest representable PWM frequency (Hz)
	PwmPeriod   uint32  // Last programmed PWM period (clock ticks)
	PwmClockHz  uint32  // Effective clock feeding the period counter (Hz)
}

// MotorConfig wires one controller to its hardware resources.
// The direction, enable and limit pins are addressed through the global
// GPIO driver; the step generator is an exclusive per-motor resource.
type MotorConfig struct {
	DirPin      GPIOPin // Direction output
	EnablePin   GPIOPin // Enable output (active low at the driver)
	LimStartPin GPIOPin // Limit switch at axis start (rising edge)
	LimEndPin   GPIOPin // Limit switch at axis end (rising edge)

	StepGen StepGenerator

	Params Params
}

// Status is a snapshot of the live controller state.
type Status struct {
	Enabled      bool    // Motor is logically driven
	Dir          bool    // Current direction (true = forward)
	TargetVel    float32 // Target velocity (m/s, sign encodes direction)
	CurrentVel   float32 // Current commanded velocity (m/s, sign encodes direction)
	CurrentAcc   float32 // Current acceleration (m/s^2); negative means instant change
	PwmFrequency uint32  // Last applied step rate (Hz)
}

// Controller drives a single stepper motor. One instance per physical
// motor; status is never shared between instances.
type Controller struct {
	cfg    MotorConfig
	status Status

	// The enable flag and the physical drive line are distinct: inside
	// the PWM dead zone the drive line is released while the motor stays
	// logically enabled.
	driven bool

	deltaVel     float32 // Velocity step per update, derived from CurrentAcc
	tickInterval uint32  // Scheduler ticks between velocity updates
	velTimer     Timer

	lastSample  uint32 // Previous position sample for stall detection
	stallPrimed bool

	reader PositionReader
}

var (
	ErrNoStepGenerator = errors.New("step generator not configured")
	ErrBadParams       = errors.New("invalid motor parameters")
	ErrRegistryFull    = errors.New("controller registry full")
)

// NewController configures the motor hardware and returns a stopped
// controller. The limit pins are registered with the interrupt routing
// table so HandleLimitEdge can find this instance.
func NewController(cfg MotorConfig) (*Controller, error) {
	if cfg.StepGen == nil {
		return nil, ErrNoStepGenerator
	}
	if cfg.Params.Kv <= 0 || cfg.Params.VelUpdateFrequency == 0 {
		return nil, ErrBadParams
	}

	c := &Controller{cfg: cfg}
	c.tickInterval = TimerFreq / uint32(cfg.Params.VelUpdateFrequency)
	c.velTimer.Handler = c.velocityEvent

	gpio := MustGPIO()
	if err := gpio.ConfigureOutput(cfg.DirPin); err != nil {
		return nil, err
	}
	if err := gpio.ConfigureOutput(cfg.EnablePin); err != nil {
		return nil, err
	}
	if err := gpio.ConfigureInputPullUp(cfg.LimStartPin); err != nil {
		return nil, err
	}
	if err := gpio.ConfigureInputPullUp(cfg.LimEndPin); err != nil {
		return nil, err
	}

	c.setDirection(false)
	c.setEnable(false)

	// Start from the divided clock so the dead zone reflects the slowest
	// usable step rate; the mapper switches dividers as speed demands.
	p := &c.cfg.Params
	cfg.StepGen.SetClockDivider(slowClockDiv)
	p.PwmClockHz = cfg.StepGen.ClockHz()
	p.PwmDeadZone = (p.PwmClockHz >> 16) + 1
	p.VelMin = float32(p.PwmDeadZone) / p.Kv

	if err := registerLimitOwner(c); err != nil {
		return nil, err
	}

	return c, nil
}

// Move requests motion at finalVel, ramping with the given acceleration.
// A negative acceleration applies the target instantly. Both inputs are
// saturated to the configured maxima. Returns the resulting enabled
// state: false means the move was refused by an asserted limit switch.
func (c *Controller) Move(finalVel, accel float32) bool {
	var sign float32 = -1
	if finalVel > 0 {
		sign = 1
	}
	velAbs := finalVel * sign
	if velAbs > c.cfg.Params.VelMax {
		velAbs = c.cfg.Params.VelMax
	}
	if accel > c.cfg.Params.AccMax {
		accel = c.cfg.Params.AccMax
	}

	// The target/acceleration pair must never be observed half updated
	// by a pending velocity tick.
	state := disableInterrupts()
	c.status.TargetVel = velAbs * sign
	c.status.CurrentAcc = accel
	c.deltaVel = accel / float32(c.cfg.Params.VelUpdateFrequency)
	restoreInterrupts(state)

	if !c.status.Enabled && velAbs != 0 {
		// Establish initial direction and seed velocity synchronously.
		c.updateVelocity()

		// Refuse to start into an asserted limit switch.
		if !c.canMove(c.status.Dir) {
			c.Stop()
			return false
		}

		c.setEnable(true)
		c.cfg.StepGen.SetOutput(true)
		c.cfg.StepGen.Start()
		recordEvent(EvtMove, GetTime(), c.status.PwmFrequency)
	}

	if c.status.CurrentVel != c.status.TargetVel {
		c.startTick()
	}

	return c.status.Enabled
}

// Stop halts the motor immediately: drive disabled, pulse generation
// stopped, velocity and acceleration zeroed. Idempotent, callable from
// interrupt context.
func (c *Controller) Stop() {
	c.setEnable(false)
	c.stopPwm()
	c.status.CurrentVel = 0
	c.status.CurrentAcc = 0
	CancelTimer(&c.velTimer)
	recordEvent(EvtStop, GetTime(), 0)
}

// Status returns a copy of the live controller state.
func (c *Controller) Status() Status {
	return c.status
}

// Enabled reports whether the motor is logically driven.
func (c *Controller) Enabled() bool {
	return c.status.Enabled
}

// Direction returns the current direction (true = forward).
func (c *Controller) Direction() bool {
	return c.status.Dir
}

// TargetVelocity returns the target velocity in m/s.
func (c *Controller) TargetVelocity() float32 {
	return c.status.TargetVel
}

// CurrentVelocity returns the current commanded velocity in m/s.
func (c *Controller) CurrentVelocity() float32 {
	return c.status.CurrentVel
}

// CurrentAcceleration returns the current acceleration in m/s^2.
func (c *Controller) CurrentAcceleration() float32 {
	return c.status.CurrentAcc
}

// PwmFrequency returns the last applied step rate in Hz.
func (c *Controller) PwmFrequency() uint32 {
	return c.status.PwmFrequency
}

// setDirection writes the direction line and mirrors the status flag.
// Callers are responsible for only flipping direction while velocity is
// at or crossing zero; no validation happens here.
func (c *Controller) setDirection(fwd bool) {
	c.status.Dir = fwd
	MustGPIO().SetPin(c.cfg.DirPin, fwd)
}

// setEnable writes the enable line (active low) and mirrors the flag.
// Enabling inside the PWM dead zone keeps the drive line released until
// the step rate becomes representable; Move seeds the frequency before
// it enables, so PwmFrequency is current here.
func (c *Controller) setEnable(on bool) {
	c.status.Enabled = on
	drive := on && c.status.PwmFrequency >= c.cfg.Params.PwmDeadZone
	c.driven = drive
	MustGPIO().SetPin(c.cfg.EnablePin, !drive)
}

// stopPwm halts pulse generation and disconnects the step output.
func (c *Controller) stopPwm() {
	c.cfg.StepGen.Stop()
	c.cfg.StepGen.SetOutput(false)
	c.status.PwmFrequency = 0
}

// startTick (re)arms the periodic velocity update.
func (c *Controller) startTick() {
	CancelTimer(&c.velTimer)
	c.velTimer.WakeTime = GetTime() + c.tickInterval
	ScheduleTimer(&c.velTimer)
}
