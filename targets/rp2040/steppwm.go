//go:build rp2040

package main

// PWM step-pulse generator.
// Alternative backend for motors whose step pin lands on a PWM-capable
// GPIO when no PIO state machine is free. The RP2040 has 8 PWM slices
// with 2 channels each.

import (
	"errors"
	"machine"

	"stepmotion/core"
)

// pwmPeripheral is an interface for PWM hardware peripherals
// This abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

var errNoPWMSlice = errors.New("pin has no PWM slice")

// PWMStepGenerator implements core.StepGenerator on a machine PWM slice.
type PWMStepGenerator struct {
	pwm     pwmPeripheral
	pin     machine.Pin
	channel uint8

	div    uint32
	period uint32
	pulse  uint32

	configured bool
	running    bool
	output     bool
}

// NewPWMStepGenerator binds the PWM slice owning the given step pin.
// The slice is programmed on the first SetPeriod call.
func NewPWMStepGenerator(stepPin machine.Pin) (*PWMStepGenerator, error) {
	pwm := pwmForPin(stepPin)
	if pwm == nil {
		return nil, errNoPWMSlice
	}

	return &PWMStepGenerator{pwm: pwm, pin: stepPin, div: 1}, nil
}

// BaseClockHz returns the undivided clock of the period counter.
func (g *PWMStepGenerator) BaseClockHz() uint32 {
	return machine.CPUFrequency()
}

// SetClockDivider selects the divider feeding the period counter.
func (g *PWMStepGenerator) SetClockDivider(div uint32) {
	if div == 0 {
		div = 1
	}
	g.div = div
}

// ClockHz returns the effective clock after the current divider.
func (g *PWMStepGenerator) ClockHz() uint32 {
	return g.BaseClockHz() / g.div
}

// SetPeriod programs the step period in clock ticks.
func (g *PWMStepGenerator) SetPeriod(ticks uint32) {
	g.period = ticks
	g.program()
}

// Period returns the last programmed period.
func (g *PWMStepGenerator) Period() uint32 {
	return g.period
}

// SetPulseWidth programs the high time of the step pulse in clock ticks.
func (g *PWMStepGenerator) SetPulseWidth(ticks uint32) {
	g.pulse = ticks
	g.applyDuty()
}

// SetOutput connects or disconnects the step pin.
func (g *PWMStepGenerator) SetOutput(on bool) {
	g.output = on
	g.applyDuty()
}

// Start enables pulse generation.
func (g *PWMStepGenerator) Start() {
	g.running = true
	g.applyDuty()
}

// Stop halts pulse generation by forcing the duty cycle to zero.
func (g *PWMStepGenerator) Stop() {
	g.running = false
	g.applyDuty()
}

// program reconfigures the PWM slice for the current divider and period.
// machine.PWMConfig takes the period in nanoseconds.
func (g *PWMStepGenerator) program() error {
	periodNs := (uint64(g.period) + 1) * uint64(g.div) * 1000000000 / uint64(g.BaseClockHz())
	if err := g.pwm.Configure(machine.PWMConfig{Period: periodNs}); err != nil {
		return err
	}

	channel, err := g.pwm.Channel(g.pin)
	if err != nil {
		return err
	}
	g.channel = channel
	g.configured = true

	g.applyDuty()
	return nil
}

// applyDuty writes the hardware compare value: the configured pulse
// width scaled to the slice counter range, or zero while stopped.
func (g *PWMStepGenerator) applyDuty() {
	if !g.configured {
		return
	}
	if !g.running || !g.output {
		g.pwm.Set(g.channel, 0)
		return
	}

	top := g.pwm.Top()
	duty := uint32(uint64(g.pulse) * uint64(top) / uint64(g.period+1))
	g.pwm.Set(g.channel, duty)
}

// pwmForPin returns the PWM peripheral owning a pin.
// RP2040: GPIO pin N maps to slice (N >> 1) & 0x7
func pwmForPin(pin machine.Pin) pwmPeripheral {
	switch (uint32(pin) >> 1) & 0x7 {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	}
	return nil
}

var _ core.StepGenerator = (*PWMStepGenerator)(nil)
