//go:build rp2040

package main

// PIO step-pulse generator.
// A two-instruction PIO program toggles the step pin as a free-running
// 50% square wave; the step rate is set entirely through the state
// machine clock divider, so the CPU never touches the pin during motion.

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"stepmotion/core"
)

// stepCycles is the PIO cycle count of one full step period: two SET
// instructions, each with a 31-cycle delay.
const stepCycles = 64

// buildSquareProgram creates the square-wave PIO program using AssemblerV0
func buildSquareProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Set(rp2pio.SetDestPins, 1).Delay(31).Encode(), // 0: set pins, 1 [31]
		asm.Set(rp2pio.SetDestPins, 0).Delay(31).Encode(), // 1: set pins, 0 [31]
		// .wrap
	}
}

const squarePIOOrigin = 0

// PIOStepGenerator implements core.StepGenerator on a PIO state machine.
type PIOStepGenerator struct {
	pio     *rp2pio.PIO
	sm      rp2pio.StateMachine
	stepPin machine.Pin
	offset  uint8
	proglen uint8

	div     uint32
	period  uint32
	running bool
	output  bool
}

// NewPIOStepGenerator allocates a state machine on the given PIO block.
// pioNum: 0 for PIO0, 1 for PIO1; smNum: 0-3
func NewPIOStepGenerator(pioNum, smNum uint8) *PIOStepGenerator {
	var pioHW *rp2pio.PIO
	if pioNum == 0 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
	}

	return &PIOStepGenerator{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
		div: 1,
	}
}

// Init claims the state machine, loads the square-wave program and parks
// the step pin low. The generator starts stopped.
func (g *PIOStepGenerator) Init(stepPin machine.Pin) error {
	g.stepPin = stepPin

	g.sm.TryClaim()

	program := buildSquareProgram()
	offset, err := g.pio.AddProgram(program, squarePIOOrigin)
	if err != nil {
		return err
	}
	g.offset = offset
	g.proglen = uint8(len(program))

	g.stepPin.Configure(machine.PinConfig{Mode: g.pio.PinMode()})

	g.applyTiming()

	g.sm.SetPindirsConsecutive(g.stepPin, 1, true)
	g.sm.SetPinsConsecutive(g.stepPin, 1, false)

	return nil
}

// BaseClockHz returns the undivided step clock: the system clock scaled
// by the fixed cycle count of one step period.
func (g *PIOStepGenerator) BaseClockHz() uint32 {
	return machine.CPUFrequency() / stepCycles
}

// SetClockDivider selects the divider feeding the step clock.
func (g *PIOStepGenerator) SetClockDivider(div uint32) {
	if div == 0 {
		div = 1
	}
	g.div = div
	g.applyTiming()
}

// ClockHz returns the effective step clock after the current divider.
func (g *PIOStepGenerator) ClockHz() uint32 {
	return g.BaseClockHz() / g.div
}

// SetPeriod programs the step period in step-clock ticks.
func (g *PIOStepGenerator) SetPeriod(ticks uint32) {
	g.period = ticks
	g.applyTiming()
}

// Period returns the last programmed period.
func (g *PIOStepGenerator) Period() uint32 {
	return g.period
}

// SetPulseWidth is a no-op: the program is a fixed 50% square wave.
func (g *PIOStepGenerator) SetPulseWidth(ticks uint32) {}

// SetOutput connects or disconnects the step pin. Disconnecting parks
// the pin low so a half-finished pulse cannot hold a driver input high.
func (g *PIOStepGenerator) SetOutput(on bool) {
	g.output = on
	if !on {
		g.sm.SetEnabled(false)
		g.sm.SetPinsConsecutive(g.stepPin, 1, false)
	}
}

// Start enables pulse generation.
func (g *PIOStepGenerator) Start() {
	g.running = true
	if g.output {
		g.sm.SetEnabled(true)
	}
}

// Stop halts pulse generation with the pin parked low.
func (g *PIOStepGenerator) Stop() {
	g.running = false
	g.sm.SetEnabled(false)
	g.sm.SetPinsConsecutive(g.stepPin, 1, false)
}

// applyTiming folds divider and period into the state machine clock
// divider: one step period is stepCycles PIO cycles, so the combined
// division is div*(period+1). Changing CLKDIV needs a machine re-init,
// which also restarts the square wave phase; a phase hiccup on a step
// rate change is harmless.
func (g *PIOStepGenerator) applyTiming() {
	clkdiv := uint64(g.div) * uint64(g.period+1)
	if clkdiv == 0 {
		clkdiv = 1
	}
	// Integer clock divider is 16-bit; slower rates saturate here.
	if clkdiv > 0xffff {
		clkdiv = 0xffff
	}

	wasRunning := g.running && g.output
	g.sm.SetEnabled(false)

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(g.stepPin, 1)
	cfg.SetWrap(g.offset+g.proglen-1, g.offset)
	cfg.SetClkDivIntFrac(uint16(clkdiv), 0)
	g.sm.Init(g.offset, cfg)

	g.sm.SetPindirsConsecutive(g.stepPin, 1, true)

	if wasRunning {
		g.sm.SetEnabled(true)
	}
}

var _ core.StepGenerator = (*PIOStepGenerator)(nil)
