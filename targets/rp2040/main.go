//go:build rp2040

package main

import (
	"machine"
	"time"

	"stepmotion/config"
	"stepmotion/core"
)

// Reference wiring. Direction, enable and limit pins come from the
// default machine config; the rest are fixed here.
const (
	stepPin      = machine.GPIO6
	encoderPinA  = machine.GPIO8
	encoderPinB  = machine.GPIO9
	jogButtonPin = core.GPIOPin(10)
)

const (
	jogVelocity = 0.2 // m/s
	jogAccel    = 0.5 // m/s^2

	stallPollTicks = core.TimerFreq / 100 // 10ms
)

var motor *core.Controller

func main() {
	// Disable watchdog on boot to clear any previous state
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	core.SetGPIODriver(NewRPGPIODriver())
	core.SetDebugWriter(func(s string) { println(s) })

	cfg := config.Default()
	mx := cfg.Motors["x"]

	gen := NewPIOStepGenerator(0, 0)
	if err := gen.Init(stepPin); err != nil {
		core.SetDebugEnabled(true)
		core.DebugPrintln("step generator init failed: " + err.Error())
		return
	}

	m, err := core.NewController(mx.Core(gen))
	if err != nil {
		core.SetDebugEnabled(true)
		core.DebugPrintln("controller init failed: " + err.Error())
		return
	}
	motor = m

	// Limit switches fire on the rising edge; the shared handler routes
	// the pin back to the owning controller.
	limitISR := func(p machine.Pin) {
		core.HandleLimitEdge(core.GPIOPin(p))
	}
	machine.Pin(mx.LimStartPin).SetInterrupt(machine.PinRising, limitISR)
	machine.Pin(mx.LimEndPin).SetInterrupt(machine.PinRising, limitISR)

	// Encoder feedback for stall detection. The axis still runs open
	// loop without it.
	if reader, encErr := NewQuadratureReader(encoderPinA, encoderPinB); encErr == nil {
		motor.SetPositionReader(reader)
	}

	// Jog button: a short click toggles motion, a long click also
	// reverses the jog direction.
	jogDir := float32(1)
	_, err = core.NewButton(core.ButtonConfig{
		Pin:           jogButtonPin,
		ActiveLow:     true,
		SampleTicks:   core.TimerFreq / 100, // 10ms
		DebounceCount: 3,
		WindowTicks:   core.TimerFreq / 4, // 250ms
		LongTicks:     core.TimerFreq / 2, // 500ms
	}, func(e core.ButtonEvent) {
		if e.LongClicks > 0 {
			jogDir = -jogDir
		}
		if motor.Enabled() {
			motor.Move(0, jogAccel)
		} else {
			motor.Move(jogDir*jogVelocity, jogAccel)
		}
	})
	if err != nil {
		core.DebugPrintln("jog button init failed: " + err.Error())
	}

	// Periodic stall poll on the event scheduler.
	var stallTimer core.Timer
	stallTimer.Handler = func(t *core.Timer) uint8 {
		if motor.PollStall() {
			motor.Stop()
			core.DebugPrintln("stall detected, motor stopped")
		}
		t.WakeTime += stallPollTicks
		return core.SF_RESCHEDULE
	}
	stallTimer.WakeTime = core.GetTime() + stallPollTicks
	core.ScheduleTimer(&stallTimer)

	for {
		UpdateSystemTime()
		core.ProcessTimers()
		time.Sleep(100 * time.Microsecond)
	}
}
