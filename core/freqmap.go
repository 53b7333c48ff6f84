package core

// PWM frequency mapper. Converts a desired step rate into a period on
// the step generator, managing the clock divider so low frequencies stay
// representable in the 16-bit period counter.

const (
	// Divider hysteresis: switch to the undivided clock above the high
	// threshold, back to the divided clock below the low one. The gap
	// keeps the divider from oscillating near a boundary.
	freqDividerHigh = 3000
	freqDividerLow  = 2000

	slowClockDiv = 64
)

// setFrequency programs the step generator for the given step rate. On a
// divider change the effective clock, dead zone and minimum velocity are
// recomputed together, so a velocity tick never observes a stale mix.
func (c *Controller) setFrequency(freq uint32) {
	p := &c.cfg.Params
	gen := c.cfg.StepGen
	base := gen.BaseClockHz()
	changed := false

	if freq > freqDividerHigh && p.PwmClockHz != base {
		// Fast enough for the undivided clock.
		gen.SetClockDivider(1)
		changed = true
	} else if freq < freqDividerLow && p.PwmClockHz == base {
		// Too slow for the current clock.
		gen.SetClockDivider(slowClockDiv)
		changed = true
	}

	if changed {
		p.PwmClockHz = gen.ClockHz()
		p.PwmDeadZone = (p.PwmClockHz >> 16) + 1
		p.VelMin = float32(p.PwmDeadZone) / p.Kv
		recordEvent(EvtDivider, GetTime(), p.PwmClockHz)
	}

	c.status.PwmFrequency = freq

	// Inside the dead zone the rate is not representable: release the
	// drive line but keep any logical enable so the ramp can climb back
	// out on a later tick. This must run before the period division;
	// freq can be 0 here after float truncation.
	if freq < p.PwmDeadZone {
		MustGPIO().SetPin(c.cfg.EnablePin, true)
		c.driven = false
		return
	}
	if c.status.Enabled {
		MustGPIO().SetPin(c.cfg.EnablePin, false)
		c.driven = true
	}

	p.PwmPeriod = p.PwmClockHz/freq - 1

	// Skip redundant period writes: at high tick rates they would glitch
	// the output.
	if p.PwmPeriod != gen.Period() {
		gen.SetPeriod(p.PwmPeriod)
		gen.SetPulseWidth(p.PwmPeriod >> 1)
	}
}
