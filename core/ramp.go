package core

// Velocity ramp engine. A scheduler event moves the current velocity
// toward the target in steps of deltaVel until the target is reached,
// then lets the event expire. Direction changes are confined to the
// instants where velocity is zero, crosses zero, or the motor starts
// from rest.

// velocityEvent is the scheduler handler for the periodic velocity update.
func (c *Controller) velocityEvent(t *Timer) uint8 {
	recordEvent(EvtTick, t.WakeTime, c.status.PwmFrequency)

	if !c.updateVelocity() {
		return SF_DONE
	}
	t.WakeTime += c.tickInterval
	return SF_RESCHEDULE
}

// updateVelocity executes one ramp step and reports whether further
// updates are needed. It is also called synchronously from Move to
// establish the initial direction and seed velocity of a fresh start.
func (c *Controller) updateVelocity() bool {
	st := &c.status

	// Terminal for this target.
	if st.CurrentVel == st.TargetVel {
		return false
	}

	newVel := st.CurrentVel
	wasDisabled := !st.Enabled

	if st.CurrentAcc < 0 {
		// Instant change requested.
		newVel = st.TargetVel
	} else if st.CurrentAcc > 0 {
		switch {
		case wasDisabled:
			// Zero is not a valid step rate: seed the ramp at the
			// smallest velocity the PWM can express.
			if st.TargetVel < 0 {
				newVel = -c.cfg.Params.VelMin
			} else {
				newVel = c.cfg.Params.VelMin
			}
		case fabs(st.CurrentVel-st.TargetVel) < c.deltaVel:
			// Snap the last step to avoid overshoot.
			newVel = st.TargetVel
		case st.CurrentVel < st.TargetVel:
			newVel = st.CurrentVel + c.deltaVel
		default:
			newVel = st.CurrentVel - c.deltaVel
		}
	}

	// The sanctioned moment for a direction change: the step crossed
	// zero, the motor was at rest, or the change is instant.
	if (newVel > 0) != (st.CurrentVel > 0) || wasDisabled || st.CurrentAcc < 0 {
		c.setDirection(st.TargetVel >= 0)
	}

	c.applyVelocity(newVel)

	return st.CurrentVel != st.TargetVel && st.Enabled
}

// applyVelocity commits a new velocity: zero stops the motor, anything
// else is converted to a step rate through Kv. A change smaller than one
// step of PWM resolution snaps directly to the target so the ramp cannot
// stall on a residual the hardware cannot represent.
func (c *Controller) applyVelocity(newVel float32) {
	if newVel == 0 {
		c.Stop()
		return
	}

	st := &c.status
	if fabs(newVel-st.TargetVel)*c.cfg.Params.Kv < 1 {
		st.CurrentVel = st.TargetVel
	} else {
		st.CurrentVel = newVel
	}

	c.setFrequency(uint32(c.cfg.Params.Kv * fabs(newVel)))
}
