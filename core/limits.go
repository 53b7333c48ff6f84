package core

// Limit-switch interlock. Rising edges arrive on a platform interrupt;
// a fixed-capacity routing table maps the pin back to the owning
// controller so the single ISR entry point stays free of instance
// knowledge.

// MaxControllers bounds the interrupt routing table.
const MaxControllers = 4

var (
	limitOwners [MaxControllers]*Controller
	limitCount  uint8
)

// registerLimitOwner adds a controller to the routing table.
func registerLimitOwner(c *Controller) error {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if limitCount >= MaxControllers {
		return ErrRegistryFull
	}
	limitOwners[limitCount] = c
	limitCount++
	return nil
}

// HandleLimitEdge dispatches a limit-switch rising edge to the owning
// controller. Platform interrupt handlers call this with the pin that
// fired; unknown pins are ignored.
func HandleLimitEdge(pin GPIOPin) {
	for i := uint8(0); i < limitCount; i++ {
		c := limitOwners[i]
		if pin == c.cfg.LimStartPin || pin == c.cfg.LimEndPin {
			c.limitEvent(pin)
			return
		}
	}
}

// limitEvent stops the motor if it is moving toward the asserted limit.
// Motion away from the limit is unaffected.
func (c *Controller) limitEvent(pin GPIOPin) {
	if !c.status.Enabled {
		return
	}

	if (pin == c.cfg.LimStartPin && !c.status.Dir) ||
		(pin == c.cfg.LimEndPin && c.status.Dir) {
		recordEvent(EvtLimit, GetTime(), uint32(pin))
		c.Stop()
	}
}

// canMove reports whether travel in the given direction is clear of an
// already asserted limit switch.
func (c *Controller) canMove(dir bool) bool {
	if dir {
		return !MustGPIO().ReadPin(c.cfg.LimEndPin)
	}
	return !MustGPIO().ReadPin(c.cfg.LimStartPin)
}
