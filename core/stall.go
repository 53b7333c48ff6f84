package core

// Stall detection. The controller compares successive externally
// supplied position samples while nominally moving; a repeated sample is
// reported as a stall. No filtering or hysteresis happens here, and no
// autonomous action is taken: retry, alarm or re-home policy belongs to
// the caller.

// CheckForStall records a position sample and reports whether the motor
// appears stalled: enabled, commanded to move, yet the sample is
// identical to the previous one. The first sample after construction
// never reports a stall.
func (c *Controller) CheckForStall(sample uint32) bool {
	if !c.status.Enabled {
		return false
	}

	stall := c.stallPrimed && sample == c.lastSample && c.status.CurrentVel != 0
	c.lastSample = sample
	c.stallPrimed = true

	if stall {
		recordEvent(EvtStall, GetTime(), sample)
	}
	return stall
}

// SetPositionReader attaches an encoder for PollStall.
func (c *Controller) SetPositionReader(r PositionReader) {
	c.reader = r
}

// PollStall samples the attached position reader and runs stall
// detection. Without a reader it reports false.
func (c *Controller) PollStall() bool {
	if c.reader == nil {
		return false
	}
	return c.CheckForStall(c.reader.ReadPosition())
}
