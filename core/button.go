package core

// Debounced button input.
// The pin is sampled on the event scheduler; a state change must hold
// for a run of consecutive samples before it is accepted. Releases are
// classified as short or long presses and grouped within a detection
// window, so single, double and long clicks can be told apart.

// ButtonEvent reports the clicks collected in one detection window.
type ButtonEvent struct {
	ShortClicks uint8 // Presses shorter than the long-press threshold
	LongClicks  uint8 // Presses at or above the long-press threshold
}

// ButtonConfig describes one button input.
type ButtonConfig struct {
	Pin           GPIOPin
	ActiveLow     bool   // Pressed reads low (pull-up wiring)
	SampleTicks   uint32 // Scheduler ticks between samples
	DebounceCount uint8  // Consecutive samples to accept a state change
	WindowTicks   uint32 // Click grouping window after the last release
	LongTicks     uint32 // Press duration threshold for a long click
}

// Button is a debounced, click-classifying input.
type Button struct {
	cfg   ButtonConfig
	timer Timer

	pressed bool  // Debounced state
	run     uint8 // Consecutive samples disagreeing with pressed

	pressTime   uint32
	releaseTime uint32
	shortClicks uint8
	longClicks  uint8

	handler func(ButtonEvent)
}

// NewButton configures the pin and starts sampling. The handler runs
// from the scheduler dispatch context once a detection window closes.
func NewButton(cfg ButtonConfig, handler func(ButtonEvent)) (*Button, error) {
	if err := MustGPIO().ConfigureInputPullUp(cfg.Pin); err != nil {
		return nil, err
	}
	if cfg.DebounceCount == 0 {
		cfg.DebounceCount = 1
	}

	b := &Button{cfg: cfg, handler: handler}
	b.timer.Handler = b.sampleEvent
	b.timer.WakeTime = GetTime() + cfg.SampleTicks
	ScheduleTimer(&b.timer)

	return b, nil
}

// Close stops sampling.
func (b *Button) Close() {
	CancelTimer(&b.timer)
}

// Pressed returns the debounced state.
func (b *Button) Pressed() bool {
	return b.pressed
}

// sampleEvent is the periodic sampling state machine.
func (b *Button) sampleEvent(t *Timer) uint8 {
	raw := MustGPIO().ReadPin(b.cfg.Pin)
	if b.cfg.ActiveLow {
		raw = !raw
	}

	if raw != b.pressed {
		b.run++
		if b.run >= b.cfg.DebounceCount {
			b.run = 0
			b.pressed = raw
			if b.pressed {
				b.pressTime = t.WakeTime
			} else {
				if t.WakeTime-b.pressTime >= b.cfg.LongTicks {
					b.longClicks++
				} else {
					b.shortClicks++
				}
				b.releaseTime = t.WakeTime
			}
		}
	} else {
		b.run = 0
	}

	// Close the window once the button has rested long enough.
	if !b.pressed && (b.shortClicks > 0 || b.longClicks > 0) &&
		t.WakeTime-b.releaseTime >= b.cfg.WindowTicks {
		evt := ButtonEvent{ShortClicks: b.shortClicks, LongClicks: b.longClicks}
		b.shortClicks = 0
		b.longClicks = 0
		if b.handler != nil {
			b.handler(evt)
		}
	}

	t.WakeTime += b.cfg.SampleTicks
	return SF_RESCHEDULE
}
