package core

import (
	"testing"
)

const testButtonPin = GPIOPin(7)

func testButtonConfig() ButtonConfig {
	return ButtonConfig{
		Pin:           testButtonPin,
		SampleTicks:   10,
		DebounceCount: 2,
		WindowTicks:   100,
		LongTicks:     200,
	}
}

func newTestButton(t *testing.T, handler func(ButtonEvent)) (*Button, *mockGPIO) {
	t.Helper()

	timerList = nil
	SetTime(0)
	gpio := newMockGPIO()
	SetGPIODriver(gpio)

	b, err := NewButton(testButtonConfig(), handler)
	if err != nil {
		t.Fatalf("NewButton failed: %v", err)
	}
	return b, gpio
}

// advanceTo runs the scheduler sample by sample up to the given time.
func advanceTo(when uint32) {
	for t := GetTime() + 10; t <= when; t += 10 {
		SetTime(t)
		ProcessTimers()
	}
}

func TestButtonShortClick(t *testing.T) {
	var events []ButtonEvent
	b, gpio := newTestButton(t, func(e ButtonEvent) { events = append(events, e) })

	gpio.pins[testButtonPin] = true
	advanceTo(10)
	if b.Pressed() {
		t.Fatal("One agreeing sample must not pass debounce")
	}
	advanceTo(20)
	if !b.Pressed() {
		t.Fatal("Two agreeing samples should pass debounce")
	}

	gpio.pins[testButtonPin] = false
	advanceTo(60)
	if b.Pressed() {
		t.Fatal("Release did not debounce")
	}
	if len(events) != 0 {
		t.Fatal("Handler fired before the detection window closed")
	}

	// Window closes WindowTicks after the debounced release at t=40
	advanceTo(160)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].ShortClicks != 1 || events[0].LongClicks != 0 {
		t.Errorf("event = %+v, want 1 short click", events[0])
	}
}

func TestButtonLongClick(t *testing.T) {
	var events []ButtonEvent
	_, gpio := newTestButton(t, func(e ButtonEvent) { events = append(events, e) })

	gpio.pins[testButtonPin] = true
	advanceTo(250)
	gpio.pins[testButtonPin] = false
	advanceTo(270)

	// Held from t=20 to t=270: past the long-press threshold
	advanceTo(370)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].LongClicks != 1 || events[0].ShortClicks != 0 {
		t.Errorf("event = %+v, want 1 long click", events[0])
	}
}

func TestButtonDoubleClick(t *testing.T) {
	var events []ButtonEvent
	_, gpio := newTestButton(t, func(e ButtonEvent) { events = append(events, e) })

	gpio.pins[testButtonPin] = true
	advanceTo(20)
	gpio.pins[testButtonPin] = false
	advanceTo(60)
	gpio.pins[testButtonPin] = true
	advanceTo(100)
	gpio.pins[testButtonPin] = false
	advanceTo(140)

	advanceTo(240)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].ShortClicks != 2 {
		t.Errorf("event = %+v, want 2 short clicks", events[0])
	}
}

func TestButtonBounceRejected(t *testing.T) {
	var events []ButtonEvent
	b, gpio := newTestButton(t, func(e ButtonEvent) { events = append(events, e) })

	// A single-sample glitch never reaches the debounce count
	gpio.pins[testButtonPin] = true
	advanceTo(10)
	gpio.pins[testButtonPin] = false
	advanceTo(200)

	if b.Pressed() {
		t.Error("Glitch passed debounce")
	}
	if len(events) != 0 {
		t.Errorf("Glitch produced events: %v", events)
	}
}

func TestButtonActiveLow(t *testing.T) {
	timerList = nil
	SetTime(0)
	gpio := newMockGPIO()
	SetGPIODriver(gpio)

	cfg := testButtonConfig()
	cfg.ActiveLow = true
	b, err := NewButton(cfg, nil)
	if err != nil {
		t.Fatalf("NewButton failed: %v", err)
	}

	// Idle high with pull-up wiring
	gpio.pins[testButtonPin] = true
	advanceTo(40)
	if b.Pressed() {
		t.Fatal("High pin should read released on active-low wiring")
	}

	gpio.pins[testButtonPin] = false
	advanceTo(80)
	if !b.Pressed() {
		t.Error("Low pin should read pressed on active-low wiring")
	}
}

func TestButtonClose(t *testing.T) {
	b, _ := newTestButton(t, nil)

	b.Close()
	if timerList != nil {
		t.Error("Close left the sample timer scheduled")
	}
}
