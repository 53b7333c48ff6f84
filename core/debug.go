package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// MotionEvent captures a motion-critical event for post-mortem analysis
type MotionEvent struct {
	EventType uint8  // Event type code
	Clock     uint32 // System clock at event
	Value     uint32 // Context-dependent value
}

// Event type codes
const (
	EvtMove    = 1 // Move accepted, motor enabled
	EvtStop    = 2 // Stop executed
	EvtTick    = 3 // Velocity update fired
	EvtLimit   = 4 // Limit switch forced a stop
	EvtStall   = 5 // Stall reported
	EvtDivider = 6 // PWM clock divider changed
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event capture ring buffer (non-blocking, for post-mortem)
	eventRing     [EventRingSize]MotionEvent
	eventRingHead uint8
	eventsEnabled bool = true
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// recordEvent captures a motion event in the ring buffer
// Always non-blocking and fast enough for interrupt context
func recordEvent(eventType uint8, clock, value uint32) {
	if !eventsEnabled {
		return
	}
	idx := eventRingHead
	eventRing[idx] = MotionEvent{
		EventType: eventType,
		Clock:     clock,
		Value:     value,
	}
	eventRingHead = (idx + 1) % EventRingSize
}

// DumpEventRing outputs the motion event ring buffer (call after
// stopping time-critical code)
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[MOTION] === Event Ring Dump ===")

	// Read from oldest to newest
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		idx := (start + i) % EventRingSize
		evt := &eventRing[idx]
		if evt.EventType == 0 {
			continue // Empty slot
		}

		var name string
		switch evt.EventType {
		case EvtMove:
			name = "MOVE"
		case EvtStop:
			name = "STOP"
		case EvtTick:
			name = "TICK"
		case EvtLimit:
			name = "LIMIT"
		case EvtStall:
			name = "STALL"
		case EvtDivider:
			name = "DIVIDER"
		default:
			name = "UNKNOWN"
		}

		debugPrintln("[MOTION] " + name + " clock=" + utoa(evt.Clock) + " value=" + utoa(evt.Value))
	}
}
