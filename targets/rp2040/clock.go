//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"stepmotion/core"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x08 // Raw timer high word
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// The hardware timer counts microseconds; the scheduler clock runs at
// core.TimerFreq. The ratio must divide evenly.
const ticksPerMicrosecond = core.TimerFreq / 1000000

// GetHardwareTime reads the RP2040 hardware timer
// Returns the low 32 bits of the microsecond counter
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}

// GetHardwareUptime reads the full 64-bit RP2040 hardware timer
func GetHardwareUptime() uint64 {
	// Read both high and low parts
	// Must read high first, then low, then high again to detect rollover
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()

		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
		// Retry, rollover happened during the read
	}
}

// UpdateSystemTime updates the scheduler clock from hardware time.
// Called from the main loop.
func UpdateSystemTime() {
	core.SetTime(GetHardwareTime() * ticksPerMicrosecond)
}
