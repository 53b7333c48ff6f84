package core

// TimerFreq is the tick rate of the scheduler clock.
const TimerFreq = 12000000 // 12MHz

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the current system time (for testing/hardware integration)
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return (us * TimerFreq) / 1000000
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return (ticks * 1000000) / TimerFreq
}

// ProcessTimers runs all scheduler events that are due
func ProcessTimers() {
	currentTime = GetTime()
	TimerDispatch()
}
