package core

// PositionReader supplies monotonic position samples for stall
// detection. The sample source (quadrature encoder, magnetic sensor) is
// owned by an external driver; the controller only reads it.
type PositionReader interface {
	ReadPosition() uint32
}
