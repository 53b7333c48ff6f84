//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/encoders/quadrature"

	"stepmotion/core"
)

// QuadratureReader adapts the interrupt-driven quadrature encoder driver
// to the position-sample interface of the stall detector.
type QuadratureReader struct {
	enc *quadrature.QuadratureDevice
}

// NewQuadratureReader configures a quadrature encoder on the given pins.
func NewQuadratureReader(pinA, pinB machine.Pin) (*QuadratureReader, error) {
	enc := quadrature.NewQuadratureViaInterrupt(pinA, pinB)
	if err := enc.Configure(quadrature.QuadratureConfig{Precision: 4}); err != nil {
		return nil, err
	}
	return &QuadratureReader{enc: enc}, nil
}

// ReadPosition returns the encoder count. The stall detector only
// compares successive samples, so wrapping through the uint32 range is
// fine.
func (r *QuadratureReader) ReadPosition() uint32 {
	return uint32(r.enc.Position())
}

var _ core.PositionReader = (*QuadratureReader)(nil)
