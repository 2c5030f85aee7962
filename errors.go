package morph

import "errors"

var (
	// ErrDimensionMismatch is returned when the two buffers handed to the
	// solver do not share dimensions. The call fails; no state changes.
	ErrDimensionMismatch = errors.New("morph: buffer dimensions differ")

	// ErrConfig is returned by Wrap for configurations that cannot drive a
	// transition (zero ticks, zero duration, out-of-range glyph threshold).
	ErrConfig = errors.New("morph: invalid configuration")
)
