package modem

import "errors"

// Sentinel errors for the simulation core. Handlers map these to HTTP
// status codes with errors.Is.
var (
	// ErrInvalidParameter means a run parameter was rejected before any
	// computation started (non-positive bit count, fc >= fs/2, ...).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnsupportedScheme means a modulation identifier outside the
	// supported set {BPSK, QPSK, 16-QAM, 64-QAM}.
	ErrUnsupportedScheme = errors.New("unsupported modulation scheme")

	// ErrNumericDegenerate means a ratio was requested over a
	// zero-variance signal where the infinity policy does not apply.
	ErrNumericDegenerate = errors.New("numerically degenerate input")
)
