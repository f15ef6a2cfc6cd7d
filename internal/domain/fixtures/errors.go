package fixtures

import "errors"

// Sentinel kinds for fixture loading errors.
var (
	ErrMissingFixture = errors.New("fixture file missing")
	ErrDecodeFixture  = errors.New("fixture decode failed")
)
