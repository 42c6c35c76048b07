// pkg/core/errors.go
package core

import "errors"

// Failure classes returned by the calculation engine. Errors are wrapped
// with context, so match them with errors.Is.
var (
	ErrInvalidCoordinate    = errors.New("invalid coordinate")
	ErrUnsortedProfile      = errors.New("wind profile altitudes are not strictly increasing")
	ErrEmptyProfile         = errors.New("wind profile is empty")
	ErrInvalidAltitudeRange = errors.New("invalid altitude range")
	ErrNoWindData           = errors.New("no wind data for altitude range")
	ErrInvalidParameter     = errors.New("invalid parameter")
)
