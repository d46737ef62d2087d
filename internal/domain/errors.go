package domain

import "errors"

var (
	// Host has no geolocation capability at all. Fatal for the feature;
	// callers should hide location-dependent behavior.
	ErrCapabilityUnsupported = errors.New("geolocation capability unsupported")

	// User or platform declined location access. Recoverable by
	// re-prompting; never retried silently.
	ErrPermissionDenied = errors.New("location permission denied")

	// Platform could not produce a fix.
	ErrPositionUnavailable = errors.New("position unavailable")

	// Acquisition exceeded its configured deadline.
	ErrAcquisitionTimeout = errors.New("position acquisition timed out")

	// Malformed proximity input (non-finite or out-of-range coordinates).
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)
