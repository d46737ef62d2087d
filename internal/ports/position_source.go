package ports

import (
	"context"

	"activity-finder-service/internal/domain"
)

// One-shot acquisition parameters passed down to the platform source.
type FixRequest struct {
	HighAccuracy bool
}

// Port: a boundary over the platform geolocation capability.
//
// Implementations must signal failures through the domain sentinel errors
// (ErrPermissionDenied, ErrPositionUnavailable, ErrAcquisitionTimeout) so the
// position provider can surface a typed result instead of a transport error.
type PositionSource interface {
	// Report whether the capability exists at all. Pure check, no side effects.
	Available() bool

	// Ask the platform for location permission. Blocks until the platform
	// responds or ctx is done. Sources without an explicit permission API
	// return true and defer the real check to the first fix request.
	RequestPermission(ctx context.Context) (bool, error)

	// Acquire a single fix. Honors ctx cancellation and deadline.
	CurrentFix(ctx context.Context, req FixRequest) (domain.Coordinate, error)

	// Stream fixes until ctx is cancelled. The returned channel is closed by
	// the implementation on teardown. Fixes are delivered in platform order;
	// no coalescing or reordering.
	WatchFixes(ctx context.Context, req FixRequest) (<-chan domain.Coordinate, error)
}
