package domain

import (
	"fmt"
	"math"
	"time"
)

// Immutable geographic fix. Later acquisitions produce new values; a
// Coordinate is never mutated in place.
type Coordinate struct {
	Lat            float64
	Lon            float64
	AccuracyMeters float64
	CapturedAt     time.Time
}

// NewCoordinate validates latitude/longitude ranges before construction.
// Synthetic coordinates (tests, seed data) must go through here.
func NewCoordinate(lat, lon, accuracyMeters float64, capturedAt time.Time) (Coordinate, error) {
	c := Coordinate{Lat: lat, Lon: lon, AccuracyMeters: accuracyMeters, CapturedAt: capturedAt}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Validate rejects non-finite and out-of-range coordinate values.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return fmt.Errorf("coordinate: non-finite lat/lon (%v, %v): %w", c.Lat, c.Lon, ErrInvalidCoordinate)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("coordinate: latitude %v out of [-90, 90]: %w", c.Lat, ErrInvalidCoordinate)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("coordinate: longitude %v out of [-180, 180]: %w", c.Lon, ErrInvalidCoordinate)
	}
	return nil
}

// Age reports how old the fix is relative to now.
func (c Coordinate) Age(now time.Time) time.Duration {
	return now.Sub(c.CapturedAt)
}
