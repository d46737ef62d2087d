package domain

// Bookable activity or point of interest from the catalog. The proximity
// core treats activities as read-only candidates; the catalog layer owns
// their lifecycle.
type Activity struct {
	ID       int
	Name     string
	Category string
	Region   string
	Rating   float64
	Lat      float64
	Lon      float64
}

// Coordinate returns the activity position as a Coordinate value.
// Accuracy and capture time are not meaningful for catalog entries.
func (a Activity) Coordinate() Coordinate {
	return Coordinate{Lat: a.Lat, Lon: a.Lon}
}
