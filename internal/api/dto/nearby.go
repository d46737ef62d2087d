package dto

type NearbyRequest struct {
	// Explicit origin. When omitted, the handler falls back to the cached
	// device position.
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`

	RadiusKm   float64 `json:"radius_km"`
	Sort       string  `json:"sort"`
	MaxResults int     `json:"max_results"`

	Category  string  `json:"category"`
	Region    string  `json:"region"`
	MinRating float64 `json:"min_rating"`
}

type NearbyEntryResponse struct {
	Activity   ActivityResponse `json:"activity"`
	DistanceKm float64          `json:"distance_km"`
}

type NearbyResponse struct {
	Origin  PositionResponse      `json:"origin"`
	Results []NearbyEntryResponse `json:"results"`
}
