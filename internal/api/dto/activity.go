package dto

type ActivityResponse struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Region   string  `json:"region,omitempty"`
	Rating   float64 `json:"rating"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

type ListActivitiesResponse struct {
	Activities []ActivityResponse `json:"activities"`
}
