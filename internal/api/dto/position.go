package dto

type PositionResponse struct {
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	AccuracyMeters float64 `json:"accuracy_meters"`
	CapturedAtMs   int64   `json:"captured_at_ms"`
}

type RefreshPositionRequest struct {
	HighAccuracy   bool `json:"high_accuracy"`
	TimeoutSeconds int  `json:"timeout_seconds"`
	MaxCacheAgeSec int  `json:"max_cache_age_seconds"`
}

type PermissionResponse struct {
	Granted bool `json:"granted"`
}
