package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"activity-finder-service/internal/api/dto"
	"activity-finder-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func activityResponse(a domain.Activity) dto.ActivityResponse {
	return dto.ActivityResponse{
		ID:       a.ID,
		Name:     a.Name,
		Category: a.Category,
		Region:   a.Region,
		Rating:   a.Rating,
		Lat:      a.Lat,
		Lon:      a.Lon,
	}
}

func positionResponse(c domain.Coordinate) dto.PositionResponse {
	return dto.PositionResponse{
		Lat:            c.Lat,
		Lon:            c.Lon,
		AccuracyMeters: c.AccuracyMeters,
		CapturedAtMs:   c.CapturedAt.UnixMilli(),
	}
}
