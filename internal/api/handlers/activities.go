package handlers

import (
	"log"
	"net/http"
	"strconv"

	"activity-finder-service/internal/api/dto"
	"activity-finder-service/internal/ports"
)

type ActivityHandler struct {
	Repo ports.ActivityRepository
}

// List returns catalog activities, optionally filtered by category, region
// and minimum rating.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter := ports.ActivityFilter{
		Category: r.URL.Query().Get("category"),
		Region:   r.URL.Query().Get("region"),
	}

	if raw := r.URL.Query().Get("min_rating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil || minRating < 0 {
			writeError(w, r, http.StatusBadRequest, "min_rating must be a non-negative number")
			return
		}
		filter.MinRating = minRating
	}

	activities, err := h.Repo.ListActivities(r.Context(), filter)
	if err != nil {
		log.Printf("list activities failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListActivitiesResponse{Activities: make([]dto.ActivityResponse, 0, len(activities))}
	for _, a := range activities {
		res.Activities = append(res.Activities, activityResponse(a))
	}

	writeJSON(w, r, http.StatusOK, res)
}
