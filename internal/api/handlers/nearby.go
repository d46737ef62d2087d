package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"activity-finder-service/internal/api/dto"
	"activity-finder-service/internal/domain"
	"activity-finder-service/internal/platform/obs"
	"activity-finder-service/internal/ports"
	"activity-finder-service/internal/position"
	"activity-finder-service/internal/services"
)

const (
	defaultRadiusKm   = 10
	defaultMaxResults = 20
	maxAllowedResults = 100
)

type NearbyHandler struct {
	Repo     ports.ActivityRepository
	Index    ports.GeoIndex
	Provider *position.Provider
}

// Nearby resolves an origin (explicit or cached device position), then runs
// the radius-filtered, ranked proximity query over the catalog.
func (h *NearbyHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.NearbyRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	origin, ok := h.resolveOrigin(w, r, req)
	if !ok {
		return
	}

	radius := req.RadiusKm
	if radius == 0 {
		radius = defaultRadiusKm
	}
	if radius < 0 {
		writeError(w, r, http.StatusBadRequest, "radius_km must be positive")
		return
	}

	maxResults := req.MaxResults
	if maxResults == 0 {
		maxResults = defaultMaxResults
	}
	if maxResults < 1 || maxResults > maxAllowedResults {
		writeError(w, r, http.StatusBadRequest, "max_results must be between 1 and 100")
		return
	}

	sortKey, err := services.ParseSortKey(req.Sort)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "sort must be one of distance, rating, name")
		return
	}

	done := obs.Time(r.Context(), "nearby.query")
	matches, queryErr := services.FindNearby(r.Context(), services.NearbyRequest{
		Origin: origin,
		Filter: ports.ActivityFilter{
			Category:  req.Category,
			Region:    req.Region,
			MinRating: req.MinRating,
		},
		RadiusKm:   radius,
		Sort:       sortKey,
		MaxResults: maxResults,
	}, h.Repo, h.Index)
	done(&queryErr)

	if queryErr != nil {
		if errors.Is(queryErr, domain.ErrInvalidCoordinate) {
			writeError(w, r, http.StatusBadRequest, "invalid origin coordinates")
			return
		}
		log.Printf("nearby query failed: %v", queryErr)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.NearbyResponse{
		Origin:  positionResponse(origin),
		Results: make([]dto.NearbyEntryResponse, 0, len(matches)),
	}
	for _, m := range matches {
		res.Results = append(res.Results, dto.NearbyEntryResponse{
			Activity:   activityResponse(m.Activity),
			DistanceKm: m.DistanceKm,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// resolveOrigin prefers an explicit origin from the request and falls back
// to the cached device position. It never fabricates a default coordinate.
func (h *NearbyHandler) resolveOrigin(w http.ResponseWriter, r *http.Request, req dto.NearbyRequest) (domain.Coordinate, bool) {
	if req.Lat != nil || req.Lon != nil {
		if req.Lat == nil || req.Lon == nil {
			writeError(w, r, http.StatusBadRequest, "lat and lon must be provided together")
			return domain.Coordinate{}, false
		}

		origin, err := domain.NewCoordinate(*req.Lat, *req.Lon, 0, time.Now())
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid origin coordinates")
			return domain.Coordinate{}, false
		}
		return origin, true
	}

	if h.Provider != nil {
		if cached, ok := h.Provider.Cached(); ok {
			return cached, true
		}
	}

	writeError(w, r, http.StatusConflict, "no origin provided and no cached position; refresh position first")
	return domain.Coordinate{}, false
}
