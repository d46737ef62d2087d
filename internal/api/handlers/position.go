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
	"activity-finder-service/internal/position"
)

// PersistFix is called after each successful acquisition so the last known
// fix survives restarts. Optional.
type PersistFix func(domain.Coordinate) error

type PositionHandler struct {
	Provider *position.Provider
	Persist  PersistFix
}

// Get returns the cached position without triggering acquisition.
func (h *PositionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cached, ok := h.Provider.Cached()
	if !ok {
		writeError(w, r, http.StatusNotFound, "no cached position")
		return
	}

	writeJSON(w, r, http.StatusOK, positionResponse(cached))
}

// Refresh performs a one-shot acquisition and returns the new fix. Failures
// map onto the location error taxonomy; the cached position is untouched on
// failure, so a client can keep rendering the last fix with a retry prompt.
func (h *PositionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.RefreshPositionRequest
	if r.ContentLength != 0 {
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
	}

	fix, err := h.Provider.Current(r.Context(), position.Options{
		HighAccuracy: req.HighAccuracy,
		Timeout:      time.Duration(req.TimeoutSeconds) * time.Second,
		MaxCacheAge:  time.Duration(req.MaxCacheAgeSec) * time.Second,
	})
	if err != nil {
		status, msg := classifyLocationError(err)
		writeError(w, r, status, msg)
		return
	}

	if h.Persist != nil {
		if err := h.Persist(fix); err != nil {
			log.Printf("persist fix failed: %v", err)
		}
	}

	writeJSON(w, r, http.StatusOK, positionResponse(fix))
}

// Permission asks the platform for location access on behalf of the client.
// A denial is a 200 with granted=false: the client owns the retry prompt.
func (h *PositionHandler) Permission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	granted, err := h.Provider.RequestPermission(r.Context())
	if err != nil {
		status, msg := classifyLocationError(err)
		writeError(w, r, status, msg)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PermissionResponse{Granted: granted})
}

func classifyLocationError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrCapabilityUnsupported):
		return http.StatusNotImplemented, "geolocation is not supported on this host"
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden, "location permission denied"
	case errors.Is(err, domain.ErrAcquisitionTimeout):
		return http.StatusGatewayTimeout, "position acquisition timed out"
	case errors.Is(err, domain.ErrPositionUnavailable):
		return http.StatusServiceUnavailable, "position unavailable"
	default:
		log.Printf("position error: %v", err)
		return http.StatusInternalServerError, "internal server error"
	}
}
