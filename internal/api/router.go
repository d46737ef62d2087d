package api

import (
	"net/http"

	"activity-finder-service/internal/api/handlers"
	"activity-finder-service/internal/ports"
	"activity-finder-service/internal/position"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters). index and persist may be nil.
func NewRouter(
	repo ports.ActivityRepository,
	provider *position.Provider,
	index ports.GeoIndex,
	persist handlers.PersistFix,
) http.Handler {
	mux := http.NewServeMux()

	activityHandler := &handlers.ActivityHandler{Repo: repo}
	nearbyHandler := &handlers.NearbyHandler{
		Repo:     repo,
		Index:    index,
		Provider: provider,
	}
	positionHandler := &handlers.PositionHandler{
		Provider: provider,
		Persist:  persist,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/activities", activityHandler.List)
	mux.HandleFunc("/nearby", nearbyHandler.Nearby)
	mux.HandleFunc("/position", positionHandler.Get)
	mux.HandleFunc("/position/refresh", positionHandler.Refresh)
	mux.HandleFunc("/position/permission", positionHandler.Permission)

	return loggingMiddleware(mux)
}
