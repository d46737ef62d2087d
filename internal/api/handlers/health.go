package handlers

import "net/http"

const serviceName = "activity-finder"

// Health is the liveness probe. It identifies the service so a probe hitting
// the wrong port fails loudly instead of reporting a false positive.
func Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
	})
}
