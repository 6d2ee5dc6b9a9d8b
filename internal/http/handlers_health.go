package httpx

import "net/http"

// healthHandler answers readiness and liveness probes. It does not touch
// Postgres or Redis; a process that can serve this endpoint is considered
// live, and dependency failures surface through the API handlers instead.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
