package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metricsHandler http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metricsHandler == nil {
		return
	}

	mux.Handle("GET /metrics", metricsHandler)
}

func registerSessionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/sessions", handler.OpenSession)
	mux.HandleFunc("GET /v1/sessions/{sessionID}", handler.GetSession)
	mux.HandleFunc("PUT /v1/sessions/{sessionID}/source", handler.ReplaceSessionSource)
	mux.HandleFunc("DELETE /v1/sessions/{sessionID}", handler.CloseSession)
	mux.HandleFunc("GET /v1/sessions/{sessionID}/export", handler.ExportMatchSheet)
}

func registerRosterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/sessions/{sessionID}/candidates", handler.ListCandidates)
	mux.HandleFunc("GET /v1/sessions/{sessionID}/roster", handler.GetRoster)
	mux.HandleFunc("GET /v1/sessions/{sessionID}/availability", handler.GetAvailability)
	mux.HandleFunc("POST /v1/sessions/{sessionID}/roster/entries", handler.AddRosterEntry)
	mux.HandleFunc("PUT /v1/sessions/{sessionID}/roster/entries/{candidateID}/number", handler.UpdateRosterNumber)
	mux.HandleFunc("PUT /v1/sessions/{sessionID}/roster/entries/{candidateID}/roles/{role}", handler.ToggleRosterRole)
	mux.HandleFunc("DELETE /v1/sessions/{sessionID}/roster/entries/{candidateID}", handler.RemoveRosterEntry)
}
