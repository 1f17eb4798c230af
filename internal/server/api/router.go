package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every route under /api. Routes sit on the root router
// with full paths: a method mismatch inside a mux subrouter is reported as
// not found.
func (h *Handler) NewRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", h.HandleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/config/nodes", h.HandleCreateNode).Methods(http.MethodPost)
	r.HandleFunc("/api/config/nodes", h.HandleListNodes).Methods(http.MethodGet)
	// literal segments before {id}
	r.HandleFunc("/api/config/nodes/active", h.HandleGetActiveNode).Methods(http.MethodGet)
	r.HandleFunc("/api/config/nodes/test", h.HandleTestConnection).Methods(http.MethodPost)
	r.HandleFunc("/api/config/nodes/{id}", h.HandleGetNode).Methods(http.MethodGet)
	r.HandleFunc("/api/config/nodes/{id}", h.HandleDeleteNode).Methods(http.MethodDelete)
	r.HandleFunc("/api/config/nodes/{id}/activate", h.HandleActivateNode).Methods(http.MethodPut)

	r.HandleFunc("/api/node/info", h.HandleNodeInfo).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, Failure{Status: http.StatusNotFound, Tag: TagNotFound, Message: "Route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, Failure{Status: http.StatusMethodNotAllowed, Tag: TagMethodNotAllowed, Message: "Method not allowed"})
	})
	return r
}

// Routes returns the full handler chain: CORS, request logging, router.
func (h *Handler) Routes() http.Handler {
	return WithCORS(WithRequestLog(h.log)(h.NewRouter()))
}
