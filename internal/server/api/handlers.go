// Package api is the HTTP surface of nodekeeper: routing, request decoding
// and the response envelope.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/nodekeeper/internal/logging"
	"github.com/dmitrijs2005/nodekeeper/internal/noderpc"
	"github.com/dmitrijs2005/nodekeeper/internal/server/models"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// ServiceName is reported by the health endpoint.
const ServiceName = "nodekeeper"

// ProfileStore is the configuration store as seen by the handlers.
type ProfileStore interface {
	Create(ctx context.Context, req models.NewProfileRequest) (*models.NodeProfile, error)
	Get(ctx context.Context, id string) (*models.NodeProfile, error)
	GetActive(ctx context.Context) (*models.NodeProfile, error)
	List(ctx context.Context) ([]models.NodeProfile, error)
	Activate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// NodeQuerier reaches remote nodes.
type NodeQuerier interface {
	Status(ctx context.Context) (*noderpc.NodeStatus, error)
	Probe(ctx context.Context, req models.ProbeRequest) models.ProbeResult
}

type Handler struct {
	profiles ProfileStore
	node     NodeQuerier
	log      logging.Logger
}

func NewHandler(profiles ProfileStore, node NodeQuerier, log logging.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{profiles: profiles, node: node, log: log}
}

// fail renders err and logs server-side failures.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	f := MapError(err)
	if f.Status >= http.StatusInternalServerError {
		h.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error_tag", f.Tag, "error", err)
	}
	writeFailure(w, f)
}

// decode reads a JSON body into v. It answers 400 itself and returns false on
// failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(v)
	if err == nil {
		return true
	}
	msg := "Invalid JSON body: " + err.Error()
	if errors.Is(err, io.EOF) {
		msg = "Request body is required"
	}
	writeFailure(w, Failure{Status: http.StatusBadRequest, Tag: TagBadRequest, Message: msg})
	return false
}

func (h *Handler) HandleCreateNode(w http.ResponseWriter, r *http.Request) {
	var req models.NewProfileRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.profiles.Create(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.Info(r.Context(), "node configuration created", "id", p.ID, "active", p.IsActive)
	writeSuccess(w, p, "Node configuration created successfully")
}

func (h *Handler) HandleListNodes(w http.ResponseWriter, r *http.Request) {
	list, err := h.profiles.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, list, "Node configurations retrieved successfully")
}

func (h *Handler) HandleGetActiveNode(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.GetActive(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, p, "Active node configuration retrieved successfully")
}

func (h *Handler) HandleGetNode(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, p, "Node configuration retrieved successfully")
}

func (h *Handler) HandleActivateNode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.profiles.Activate(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.Info(r.Context(), "node configuration activated", "id", id)
	writeSuccess(w, nil, "Node configuration activated successfully")
}

func (h *Handler) HandleDeleteNode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.profiles.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.log.Info(r.Context(), "node configuration deleted", "id", id)
	writeSuccess(w, nil, "Node configuration deleted successfully")
}

func (h *Handler) HandleTestConnection(w http.ResponseWriter, r *http.Request) {
	var req models.ProbeRequest
	if !decode(w, r, &req) {
		return
	}
	writeSuccess(w, h.node.Probe(r.Context(), req), "Connection test completed")
}

func (h *Handler) HandleNodeInfo(w http.ResponseWriter, r *http.Request) {
	st, err := h.node.Status(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, st, "Node information retrieved successfully")
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// HandleHealth reports liveness together with store reachability. It is the
// one route that answers without the envelope.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.profiles.Ping(r.Context()); err != nil {
		h.log.Error(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, healthResponse{Status: "errored", Service: ServiceName})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Service: ServiceName})
}
