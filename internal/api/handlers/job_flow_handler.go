package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/markdave123-py/joba/internal/models"
	"github.com/markdave123-py/joba/internal/services"
)

type JobFlowHandler struct {
	flows  *services.JobFlowService
	logger *zap.Logger
}

func NewJobFlowHandler(flows *services.JobFlowService, logger *zap.Logger) *JobFlowHandler {
	return &JobFlowHandler{flows: flows, logger: logger}
}

func (h *JobFlowHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var in services.JobFlowInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	flow, err := h.flows.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, flow)
}

// List returns flows with referenced entity summaries joined in.
func (h *JobFlowHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	page, err := h.flows.List(r.Context(), userID, listOptions(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *JobFlowHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	flow, err := h.flows.Get(r.Context(), userID, chi.URLParam(r, "jobFlowID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, flow)
}

type jobFlowStatusRequest struct {
	Status models.JobFlowStatus `json:"status" validate:"required"`
}

func (h *JobFlowHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req jobFlowStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	flow, err := h.flows.UpdateStatus(r.Context(), userID, chi.URLParam(r, "jobFlowID"), req.Status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, flow)
}

func (h *JobFlowHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.flows.Delete(r.Context(), userID, chi.URLParam(r, "jobFlowID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "job flow deleted"})
}
