package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/markdave123-py/joba/internal/models"
	"github.com/markdave123-py/joba/internal/services"
)

type JobQueryHandler struct {
	queries *services.JobQueryService
	logger  *zap.Logger
}

func NewJobQueryHandler(queries *services.JobQueryService, logger *zap.Logger) *JobQueryHandler {
	return &JobQueryHandler{queries: queries, logger: logger}
}

func (h *JobQueryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var in services.JobQueryInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	query, err := h.queries.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, query)
}

func (h *JobQueryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	page, err := h.queries.List(r.Context(), userID, listOptions(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *JobQueryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	query, err := h.queries.Get(r.Context(), userID, chi.URLParam(r, "jobQueryID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, query)
}

func (h *JobQueryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var in services.JobQueryInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	query, err := h.queries.Update(r.Context(), userID, chi.URLParam(r, "jobQueryID"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, query)
}

type jobQueryStatusRequest struct {
	Status models.JobQueryStatus `json:"status" validate:"required"`
}

func (h *JobQueryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req jobQueryStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	query, err := h.queries.UpdateStatus(r.Context(), userID, chi.URLParam(r, "jobQueryID"), req.Status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, query)
}

func (h *JobQueryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.queries.Delete(r.Context(), userID, chi.URLParam(r, "jobQueryID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "job query deleted"})
}

type generateKeywordsRequest struct {
	ResumeID string `json:"resume_id" validate:"required"`
}

// GenerateKeywords derives search keywords from a resume's candidate data.
func (h *JobQueryHandler) GenerateKeywords(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req generateKeywordsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	keywords, err := h.queries.GenerateKeywords(r.Context(), userID, req.ResumeID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"keywords": keywords})
}
