package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/markdave123-py/joba/internal/models"
	"github.com/markdave123-py/joba/internal/services"
)

type CoverLetterHandler struct {
	letters *services.CoverLetterService
	logger  *zap.Logger
}

func NewCoverLetterHandler(letters *services.CoverLetterService, logger *zap.Logger) *CoverLetterHandler {
	return &CoverLetterHandler{letters: letters, logger: logger}
}

func (h *CoverLetterHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var in services.CoverLetterInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	letter, err := h.letters.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, letter)
}

func (h *CoverLetterHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	page, err := h.letters.List(r.Context(), userID, listOptions(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Search runs a full-text query over the caller's letters.
func (h *CoverLetterHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	result, err := h.letters.Search(r.Context(), userID, q.Get("q"), page, perPage)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetActive returns the caller's single active letter, or 404 if none is set.
func (h *CoverLetterHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	letter, found, err := h.letters.GetActive(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "no active cover letter"})
		return
	}
	writeJSON(w, http.StatusOK, letter)
}

func (h *CoverLetterHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	letter, err := h.letters.Get(r.Context(), userID, chi.URLParam(r, "coverLetterID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, letter)
}

func (h *CoverLetterHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var in services.CoverLetterInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	letter, err := h.letters.Update(r.Context(), userID, chi.URLParam(r, "coverLetterID"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, letter)
}

type coverLetterStatusRequest struct {
	Status models.CoverLetterStatus `json:"status" validate:"required"`
}

func (h *CoverLetterHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req coverLetterStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	letter, err := h.letters.UpdateStatus(r.Context(), userID, chi.URLParam(r, "coverLetterID"), req.Status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, letter)
}

func (h *CoverLetterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.letters.Delete(r.Context(), userID, chi.URLParam(r, "coverLetterID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "cover letter deleted"})
}

type generateSectionRequest struct {
	ResumeID    string `json:"resume_id" validate:"required"`
	Prompt      string `json:"prompt"`
	ContentType string `json:"content_type" validate:"required"`
}

// GenerateSection builds one section of a letter from a resume's candidate
// data.
func (h *CoverLetterHandler) GenerateSection(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req generateSectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	text, err := h.letters.GenerateSection(r.Context(), userID, req.ResumeID, req.Prompt, req.ContentType)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

type renderRequest struct {
	JobDescription string                    `json:"job_description" validate:"required"`
	Content        models.CoverLetterContent `json:"content"`
}

// Render fills the letter's placeholders from a job description.
func (h *CoverLetterHandler) Render(w http.ResponseWriter, r *http.Request) {
	if _, err := currentUserID(r); err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req renderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	text, err := h.letters.Render(r.Context(), req.JobDescription, req.Content)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
