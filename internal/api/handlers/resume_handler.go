package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/markdave123-py/joba/internal/core/errs"
	"github.com/markdave123-py/joba/internal/models"
	"github.com/markdave123-py/joba/internal/services"
)

const maxMultipartMemory = 10 << 20

type ResumeHandler struct {
	resumes *services.ResumeService
	logger  *zap.Logger
}

func NewResumeHandler(resumes *services.ResumeService, logger *zap.Logger) *ResumeHandler {
	return &ResumeHandler{resumes: resumes, logger: logger}
}

func (h *ResumeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, h.logger, errs.Validation("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, h.logger, errs.Validation("file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, h.logger, errs.Validation("could not read uploaded file"))
		return
	}

	// Strip any client-supplied path components.
	filename := filepath.Base(header.Filename)

	resume, err := h.resumes.Upload(r.Context(), userID, filename, data)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resume)
}

func (h *ResumeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	page, err := h.resumes.List(r.Context(), userID, listOptions(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *ResumeHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resume, err := h.resumes.Get(r.Context(), userID, chi.URLParam(r, "resumeID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

// Download streams the stored file back with attachment disposition.
func (h *ResumeHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	data, filename, err := h.resumes.Download(r.Context(), userID, chi.URLParam(r, "resumeID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type resumeStatusRequest struct {
	Status models.ResumeStatus `json:"status" validate:"required"`
}

func (h *ResumeHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req resumeStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	resume, err := h.resumes.UpdateStatus(r.Context(), userID, chi.URLParam(r, "resumeID"), req.Status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

// Score runs the analyzer over the stored candidate data.
func (h *ResumeHandler) Score(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resume, err := h.resumes.Score(r.Context(), userID, chi.URLParam(r, "resumeID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

func (h *ResumeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.resumes.Delete(r.Context(), userID, chi.URLParam(r, "resumeID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "resume deleted"})
}
