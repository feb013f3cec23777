package services

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"go.uber.org/zap"

	"github.com/markdave123-py/joba/internal/core/errs"
	"github.com/markdave123-py/joba/internal/core/llm"
	"github.com/markdave123-py/joba/internal/models"
	"github.com/markdave123-py/joba/internal/repositories"
)

// documentExts are sent to the analyzer as base64 documents. Everything else
// on the upload allow-list is converted to plain text locally first.
var documentExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

type ResumeService struct {
	resumes  repositories.ResumeRepository
	storage  *StorageService
	analyzer llm.Analyzer
	logger   *zap.Logger
}

func NewResumeService(resumes repositories.ResumeRepository, storage *StorageService, analyzer llm.Analyzer, logger *zap.Logger) *ResumeService {
	return &ResumeService{resumes: resumes, storage: storage, analyzer: analyzer, logger: logger}
}

// Upload stores the file and creates the resume document with the candidate
// structure extracted from its content.
func (s *ResumeService) Upload(ctx context.Context, userID, filename string, data []byte) (models.Resume, error) {
	blobID, err := s.storage.Save(ctx, data, filename, userID)
	if err != nil {
		return models.Resume{}, err
	}

	candidate, err := s.extractCandidate(ctx, data, filepath.Ext(filename))
	if err != nil {
		// The blob is already stored; clean it up before failing the upload.
		if delErr := s.storage.Delete(ctx, blobID); delErr != nil {
			s.logger.Error("failed to clean up blob after parse failure",
				zap.String("blob_id", blobID), zap.Error(delErr))
		}
		return models.Resume{}, err
	}

	return s.resumes.Create(ctx, map[string]any{
		"user_id":   userID,
		"filename":  filename,
		"file_id":   blobID,
		"status":    models.ResumeActive,
		"candidate": candidate,
	})
}

func (s *ResumeService) extractCandidate(ctx context.Context, data []byte, ext string) (map[string]any, error) {
	ext = strings.ToLower(ext)
	if documentExts[ext] {
		content, err := s.analyzer.AnalyzeFile(ctx, data, ext, llm.CandidateExtractionPrompt)
		if err != nil {
			return nil, err
		}
		return llm.ParseJSONObject(content)
	}

	res, err := docconv.Convert(bytes.NewReader(data), mimeForExt(ext), true)
	if err != nil {
		return nil, errs.Parsing("failed to extract text from file", err)
	}
	return s.analyzer.ExtractJSON(ctx, res.Body, llm.CandidateExtractionPrompt)
}

func mimeForExt(ext string) string {
	switch ext {
	case ".txt":
		return "text/plain"
	case ".rtf":
		return "application/rtf"
	default:
		return "application/octet-stream"
	}
}

// Get returns the resume only if it belongs to userID. A foreign resume is
// reported the same as a missing one.
func (s *ResumeService) Get(ctx context.Context, userID, id string) (models.Resume, error) {
	resume, err := s.resumes.Get(ctx, id)
	if err != nil {
		return models.Resume{}, err
	}
	if resume.UserID != userID {
		return models.Resume{}, errs.NotFound("resume not found")
	}
	return resume, nil
}

func (s *ResumeService) List(ctx context.Context, userID string, opts repositories.ListOptions) (models.Page[models.Resume], error) {
	if opts.Status != "" && !models.ResumeStatus(opts.Status).Valid() {
		return models.Page[models.Resume]{}, errs.Validation("invalid status value")
	}
	return s.resumes.ListByUser(ctx, userID, opts)
}

// Download returns the raw file bytes and the original filename.
func (s *ResumeService) Download(ctx context.Context, userID, id string) ([]byte, string, error) {
	resume, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}
	data, _, err := s.storage.Get(ctx, resume.FileID)
	if err != nil {
		return nil, "", err
	}
	return data, resume.Filename, nil
}

func (s *ResumeService) UpdateStatus(ctx context.Context, userID, id string, status models.ResumeStatus) (models.Resume, error) {
	if !status.Valid() {
		return models.Resume{}, errs.Validation("invalid status value")
	}
	resume, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.Resume{}, err
	}
	if err := models.CheckLifecycleTransition(string(resume.Status), string(status)); err != nil {
		return models.Resume{}, err
	}
	return s.resumes.Update(ctx, id, map[string]any{"status": status})
}

// Score runs the analyzer over the stored candidate data and persists the
// scoring and feedback on the resume.
func (s *ResumeService) Score(ctx context.Context, userID, id string) (models.Resume, error) {
	resume, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.Resume{}, err
	}
	if len(resume.Candidate) == 0 {
		return models.Resume{}, errs.Validation("resume has no candidate data to score")
	}

	analysis, err := s.analyzer.AnalyzeResume(ctx, resume.Candidate)
	if err != nil {
		return models.Resume{}, err
	}
	return s.resumes.Update(ctx, id, map[string]any{
		"scoring":  analysis.Scoring,
		"feedback": analysis.Feedback,
	})
}

// Delete removes the document and then the blob. The blob delete is best
// effort: a stranded file is preferable to a resume the user cannot remove.
func (s *ResumeService) Delete(ctx context.Context, userID, id string) error {
	resume, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.resumes.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, resume.FileID); err != nil {
		s.logger.Error("failed to delete resume file",
			zap.String("resume_id", id), zap.String("blob_id", resume.FileID), zap.Error(err))
	}
	return nil
}
