package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/markdave123-py/joba/internal/core/errs"
	"github.com/markdave123-py/joba/internal/models"
)

func newCoverLetterService(analyzer *fakeAnalyzer) (*CoverLetterService, *fakeCoverLetterRepo, *fakeResumeRepo) {
	letters := newFakeCoverLetterRepo()
	resumes := newFakeResumeRepo()
	return NewCoverLetterService(letters, resumes, analyzer, zap.NewNop()), letters, resumes
}

func boolPtr(b bool) *bool { return &b }

func TestCoverLetterCreate(t *testing.T) {
	svc, _, _ := newCoverLetterService(&fakeAnalyzer{})

	letter, err := svc.Create(context.Background(), "user-1", CoverLetterInput{
		Name: "Backend roles",
		Tags: []string{"go", "backend", "go"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.CoverLetterActive, letter.Status)
	assert.Equal(t, []string{"backend", "go"}, letter.Tags)
	assert.False(t, letter.Active)
}

func TestCoverLetterSingleActive(t *testing.T) {
	svc, _, _ := newCoverLetterService(&fakeAnalyzer{})
	ctx := context.Background()

	first, err := svc.Create(ctx, "user-1", CoverLetterInput{Name: "First", Active: boolPtr(true)})
	require.NoError(t, err)

	active, ok, err := svc.GetActive(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.ID, active.ID)

	// Activating a second letter deactivates the first.
	second, err := svc.Create(ctx, "user-1", CoverLetterInput{Name: "Second", Active: boolPtr(true)})
	require.NoError(t, err)

	active, ok, err = svc.GetActive(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.ID, active.ID)

	demoted, err := svc.Get(ctx, "user-1", first.ID)
	require.NoError(t, err)
	assert.False(t, demoted.Active)
}

func TestCoverLetterActiveScopedPerUser(t *testing.T) {
	svc, _, _ := newCoverLetterService(&fakeAnalyzer{})
	ctx := context.Background()

	mine, err := svc.Create(ctx, "user-1", CoverLetterInput{Name: "Mine", Active: boolPtr(true)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-2", CoverLetterInput{Name: "Theirs", Active: boolPtr(true)})
	require.NoError(t, err)

	// Another user's activation never touches mine.
	active, ok, err := svc.GetActive(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, mine.ID, active.ID)
}

func TestCoverLetterGetActiveNone(t *testing.T) {
	svc, _, _ := newCoverLetterService(&fakeAnalyzer{})

	_, ok, err := svc.GetActive(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCoverLetterUpdate(t *testing.T) {
	svc, _, _ := newCoverLetterService(&fakeAnalyzer{})
	ctx := context.Background()

	letter, err := svc.Create(ctx, "user-1", CoverLetterInput{Name: "Draft"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "user-1", letter.ID, CoverLetterInput{
		Name:     "Final",
		JobTitle: "Backend Engineer",
		Content:  &models.CoverLetterContent{Introduction: "Dear {{hiring_manager}},"},
		Active:   boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Name)
	assert.Equal(t, "Backend Engineer", updated.JobTitle)
	assert.Equal(t, "Dear {{hiring_manager}},", updated.Content.Introduction)
	assert.True(t, updated.Active)

	// Foreign letters cannot be updated.
	_, err = svc.Update(ctx, "user-2", letter.ID, CoverLetterInput{Name: "Stolen"})
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestCoverLetterStatusLifecycle(t *testing.T) {
	svc, _, _ := newCoverLetterService(&fakeAnalyzer{})
	ctx := context.Background()

	letter, err := svc.Create(ctx, "user-1", CoverLetterInput{Name: "Draft"})
	require.NoError(t, err)

	archived, err := svc.UpdateStatus(ctx, "user-1", letter.ID, models.CoverLetterArchived)
	require.NoError(t, err)
	assert.Equal(t, models.CoverLetterArchived, archived.Status)

	_, err = svc.UpdateStatus(ctx, "user-1", letter.ID, models.CoverLetterActive)
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestCoverLetterSearchRequiresQuery(t *testing.T) {
	svc, _, _ := newCoverLetterService(&fakeAnalyzer{})

	_, err := svc.Search(context.Background(), "user-1", "   ", 1, 10)
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestCoverLetterGenerateSection(t *testing.T) {
	analyzer := &fakeAnalyzer{text: "I am excited to apply to {{company_name}}."}
	svc, _, resumes := newCoverLetterService(analyzer)
	ctx := context.Background()

	resume, err := resumes.Create(ctx, map[string]any{
		"user_id":   "user-1",
		"filename":  "cv.pdf",
		"status":    models.ResumeActive,
		"candidate": map[string]any{"first_name": "Ada"},
	})
	require.NoError(t, err)

	text, err := svc.GenerateSection(ctx, "user-1", resume.ID, "enthusiastic tone", "introduction")
	require.NoError(t, err)
	assert.Contains(t, text, "{{company_name}}")

	_, err = svc.GenerateSection(ctx, "user-1", resume.ID, "", "signature")
	assert.True(t, errs.Is(err, errs.KindValidation))

	_, err = svc.GenerateSection(ctx, "user-2", resume.ID, "", "introduction")
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestCoverLetterGenerateSectionWithoutCandidate(t *testing.T) {
	svc, _, resumes := newCoverLetterService(&fakeAnalyzer{})
	ctx := context.Background()

	resume, err := resumes.Create(ctx, map[string]any{
		"user_id": "user-1", "filename": "cv.pdf", "status": models.ResumeActive,
	})
	require.NoError(t, err)

	_, err = svc.GenerateSection(ctx, "user-1", resume.ID, "", "introduction")
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestCoverLetterRender(t *testing.T) {
	analyzer := &fakeAnalyzer{text: "Dear Acme team,"}
	svc, _, _ := newCoverLetterService(analyzer)
	ctx := context.Background()

	text, err := svc.Render(ctx, "Acme is hiring a Go engineer.", models.CoverLetterContent{
		Introduction: "Dear {{company_name}} team,",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dear Acme team,", text)

	_, err = svc.Render(ctx, "  ", models.CoverLetterContent{})
	assert.True(t, errs.Is(err, errs.KindValidation))
}
