package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/markdave123-py/joba/internal/core/errs"
	"github.com/markdave123-py/joba/internal/models"
	"github.com/markdave123-py/joba/internal/repositories"
)

type jobFlowFixture struct {
	svc     *JobFlowService
	flows   *fakeJobFlowRepo
	resumes *fakeResumeRepo
	letters *fakeCoverLetterRepo
	queries *fakeJobQueryRepo
}

func newJobFlowFixture() *jobFlowFixture {
	f := &jobFlowFixture{
		flows:   newFakeJobFlowRepo(),
		resumes: newFakeResumeRepo(),
		letters: newFakeCoverLetterRepo(),
		queries: newFakeJobQueryRepo(),
	}
	f.svc = NewJobFlowService(f.flows, f.resumes, f.letters, f.queries, zap.NewNop())
	return f
}

// seed creates one resume, cover letter and job query for userID and returns
// their IDs in that order.
func (f *jobFlowFixture) seed(t *testing.T, userID string) (string, string, string) {
	t.Helper()
	ctx := context.Background()
	resume, err := f.resumes.Create(ctx, map[string]any{
		"user_id": userID, "filename": "cv.pdf", "status": models.ResumeActive,
	})
	require.NoError(t, err)
	letter, err := f.letters.Create(ctx, map[string]any{
		"user_id": userID, "name": "Letter", "status": models.CoverLetterActive,
	})
	require.NoError(t, err)
	query, err := f.queries.Create(ctx, map[string]any{
		"user_id": userID, "name": "Query", "status": models.JobQueryActive,
	})
	require.NoError(t, err)
	return resume.ID, letter.ID, query.ID
}

func TestJobFlowCreate(t *testing.T) {
	f := newJobFlowFixture()
	resumeID, letterID, queryID := f.seed(t, "user-1")

	flow, err := f.svc.Create(context.Background(), "user-1", JobFlowInput{
		ResumeID:      resumeID,
		CoverLetterID: letterID,
		JobQueryID:    queryID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.JobFlowActive, flow.Status)
	assert.Equal(t, models.JobFlowInternal, flow.Source)
	assert.Equal(t, resumeID, flow.ResumeID)
}

func TestJobFlowCreateRejectsForeignReference(t *testing.T) {
	f := newJobFlowFixture()
	resumeID, letterID, _ := f.seed(t, "user-1")
	_, _, foreignQueryID := f.seed(t, "user-2")

	// One foreign reference fails the whole request and nothing is inserted.
	_, err := f.svc.Create(context.Background(), "user-1", JobFlowInput{
		ResumeID:      resumeID,
		CoverLetterID: letterID,
		JobQueryID:    foreignQueryID,
	})
	assert.True(t, errs.Is(err, errs.KindNotFound))
	assert.Empty(t, f.flows.col.docs)
}

func TestJobFlowCreateRejectsMissingReference(t *testing.T) {
	f := newJobFlowFixture()
	resumeID, letterID, _ := f.seed(t, "user-1")

	_, err := f.svc.Create(context.Background(), "user-1", JobFlowInput{
		ResumeID:      resumeID,
		CoverLetterID: letterID,
		JobQueryID:    "missing",
	})
	assert.True(t, errs.Is(err, errs.KindNotFound))
	assert.Empty(t, f.flows.col.docs)
}

func TestJobFlowCreatePropagatesLookupErrors(t *testing.T) {
	f := newJobFlowFixture()
	resumeID, letterID, queryID := f.seed(t, "user-1")
	ctx := context.Background()
	in := JobFlowInput{ResumeID: resumeID, CoverLetterID: letterID, JobQueryID: queryID}

	// A malformed reference ID is a caller mistake, not a missing record.
	f.letters.col.getErr = errs.Validation("invalid cover letter id")
	_, err := f.svc.Create(ctx, "user-1", in)
	assert.True(t, errs.Is(err, errs.KindValidation))
	assert.False(t, errs.Is(err, errs.KindNotFound))
	assert.Empty(t, f.flows.col.docs)

	f.letters.col.getErr = errs.Database("select cover letter", errors.New("connection reset"))
	_, err = f.svc.Create(ctx, "user-1", in)
	assert.True(t, errs.Is(err, errs.KindDatabase))
	assert.Empty(t, f.flows.col.docs)
}

func TestJobFlowCreateRejectsBadSource(t *testing.T) {
	f := newJobFlowFixture()
	resumeID, letterID, queryID := f.seed(t, "user-1")

	_, err := f.svc.Create(context.Background(), "user-1", JobFlowInput{
		ResumeID:      resumeID,
		CoverLetterID: letterID,
		JobQueryID:    queryID,
		Source:        "carrier-pigeon",
	})
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestJobFlowStatusTransitions(t *testing.T) {
	f := newJobFlowFixture()
	resumeID, letterID, queryID := f.seed(t, "user-1")
	ctx := context.Background()

	flow, err := f.svc.Create(ctx, "user-1", JobFlowInput{
		ResumeID: resumeID, CoverLetterID: letterID, JobQueryID: queryID,
	})
	require.NoError(t, err)

	// Active and paused switch freely.
	paused, err := f.svc.UpdateStatus(ctx, "user-1", flow.ID, models.JobFlowPaused)
	require.NoError(t, err)
	assert.Equal(t, models.JobFlowPaused, paused.Status)

	resumed, err := f.svc.UpdateStatus(ctx, "user-1", flow.ID, models.JobFlowActive)
	require.NoError(t, err)
	assert.Equal(t, models.JobFlowActive, resumed.Status)

	// Archived is terminal.
	_, err = f.svc.UpdateStatus(ctx, "user-1", flow.ID, models.JobFlowArchived)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, "user-1", flow.ID, models.JobFlowActive)
	assert.True(t, errs.Is(err, errs.KindValidation))
	assert.Equal(t, "archived job flows cannot be reactivated", errs.Detail(err))
}

func TestJobFlowList(t *testing.T) {
	f := newJobFlowFixture()
	resumeID, letterID, queryID := f.seed(t, "user-1")
	ctx := context.Background()

	flow, err := f.svc.Create(ctx, "user-1", JobFlowInput{
		ResumeID: resumeID, CoverLetterID: letterID, JobQueryID: queryID,
	})
	require.NoError(t, err)

	page, err := f.svc.List(ctx, "user-1", repositories.ListOptions{})
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	assert.Equal(t, flow.ID, page.List[0].ID)
	assert.Equal(t, resumeID, page.List[0].Resume.ID)

	// Other users see nothing.
	page, err = f.svc.List(ctx, "user-2", repositories.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, page.List)
}

func TestJobFlowOwnership(t *testing.T) {
	f := newJobFlowFixture()
	resumeID, letterID, queryID := f.seed(t, "user-1")
	ctx := context.Background()

	flow, err := f.svc.Create(ctx, "user-1", JobFlowInput{
		ResumeID: resumeID, CoverLetterID: letterID, JobQueryID: queryID,
	})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, "user-2", flow.ID)
	assert.True(t, errs.Is(err, errs.KindNotFound))

	err = f.svc.Delete(ctx, "user-2", flow.ID)
	assert.True(t, errs.Is(err, errs.KindNotFound))

	require.NoError(t, f.svc.Delete(ctx, "user-1", flow.ID))
	assert.Empty(t, f.flows.col.docs)
}
