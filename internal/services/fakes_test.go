package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/markdave123-py/joba/internal/core/errs"
	"github.com/markdave123-py/joba/internal/core/llm"
	"github.com/markdave123-py/joba/internal/core/objectstore"
	"github.com/markdave123-py/joba/internal/models"
	"github.com/markdave123-py/joba/internal/repositories"
)

// fakeCol is an in-memory stand-in for the jsonb collection: documents are
// field maps, reads go through the same json round-trip as production code.
type fakeCol[T any] struct {
	singular string
	docs     map[string]map[string]any
	order    []string
	getErr   error
}

func newFakeCol[T any](singular string) *fakeCol[T] {
	return &fakeCol[T]{singular: singular, docs: map[string]map[string]any{}}
}

func (c *fakeCol[T]) create(fields map[string]any) (T, error) {
	id := uuid.NewString()
	doc := map[string]any{}
	for k, v := range fields {
		doc[k] = v
	}
	c.docs[id] = doc
	c.order = append(c.order, id)
	return c.decode(id)
}

func (c *fakeCol[T]) get(id string) (T, error) {
	var zero T
	if c.getErr != nil {
		return zero, c.getErr
	}
	if _, ok := c.docs[id]; !ok {
		return zero, errs.NotFound(c.singular + " not found")
	}
	return c.decode(id)
}

func (c *fakeCol[T]) update(id string, fields map[string]any) (T, error) {
	var zero T
	doc, ok := c.docs[id]
	if !ok {
		return zero, errs.NotFound(c.singular + " not found")
	}
	for k, v := range fields {
		doc[k] = v
	}
	return c.decode(id)
}

func (c *fakeCol[T]) delete(id string) error {
	if _, ok := c.docs[id]; !ok {
		return errs.NotFound(c.singular + " not found")
	}
	delete(c.docs, id)
	return nil
}

func (c *fakeCol[T]) decode(id string) (T, error) {
	var out T
	doc := map[string]any{"id": id}
	for k, v := range c.docs[id] {
		doc[k] = v
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func (c *fakeCol[T]) listByUser(userID string, opts repositories.ListOptions) (models.Page[T], error) {
	page, perPage := models.NormalizePage(opts.Page, opts.PerPage)

	var ids []string
	for _, id := range c.order {
		doc, ok := c.docs[id]
		if !ok || doc["user_id"] != userID {
			continue
		}
		if opts.Status != "" {
			// Status fields are stored as typed string constants.
			raw, _ := json.Marshal(doc["status"])
			if strings.Trim(string(raw), `"`) != opts.Status {
				continue
			}
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	total := len(ids)
	startIdx := (page - 1) * perPage
	if startIdx > total {
		startIdx = total
	}
	endIdx := startIdx + perPage
	if endIdx > total {
		endIdx = total
	}

	items := make([]T, 0, endIdx-startIdx)
	for _, id := range ids[startIdx:endIdx] {
		item, err := c.decode(id)
		if err != nil {
			return models.Page[T]{}, err
		}
		items = append(items, item)
	}
	return models.Page[T]{List: items, Pagination: models.NewPagination(total, page, perPage)}, nil
}

// --- user repository ---

type fakeUserRepo struct {
	col *fakeCol[models.User]
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{col: newFakeCol[models.User]("user")}
}

func (r *fakeUserRepo) Create(_ context.Context, fields map[string]any) (models.User, error) {
	email := fields["email"]
	// The username index is partial: only documents that carry the key at
	// all participate, matching the SQL `WHERE ... IS NOT NULL` predicate.
	username, hasUsername := fields["username"]
	for _, doc := range r.col.docs {
		if doc["email"] == email {
			return models.User{}, errs.Conflict("email or username already taken")
		}
		if stored, ok := doc["username"]; hasUsername && ok && stored == username {
			return models.User{}, errs.Conflict("email or username already taken")
		}
	}
	return r.col.create(fields)
}

func (r *fakeUserRepo) Get(_ context.Context, id string) (models.User, error) {
	return r.col.get(id)
}

func (r *fakeUserRepo) FindByLogin(_ context.Context, login string) (models.User, string, error) {
	for id, doc := range r.col.docs {
		if doc["email"] == login || doc["username"] == login {
			user, err := r.col.decode(id)
			if err != nil {
				return models.User{}, "", err
			}
			hash, _ := doc["password_hash"].(string)
			return user, hash, nil
		}
	}
	return models.User{}, "", errs.NotFound("user not found")
}

func (r *fakeUserRepo) EmailTaken(_ context.Context, email string) (bool, error) {
	for _, doc := range r.col.docs {
		if doc["email"] == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UsernameTaken(_ context.Context, username string) (bool, error) {
	for _, doc := range r.col.docs {
		if doc["username"] == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Update(_ context.Context, id string, fields map[string]any) (models.User, error) {
	return r.col.update(id, fields)
}

// --- resume repository ---

type fakeResumeRepo struct {
	col *fakeCol[models.Resume]
}

func newFakeResumeRepo() *fakeResumeRepo {
	return &fakeResumeRepo{col: newFakeCol[models.Resume]("resume")}
}

func (r *fakeResumeRepo) Create(_ context.Context, fields map[string]any) (models.Resume, error) {
	return r.col.create(fields)
}

func (r *fakeResumeRepo) Get(_ context.Context, id string) (models.Resume, error) {
	return r.col.get(id)
}

func (r *fakeResumeRepo) ListByUser(_ context.Context, userID string, opts repositories.ListOptions) (models.Page[models.Resume], error) {
	return r.col.listByUser(userID, opts)
}

func (r *fakeResumeRepo) Update(_ context.Context, id string, fields map[string]any) (models.Resume, error) {
	return r.col.update(id, fields)
}

func (r *fakeResumeRepo) Delete(_ context.Context, id string) error {
	return r.col.delete(id)
}

// --- cover letter repository ---

type fakeCoverLetterRepo struct {
	col *fakeCol[models.CoverLetter]
}

func newFakeCoverLetterRepo() *fakeCoverLetterRepo {
	return &fakeCoverLetterRepo{col: newFakeCol[models.CoverLetter]("cover letter")}
}

func (r *fakeCoverLetterRepo) Create(_ context.Context, fields map[string]any) (models.CoverLetter, error) {
	return r.col.create(fields)
}

func (r *fakeCoverLetterRepo) Get(_ context.Context, id string) (models.CoverLetter, error) {
	return r.col.get(id)
}

func (r *fakeCoverLetterRepo) ListByUser(_ context.Context, userID string, opts repositories.ListOptions) (models.Page[models.CoverLetter], error) {
	return r.col.listByUser(userID, opts)
}

func (r *fakeCoverLetterRepo) Update(_ context.Context, id string, fields map[string]any) (models.CoverLetter, error) {
	return r.col.update(id, fields)
}

func (r *fakeCoverLetterRepo) Delete(_ context.Context, id string) error {
	return r.col.delete(id)
}

func (r *fakeCoverLetterRepo) ActivateExclusive(_ context.Context, userID, id string) error {
	target, ok := r.col.docs[id]
	if !ok || target["user_id"] != userID {
		return errs.NotFound("cover letter not found")
	}
	for otherID, doc := range r.col.docs {
		if doc["user_id"] == userID {
			doc["active"] = otherID == id
		}
	}
	return nil
}

func (r *fakeCoverLetterRepo) GetActive(_ context.Context, userID string) (models.CoverLetter, bool, error) {
	for id, doc := range r.col.docs {
		if doc["user_id"] == userID && doc["active"] == true {
			letter, err := r.col.decode(id)
			return letter, err == nil, err
		}
	}
	return models.CoverLetter{}, false, nil
}

func (r *fakeCoverLetterRepo) Search(_ context.Context, userID, query string, page, perPage int) (models.Page[models.CoverLetter], error) {
	page, perPage = models.NormalizePage(page, perPage)
	var items []models.CoverLetter
	for id, doc := range r.col.docs {
		if doc["user_id"] != userID {
			continue
		}
		raw, _ := json.Marshal(doc)
		if strings.Contains(strings.ToLower(string(raw)), strings.ToLower(query)) {
			letter, err := r.col.decode(id)
			if err != nil {
				return models.Page[models.CoverLetter]{}, err
			}
			items = append(items, letter)
		}
	}
	return models.Page[models.CoverLetter]{
		List:       items,
		Pagination: models.NewPagination(len(items), page, perPage),
	}, nil
}

// --- job query repository ---

type fakeJobQueryRepo struct {
	col *fakeCol[models.JobQuery]
}

func newFakeJobQueryRepo() *fakeJobQueryRepo {
	return &fakeJobQueryRepo{col: newFakeCol[models.JobQuery]("job query")}
}

func (r *fakeJobQueryRepo) Create(_ context.Context, fields map[string]any) (models.JobQuery, error) {
	return r.col.create(fields)
}

func (r *fakeJobQueryRepo) Get(_ context.Context, id string) (models.JobQuery, error) {
	return r.col.get(id)
}

func (r *fakeJobQueryRepo) ListByUser(_ context.Context, userID string, opts repositories.ListOptions) (models.Page[models.JobQuery], error) {
	return r.col.listByUser(userID, opts)
}

func (r *fakeJobQueryRepo) Update(_ context.Context, id string, fields map[string]any) (models.JobQuery, error) {
	return r.col.update(id, fields)
}

func (r *fakeJobQueryRepo) Delete(_ context.Context, id string) error {
	return r.col.delete(id)
}

// --- job flow repository ---

type fakeJobFlowRepo struct {
	col *fakeCol[models.JobFlow]
}

func newFakeJobFlowRepo() *fakeJobFlowRepo {
	return &fakeJobFlowRepo{col: newFakeCol[models.JobFlow]("job flow")}
}

func (r *fakeJobFlowRepo) Create(_ context.Context, fields map[string]any) (models.JobFlow, error) {
	return r.col.create(fields)
}

func (r *fakeJobFlowRepo) Get(_ context.Context, id string) (models.JobFlow, error) {
	return r.col.get(id)
}

func (r *fakeJobFlowRepo) ListDetailed(_ context.Context, userID string, opts repositories.ListOptions) (models.Page[models.JobFlowDetail], error) {
	flows, err := r.col.listByUser(userID, opts)
	if err != nil {
		return models.Page[models.JobFlowDetail]{}, err
	}
	details := make([]models.JobFlowDetail, 0, len(flows.List))
	for _, f := range flows.List {
		details = append(details, models.JobFlowDetail{
			ID: f.ID, UserID: f.UserID, Source: f.Source, Status: f.Status,
			CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt,
			Resume:      models.JobFlowResumeRef{ID: f.ResumeID},
			CoverLetter: models.JobFlowCoverLetterRef{ID: f.CoverLetterID},
			JobQuery:    models.JobFlowJobQueryRef{ID: f.JobQueryID},
		})
	}
	return models.Page[models.JobFlowDetail]{List: details, Pagination: flows.Pagination}, nil
}

func (r *fakeJobFlowRepo) Update(_ context.Context, id string, fields map[string]any) (models.JobFlow, error) {
	return r.col.update(id, fields)
}

func (r *fakeJobFlowRepo) Delete(_ context.Context, id string) error {
	return r.col.delete(id)
}

// --- object store ---

type fakeObjectStore struct {
	objects   map[string]objectstore.Object
	deleteErr error
	pingErr   error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string]objectstore.Object{}}
}

func (s *fakeObjectStore) Upload(_ context.Context, key string, data []byte, contentType string, meta map[string]string) (string, error) {
	s.objects[key] = objectstore.Object{
		Data:        data,
		ContentType: contentType,
		Filename:    meta["filename"],
		OwnerID:     meta["owner_id"],
		Size:        int64(len(data)),
	}
	return "https://fake.local/" + key, nil
}

func (s *fakeObjectStore) Download(_ context.Context, key string) (objectstore.Object, error) {
	obj, ok := s.objects[key]
	if !ok {
		return objectstore.Object{}, errs.NotFound("file not found")
	}
	return obj, nil
}

func (s *fakeObjectStore) Delete(_ context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.objects[key]; !ok {
		return errs.NotFound("file not found")
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeObjectStore) Ping(_ context.Context) error { return s.pingErr }

// --- analyzer ---

func llmAnalysis(overall int) llm.ResumeAnalysis {
	return llm.ResumeAnalysis{
		Scoring:  map[string]any{"overall": overall},
		Feedback: map[string]any{"summary": "solid resume"},
	}
}

type fakeAnalyzer struct {
	candidate map[string]any
	analysis  llm.ResumeAnalysis
	keywords  models.JobQueryKeywords
	text      string
	err       error

	analyzeFileCalls int
}

func (a *fakeAnalyzer) AnalyzeText(_ context.Context, _, _ string) (string, error) {
	return a.text, a.err
}

func (a *fakeAnalyzer) ExtractJSON(_ context.Context, _, _ string) (map[string]any, error) {
	return a.candidate, a.err
}

func (a *fakeAnalyzer) AnalyzeFile(_ context.Context, _ []byte, ext, _ string) (string, error) {
	a.analyzeFileCalls++
	if a.err != nil {
		return "", a.err
	}
	raw, _ := json.Marshal(a.candidate)
	return string(raw), nil
}

func (a *fakeAnalyzer) GenerateCoverLetterContent(_ context.Context, _ map[string]any, _, contentType string) (string, error) {
	if !models.ContentTypes[contentType] {
		return "", errs.Validation("invalid content type: " + contentType)
	}
	return a.text, a.err
}

func (a *fakeAnalyzer) RenderCoverLetter(_ context.Context, _ string, _ models.CoverLetterContent) (string, error) {
	return a.text, a.err
}

func (a *fakeAnalyzer) AnalyzeResume(_ context.Context, _ map[string]any) (llm.ResumeAnalysis, error) {
	return a.analysis, a.err
}

func (a *fakeAnalyzer) GenerateJobQueryKeywords(_ context.Context, _ map[string]any) (models.JobQueryKeywords, error) {
	return a.keywords, a.err
}

var (
	_ repositories.UserRepository        = (*fakeUserRepo)(nil)
	_ repositories.ResumeRepository      = (*fakeResumeRepo)(nil)
	_ repositories.CoverLetterRepository = (*fakeCoverLetterRepo)(nil)
	_ repositories.JobQueryRepository    = (*fakeJobQueryRepo)(nil)
	_ repositories.JobFlowRepository     = (*fakeJobFlowRepo)(nil)
	_ objectstore.ObjectClient           = (*fakeObjectStore)(nil)
	_ llm.Analyzer                       = (*fakeAnalyzer)(nil)
)
