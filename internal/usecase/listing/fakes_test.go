package listing

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobber/internal/model"
	"jobber/internal/repository"
	"jobber/internal/search"
)

// memStore is an in-memory Store. InTx runs the callback against the same
// state; the services under test fail before mutating, so rollback fidelity
// is not needed here.
type memStore struct {
	mu sync.Mutex

	jobs       map[int64]*model.Job
	companies  map[int64]*model.Company
	locations  map[int64]*model.Location
	tags       map[string]*model.Tag
	tokens     map[string]*model.ReviewToken
	broadcasts []*model.SocialBroadcast

	nextID int64
}

func newMemStore() *memStore {
	return &memStore{
		jobs:      map[int64]*model.Job{},
		companies: map[int64]*model.Company{},
		locations: map[int64]*model.Location{},
		tags:      map[string]*model.Tag{},
		tokens:    map[string]*model.ReviewToken{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) Jobs() repository.JobRepository                 { return memJobs{s} }
func (s *memStore) Companies() repository.CompanyRepository        { return memCompanies{s} }
func (s *memStore) Locations() repository.LocationRepository       { return memLocations{s} }
func (s *memStore) Tags() repository.TagRepository                 { return memTags{s} }
func (s *memStore) ReviewTokens() repository.ReviewTokenRepository { return memTokens{s} }
func (s *memStore) Broadcasts() repository.BroadcastRepository     { return memBroadcasts{s} }

func (s *memStore) InTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

type memJobs struct{ s *memStore }

func (r memJobs) Create(_ context.Context, job *model.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	job.ID = r.s.id()
	r.s.jobs[job.ID] = job
	return nil
}

func (r memJobs) Update(_ context.Context, job *model.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[job.ID]; !ok {
		return repository.ErrJobNotFound
	}
	r.s.jobs[job.ID] = job
	return nil
}

func (r memJobs) GetByID(_ context.Context, id int64) (*model.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	job, ok := r.s.jobs[id]
	if !ok {
		return nil, repository.ErrJobNotFound
	}
	return job, nil
}

func (r memJobs) GetByAdminToken(_ context.Context, token string) (*model.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, job := range r.s.jobs {
		if job.AdminToken == token {
			return job, nil
		}
	}
	return nil, repository.ErrJobNotFound
}

func (r memJobs) ListPublished(_ context.Context, limit int, newestFirst bool) ([]*model.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Job
	for _, job := range r.s.jobs {
		if job.Published {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].Created.After(out[j].Created)
		}
		return out[i].Created.Before(out[j].Created)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memJobs) ReplaceTags(_ context.Context, jobID int64, tagSlugs []string) error {
	return nil
}

type memCompanies struct{ s *memStore }

func (r memCompanies) Create(_ context.Context, company *model.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	company.ID = r.s.id()
	r.s.companies[company.ID] = company
	return nil
}

func (r memCompanies) GetByID(_ context.Context, id int64) (*model.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	company, ok := r.s.companies[id]
	if !ok {
		return nil, repository.ErrCompanyNotFound
	}
	return company, nil
}

type memLocations struct{ s *memStore }

func (r memLocations) Create(_ context.Context, location *model.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	location.ID = r.s.id()
	r.s.locations[location.ID] = location
	return nil
}

func (r memLocations) GetByID(_ context.Context, id int64) (*model.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	location, ok := r.s.locations[id]
	if !ok {
		return nil, repository.ErrLocationNotFound
	}
	return location, nil
}

func (r memLocations) List(_ context.Context) ([]model.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.Location, 0, len(r.s.locations))
	for _, l := range r.s.locations {
		out = append(out, *l)
	}
	return out, nil
}

type memTags struct{ s *memStore }

func (r memTags) GetBySlug(_ context.Context, slug string) (*model.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tag, ok := r.s.tags[slug]
	if !ok {
		return nil, repository.ErrTagNotFound
	}
	return tag, nil
}

func (r memTags) GetOrCreate(_ context.Context, text string) (*model.Tag, error) {
	tag, err := model.NewTag(text)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.tags[tag.Slug]; ok {
		return existing, nil
	}
	r.s.tags[tag.Slug] = tag
	return tag, nil
}

func (r memTags) List(_ context.Context) ([]model.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.Tag, 0, len(r.s.tags))
	for _, t := range r.s.tags {
		out = append(out, *t)
	}
	return out, nil
}

type memTokens struct{ s *memStore }

func (r memTokens) Create(_ context.Context, token *model.ReviewToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	token.ID = r.s.id()
	r.s.tokens[token.Token] = token
	return nil
}

func (r memTokens) GetByToken(_ context.Context, value string) (*model.ReviewToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	token, ok := r.s.tokens[value]
	if !ok {
		return nil, repository.ErrReviewTokenNotFound
	}
	cp := *token
	return &cp, nil
}

func (r memTokens) MarkUsed(_ context.Context, token *model.ReviewToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.tokens[token.Token]
	if !ok || stored.Used {
		return repository.ErrReviewTokenNotFound
	}
	stored.Used = true
	now := time.Now().UTC()
	stored.UsedAt = &now
	return nil
}

type memBroadcasts struct{ s *memStore }

func (r memBroadcasts) Create(_ context.Context, b *model.SocialBroadcast) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.ID = r.s.id()
	r.s.broadcasts = append(r.s.broadcasts, b)
	return nil
}

func (r memBroadcasts) LastSuccessful(_ context.Context, jobID int64) (*model.SocialBroadcast, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *model.SocialBroadcast
	for _, b := range r.s.broadcasts {
		if b.JobID != jobID || !b.Success {
			continue
		}
		if latest == nil || b.Created.After(latest.Created) {
			latest = b
		}
	}
	if latest == nil {
		return nil, repository.ErrBroadcastNotFound
	}
	return latest, nil
}

// fakeIndex records index operations.
type fakeIndex struct {
	mu   sync.Mutex
	docs map[string]model.SearchDocument

	searchResults []model.SearchDocument
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[string]model.SearchDocument{}}
}

func (f *fakeIndex) AddDocument(_ context.Context, doc model.SearchDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeIndex) UpdateDocument(ctx context.Context, doc model.SearchDocument) error {
	return f.AddDocument(ctx, doc)
}

func (f *fakeIndex) DeleteDocument(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) AddDocumentBulk(ctx context.Context, docs []model.SearchDocument) error {
	for _, doc := range docs {
		if err := f.AddDocument(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _ search.Order, _ int) ([]model.SearchDocument, error) {
	return f.searchResults, nil
}

func (f *fakeIndex) Close() error { return nil }

// recordMailer captures sends instead of delivering.
type sentMail struct {
	Template   string
	Data       any
	Recipients []string
}

type recordMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordMailer) SendTemplate(_ context.Context, templateName string, data any, recipients []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{Template: templateName, Data: data, Recipients: recipients})
	return nil
}

func (m *recordMailer) byTemplate(name string) []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMail
	for _, s := range m.sent {
		if s.Template == name {
			out = append(out, s)
		}
	}
	return out
}
