package review

import (
	"context"
	"sync"
	"testing"

	"jobber/internal/config"
	"jobber/internal/dispatch"
	"jobber/internal/mail"
	"jobber/internal/model"
	"jobber/internal/notify"
	"jobber/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore holds just the state the gateway touches: jobs and review
// tokens. The unused repositories panic if reached.
type fakeStore struct {
	mu     sync.Mutex
	jobs   map[int64]*model.Job
	tokens map[string]*model.ReviewToken

	// markUsedSawUsed records whether MarkUsed was ever handed a token that
	// had already been flipped by the caller.
	markUsedSawUsed bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{jobs: map[int64]*model.Job{}, tokens: map[string]*model.ReviewToken{}}
}

func (s *fakeStore) Jobs() repository.JobRepository                 { return fakeJobs{s} }
func (s *fakeStore) Companies() repository.CompanyRepository        { panic("not used") }
func (s *fakeStore) Locations() repository.LocationRepository       { panic("not used") }
func (s *fakeStore) Tags() repository.TagRepository                 { panic("not used") }
func (s *fakeStore) ReviewTokens() repository.ReviewTokenRepository { return fakeTokens{s} }
func (s *fakeStore) Broadcasts() repository.BroadcastRepository     { panic("not used") }

func (s *fakeStore) InTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

type fakeJobs struct{ s *fakeStore }

func (r fakeJobs) Create(_ context.Context, job *model.Job) error { panic("not used") }

func (r fakeJobs) Update(_ context.Context, job *model.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[job.ID]; !ok {
		return repository.ErrJobNotFound
	}
	r.s.jobs[job.ID] = job
	return nil
}

func (r fakeJobs) GetByID(_ context.Context, id int64) (*model.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	job, ok := r.s.jobs[id]
	if !ok {
		return nil, repository.ErrJobNotFound
	}
	return job, nil
}

func (r fakeJobs) GetByAdminToken(context.Context, string) (*model.Job, error) {
	panic("not used")
}

func (r fakeJobs) ListPublished(context.Context, int, bool) ([]*model.Job, error) {
	panic("not used")
}

func (r fakeJobs) ReplaceTags(context.Context, int64, []string) error { panic("not used") }

type fakeTokens struct{ s *fakeStore }

func (r fakeTokens) Create(_ context.Context, token *model.ReviewToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tokens[token.Token] = token
	return nil
}

func (r fakeTokens) GetByToken(_ context.Context, value string) (*model.ReviewToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	token, ok := r.s.tokens[value]
	if !ok {
		return nil, repository.ErrReviewTokenNotFound
	}
	cp := *token
	return &cp, nil
}

func (r fakeTokens) MarkUsed(_ context.Context, token *model.ReviewToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.tokens[token.Token]
	if !ok || stored.Used {
		return repository.ErrReviewTokenNotFound
	}
	r.s.markUsedSawUsed = r.s.markUsedSawUsed || token.Used
	token.Use()
	*stored = *token
	return nil
}

type recordMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordMailer) SendTemplate(_ context.Context, templateName string, _ any, _ []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, templateName)
	return nil
}

func (m *recordMailer) count(template string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sent {
		if s == template {
			n++
		}
	}
	return n
}

type fixture struct {
	store   *fakeStore
	mailer  *recordMailer
	service *Service
	job     *model.Job
	token   *model.ReviewToken
}

const reviewer = "boss@jobs.example"

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newFakeStore()
	mailer := &recordMailer{}
	logger := zap.NewNop().Sugar()

	mailCfg := config.MailConfig{
		AdminRecipient: "admin@jobs.example",
		ReviewInbox:    "review@jobs.example",
		Reviewers:      []string{reviewer},
	}
	notifier := notify.New(mailer, mailCfg, "https://jobs.example", logger)

	job := &model.Job{
		ID:             1,
		Title:          "Senior Gopher",
		RecruiterEmail: "alex@acme.test",
		Company:        &model.Company{Name: "Acme", Slug: "acme"},
		Slug:           "senior-gopher",
	}
	store.jobs[job.ID] = job

	token := model.NewReviewToken(job.ID)
	store.tokens[token.Token] = token

	return &fixture{
		store:   store,
		mailer:  mailer,
		service: NewService(store, dispatch.New(logger), notifier, mailCfg, logger),
		job:     job,
		token:   token,
	}
}

func TestApproveViaEmailPublishes(t *testing.T) {
	f := newFixture(t)

	job, err := f.service.ApproveViaEmail(context.Background(), f.token.Token, reviewer, "ok")
	require.NoError(t, err)

	assert.True(t, job.Published)
	assert.True(t, f.store.tokens[f.token.Token].Used)
	assert.Equal(t, 1, f.mailer.count(mail.TemplateConfirmation))
}

// The repository's MarkUsed is the single place that flips a token; the
// gateway hands it over untouched so the persisted timestamp is the one
// MarkUsed sets.
func TestRepositoryOwnsTokenFlip(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ApproveViaEmail(context.Background(), f.token.Token, reviewer, "ok")
	require.NoError(t, err)

	assert.False(t, f.store.markUsedSawUsed)
	stored := f.store.tokens[f.token.Token]
	assert.True(t, stored.Used)
	require.NotNil(t, stored.UsedAt)
}

func TestApproveViaEmailTrimsReply(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ApproveViaEmail(context.Background(), f.token.Token, reviewer, "  ok\n")
	require.NoError(t, err)
	assert.True(t, f.store.jobs[f.job.ID].Published)
}

func TestUnauthorizedSenderRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ApproveViaEmail(context.Background(), f.token.Token, "stranger@evil.example", "ok")
	assert.ErrorIs(t, err, ErrUnauthorizedSender)

	assert.False(t, f.store.jobs[f.job.ID].Published)
	assert.False(t, f.store.tokens[f.token.Token].Used)
	assert.Empty(t, f.mailer.sent)
}

func TestInvalidReplyRejected(t *testing.T) {
	f := newFixture(t)

	for _, reply := range []string{"", "Ok", "OK", "ok please", "yes", "ok\nlooks good"} {
		_, err := f.service.ApproveViaEmail(context.Background(), f.token.Token, reviewer, reply)
		assert.ErrorIs(t, err, ErrInvalidReply, "reply %q", reply)
	}

	assert.False(t, f.store.jobs[f.job.ID].Published)
	assert.False(t, f.store.tokens[f.token.Token].Used)
	assert.Empty(t, f.mailer.sent)
}

func TestUnknownTokenRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ApproveViaEmail(context.Background(), "0000000000", reviewer, "ok")
	assert.ErrorIs(t, err, ErrUnknownToken)
	assert.False(t, f.store.jobs[f.job.ID].Published)
}

func TestUsedTokenRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.ApproveViaEmail(ctx, f.token.Token, reviewer, "ok")
	require.NoError(t, err)

	_, err = f.service.ApproveViaEmail(ctx, f.token.Token, reviewer, "ok")
	assert.ErrorIs(t, err, ErrTokenAlreadyUsed)

	// Still published, but no second confirmation email.
	assert.True(t, f.store.jobs[f.job.ID].Published)
	assert.Equal(t, 1, f.mailer.count(mail.TemplateConfirmation))
}

func TestFreshTokenOnPublishedJobSkipsConfirmation(t *testing.T) {
	f := newFixture(t)
	f.job.Published = true

	job, err := f.service.ApproveViaEmail(context.Background(), f.token.Token, reviewer, "ok")
	require.NoError(t, err)

	assert.True(t, job.Published)
	assert.Zero(t, f.mailer.count(mail.TemplateConfirmation))
}
