package listing

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"jobber/internal/cache"
	"jobber/internal/dispatch"
	"jobber/internal/model"
	"jobber/internal/notify"
	"jobber/internal/repository"
	"jobber/internal/search"

	"go.uber.org/zap"
)

const listingCacheTTL = 10 * time.Minute

// Input is one job submission or edit as it arrives from the outside. The
// company and location can reference existing records by id or describe new
// ones by value.
type Input struct {
	Fields model.JobFields

	CompanyID      int64
	CompanyName    string
	CompanyWebsite string

	LocationID  int64
	City        string
	CountryCode string

	Tags []string
}

// Service owns the listing lifecycle: submission, edit, publication and the
// published read paths. Every write leaves the job unpublished and pending
// review; only the review flows flip the published flag.
type Service struct {
	store      repository.Store
	index      search.Indexer
	dispatcher *dispatch.Dispatcher
	notifier   *notify.Notifier
	cache      *cache.Cache
	logger     *zap.SugaredLogger
}

func NewService(
	store repository.Store,
	index search.Indexer,
	dispatcher *dispatch.Dispatcher,
	notifier *notify.Notifier,
	c *cache.Cache,
	logger *zap.SugaredLogger,
) *Service {
	return &Service{
		store:      store,
		index:      index,
		dispatcher: dispatcher,
		notifier:   notifier,
		cache:      c,
		logger:     logger,
	}
}

// Submit stores a brand new, unpublished job together with its review token,
// then kicks off the post-commit side effects: the insert actions and the
// review-request email.
func (s *Service) Submit(ctx context.Context, in Input) (*model.Job, error) {
	job, err := model.NewJob(in.Fields)
	if err != nil {
		return nil, err
	}

	var token *model.ReviewToken
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := s.attachRelations(ctx, tx, job, in); err != nil {
			return err
		}
		if err := tx.Jobs().Create(ctx, job); err != nil {
			return err
		}
		if err := tx.Jobs().ReplaceTags(ctx, job.ID, job.TagSlugs()); err != nil {
			return err
		}
		token = model.NewReviewToken(job.ID)
		return tx.ReviewTokens().Create(ctx, token)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("job submitted", "job_id", job.ID, "title", job.Title)
	s.dispatcher.Committed(ctx, dispatch.Change{Kind: dispatch.KindJob, Op: dispatch.OpInsert, Entity: job})
	if err := s.notifier.SendReviewRequest(ctx, job, token); err != nil {
		s.logger.Errorw("review request email failed", "job_id", job.ID, "error", err)
	}
	return job, nil
}

// Edit rewrites a job identified by its admin token. The edit unpublishes the
// job and mints a fresh review token; the previous listing disappears from
// the public surfaces until the new revision is approved.
func (s *Service) Edit(ctx context.Context, adminToken string, in Input) (*model.Job, error) {
	job, err := s.store.Jobs().GetByAdminToken(ctx, adminToken)
	if err != nil {
		return nil, err
	}
	if err := job.Populate(in.Fields); err != nil {
		return nil, err
	}

	var token *model.ReviewToken
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := s.attachRelations(ctx, tx, job, in); err != nil {
			return err
		}
		if err := tx.Jobs().Update(ctx, job); err != nil {
			return err
		}
		if err := tx.Jobs().ReplaceTags(ctx, job.ID, job.TagSlugs()); err != nil {
			return err
		}
		token = model.NewReviewToken(job.ID)
		return tx.ReviewTokens().Create(ctx, token)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("job edited", "job_id", job.ID, "title", job.Title)
	s.dispatcher.Committed(ctx, dispatch.Change{Kind: dispatch.KindJob, Op: dispatch.OpUpdate, Entity: job})
	if err := s.notifier.SendReviewRequest(ctx, job, token); err != nil {
		s.logger.Errorw("review request email failed", "job_id", job.ID, "error", err)
	}
	return job, nil
}

// GetByAdminToken loads a job for the edit form.
func (s *Service) GetByAdminToken(ctx context.Context, adminToken string) (*model.Job, error) {
	return s.store.Jobs().GetByAdminToken(ctx, adminToken)
}

// GetPublished loads one published job by id.
func (s *Service) GetPublished(ctx context.Context, id int64) (*model.Job, error) {
	job, err := s.store.Jobs().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !job.Published {
		return nil, repository.ErrJobNotFound
	}
	return job, nil
}

// ApproveViaWeb publishes a job from the admin surface. The confirmation
// email only goes out on the actual unpublished-to-published transition.
func (s *Service) ApproveViaWeb(ctx context.Context, id int64) (*model.Job, error) {
	var (
		job          *model.Job
		wasPublished bool
	)
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		job, err = tx.Jobs().GetByID(ctx, id)
		if err != nil {
			return err
		}
		wasPublished = job.Published
		job.Published = true
		return tx.Jobs().Update(ctx, job)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("job published", "job_id", job.ID, "via", "web")
	s.dispatcher.Committed(ctx, dispatch.Change{Kind: dispatch.KindJob, Op: dispatch.OpUpdate, Entity: job})
	if !wasPublished {
		if err := s.notifier.SendConfirmation(ctx, job); err != nil {
			s.logger.Errorw("confirmation email failed", "job_id", job.ID, "error", err)
		}
	}
	return job, nil
}

// Unpublish takes a job off the public surfaces without touching its
// content. The index sync on the update change removes its document.
func (s *Service) Unpublish(ctx context.Context, id int64) (*model.Job, error) {
	var job *model.Job
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		job, err = tx.Jobs().GetByID(ctx, id)
		if err != nil {
			return err
		}
		job.Published = false
		return tx.Jobs().Update(ctx, job)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("job unpublished", "job_id", job.ID)
	s.dispatcher.Committed(ctx, dispatch.Change{Kind: dispatch.KindJob, Op: dispatch.OpUpdate, Entity: job})
	return job, nil
}

// ListPublished returns published jobs, newest first. The full list is cached
// and the limit applied on top, so every page shares one cache entry.
func (s *Service) ListPublished(ctx context.Context, limit int) ([]*model.Job, error) {
	var jobs []*model.Job
	hit, err := s.cache.GetJSON(ctx, cache.PublishedJobsKey, &jobs)
	if err != nil {
		s.logger.Warnw("listing cache read failed", "error", err)
	}
	if !hit {
		jobs, err = s.store.Jobs().ListPublished(ctx, 0, true)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetJSON(ctx, cache.PublishedJobsKey, jobs, listingCacheTTL); err != nil {
			s.logger.Warnw("listing cache write failed", "error", err)
		}
	}

	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

// SearchPublished runs a full-text query and resolves the hits back to
// database records. Hits that no longer exist or that point at unpublished
// jobs are dropped: the index is derived state and may briefly lag the store.
func (s *Service) SearchPublished(ctx context.Context, query string, limit int) ([]*model.Job, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListPublished(ctx, limit)
	}

	docs, err := s.index.Search(ctx, query, search.OrderDesc, limit)
	if err != nil {
		return nil, err
	}

	jobs := make([]*model.Job, 0, len(docs))
	for _, doc := range docs {
		id, err := strconv.ParseInt(doc.ID, 10, 64)
		if err != nil {
			s.logger.Warnw("non-numeric document id in index", "doc_id", doc.ID)
			continue
		}
		job, err := s.store.Jobs().GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrJobNotFound) {
				continue
			}
			return nil, err
		}
		if !job.Published {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// attachRelations resolves the company, location and tags of the input and
// wires them onto the job. An id referencing an existing record is reused
// only when the submitted values still match it; any divergence creates a new
// record instead of silently rewriting one shared with other listings.
func (s *Service) attachRelations(ctx context.Context, tx repository.Store, job *model.Job, in Input) error {
	company, err := s.resolveCompany(ctx, tx, in)
	if err != nil {
		return err
	}
	job.Company = company
	job.CompanyID = company.ID

	location, err := s.resolveLocation(ctx, tx, in)
	if err != nil {
		return err
	}
	job.Location = location
	job.LocationID = location.ID

	tags := make([]model.Tag, 0, len(in.Tags))
	seen := map[string]bool{}
	for _, text := range in.Tags {
		if strings.TrimSpace(text) == "" {
			continue
		}
		tag, err := tx.Tags().GetOrCreate(ctx, text)
		if err != nil {
			return err
		}
		if seen[tag.Slug] {
			continue
		}
		seen[tag.Slug] = true
		tags = append(tags, *tag)
	}
	job.Tags = tags
	return nil
}

func (s *Service) resolveCompany(ctx context.Context, tx repository.Store, in Input) (*model.Company, error) {
	if in.CompanyID != 0 {
		existing, err := tx.Companies().GetByID(ctx, in.CompanyID)
		if err == nil && sameCompany(existing, in) {
			return existing, nil
		}
		if err != nil && !errors.Is(err, repository.ErrCompanyNotFound) {
			return nil, err
		}
	}
	company, err := model.NewCompany(in.CompanyName, in.CompanyWebsite)
	if err != nil {
		return nil, err
	}
	if err := tx.Companies().Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func sameCompany(c *model.Company, in Input) bool {
	name := strings.TrimSpace(in.CompanyName)
	if name != "" && name != c.Name {
		return false
	}
	website := strings.TrimSpace(in.CompanyWebsite)
	if website != "" && website != c.Website {
		return false
	}
	return true
}

func (s *Service) resolveLocation(ctx context.Context, tx repository.Store, in Input) (*model.Location, error) {
	if in.LocationID != 0 {
		existing, err := tx.Locations().GetByID(ctx, in.LocationID)
		if err == nil && sameLocation(existing, in) {
			return existing, nil
		}
		if err != nil && !errors.Is(err, repository.ErrLocationNotFound) {
			return nil, err
		}
	}
	location, err := model.NewLocation(in.City, in.CountryCode)
	if err != nil {
		return nil, err
	}
	if err := tx.Locations().Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func sameLocation(l *model.Location, in Input) bool {
	city := strings.TrimSpace(in.City)
	if city != "" && city != l.City {
		return false
	}
	code := strings.TrimSpace(in.CountryCode)
	if code != "" && code != l.CountryCode {
		return false
	}
	return true
}
