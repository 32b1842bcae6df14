package broadcast

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"jobber/internal/config"
	"jobber/internal/model"
	"jobber/internal/repository"

	"go.uber.org/zap"
)

var ErrUnknownService = errors.New("unknown broadcast service")

// payload is what a webhook receives about a job. The webhook side takes care
// of formatting the actual post.
type payload struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Company  string `json:"company"`
	Location string `json:"location"`
}

// Service announces published jobs to external webhooks and keeps a record of
// every attempt. A job is re-announced once its last successful broadcast is
// older than the configured expiry.
type Service struct {
	store   repository.Store
	client  *http.Client
	cfg     config.BroadcastConfig
	baseURL string
	logger  *zap.SugaredLogger
}

func NewService(
	store repository.Store,
	client *http.Client,
	cfg config.BroadcastConfig,
	baseURL string,
	logger *zap.SugaredLogger,
) *Service {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Service{
		store:   store,
		client:  client,
		cfg:     cfg,
		baseURL: baseURL,
		logger:  logger,
	}
}

// BroadcastJob posts one job to one service and records the outcome. The
// returned record carries the success flag; a failed delivery is not an
// error as long as the attempt was recorded.
func (s *Service) BroadcastJob(ctx context.Context, job *model.Job, service string) (*model.SocialBroadcast, error) {
	webhook, ok := s.cfg.Webhooks[service]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, service)
	}

	record := &model.SocialBroadcast{
		JobID:   job.ID,
		Service: service,
		Success: s.deliver(ctx, webhook, job),
		Created: time.Now().UTC(),
	}
	if err := s.store.Broadcasts().Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Infow("job broadcast recorded",
		"job_id", job.ID, "service", service, "success", record.Success)
	return record, nil
}

func (s *Service) deliver(ctx context.Context, webhook string, job *model.Job) bool {
	location := ""
	if job.Location != nil {
		location = fmt.Sprintf("%s, %s", job.Location.City, job.Location.CountryName())
	}
	company := ""
	if job.Company != nil {
		company = job.Company.Name
	}

	body, err := json.Marshal(payload{
		Title:    job.Title,
		URL:      s.baseURL + job.URLPath(),
		Company:  company,
		Location: location,
	})
	if err != nil {
		s.logger.Errorw("broadcast payload marshal failed", "job_id", job.ID, "error", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook, bytes.NewReader(body))
	if err != nil {
		s.logger.Errorw("broadcast request build failed", "job_id", job.ID, "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warnw("broadcast delivery failed", "job_id", job.ID, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Warnw("broadcast delivery rejected", "job_id", job.ID, "status", resp.StatusCode)
		return false
	}
	return true
}

// RunCycle selects broadcast candidates and announces each to every
// configured service. A candidate is a published job that was never
// successfully broadcast, or whose last success is at least ExpiryDays old.
// Per-job and per-service failures are isolated; the cycle always finishes.
func (s *Service) RunCycle(ctx context.Context) error {
	if len(s.cfg.Webhooks) == 0 {
		s.logger.Debugw("no broadcast webhooks configured, skipping cycle")
		return nil
	}

	jobs, err := s.store.Jobs().ListPublished(ctx, 0, true)
	if err != nil {
		return err
	}

	var selected []*model.Job
	for _, job := range jobs {
		candidate, err := s.isCandidate(ctx, job)
		if err != nil {
			s.logger.Errorw("candidate check failed", "job_id", job.ID, "error", err)
			continue
		}
		if candidate {
			selected = append(selected, job)
		}
	}
	s.logger.Infow("broadcast candidates selected", "count", len(selected))

	for _, job := range selected {
		for service := range s.cfg.Webhooks {
			if _, err := s.BroadcastJob(ctx, job, service); err != nil {
				s.logger.Errorw("broadcast failed",
					"job_id", job.ID, "service", service, "error", err)
			}
		}
	}
	return nil
}

func (s *Service) isCandidate(ctx context.Context, job *model.Job) (bool, error) {
	last, err := s.store.Broadcasts().LastSuccessful(ctx, job.ID)
	if err != nil {
		if errors.Is(err, repository.ErrBroadcastNotFound) {
			return true, nil
		}
		return false, err
	}
	age := time.Since(last.Created)
	return age >= time.Duration(s.cfg.ExpiryDays)*24*time.Hour, nil
}
