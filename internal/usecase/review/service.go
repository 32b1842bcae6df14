package review

import (
	"context"
	"errors"
	"strings"

	"jobber/internal/config"
	"jobber/internal/dispatch"
	"jobber/internal/model"
	"jobber/internal/notify"
	"jobber/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrUnauthorizedSender = errors.New("sender is not an allowed reviewer")
	ErrInvalidReply       = errors.New("reply body is not an approval")
	ErrUnknownToken       = errors.New("unknown review token")
	ErrTokenAlreadyUsed   = errors.New("review token already used")
)

// approvalReply is the exact body a reviewer must send. The webhook delivers
// the reply with quoted text already stripped, so the whole body has to match.
const approvalReply = "ok"

// Service is the email gateway of the review workflow: an inbound reply,
// relayed by the mail provider webhook, either publishes exactly one job or
// does nothing at all.
type Service struct {
	store      repository.Store
	dispatcher *dispatch.Dispatcher
	notifier   *notify.Notifier
	reviewers  []string
	logger     *zap.SugaredLogger
}

func NewService(
	store repository.Store,
	dispatcher *dispatch.Dispatcher,
	notifier *notify.Notifier,
	cfg config.MailConfig,
	logger *zap.SugaredLogger,
) *Service {
	return &Service{
		store:      store,
		dispatcher: dispatcher,
		notifier:   notifier,
		reviewers:  cfg.Reviewers,
		logger:     logger,
	}
}

// ApproveViaEmail consumes a review token on behalf of an email reply. The
// checks run in a fixed order: sender, reply body, token existence, token
// freshness. On success the token flip and the publish commit atomically; on
// any failure the store is untouched. The confirmation email goes out only
// when the job actually transitions to published.
func (s *Service) ApproveViaEmail(ctx context.Context, tokenValue, sender, reply string) (*model.Job, error) {
	audit := s.logger.With("token", tokenValue, "sender", sender)

	if !s.allowedSender(sender) {
		audit.Warnw("email review rejected", "reason", "unauthorized sender")
		return nil, ErrUnauthorizedSender
	}
	if !isApproval(reply) {
		audit.Warnw("email review rejected", "reason", "reply is not an approval")
		return nil, ErrInvalidReply
	}

	token, err := s.store.ReviewTokens().GetByToken(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, repository.ErrReviewTokenNotFound) {
			audit.Warnw("email review rejected", "reason", "unknown token")
			return nil, ErrUnknownToken
		}
		return nil, err
	}
	if token.Used {
		audit.Warnw("email review rejected", "reason", "token already used")
		return nil, ErrTokenAlreadyUsed
	}

	var (
		job          *model.Job
		wasPublished bool
	)
	err = s.store.InTx(ctx, func(tx repository.Store) error {
		// MarkUsed owns the used flip and timestamp.
		if err := tx.ReviewTokens().MarkUsed(ctx, token); err != nil {
			// Lost the race with a concurrent review of the same token.
			if errors.Is(err, repository.ErrReviewTokenNotFound) {
				return ErrTokenAlreadyUsed
			}
			return err
		}

		var err error
		job, err = tx.Jobs().GetByID(ctx, token.JobID)
		if err != nil {
			return err
		}
		wasPublished = job.Published
		job.Published = true
		return tx.Jobs().Update(ctx, job)
	})
	if err != nil {
		if errors.Is(err, ErrTokenAlreadyUsed) {
			audit.Warnw("email review rejected", "reason", "token already used")
		}
		return nil, err
	}

	audit.Infow("job published", "job_id", job.ID, "via", "email")
	s.dispatcher.Committed(ctx, dispatch.Change{Kind: dispatch.KindJob, Op: dispatch.OpUpdate, Entity: job})
	if !wasPublished {
		if err := s.notifier.SendConfirmation(ctx, job); err != nil {
			s.logger.Errorw("confirmation email failed", "job_id", job.ID, "error", err)
		}
	}
	return job, nil
}

func (s *Service) allowedSender(sender string) bool {
	for _, r := range s.reviewers {
		if sender == r {
			return true
		}
	}
	return false
}

// isApproval is deliberately strict: "ok" and nothing else, case-sensitive.
func isApproval(reply string) bool {
	return strings.TrimSpace(reply) == approvalReply
}
