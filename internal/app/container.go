package app

import (
	"context"
	"strconv"
	"time"

	"jobber/internal/cache"
	"jobber/internal/config"
	"jobber/internal/database"
	"jobber/internal/database/migration"
	dbpostgres "jobber/internal/database/postgres"
	"jobber/internal/dispatch"
	"jobber/internal/feed"
	"jobber/internal/mail"
	"jobber/internal/model"
	"jobber/internal/notify"
	"jobber/internal/pkg/jwt"
	"jobber/internal/repository"
	"jobber/internal/scheduler"
	"jobber/internal/search"
	"jobber/internal/usecase/broadcast"
	"jobber/internal/usecase/listing"
	"jobber/internal/usecase/review"

	"go.uber.org/zap"
)

const adminSessionTTL = 12 * time.Hour

// Container builds and holds the object graph shared by the server and the
// CLI. Everything is constructed here, explicitly, in dependency order.
type Container struct {
	Config config.Config
	Logger *zap.SugaredLogger

	DB    database.DB
	Store repository.Store
	Index search.Indexer
	Cache *cache.Cache

	Mailer     mail.Mailer
	Notifier   *notify.Notifier
	Dispatcher *dispatch.Dispatcher
	JWT        jwt.Service

	Listings   *listing.Service
	Reviews    *review.Service
	Broadcasts *broadcast.Service
	Scheduler  *scheduler.Scheduler
	Feed       *feed.Builder
}

func NewContainer(cfg config.Config, logger *zap.SugaredLogger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := migration.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, err
	}

	index, err := search.Open(cfg.Search.IndexDir)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Store:  repository.NewPostgresStore(db),
		Index:  index,
		Cache:  cache.New(cfg.Redis, logger),
	}

	if cfg.Mail.Host != "" {
		mailer, err := mail.NewSMTPMailer(cfg.Mail, logger)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.Mailer = mailer
	} else {
		c.Mailer = mail.NewLogMailer(logger)
	}
	c.Notifier = notify.New(c.Mailer, cfg.Mail, cfg.App.BaseURL, logger)

	c.Dispatcher = dispatch.New(logger)
	c.registerActions()

	c.JWT = jwt.NewHMACService(cfg.Admin.JWTSecret, adminSessionTTL)

	c.Listings = listing.NewService(c.Store, c.Index, c.Dispatcher, c.Notifier, c.Cache, logger)
	c.Reviews = review.NewService(c.Store, c.Dispatcher, c.Notifier, cfg.Mail, logger)
	c.Broadcasts = broadcast.NewService(c.Store, nil, cfg.Broadcast, cfg.App.BaseURL, logger)
	c.Scheduler = scheduler.New(c.Broadcasts, cfg.Broadcast.CronSpec, logger)
	c.Feed = feed.NewBuilder(c.Listings, cfg.App.AppName, cfg.App.BaseURL)

	return c, nil
}

// registerActions builds the dispatch table. Inserted jobs additionally get
// the instructory email; both inserts and updates synchronize the search
// index and drop the cached listing page.
func (c *Container) registerActions() {
	indexSync := dispatch.Action{Name: "index_sync", Run: c.syncIndex}
	instructory := dispatch.Action{Name: "instructory_email", Run: c.sendInstructory}
	dropCache := dispatch.Action{Name: "drop_listing_cache", Run: c.dropListingCache}

	c.Dispatcher.On(dispatch.KindJob, dispatch.OpInsert, indexSync, instructory, dropCache)
	c.Dispatcher.On(dispatch.KindJob, dispatch.OpUpdate, indexSync, dropCache)
	c.Dispatcher.On(dispatch.KindJob, dispatch.OpDelete, dispatch.Action{Name: "index_delete", Run: c.deleteFromIndex})
}

// syncIndex mirrors the published flag into the index: published jobs are
// upserted, unpublished ones removed. Deleting an absent document is a no-op.
func (c *Container) syncIndex(ctx context.Context, entity any) error {
	job, ok := entity.(*model.Job)
	if !ok {
		return nil
	}
	if job.Published {
		return c.Index.UpdateDocument(ctx, job.ToDocument())
	}
	return c.Index.DeleteDocument(ctx, strconv.FormatInt(job.ID, 10))
}

func (c *Container) deleteFromIndex(ctx context.Context, entity any) error {
	job, ok := entity.(*model.Job)
	if !ok {
		return nil
	}
	return c.Index.DeleteDocument(ctx, strconv.FormatInt(job.ID, 10))
}

func (c *Container) sendInstructory(ctx context.Context, entity any) error {
	job, ok := entity.(*model.Job)
	if !ok {
		return nil
	}
	return c.Notifier.SendInstructory(ctx, job)
}

func (c *Container) dropListingCache(ctx context.Context, _ any) error {
	return c.Cache.Delete(ctx, cache.PublishedJobsKey)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var firstErr error
	if c.Index != nil {
		if err := c.Index.Close(); err != nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
