package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/JesVite28/products-front/internal/config"
	"github.com/JesVite28/products-front/internal/service/catalog"
	"github.com/JesVite28/products-front/internal/service/reporting"
	"github.com/JesVite28/products-front/internal/session"
)

// Scheduler manages the background jobs: the periodic catalog refresh
// and the optional stock snapshot export.
type Scheduler struct {
	cron       *cron.Cron
	catalogSvc *catalog.Service
	exportSvc  *reporting.Service
	sess       *session.Session
	cfg        config.Config
	logger     *zap.Logger
}

// NewScheduler creates a new scheduler instance. exportSvc may be nil
// when the snapshot export is not configured.
func NewScheduler(cfg config.Config, catalogSvc *catalog.Service, exportSvc *reporting.Service, sess *session.Session, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:       cron.New(),
		catalogSvc: catalogSvc,
		exportSvc:  exportSvc,
		sess:       sess,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start registers the cron entries and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.Refresh.CronSchedule, s.refreshCatalog); err != nil {
		s.logger.Error("failed to schedule catalog refresh", zap.Error(err))
	}

	if s.exportSvc != nil {
		if _, err := s.cron.AddFunc(s.cfg.Snapshot.CronSchedule, s.exportSnapshot); err != nil {
			s.logger.Error("failed to schedule snapshot export", zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) refreshCatalog() {
	if !s.sess.Authenticated() {
		s.logger.Debug("refresh skipped, no session")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.catalogSvc.ListAll(ctx); err != nil {
		s.logger.Error("scheduled catalog refresh failed", zap.Error(err))
	}
}

func (s *Scheduler) exportSnapshot() {
	if !s.sess.Authenticated() {
		s.logger.Debug("snapshot skipped, no session")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.exportSvc.ExportSnapshot(ctx); err != nil {
		s.logger.Error("scheduled snapshot export failed", zap.Error(err))
	}
}
