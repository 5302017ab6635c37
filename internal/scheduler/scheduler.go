package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdadvisor/internal/config"
	"github.com/mamadbah2/herdadvisor/internal/domain/models"
	"github.com/mamadbah2/herdadvisor/internal/metrics"
	"github.com/mamadbah2/herdadvisor/internal/repository"
	"github.com/mamadbah2/herdadvisor/pkg/clients/whatsapp"
)

const jobTimeout = 2 * time.Minute

// PriceSource supplies externally maintained market prices.
type PriceSource interface {
	Prices(ctx context.Context) ([]models.PriceRecord, error)
}

// SellingAdvisor ranks a farmer's animals for sale.
type SellingAdvisor interface {
	SellingRecommendations(ctx context.Context, farmerID int64) ([]models.SellingRecommendation, error)
}

// Jobs collects the collaborators of the background jobs. A job whose
// collaborators are missing is not scheduled.
type Jobs struct {
	Prices    PriceSource
	PriceSink repository.PriceWriter
	Advisor   SellingAdvisor
	Messenger whatsapp.Client
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron   *cron.Cron
	jobs   Jobs
	cfg    config.SchedulerConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewScheduler creates a new scheduler instance running in the configured timezone.
func NewScheduler(cfg config.SchedulerConfig, jobs Jobs, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		jobs:   jobs,
		cfg:    cfg,
		logger: logger,
		now:    func() time.Time { return time.Now().In(loc) },
	}, nil
}

// Start registers the enabled jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	if s.jobs.Prices != nil && s.jobs.PriceSink != nil {
		if _, err := s.cron.AddFunc(s.cfg.PriceSyncCron, s.runPriceSync); err != nil {
			return fmt.Errorf("schedule price sync: %w", err)
		}
		s.logger.Info("price sync scheduled", zap.String("cron", s.cfg.PriceSyncCron))
	}

	if s.jobs.Advisor != nil && s.jobs.Messenger != nil && s.cfg.DigestEnabled() {
		if _, err := s.cron.AddFunc(s.cfg.DigestCron, s.runDigest); err != nil {
			return fmt.Errorf("schedule selling digest: %w", err)
		}
		s.logger.Info("selling digest scheduled", zap.String("cron", s.cfg.DigestCron), zap.Int64("farmer_id", s.cfg.DigestFarmerID))
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// SyncPrices imports the price sheet into the store.
func (s *Scheduler) SyncPrices(ctx context.Context) (int, error) {
	if s.jobs.Prices == nil || s.jobs.PriceSink == nil {
		return 0, errors.New("price sync is not configured")
	}

	records, err := s.jobs.Prices.Prices(ctx)
	if err != nil {
		return 0, fmt.Errorf("read prices: %w", err)
	}

	written, err := s.jobs.PriceSink.UpsertPrices(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("store prices: %w", err)
	}

	metrics.PricesSynced.Add(float64(written))
	return written, nil
}

// SendDigest sends the selling digest of the configured farmer.
func (s *Scheduler) SendDigest(ctx context.Context) error {
	if s.jobs.Advisor == nil || s.jobs.Messenger == nil {
		return errors.New("selling digest is not configured")
	}

	recs, err := s.jobs.Advisor.SellingRecommendations(ctx, s.cfg.DigestFarmerID)
	if err != nil {
		return fmt.Errorf("selling recommendations: %w", err)
	}

	return whatsapp.SendLongText(ctx, s.jobs.Messenger, s.cfg.DigestRecipient, FormatDigest(recs, s.now()))
}

func (s *Scheduler) runPriceSync() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	written, err := s.SyncPrices(ctx)
	if err != nil {
		s.logger.Error("price sync failed", zap.Error(err))
		return
	}
	s.logger.Info("price sync completed", zap.Int("records", written))
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.SendDigest(ctx); err != nil {
		s.logger.Error("failed to send selling digest", zap.Error(err))
		return
	}
	s.logger.Info("selling digest sent successfully")
}
