package scheduler

import (
	"time"

	"github.com/ovenlab/bakehouse-backend/internal/app/repository"
	"github.com/ovenlab/bakehouse-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// BannerScheduler flips banner visibility based on their display windows.
type BannerScheduler struct {
	cron       *cron.Cron
	bannerRepo repository.BannerRepository
}

func NewBannerScheduler(bannerRepo repository.BannerRepository) *BannerScheduler {
	return &BannerScheduler{
		cron:       cron.New(),
		bannerRepo: bannerRepo,
	}
}

// Start schedules the visibility sweep every 5 minutes and runs one
// sweep immediately so restarts pick up window changes without delay.
func (s *BannerScheduler) Start() error {
	_, err := s.cron.AddFunc("*/5 * * * *", s.sweep)
	if err != nil {
		logger.Error("Failed to add cron job for banner visibility", err)
		return err
	}

	s.sweep()
	s.cron.Start()
	logger.Info("Banner scheduler started (every 5 minutes)", nil)

	return nil
}

// Stop halts the scheduler.
func (s *BannerScheduler) Stop() {
	logger.Info("Stopping banner scheduler...", nil)
	s.cron.Stop()
	logger.Info("Banner scheduler stopped", nil)
}

func (s *BannerScheduler) sweep() {
	now := time.Now()

	activated, err := s.bannerRepo.ActivateWindowed(now)
	if err != nil {
		logger.Error("Failed to activate scheduled banners", err)
	}

	deactivated, err := s.bannerRepo.DeactivateExpired(now)
	if err != nil {
		logger.Error("Failed to deactivate expired banners", err)
	}

	if activated > 0 || deactivated > 0 {
		logger.Info("Banner visibility sweep completed", map[string]interface{}{
			"activated":   activated,
			"deactivated": deactivated,
		})
	}
}
