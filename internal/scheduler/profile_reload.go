package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/edseguy/code-scanner/internal/logger"
	"github.com/edseguy/code-scanner/internal/session"
	"github.com/edseguy/code-scanner/internal/sources/profile"
)

// ProfileReloader handles periodic reloading of the scanner profile file
// and applies the result to the session controller.
type ProfileReloader struct {
	loader        *profile.Loader
	mapper        *profile.Mapper
	controller    *session.Controller
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewProfileReloader creates a new profile reloader
func NewProfileReloader(
	profileFile string,
	controller *session.Controller,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *ProfileReloader {
	return &ProfileReloader{
		loader:        profile.NewLoader(profileFile),
		mapper:        profile.NewMapper(),
		controller:    controller,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the profile once, then begins the periodic reload process
func (pr *ProfileReloader) Start(ctx context.Context) error {
	if err := pr.Reload(ctx); err != nil {
		return fmt.Errorf("initial profile load failed: %w", err)
	}

	ticker := time.NewTicker(pr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := pr.Reload(ctx); err != nil {
					pr.logger.Error("failed to reload scanner profile",
						logger.Error(err))
				}
			case <-pr.manualTrigger:
				pr.logger.Info("manual profile reload triggered")
				if err := pr.Reload(ctx); err != nil {
					pr.logger.Error("failed to reload scanner profile",
						logger.Error(err))
				}
			case <-pr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (pr *ProfileReloader) Stop() {
	close(pr.stopCh)
}

// Reload loads the profile file and applies it to the controller. A failed
// reload leaves the previously applied profile in place.
func (pr *ProfileReloader) Reload(ctx context.Context) error {
	config, err := pr.loader.Load()
	if err != nil {
		return err
	}

	p, err := pr.mapper.Map(config)
	if err != nil {
		return err
	}

	pr.controller.ApplyProfile(ctx, p)
	pr.logger.Info("scanner profile reloaded",
		logger.Int("symbologies", len(p.Symbologies)),
		logger.Int("lookup_triggers", len(p.LookupTriggers)))
	return nil
}
