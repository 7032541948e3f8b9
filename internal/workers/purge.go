package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/store"
)

// Fallback values applied when the purge worker configuration leaves the
// interval or the retention window unset.
const (
	defaultPurgeInterval  = 1 * time.Hour
	defaultPurgeRetention = 30 * 24 * time.Hour
)

// purgeWorker permanently removes soft-deleted vault entries whose tombstone
// has outlived the retention window.
//
// Purging runs on a fixed ticker. Each pass computes the cutoff as the
// current time minus the retention window and delegates to
// [store.VaultEntryRepository.PurgeDeletedBefore], which removes only entries
// tombstoned strictly before the cutoff. A failed pass is logged and retried
// on the next tick; the worker never stops on its own.
type purgeWorker struct {
	entries store.VaultEntryRepository

	interval  time.Duration
	retention time.Duration

	// now is injectable for tests; production wiring uses time.Now.
	now func() time.Time

	stop chan struct{}
	done chan struct{}

	logger *logger.Logger
}

// NewPurgeWorker constructs the purge worker from the given configuration.
// Unset interval or retention values fall back to package defaults.
func NewPurgeWorker(entries store.VaultEntryRepository, cfg config.Workers, logger *logger.Logger) Worker {
	interval := cfg.PurgeInterval
	if interval <= 0 {
		interval = defaultPurgeInterval
	}

	retention := cfg.PurgeRetention
	if retention <= 0 {
		retention = defaultPurgeRetention
	}

	return &purgeWorker{
		entries:   entries,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger,
	}
}

// Run implements [Worker]. It starts the ticker loop in a background
// goroutine and returns immediately.
func (p *purgeWorker) Run() {
	p.logger.Info().
		Dur("interval", p.interval).
		Dur("retention", p.retention).
		Msg("launching purge worker")

	go p.loop()
}

// Stop implements [Worker]. It signals the ticker loop to terminate and
// blocks until the current pass, if any, has finished.
func (p *purgeWorker) Stop() {
	close(p.stop)
	<-p.done

	p.logger.Info().Msg("purge worker stopped")
}

func (p *purgeWorker) loop() {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.purge()
		}
	}
}

func (p *purgeWorker) purge() {
	ctx := p.logger.WithContext(context.Background())

	cutoff := p.now().Add(-p.retention)

	purged, err := p.entries.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		p.logger.Err(err).
			Str("func", "purgeWorker.purge").
			Time("cutoff", cutoff).
			Msg("purge pass failed, will retry on next tick")
		return
	}

	if purged > 0 {
		p.logger.Info().
			Str("func", "purgeWorker.purge").
			Time("cutoff", cutoff).
			Int64("purged", purged).
			Msg("expired tombstones permanently removed")
	}
}
