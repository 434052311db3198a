// Package worker runs the background sweep that clears expired sign-in and
// link challenges out of the store.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/msafer/waitlist/internal/logger"
	"github.com/msafer/waitlist/internal/metrics"
	"github.com/msafer/waitlist/internal/nonce"
)

// PurgeWorker periodically removes expired challenges
type PurgeWorker struct {
	nonces   nonce.Service
	interval time.Duration
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewPurgeWorker creates a new PurgeWorker. A non-positive interval falls
// back to DefaultPurgeInterval.
func NewPurgeWorker(nonces nonce.Service, interval time.Duration) *PurgeWorker {
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}
	return &PurgeWorker{
		nonces:   nonces,
		interval: interval,
		shutdown: make(chan struct{}),
	}
}

// Start launches the sweep loop
func (w *PurgeWorker) Start() {
	log := logger.FromContext(context.Background())
	log.Info(LogMsgPurgeWorkerStarted, "interval", w.interval)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.shutdown:
				return
			case <-ticker.C:
				w.executePurge()
			}
		}
	}()
}

// executePurge performs one sweep
func (w *PurgeWorker) executePurge() {
	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Debug(LogMsgPurgeStarting)

	purged, err := w.nonces.PurgeExpired(ctx)
	if err != nil {
		log.Error(LogMsgPurgeFailed, "error", err)
		return
	}

	if purged > 0 {
		metrics.ChallengesPurged.Add(float64(purged))
		log.Info(LogMsgPurgeCompleted, "purged", purged)
	}
}

// Shutdown stops the sweep loop and waits for an in-flight sweep to finish
func (w *PurgeWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgPurgeShutdownStarted)

	select {
	case <-w.shutdown:
		// Already closed, nothing to do
	default:
		close(w.shutdown)
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgPurgeShutdownComplete)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgPurgeShutdownTimeout)
		return ctx.Err()
	}
}
