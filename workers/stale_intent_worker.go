package workers

import (
	"context"
	"log"
	"time"

	"matchq_server/metrics"
	"matchq_server/models"
	"matchq_server/services"

	"github.com/go-co-op/gocron/v2"
)

const sweepPageSize = 100

// StaleIntentWorker deletes searching intents that outlived the TTL. A client
// that crashes without calling leave would otherwise park a permanently
// searching ghost record in the pool, and someone would eventually pair with
// an absent partner. Paired intents are never swept.
type StaleIntentWorker struct {
	Store    services.IntentStore
	TTL      time.Duration
	Interval time.Duration
	Metrics  metrics.Recorder

	scheduler gocron.Scheduler
}

// Start schedules the sweep at the worker's interval.
func (w *StaleIntentWorker) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	w.scheduler = sched

	_, err = sched.NewJob(
		gocron.DurationJob(w.Interval),
		gocron.NewTask(func() {
			if err := w.SweepOnce(context.Background()); err != nil {
				log.Printf("⚠️ Stale intent sweep failed: %v", err)
			}
		}),
	)
	if err != nil {
		return err
	}

	sched.Start()
	log.Printf("🧹 Stale intent sweeper running (TTL %s, every %s)", w.TTL, w.Interval)
	return nil
}

// Stop shuts the scheduler down.
func (w *StaleIntentWorker) Stop() {
	if w.scheduler != nil {
		_ = w.scheduler.Shutdown()
	}
}

// SweepOnce scans every activity type and deletes searching intents older
// than the TTL. An unparsable createdAt counts as stale.
func (w *StaleIntentWorker) SweepOnce(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-w.TTL)
	swept := 0

	for _, activityType := range models.ActivityTypes {
		intents, err := w.Store.QuerySearching(ctx, activityType, sweepPageSize)
		if err != nil {
			return err
		}

		for _, intent := range intents {
			if !w.isStale(intent, cutoff) {
				continue
			}
			// The queried copy is already stale the moment it arrives; the
			// delete must re-check the live record or a claim committing
			// mid-sweep loses both sides of its pairing.
			deleted, err := w.Store.DeleteIntentIfSearching(ctx, intent.ParticipantID)
			if err != nil {
				log.Printf("⚠️ Failed to sweep intent %s: %v", intent.ParticipantID, err)
				continue
			}
			if !deleted {
				continue
			}
			swept++
			log.Printf("🧹 Swept stale intent %s (%s, created %s)", intent.ParticipantID, activityType, intent.CreatedAt)
		}
	}

	if swept > 0 && w.Metrics != nil {
		w.Metrics.RecordIntentsSwept(swept)
	}
	return nil
}

func (w *StaleIntentWorker) isStale(intent models.Intent, cutoff time.Time) bool {
	if intent.Status != models.StatusSearching {
		return false
	}
	createdAt, err := time.Parse(time.RFC3339, intent.CreatedAt)
	if err != nil {
		return true
	}
	return createdAt.Before(cutoff)
}
