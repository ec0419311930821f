package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"matchq_server/models"
	"matchq_server/services"
)

func putIntent(t *testing.T, store services.IntentStore, id, activityType, status string, age time.Duration) {
	t.Helper()
	intent := models.Intent{
		ParticipantID: id,
		DisplayName:   id,
		ActivityType:  activityType,
		Status:        status,
		CreatedAt:     time.Now().UTC().Add(-age).Format(time.RFC3339),
	}
	if status == models.StatusPaired {
		matchID := "m-" + id
		partner := "partner-of-" + id
		intent.MatchID = &matchID
		intent.PairedWith = &partner
	}
	if err := store.PutIntent(context.Background(), intent); err != nil {
		t.Fatalf("PutIntent(%s) failed: %v", id, err)
	}
}

func TestSweepOnceDeletesOnlyStaleSearchingIntents(t *testing.T) {
	store := services.NewMemoryIntentStore()
	worker := &StaleIntentWorker{Store: store, TTL: 10 * time.Minute}

	putIntent(t, store, "stale", models.ActivityVoice, models.StatusSearching, time.Hour)
	putIntent(t, store, "fresh", models.ActivityVoice, models.StatusSearching, time.Minute)
	putIntent(t, store, "stale-astro", models.ActivityAstro, models.StatusSearching, time.Hour)

	if err := worker.SweepOnce(context.Background()); err != nil {
		t.Fatalf("SweepOnce failed: %v", err)
	}

	if _, err := store.GetIntent(context.Background(), "stale"); !errors.Is(err, models.ErrIntentNotFound) {
		t.Errorf("stale intent survived the sweep: %v", err)
	}
	if _, err := store.GetIntent(context.Background(), "stale-astro"); !errors.Is(err, models.ErrIntentNotFound) {
		t.Errorf("stale astro intent survived the sweep: %v", err)
	}
	if _, err := store.GetIntent(context.Background(), "fresh"); err != nil {
		t.Errorf("fresh intent was swept: %v", err)
	}
}

func TestSweepOnceNeverTouchesPairedIntents(t *testing.T) {
	store := services.NewMemoryIntentStore()
	worker := &StaleIntentWorker{Store: store, TTL: 10 * time.Minute}

	putIntent(t, store, "old-pair", models.ActivityVoice, models.StatusPaired, 24*time.Hour)

	if err := worker.SweepOnce(context.Background()); err != nil {
		t.Fatalf("SweepOnce failed: %v", err)
	}

	intent, err := store.GetIntent(context.Background(), "old-pair")
	if err != nil {
		t.Fatalf("paired intent was swept: %v", err)
	}
	if intent.Status != models.StatusPaired {
		t.Fatalf("paired intent mutated: %q", intent.Status)
	}
}

// claimDuringSweepStore commits a pairing right after the sweeper's candidate
// query returns, reproducing a claim landing between the query and the
// deletes. A long-searching intent is still fully claimable, so the sweep
// must re-check the live record before removing it.
type claimDuringSweepStore struct {
	*services.MemoryIntentStore
	t       *testing.T
	claimed bool
}

func (s *claimDuringSweepStore) QuerySearching(ctx context.Context, activityType string, limit int32) ([]models.Intent, error) {
	intents, err := s.MemoryIntentStore.QuerySearching(ctx, activityType, limit)
	if err != nil || s.claimed || len(intents) < 2 {
		return intents, err
	}
	s.claimed = true
	if err := s.ClaimPair(ctx, intents[0], intents[1], "m-mid-sweep"); err != nil {
		s.t.Fatalf("mid-sweep claim failed: %v", err)
	}
	return intents, err
}

func TestSweepSparesIntentsClaimedMidSweep(t *testing.T) {
	store := &claimDuringSweepStore{MemoryIntentStore: services.NewMemoryIntentStore(), t: t}
	worker := &StaleIntentWorker{Store: store, TTL: 10 * time.Minute}

	putIntent(t, store, "alice", models.ActivityVoice, models.StatusSearching, time.Hour)
	putIntent(t, store, "bob", models.ActivityVoice, models.StatusSearching, time.Hour)

	if err := worker.SweepOnce(context.Background()); err != nil {
		t.Fatalf("SweepOnce failed: %v", err)
	}

	for _, id := range []string{"alice", "bob"} {
		intent, err := store.GetIntent(context.Background(), id)
		if err != nil {
			t.Fatalf("sweeper deleted %s's paired intent: %v", id, err)
		}
		if intent.Status != models.StatusPaired {
			t.Fatalf("%s status = %q, want paired", id, intent.Status)
		}
		if intent.MatchID == nil || *intent.MatchID != "m-mid-sweep" {
			t.Fatalf("%s matchId = %v, want m-mid-sweep", id, intent.MatchID)
		}
	}
}

func TestSweepOnceTreatsUnparsableTimestampAsStale(t *testing.T) {
	store := services.NewMemoryIntentStore()
	worker := &StaleIntentWorker{Store: store, TTL: 10 * time.Minute}

	if err := store.PutIntent(context.Background(), models.Intent{
		ParticipantID: "garbled",
		ActivityType:  models.ActivityVoice,
		Status:        models.StatusSearching,
		CreatedAt:     "not-a-timestamp",
	}); err != nil {
		t.Fatal(err)
	}

	if err := worker.SweepOnce(context.Background()); err != nil {
		t.Fatalf("SweepOnce failed: %v", err)
	}
	if _, err := store.GetIntent(context.Background(), "garbled"); !errors.Is(err, models.ErrIntentNotFound) {
		t.Fatalf("garbled intent survived the sweep: %v", err)
	}
}
