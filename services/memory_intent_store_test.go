package services

import (
	"context"
	"errors"
	"testing"

	"matchq_server/models"
)

func searchingIntent(id, activityType string) models.Intent {
	return models.Intent{
		ParticipantID: id,
		DisplayName:   id,
		ActivityType:  activityType,
		Status:        models.StatusSearching,
		CreatedAt:     "2026-08-31T12:00:00Z",
	}
}

func TestMemoryStoreGetPutDelete(t *testing.T) {
	store := NewMemoryIntentStore()
	ctx := context.Background()

	if _, err := store.GetIntent(ctx, "alice"); !errors.Is(err, models.ErrIntentNotFound) {
		t.Fatalf("expected ErrIntentNotFound, got %v", err)
	}

	if err := store.PutIntent(ctx, searchingIntent("alice", models.ActivityVoice)); err != nil {
		t.Fatalf("PutIntent failed: %v", err)
	}
	intent, err := store.GetIntent(ctx, "alice")
	if err != nil {
		t.Fatalf("GetIntent failed: %v", err)
	}
	if intent.ParticipantID != "alice" || intent.Status != models.StatusSearching {
		t.Fatalf("unexpected intent: %+v", intent)
	}

	if err := store.DeleteIntent(ctx, "alice"); err != nil {
		t.Fatalf("DeleteIntent failed: %v", err)
	}
	// Deleting an absent record is not an error.
	if err := store.DeleteIntent(ctx, "alice"); err != nil {
		t.Fatalf("second DeleteIntent failed: %v", err)
	}
}

func TestMemoryStoreQueryOrderAndLimit(t *testing.T) {
	store := NewMemoryIntentStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		if err := store.PutIntent(ctx, searchingIntent(id, models.ActivityVoice)); err != nil {
			t.Fatalf("PutIntent(%s) failed: %v", id, err)
		}
	}
	if err := store.PutIntent(ctx, searchingIntent("other", models.ActivityAstro)); err != nil {
		t.Fatalf("PutIntent failed: %v", err)
	}

	intents, err := store.QuerySearching(ctx, models.ActivityVoice, 3)
	if err != nil {
		t.Fatalf("QuerySearching failed: %v", err)
	}
	if len(intents) != 3 {
		t.Fatalf("limit not honored: got %d intents", len(intents))
	}
	// Store order is insertion order.
	for i, want := range []string{"a", "b", "c"} {
		if intents[i].ParticipantID != want {
			t.Errorf("intents[%d] = %s, want %s", i, intents[i].ParticipantID, want)
		}
	}
}

func TestMemoryStoreClaimAbortsWhenNotSearching(t *testing.T) {
	store := NewMemoryIntentStore()
	ctx := context.Background()

	a := searchingIntent("a", models.ActivityVoice)
	b := searchingIntent("b", models.ActivityVoice)
	if err := store.PutIntent(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := store.PutIntent(ctx, b); err != nil {
		t.Fatal(err)
	}

	// Claim against a deleted candidate aborts.
	if err := store.DeleteIntent(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	if err := store.ClaimPair(ctx, a, b, "m-1"); !errors.Is(err, models.ErrClaimAborted) {
		t.Fatalf("expected ErrClaimAborted for deleted candidate, got %v", err)
	}

	// The claimant's record stays untouched after the abort.
	got, err := store.GetIntent(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusSearching || got.MatchID != nil {
		t.Fatalf("abort was not atomic: %+v", got)
	}
}

func TestMemoryStoreSubscribeSeesClaim(t *testing.T) {
	store := NewMemoryIntentStore()
	ctx := context.Background()

	a := searchingIntent("a", models.ActivityVoice)
	b := searchingIntent("b", models.ActivityVoice)
	if err := store.PutIntent(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := store.PutIntent(ctx, b); err != nil {
		t.Fatal(err)
	}

	updates, cancel := store.Subscribe("b")
	defer cancel()

	if err := store.ClaimPair(ctx, a, b, "m-1"); err != nil {
		t.Fatalf("ClaimPair failed: %v", err)
	}

	update := <-updates
	if update.Status != models.StatusPaired {
		t.Fatalf("subscriber saw status %q, want paired", update.Status)
	}
	if update.PairedWith == nil || *update.PairedWith != "a" {
		t.Fatalf("subscriber saw pairedWith %v, want a", update.PairedWith)
	}
	if update.MatchID == nil || *update.MatchID != "m-1" {
		t.Fatalf("subscriber saw matchId %v, want m-1", update.MatchID)
	}
}
