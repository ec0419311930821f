package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"matchq_server/metrics"
	"matchq_server/models"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// DefaultPollInterval is the fixed candidate-scan cadence.
	DefaultPollInterval = 2 * time.Second

	// DefaultCandidatePageSize bounds each candidate query.
	DefaultCandidatePageSize = 10
)

// MatchmakingService pairs searching intents of the same activity type. It is
// stateless over an injected IntentStore; per-participant scan/notify state
// lives in MatchSession values created by StartSession.
type MatchmakingService struct {
	Store    IntentStore
	Profiles *UserProfileService

	// PollInterval and CandidatePageSize fall back to the defaults when zero.
	PollInterval      time.Duration
	CandidatePageSize int32

	// Limiter, when set, gates candidate queries across all sessions so a
	// large pool cannot exhaust the store's read capacity.
	Limiter *rate.Limiter

	// Metrics is optional.
	Metrics metrics.Recorder
}

// Join upserts the caller's intent with status searching, clearing any prior
// pairing fields. Calling it while already searching just refreshes the
// display fields and timestamp.
func (ms *MatchmakingService) Join(ctx context.Context, participantID, activityType, displayName, photoURL string) error {
	if strings.TrimSpace(participantID) == "" {
		return models.ErrUnauthenticated
	}
	if !models.IsValidActivityType(activityType) {
		return fmt.Errorf("%w: %q", models.ErrInvalidActivityType, activityType)
	}

	intent := models.Intent{
		ParticipantID: participantID,
		DisplayName:   displayName,
		PhotoURL:      photoURL,
		ActivityType:  activityType,
		Status:        models.StatusSearching,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	if err := ms.Store.PutIntent(ctx, intent); err != nil {
		return fmt.Errorf("failed to join pool: %w", err)
	}

	if ms.Metrics != nil {
		ms.Metrics.RecordJoin(activityType)
	}
	log.Printf("✅ %s joined the %s pool", participantID, activityType)
	return nil
}

// Leave deletes the caller's intent record. Stopping the caller's session
// (scanner and subscription) is the session's job and must happen first; see
// MatchSession.Leave.
func (ms *MatchmakingService) Leave(ctx context.Context, participantID string) error {
	if strings.TrimSpace(participantID) == "" {
		return models.ErrUnauthenticated
	}

	if err := ms.Store.DeleteIntent(ctx, participantID); err != nil {
		return fmt.Errorf("failed to leave pool: %w", err)
	}

	if ms.Metrics != nil {
		ms.Metrics.RecordLeave()
	}
	log.Printf("👋 %s left the pool", participantID)
	return nil
}

// GetIntent returns the caller's current intent record.
func (ms *MatchmakingService) GetIntent(ctx context.Context, participantID string) (*models.Intent, error) {
	if strings.TrimSpace(participantID) == "" {
		return nil, models.ErrUnauthenticated
	}
	return ms.Store.GetIntent(ctx, participantID)
}

func (ms *MatchmakingService) pollInterval() time.Duration {
	if ms.PollInterval > 0 {
		return ms.PollInterval
	}
	return DefaultPollInterval
}

func (ms *MatchmakingService) pageSize() int32 {
	if ms.CandidatePageSize > 0 {
		return ms.CandidatePageSize
	}
	return DefaultCandidatePageSize
}

// scanOnce runs one tick of the candidate scan: query the pool, take the
// first usable candidate in store order, attempt the claim, and stop for this
// tick no matter how the claim went. A lost race is not an error.
//
// Returns true when a claim committed, meaning scanning is done.
func (ms *MatchmakingService) scanOnce(ctx context.Context, participantID, activityType string) (bool, error) {
	if ms.Limiter != nil {
		if err := ms.Limiter.Wait(ctx); err != nil {
			return false, err
		}
	}

	start := time.Now()
	candidates, err := ms.Store.QuerySearching(ctx, activityType, ms.pageSize())
	if ms.Metrics != nil {
		ms.Metrics.RecordScanLatency(time.Since(start))
	}
	if err != nil {
		return false, fmt.Errorf("candidate query failed: %w", err)
	}

	for _, candidate := range candidates {
		if candidate.ParticipantID == "" || candidate.ParticipantID == participantID {
			continue
		}
		if !candidate.IsSearching() {
			continue
		}
		return ms.claim(ctx, participantID, candidate)
	}
	return false, nil
}

// claim attempts the atomic pairing transaction against one candidate.
func (ms *MatchmakingService) claim(ctx context.Context, participantID string, candidate models.Intent) (bool, error) {
	if candidate.ParticipantID == participantID {
		return false, models.ErrSelfClaim
	}

	local, err := ms.Store.GetIntent(ctx, participantID)
	if err != nil {
		return false, fmt.Errorf("failed to read own intent before claim: %w", err)
	}
	if !local.IsSearching() {
		// Already paired by the other side; the notifier will deliver it.
		return true, nil
	}

	matchID := uuid.NewString()
	err = ms.Store.ClaimPair(ctx, *local, candidate, matchID)
	if errors.Is(err, models.ErrClaimAborted) {
		if ms.Metrics != nil {
			ms.Metrics.RecordClaimAborted()
		}
		log.Printf("🔁 %s lost the claim race for %s, rescanning next tick", participantID, candidate.ParticipantID)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if ms.Metrics != nil {
		ms.Metrics.RecordClaimCommitted()
	}
	log.Printf("✅ %s claimed %s (match %s)", participantID, candidate.ParticipantID, matchID)
	return true, nil
}

// resolvePartner builds the partner card for a committed pairing. The pairing
// is already durable, so every failure here degrades the card instead of
// surfacing: profile read first, then the partner's own intent fields, then
// the bare id.
func (ms *MatchmakingService) resolvePartner(ctx context.Context, partnerID string) models.Partner {
	if ms.Profiles != nil {
		partner, err := ms.Profiles.GetPartnerCard(ctx, partnerID)
		if err == nil {
			return partner
		}
		log.Printf("⚠️ Partner profile fetch failed for %s, falling back to intent data: %v", partnerID, err)
	}

	if intent, err := ms.Store.GetIntent(ctx, partnerID); err == nil {
		return models.Partner{
			ParticipantID: partnerID,
			DisplayName:   intent.DisplayName,
			PhotoURL:      intent.PhotoURL,
		}
	}

	return models.Partner{ParticipantID: partnerID}
}
