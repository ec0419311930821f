package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"matchq_server/models"
)

// MatchSession is the per-participant live state of a search: a scanner
// goroutine polling for candidates on a fixed interval, and a notifier
// goroutine watching the participant's own intent for the pairing outcome.
// The two share nothing but the session's context; a pairing can commit from
// either side and both converge through the notifier.
type MatchSession struct {
	svc           *MatchmakingService
	participantID string
	activityType  string
	onMatch       func(models.MatchResult)

	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup
	deliverOnce sync.Once
	closeOnce   sync.Once
}

// StartSession begins scanning and listening for the given participant. The
// participant must have joined already. onMatch fires exactly once, from the
// notifier goroutine, when the participant's intent is observed paired; it
// must not call Close or Leave on this session. Callers own the session and
// must Close (or Leave) it when done.
func (ms *MatchmakingService) StartSession(participantID, activityType string, onMatch func(models.MatchResult)) (*MatchSession, error) {
	if strings.TrimSpace(participantID) == "" {
		return nil, models.ErrUnauthenticated
	}
	if !models.IsValidActivityType(activityType) {
		return nil, models.ErrInvalidActivityType
	}

	ctx, cancel := context.WithCancel(context.Background())
	updates, unsubscribe := ms.Store.Subscribe(participantID)

	s := &MatchSession{
		svc:           ms,
		participantID: participantID,
		activityType:  activityType,
		onMatch:       onMatch,
		cancel:        cancel,
		unsubscribe:   unsubscribe,
	}

	if ms.Metrics != nil {
		ms.Metrics.SessionStarted()
	}

	s.wg.Add(2)
	go s.runScanner(ctx)
	go s.runNotifier(ctx, updates)

	log.Printf("🔍 Session started: %s searching %s", participantID, activityType)
	return s, nil
}

// runScanner wakes on the poll interval and attempts at most one claim per
// tick. Transient store failures are absorbed; the next tick retries.
func (s *MatchSession) runScanner(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.svc.pollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			done, err := s.svc.scanOnce(ctx, s.participantID, s.activityType)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("⚠️ Scan failed for %s: %v", s.participantID, err)
				continue
			}
			if done {
				return
			}
		}
	}
}

// runNotifier drains intent updates until the record is observed paired, then
// resolves the partner and delivers the match event once.
//
// The subscription only carries changes made after it was registered, so the
// notifier first reads the current record: a claim that landed between the
// join and the subscribe would otherwise go unnoticed.
func (s *MatchSession) runNotifier(ctx context.Context, updates <-chan models.Intent) {
	defer s.wg.Done()

	if intent, err := s.svc.Store.GetIntent(ctx, s.participantID); err == nil &&
		intent.Status == models.StatusPaired && intent.PairedWith != nil && intent.MatchID != nil {
		s.deliver(ctx, *intent)
		s.cancel()
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case intent, ok := <-updates:
			if !ok {
				return
			}
			if intent.Status != models.StatusPaired || intent.PairedWith == nil || intent.MatchID == nil {
				continue
			}
			s.deliver(ctx, intent)
			s.cancel() // the scanner has nothing left to look for
			return
		}
	}
}

func (s *MatchSession) deliver(ctx context.Context, intent models.Intent) {
	partner := s.svc.resolvePartner(ctx, *intent.PairedWith)
	result := models.MatchResult{
		MatchID:      *intent.MatchID,
		ActivityType: s.activityType,
		Partner:      partner,
	}

	s.deliverOnce.Do(func() {
		log.Printf("💞 %s matched with %s (match %s)", s.participantID, partner.ParticipantID, result.MatchID)
		if s.onMatch != nil {
			s.onMatch(result)
		}
	})
}

// ParticipantID returns the participant this session searches for.
func (s *MatchSession) ParticipantID() string { return s.participantID }

// ActivityType returns the session's activity type.
func (s *MatchSession) ActivityType() string { return s.activityType }

// Close stops the scanner, cancels the subscription, and waits for both
// goroutines to exit. It does not touch the intent record. Safe to call more
// than once.
func (s *MatchSession) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.unsubscribe()
		s.wg.Wait()
		if s.svc.Metrics != nil {
			s.svc.Metrics.SessionEnded()
		}
		log.Printf("🛑 Session closed for %s", s.participantID)
	})
}

// Leave tears the session down and then deletes the intent record. Teardown
// strictly precedes the delete so no subscription callback can fire on a
// record the caller no longer considers live.
func (s *MatchSession) Leave(ctx context.Context) error {
	s.Close()
	return s.svc.Leave(ctx, s.participantID)
}
