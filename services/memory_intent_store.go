package services

import (
	"context"
	"sync"

	"matchq_server/models"
)

// MemoryIntentStore implements IntentStore on a mutex-guarded map with the
// same compare-and-swap claim semantics as the DynamoDB store. It backs local
// development (STORE=memory) and the test suite; it is not durable.
type MemoryIntentStore struct {
	mu      sync.Mutex
	intents map[string]models.Intent
	order   []string // insertion order, so queries page deterministically
	feed    *Changefeed
}

func NewMemoryIntentStore() *MemoryIntentStore {
	return &MemoryIntentStore{
		intents: map[string]models.Intent{},
		feed:    NewChangefeed(),
	}
}

func (s *MemoryIntentStore) GetIntent(ctx context.Context, participantID string) (*models.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, ok := s.intents[participantID]
	if !ok {
		return nil, models.ErrIntentNotFound
	}
	return &intent, nil
}

func (s *MemoryIntentStore) PutIntent(ctx context.Context, intent models.Intent) error {
	s.mu.Lock()
	if _, exists := s.intents[intent.ParticipantID]; !exists {
		s.order = append(s.order, intent.ParticipantID)
	}
	s.intents[intent.ParticipantID] = intent
	s.mu.Unlock()

	s.feed.Publish(intent)
	return nil
}

func (s *MemoryIntentStore) DeleteIntent(ctx context.Context, participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(participantID)
	return nil
}

// DeleteIntentIfSearching re-checks the live record under the mutex before
// removing it, matching the conditional delete of the production store.
func (s *MemoryIntentStore) DeleteIntentIfSearching(ctx context.Context, participantID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, exists := s.intents[participantID]
	if !exists || intent.Status != models.StatusSearching {
		return false, nil
	}
	s.removeLocked(participantID)
	return true, nil
}

func (s *MemoryIntentStore) removeLocked(participantID string) {
	if _, exists := s.intents[participantID]; !exists {
		return
	}
	delete(s.intents, participantID)
	for i, id := range s.order {
		if id == participantID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *MemoryIntentStore) QuerySearching(ctx context.Context, activityType string, limit int32) ([]models.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var results []models.Intent
	for _, id := range s.order {
		intent := s.intents[id]
		if intent.ActivityType != activityType || intent.Status != models.StatusSearching {
			continue
		}
		results = append(results, intent)
		if int32(len(results)) >= limit {
			break
		}
	}
	return results, nil
}

// ClaimPair commits only if both intents still read as searching, mirroring
// the conditional transaction of the production store.
func (s *MemoryIntentStore) ClaimPair(ctx context.Context, local, candidate models.Intent, matchID string) error {
	if local.ParticipantID == candidate.ParticipantID {
		return models.ErrSelfClaim
	}

	s.mu.Lock()
	a, okA := s.intents[local.ParticipantID]
	b, okB := s.intents[candidate.ParticipantID]
	if !okA || !okB || a.Status != models.StatusSearching || b.Status != models.StatusSearching {
		s.mu.Unlock()
		return models.ErrClaimAborted
	}

	a = pairedCopy(a, matchID, candidate.ParticipantID)
	b = pairedCopy(b, matchID, local.ParticipantID)
	s.intents[a.ParticipantID] = a
	s.intents[b.ParticipantID] = b
	s.mu.Unlock()

	s.feed.Publish(a)
	s.feed.Publish(b)
	return nil
}

func (s *MemoryIntentStore) Subscribe(participantID string) (<-chan models.Intent, func()) {
	return s.feed.Subscribe(participantID)
}
