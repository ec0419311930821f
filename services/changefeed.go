package services

import (
	"log"
	"sync"

	"matchq_server/models"
)

// subscriptionBuffer bounds each subscriber channel. A session sees a handful
// of updates over its lifetime (join refreshes plus one pairing), so a slow
// consumer dropping beyond this is already broken.
const subscriptionBuffer = 8

// Changefeed fans intent updates out to per-participant subscribers. It is the
// in-process stand-in for the store's change feed: every committed write is
// published here so a participant's notifier observes its own record change
// regardless of which side's claim performed the write.
type Changefeed struct {
	mu   sync.Mutex
	subs map[string]map[int]chan models.Intent
	next int
}

func NewChangefeed() *Changefeed {
	return &Changefeed{subs: map[string]map[int]chan models.Intent{}}
}

// Subscribe registers for updates to one participant's intent. The returned
// cancel func is idempotent and closes the channel.
func (cf *Changefeed) Subscribe(participantID string) (<-chan models.Intent, func()) {
	cf.mu.Lock()
	defer cf.mu.Unlock()

	ch := make(chan models.Intent, subscriptionBuffer)
	id := cf.next
	cf.next++

	if cf.subs[participantID] == nil {
		cf.subs[participantID] = map[int]chan models.Intent{}
	}
	cf.subs[participantID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			cf.mu.Lock()
			defer cf.mu.Unlock()
			if set, ok := cf.subs[participantID]; ok {
				delete(set, id)
				if len(set) == 0 {
					delete(cf.subs, participantID)
				}
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers an intent update to every subscriber of that participant.
// Delivery is non-blocking; a full subscriber buffer drops the update.
func (cf *Changefeed) Publish(intent models.Intent) {
	cf.mu.Lock()
	defer cf.mu.Unlock()

	for _, ch := range cf.subs[intent.ParticipantID] {
		select {
		case ch <- intent:
		default:
			log.Printf("⚠️ Dropping intent update for %s: subscriber not keeping up", intent.ParticipantID)
		}
	}
}
