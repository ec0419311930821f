package services

import (
	"testing"

	"matchq_server/models"
)

func TestChangefeedFanout(t *testing.T) {
	feed := NewChangefeed()

	ch1, cancel1 := feed.Subscribe("alice")
	ch2, cancel2 := feed.Subscribe("alice")
	other, cancelOther := feed.Subscribe("bob")
	defer cancel1()
	defer cancel2()
	defer cancelOther()

	feed.Publish(models.Intent{ParticipantID: "alice", Status: models.StatusSearching})

	for i, ch := range []<-chan models.Intent{ch1, ch2} {
		select {
		case intent := <-ch:
			if intent.ParticipantID != "alice" {
				t.Errorf("subscriber %d got update for %s", i, intent.ParticipantID)
			}
		default:
			t.Fatalf("subscriber %d missed the update", i)
		}
	}

	select {
	case intent := <-other:
		t.Fatalf("bob's subscriber received alice's update: %+v", intent)
	default:
	}
}

func TestChangefeedCancelClosesChannel(t *testing.T) {
	feed := NewChangefeed()

	ch, cancel := feed.Subscribe("alice")
	cancel()
	cancel() // idempotent

	if _, ok := <-ch; ok {
		t.Fatal("channel not closed after cancel")
	}

	// Publishing after cancel must not panic or block.
	feed.Publish(models.Intent{ParticipantID: "alice"})
}

func TestChangefeedDropsWhenSubscriberFull(t *testing.T) {
	feed := NewChangefeed()

	ch, cancel := feed.Subscribe("alice")
	defer cancel()

	// Overfill the buffer; the excess is dropped, never blocking the writer.
	for i := 0; i < subscriptionBuffer+4; i++ {
		feed.Publish(models.Intent{ParticipantID: "alice"})
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	if received != subscriptionBuffer {
		t.Fatalf("received %d updates, want %d", received, subscriptionBuffer)
	}
}
