package services

import (
	"context"

	"matchq_server/models"
)

// IntentStore is the persistence contract the matchmaking engine runs against.
// It mirrors what a document store with conditional multi-record transactions
// offers: point reads/writes, a bounded equality-filtered query, an atomic
// two-record claim, and a per-key change subscription.
//
// DynamoIntentStore is the production implementation; MemoryIntentStore backs
// local development and tests with the same compare-and-swap semantics.
type IntentStore interface {
	// GetIntent reads a participant's intent. Returns models.ErrIntentNotFound
	// when no record exists.
	GetIntent(ctx context.Context, participantID string) (*models.Intent, error)

	// PutIntent upserts an intent record keyed by its participant id.
	PutIntent(ctx context.Context, intent models.Intent) error

	// DeleteIntent removes a participant's intent. Deleting an absent record
	// is not an error.
	DeleteIntent(ctx context.Context, participantID string) error

	// DeleteIntentIfSearching removes the intent only while the live record
	// still reads as searching, reporting whether a delete happened. A record
	// claimed since it was read is left alone; the pairing stands.
	DeleteIntentIfSearching(ctx context.Context, participantID string) (bool, error)

	// QuerySearching returns up to limit intents of the given activity type
	// that are still searching, in store order. The caller filters out itself.
	QuerySearching(ctx context.Context, activityType string, limit int32) ([]models.Intent, error)

	// ClaimPair atomically transitions both intents from searching to paired,
	// linked by matchID and referencing each other. The precondition that both
	// records still read as searching is enforced by the store; when it fails
	// (another claimant got there first) the result is models.ErrClaimAborted.
	ClaimPair(ctx context.Context, local, candidate models.Intent, matchID string) error

	// Subscribe returns a channel of updates to the participant's intent and a
	// cancel func. The channel is closed after cancel; updates may be dropped
	// if the subscriber does not keep up.
	Subscribe(participantID string) (<-chan models.Intent, func())
}
