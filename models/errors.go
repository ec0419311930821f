package models

import "errors"

var (
	// ErrClaimAborted means the store rejected a pairing transaction because one
	// of the two intents was no longer searching. Losing a claim race is the
	// expected outcome, not a failure; callers retry on the next scan tick.
	ErrClaimAborted = errors.New("claim aborted: intent no longer searching")

	// ErrIntentNotFound means no intent record exists for the participant.
	ErrIntentNotFound = errors.New("intent not found")

	// ErrUnauthenticated means the caller presented no participant identity.
	ErrUnauthenticated = errors.New("unauthenticated: participant id required")

	// ErrInvalidActivityType means the requested activity type is unknown.
	ErrInvalidActivityType = errors.New("invalid activity type")

	// ErrSelfClaim means a claim was attempted against the claimant's own intent.
	ErrSelfClaim = errors.New("cannot claim own intent")
)
