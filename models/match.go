package models

// Partner is the denormalized card for the other side of a pairing,
// delivered to the UI in the match event.
type Partner struct {
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName"`
	PhotoURL      string `json:"photoURL"`
}

// MatchResult is the one-shot payload emitted when a pairing commits.
// It is delivered exactly once per session, from whichever side's claim won.
type MatchResult struct {
	MatchID      string  `json:"matchId"`
	ActivityType string  `json:"activityType"`
	Partner      Partner `json:"partner"`
}
