package models

// Intent is a participant's persisted declaration of wanting to be matched
// for a given activity type. One live record per participant, keyed by
// participantId; pairing links two records through matchId/pairedWith.
type Intent struct {
	ParticipantID string  `dynamodbav:"participantId" json:"participantId"`
	DisplayName   string  `dynamodbav:"displayName" json:"displayName"`
	PhotoURL      string  `dynamodbav:"photoURL" json:"photoURL"`
	ActivityType  string  `dynamodbav:"activityType" json:"activityType"`
	Status        string  `dynamodbav:"status" json:"status"`
	MatchID       *string `dynamodbav:"matchId,omitempty" json:"matchId,omitempty"`
	PairedWith    *string `dynamodbav:"pairedWith,omitempty" json:"pairedWith,omitempty"`
	CreatedAt     string  `dynamodbav:"createdAt" json:"createdAt"` // RFC3339
}

// IsSearching reports whether the intent is still claimable.
func (i Intent) IsSearching() bool {
	return i.Status == StatusSearching
}

// MatchQueueTable is the DynamoDB table name for matchmaking intents
const MatchQueueTable = "MatchQueue"

// ActivityStatusIndex is the GSI used for candidate queries (PK: activityType, SK: status)
const ActivityStatusIndex = "activityType-status-index"
