package models

// UserProfile defines the read-side structure for user profiles, used to
// enrich the partner card after a pairing commits.
type UserProfile struct {
	ParticipantID string   `dynamodbav:"participantId,omitempty" json:"participantId,omitempty"`
	DisplayName   string   `dynamodbav:"displayName,omitempty" json:"displayName,omitempty"`
	Bio           string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Photos        []string `dynamodbav:"photos,omitempty" json:"photos,omitempty"`
	PhotoURL      string   `dynamodbav:"photoURL,omitempty" json:"photoURL,omitempty"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
