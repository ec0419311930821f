package services

import (
	"context"
	"fmt"
	"strings"

	"matchq_server/models"
	"matchq_server/utils"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserProfileService reads user profiles to enrich partner cards after a
// pairing commits. Profile writes belong to a separate service; this is the
// read side only.
type UserProfileService struct {
	Dynamo *DynamoService

	// S3 presigns photo keys into fetchable URLs when set.
	S3 *S3Service
}

// GetPartnerCard fetches a participant's profile and flattens it into the
// denormalized card shape the match event carries.
func (ps *UserProfileService) GetPartnerCard(ctx context.Context, participantID string) (models.Partner, error) {
	key := map[string]types.AttributeValue{
		"participantId": &types.AttributeValueMemberS{Value: participantID},
	}

	item, err := ps.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return models.Partner{}, fmt.Errorf("profile not found for %s: %w", participantID, err)
	}

	photo := utils.ExtractFirstPhoto(item, "photos")
	if photo == "" {
		photo = utils.ExtractString(item, "photoURL")
	}

	return models.Partner{
		ParticipantID: participantID,
		DisplayName:   utils.ExtractString(item, "displayName"),
		PhotoURL:      ps.presentablePhotoURL(photo),
	}, nil
}

// GetProfile returns the full profile record.
func (ps *UserProfileService) GetProfile(ctx context.Context, participantID string) (*models.UserProfile, error) {
	item, err := ps.Dynamo.GetItem(ctx, models.UserProfilesTable, map[string]types.AttributeValue{
		"participantId": &types.AttributeValueMemberS{Value: participantID},
	})
	if err != nil {
		return nil, fmt.Errorf("profile not found for %s: %w", participantID, err)
	}

	profile := &models.UserProfile{
		ParticipantID: utils.ExtractString(item, "participantId"),
		DisplayName:   utils.ExtractString(item, "displayName"),
		Bio:           utils.ExtractString(item, "bio"),
		PhotoURL:      ps.presentablePhotoURL(utils.ExtractFirstPhoto(item, "photos")),
	}
	return profile, nil
}

// presentablePhotoURL presigns bare S3 keys; full URLs pass through. Failures
// degrade to the raw value since the card is best-effort display data.
func (ps *UserProfileService) presentablePhotoURL(photo string) string {
	if photo == "" || ps.S3 == nil || strings.Contains(photo, "://") {
		return photo
	}
	url, err := ps.S3.GenerateReadURL(photo)
	if err != nil {
		return photo
	}
	return url
}
