package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"matchq_server/models"
	"matchq_server/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoIntentStore implements IntentStore on the MatchQueue table. The atomic
// pair claim is a single TransactWriteItems call carrying two conditional
// updates, so no interleaving of concurrent claimants can commit against the
// same intent twice or leave the pair half-applied.
//
// Change subscriptions are served by an in-process Changefeed fed after every
// committed write. One server process fronts the pool; the feed plays the role
// the store's own push channel plays in a multi-node deployment.
type DynamoIntentStore struct {
	Dynamo *DynamoService
	Feed   *Changefeed
}

func NewDynamoIntentStore(dynamo *DynamoService) *DynamoIntentStore {
	return &DynamoIntentStore{Dynamo: dynamo, Feed: NewChangefeed()}
}

func intentKey(participantID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"participantId": &types.AttributeValueMemberS{Value: participantID},
	}
}

// GetIntent reads a participant's intent record
func (s *DynamoIntentStore) GetIntent(ctx context.Context, participantID string) (*models.Intent, error) {
	item, err := s.Dynamo.GetItem(ctx, models.MatchQueueTable, intentKey(participantID))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, models.ErrIntentNotFound
		}
		return nil, err
	}

	var intent models.Intent
	if err := attributevalue.UnmarshalMap(item, &intent); err != nil {
		return nil, fmt.Errorf("failed to unmarshal intent: %w", err)
	}
	return &intent, nil
}

// PutIntent upserts an intent record and publishes the new value
func (s *DynamoIntentStore) PutIntent(ctx context.Context, intent models.Intent) error {
	if err := s.Dynamo.PutItem(ctx, models.MatchQueueTable, intent); err != nil {
		return err
	}
	s.Feed.Publish(intent)
	return nil
}

// DeleteIntent removes a participant's intent record
func (s *DynamoIntentStore) DeleteIntent(ctx context.Context, participantID string) error {
	return s.Dynamo.DeleteItem(ctx, models.MatchQueueTable, intentKey(participantID))
}

// DeleteIntentIfSearching deletes the record behind a "#status = :searching"
// condition, so a claim committing after the caller read the record turns the
// delete into a no-op instead of destroying a live pairing.
func (s *DynamoIntentStore) DeleteIntentIfSearching(ctx context.Context, participantID string) (bool, error) {
	err := s.Dynamo.DeleteItemWithCondition(ctx, models.MatchQueueTable, intentKey(participantID),
		"#status = :searching",
		map[string]string{"#status": "status"},
		map[string]types.AttributeValue{
			":searching": &types.AttributeValueMemberS{Value: models.StatusSearching},
		},
	)
	if err != nil {
		var failed *types.ConditionalCheckFailedException
		if errors.As(err, &failed) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// QuerySearching returns up to limit searching intents for an activity type,
// in index order. Items that fail to unmarshal are skipped.
func (s *DynamoIntentStore) QuerySearching(ctx context.Context, activityType string, limit int32) ([]models.Intent, error) {
	keyCondition := "activityType = :type AND #status = :status"
	expressionValues := map[string]types.AttributeValue{
		":type":   &types.AttributeValueMemberS{Value: activityType},
		":status": &types.AttributeValueMemberS{Value: models.StatusSearching},
	}
	expressionNames := map[string]string{"#status": "status"}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MatchQueueTable, models.ActivityStatusIndex, keyCondition, expressionValues, expressionNames, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query searching intents: %w", err)
	}

	intents := make([]models.Intent, 0, len(items))
	for _, item := range items {
		var intent models.Intent
		if err := attributevalue.UnmarshalMap(item, &intent); err != nil {
			log.Printf("⚠️ Skipping malformed intent %q: %v", utils.ExtractString(item, "participantId"), err)
			continue
		}
		intents = append(intents, intent)
	}
	return intents, nil
}

// ClaimPair issues the two-record pairing transaction. Both updates carry a
// "#status = :searching" precondition, so the commit is all-or-nothing: either
// both intents flip to paired with the same matchId, or neither changes.
func (s *DynamoIntentStore) ClaimPair(ctx context.Context, local, candidate models.Intent, matchID string) error {
	if local.ParticipantID == candidate.ParticipantID {
		return models.ErrSelfClaim
	}

	items := []types.TransactWriteItem{
		pairUpdate(local.ParticipantID, candidate.ParticipantID, matchID),
		pairUpdate(candidate.ParticipantID, local.ParticipantID, matchID),
	}

	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			for _, reason := range canceled.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					return models.ErrClaimAborted
				}
			}
		}
		return fmt.Errorf("claim transaction failed: %w", err)
	}

	s.Feed.Publish(pairedCopy(local, matchID, candidate.ParticipantID))
	s.Feed.Publish(pairedCopy(candidate, matchID, local.ParticipantID))
	return nil
}

// Subscribe registers for updates to a participant's intent
func (s *DynamoIntentStore) Subscribe(participantID string) (<-chan models.Intent, func()) {
	return s.Feed.Subscribe(participantID)
}

func pairUpdate(participantID, partnerID, matchID string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(models.MatchQueueTable),
			Key:                 intentKey(participantID),
			UpdateExpression:    aws.String("SET #status = :paired, matchId = :matchId, pairedWith = :partner"),
			ConditionExpression: aws.String("#status = :searching"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":paired":    &types.AttributeValueMemberS{Value: models.StatusPaired},
				":searching": &types.AttributeValueMemberS{Value: models.StatusSearching},
				":matchId":   &types.AttributeValueMemberS{Value: matchID},
				":partner":   &types.AttributeValueMemberS{Value: partnerID},
			},
		},
	}
}

func pairedCopy(intent models.Intent, matchID, partnerID string) models.Intent {
	intent.Status = models.StatusPaired
	intent.MatchID = &matchID
	intent.PairedWith = &partnerID
	return intent
}
