package dynamodb

import (
	"context"
	"errors"

	"reach-backend/application/ports"
	"reach-backend/domain"
	apperrors "reach-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// FollowRepository implements ports.FollowRepository on the Follows table
// (composite key followerId + followingId). Edge writes and the paired
// counter updates on both endpoint profiles go through a single
// TransactWriteItems call, so a crash can no longer strand an edge whose
// counters were never adjusted.
type FollowRepository struct {
	client        *dynamodb.Client
	followsTable  string
	profilesTable string
	logger        *zap.Logger
}

// NewFollowRepository creates a new FollowRepository.
func NewFollowRepository(client *dynamodb.Client, followsTable, profilesTable string, logger *zap.Logger) ports.FollowRepository {
	return &FollowRepository{
		client:        client,
		followsTable:  followsTable,
		profilesTable: profilesTable,
		logger:        logger,
	}
}

func followKey(followerID, followingID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"followerId":  &types.AttributeValueMemberS{Value: followerID},
		"followingId": &types.AttributeValueMemberS{Value: followingID},
	}
}

// Exists reports whether the edge is present.
func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.followsTable),
		Key:       followKey(followerID, followingID),
	})
	if err != nil {
		r.logger.Error("Failed to get follow edge",
			zap.String("followerID", followerID),
			zap.String("followingID", followingID),
			zap.Error(err),
		)
		return false, apperrors.NewDatabaseError("get follow", err)
	}
	return out.Item != nil, nil
}

// CreateWithCounters writes the edge conditioned on its absence and
// increments both endpoint counters in the same transaction.
func (r *FollowRepository) CreateWithCounters(ctx context.Context, edge *domain.FollowRelationship) error {
	item, err := attributevalue.MarshalMap(edge)
	if err != nil {
		return apperrors.NewDatabaseError("marshal follow", err)
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(r.followsTable),
					Item:                item,
					ConditionExpression: aws.String("attribute_not_exists(followerId)"),
				},
			},
			r.counterUpdate(edge.FollowerID, "following", "+"),
			r.counterUpdate(edge.FollowingID, "followers", "+"),
		},
	})
	if err != nil {
		if transactionConditionFailed(err) {
			return apperrors.NewConflictError("already following this user")
		}
		r.logger.Error("Failed to create follow edge",
			zap.String("followerID", edge.FollowerID),
			zap.String("followingID", edge.FollowingID),
			zap.Error(err),
		)
		return apperrors.NewDatabaseError("create follow", err)
	}

	r.logger.Debug("Created follow edge",
		zap.String("followerID", edge.FollowerID),
		zap.String("followingID", edge.FollowingID),
	)
	return nil
}

// DeleteWithCounters removes the edge conditioned on its presence and
// decrements both endpoint counters in the same transaction.
func (r *FollowRepository) DeleteWithCounters(ctx context.Context, followerID, followingID string) error {
	_, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Delete: &types.Delete{
					TableName:           aws.String(r.followsTable),
					Key:                 followKey(followerID, followingID),
					ConditionExpression: aws.String("attribute_exists(followerId)"),
				},
			},
			r.counterUpdate(followerID, "following", "-"),
			r.counterUpdate(followingID, "followers", "-"),
		},
	})
	if err != nil {
		if transactionConditionFailed(err) {
			return apperrors.NewNotFoundError("follow relationship")
		}
		r.logger.Error("Failed to delete follow edge",
			zap.String("followerID", followerID),
			zap.String("followingID", followingID),
			zap.Error(err),
		)
		return apperrors.NewDatabaseError("delete follow", err)
	}

	r.logger.Debug("Deleted follow edge",
		zap.String("followerID", followerID),
		zap.String("followingID", followingID),
	)
	return nil
}

// counterUpdate builds the add-if-absent-else-adjust update for one
// profile counter, the same expression the store applies on both sides of
// every follow and unfollow.
func (r *FollowRepository) counterUpdate(userID, attribute, sign string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName: aws.String(r.profilesTable),
			Key: map[string]types.AttributeValue{
				"userId": &types.AttributeValueMemberS{Value: userID},
			},
			UpdateExpression: aws.String("SET #c = if_not_exists(#c, :zero) " + sign + " :one"),
			ExpressionAttributeNames: map[string]string{
				"#c": attribute,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":zero": &types.AttributeValueMemberN{Value: "0"},
				":one":  &types.AttributeValueMemberN{Value: "1"},
			},
		},
	}
}

// transactionConditionFailed reports whether a transaction was cancelled
// because the edge condition (index 0) did not hold.
func transactionConditionFailed(err error) bool {
	var cancelled *types.TransactionCanceledException
	if !errors.As(err, &cancelled) {
		return false
	}
	if len(cancelled.CancellationReasons) == 0 {
		return false
	}
	code := cancelled.CancellationReasons[0].Code
	return code != nil && *code == "ConditionalCheckFailed"
}
