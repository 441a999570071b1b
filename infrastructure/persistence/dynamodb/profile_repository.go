package dynamodb

import (
	"context"
	"errors"

	"reach-backend/application/ports"
	"reach-backend/domain"
	apperrors "reach-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const defaultScanLimit = 10

// ProfileRepository implements ports.ProfileRepository on the Profiles
// table, keyed by userId.
type ProfileRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ProfileRepository {
	return &ProfileRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

func profileKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

// Save writes a profile with replace semantics.
func (r *ProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	av, err := attributevalue.MarshalMap(profile)
	if err != nil {
		return apperrors.NewDatabaseError("marshal profile", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("Failed to save profile",
			zap.String("userID", profile.UserID),
			zap.Error(err),
		)
		return apperrors.NewDatabaseError("put profile", err)
	}
	return nil
}

// FindByID returns the profile or a NotFound error.
func (r *ProfileRepository) FindByID(ctx context.Context, userID string) (*domain.Profile, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       profileKey(userID),
	})
	if err != nil {
		r.logger.Error("Failed to get profile",
			zap.String("userID", userID),
			zap.Error(err),
		)
		return nil, apperrors.NewDatabaseError("get profile", err)
	}
	if out.Item == nil {
		return nil, apperrors.NewNotFoundError("profile")
	}

	var profile domain.Profile
	if err := attributevalue.UnmarshalMap(out.Item, &profile); err != nil {
		return nil, apperrors.NewDatabaseError("unmarshal profile", err)
	}
	return &profile, nil
}

// ApplyUpdate merges the non-nil fields of update into the stored record.
// The condition on userId turns an update of an absent key into NotFound
// instead of creating a phantom record.
func (r *ProfileRepository) ApplyUpdate(ctx context.Context, userID string, update *domain.ProfileUpdate, updatedAt string) (*domain.Profile, error) {
	builder := expression.Set(expression.Name("updatedAt"), expression.Value(updatedAt))
	for name, value := range updateFields(update) {
		builder = builder.Set(expression.Name(name), expression.Value(value))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(builder).
		WithCondition(expression.AttributeExists(expression.Name("userId"))).
		Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("build profile update", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       profileKey(userID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return nil, apperrors.NewNotFoundError("profile")
		}
		r.logger.Error("Failed to update profile",
			zap.String("userID", userID),
			zap.Error(err),
		)
		return nil, apperrors.NewDatabaseError("update profile", err)
	}

	var profile domain.Profile
	if err := attributevalue.UnmarshalMap(out.Attributes, &profile); err != nil {
		return nil, apperrors.NewDatabaseError("unmarshal profile", err)
	}
	return &profile, nil
}

// Delete removes a profile by key. Absent keys are a no-op success.
func (r *ProfileRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       profileKey(userID),
	})
	if err != nil {
		r.logger.Error("Failed to delete profile",
			zap.String("userID", userID),
			zap.Error(err),
		)
		return apperrors.NewDatabaseError("delete profile", err)
	}
	return nil
}

// List scans a page of profiles.
func (r *ProfileRepository) List(ctx context.Context, limit int, cursor string) ([]domain.Profile, string, error) {
	if limit <= 0 {
		limit = defaultScanLimit
	}
	startKey, err := DecodeCursor(cursor)
	if err != nil {
		return nil, "", apperrors.NewValidationError(err.Error())
	}

	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:         aws.String(r.tableName),
		Limit:             aws.Int32(int32(limit)),
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		r.logger.Error("Failed to scan profiles", zap.Error(err))
		return nil, "", apperrors.NewDatabaseError("scan profiles", err)
	}

	profiles := make([]domain.Profile, 0, len(out.Items))
	for _, item := range out.Items {
		var profile domain.Profile
		if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
			return nil, "", apperrors.NewDatabaseError("unmarshal profile", err)
		}
		profiles = append(profiles, profile)
	}

	next, err := EncodeCursor(out.LastEvaluatedKey)
	if err != nil {
		return nil, "", apperrors.NewDatabaseError("encode cursor", err)
	}
	return profiles, next, nil
}

// GetCounters reads the denormalized counters, treating absent profiles
// and attributes as zero and clamping any drifted negative value.
func (r *ProfileRepository) GetCounters(ctx context.Context, userID string) (int, int, error) {
	expr, err := expression.NewBuilder().
		WithProjection(expression.NamesList(
			expression.Name("followers"),
			expression.Name("following"),
		)).
		Build()
	if err != nil {
		return 0, 0, apperrors.NewDatabaseError("build counter projection", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      profileKey(userID),
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		r.logger.Error("Failed to get profile counters",
			zap.String("userID", userID),
			zap.Error(err),
		)
		return 0, 0, apperrors.NewDatabaseError("get counters", err)
	}
	if out.Item == nil {
		return 0, 0, nil
	}

	var counters struct {
		Followers int `dynamodbav:"followers"`
		Following int `dynamodbav:"following"`
	}
	if err := attributevalue.UnmarshalMap(out.Item, &counters); err != nil {
		return 0, 0, apperrors.NewDatabaseError("unmarshal counters", err)
	}
	return clampNonNegative(counters.Followers), clampNonNegative(counters.Following), nil
}

// updateFields flattens the allow-listed optional fields into attribute
// name/value pairs.
func updateFields(update *domain.ProfileUpdate) map[string]string {
	fields := make(map[string]string)
	set := func(name string, value *string) {
		if value != nil {
			fields[name] = *value
		}
	}
	set("firstName", update.FirstName)
	set("lastName", update.LastName)
	set("email", update.Email)
	set("phone", update.Phone)
	set("institution", update.Institution)
	set("fieldOfInterest", update.FieldOfInterest)
	set("bio", update.Bio)
	return fields
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
