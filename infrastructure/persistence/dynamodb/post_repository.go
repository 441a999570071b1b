package dynamodb

import (
	"context"

	"reach-backend/application/ports"
	"reach-backend/domain"
	apperrors "reach-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// PostRepository implements ports.PostRepository on the Posts table,
// keyed by postId.
type PostRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.PostRepository {
	return &PostRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

func postKey(postID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"postId": &types.AttributeValueMemberS{Value: postID},
	}
}

// Save writes a post.
func (r *PostRepository) Save(ctx context.Context, post *domain.Post) error {
	av, err := attributevalue.MarshalMap(post)
	if err != nil {
		return apperrors.NewDatabaseError("marshal post", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("Failed to save post",
			zap.String("postID", post.PostID),
			zap.Error(err),
		)
		return apperrors.NewDatabaseError("put post", err)
	}
	return nil
}

// FindByID returns the post or a NotFound error.
func (r *PostRepository) FindByID(ctx context.Context, postID string) (*domain.Post, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       postKey(postID),
	})
	if err != nil {
		r.logger.Error("Failed to get post",
			zap.String("postID", postID),
			zap.Error(err),
		)
		return nil, apperrors.NewDatabaseError("get post", err)
	}
	if out.Item == nil {
		return nil, apperrors.NewNotFoundError("post")
	}

	var post domain.Post
	if err := attributevalue.UnmarshalMap(out.Item, &post); err != nil {
		return nil, apperrors.NewDatabaseError("unmarshal post", err)
	}
	return &post, nil
}

// List scans a page of posts.
func (r *PostRepository) List(ctx context.Context, limit int, cursor string) ([]domain.Post, string, error) {
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
		r.logger.Error("Failed to scan posts", zap.Error(err))
		return nil, "", apperrors.NewDatabaseError("scan posts", err)
	}

	posts := make([]domain.Post, 0, len(out.Items))
	for _, item := range out.Items {
		var post domain.Post
		if err := attributevalue.UnmarshalMap(item, &post); err != nil {
			return nil, "", apperrors.NewDatabaseError("unmarshal post", err)
		}
		posts = append(posts, post)
	}

	next, err := EncodeCursor(out.LastEvaluatedKey)
	if err != nil {
		return nil, "", apperrors.NewDatabaseError("encode cursor", err)
	}
	return posts, next, nil
}
