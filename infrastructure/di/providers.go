package di

import (
	"context"
	"fmt"

	"reach-backend/application/ports"
	"reach-backend/application/services"
	"reach-backend/infrastructure/config"
	"reach-backend/infrastructure/identity"
	"reach-backend/infrastructure/messaging/eventbridge"
	"reach-backend/infrastructure/objectstore"
	dynamorepo "reach-backend/infrastructure/persistence/dynamodb"
	"reach-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ProvideLogger builds the zap logger for the configured environment.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// ProvideAWSConfig loads the shared AWS client configuration, with X-Ray
// instrumentation applied when tracing is on.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}
	return awsCfg, nil
}

// ProvideDynamoDBClient creates the DynamoDB client.
func ProvideDynamoDBClient(awsCfg aws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(awsCfg)
}

// ProvideCognitoClient creates the Cognito client.
func ProvideCognitoClient(awsCfg aws.Config) *cognitoidentityprovider.Client {
	return cognitoidentityprovider.NewFromConfig(awsCfg)
}

// ProvideS3Client creates the S3 client.
func ProvideS3Client(awsCfg aws.Config) *s3.Client {
	return s3.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates the EventBridge client.
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideMetrics creates the metrics publisher, no-op unless enabled.
func ProvideMetrics(cfg *config.Config, awsCfg aws.Config, logger *zap.Logger) *observability.Metrics {
	if !cfg.EnableMetrics {
		return observability.NewMetrics(nil, logger)
	}
	return observability.NewMetrics(cloudwatch.NewFromConfig(awsCfg), logger)
}

// ProvideProfileRepository creates the Profiles table repository.
func ProvideProfileRepository(client *dynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ProfileRepository {
	return dynamorepo.NewProfileRepository(client, cfg.ProfilesTable, logger)
}

// ProvidePostRepository creates the Posts table repository.
func ProvidePostRepository(client *dynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.PostRepository {
	return dynamorepo.NewPostRepository(client, cfg.PostsTable, logger)
}

// ProvideFollowRepository creates the Follows table repository.
func ProvideFollowRepository(client *dynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.FollowRepository {
	return dynamorepo.NewFollowRepository(client, cfg.FollowsTable, cfg.ProfilesTable, logger)
}

// ProvideIdentityProvider creates the Cognito-backed identity provider.
func ProvideIdentityProvider(client *cognitoidentityprovider.Client, cfg *config.Config, logger *zap.Logger) ports.IdentityProvider {
	return identity.NewCognitoProvider(client, cfg.CognitoClientID, cfg.CognitoClientSecret, logger)
}

// ProvideImageStore creates the S3-backed image store.
func ProvideImageStore(client *s3.Client, cfg *config.Config, logger *zap.Logger) ports.ImageStore {
	return objectstore.NewS3ImageStore(client, cfg.S3Bucket, logger)
}

// ProvideEventPublisher creates the event publisher, a no-op when events
// are disabled or no bus is configured.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if !cfg.EnableEvents || cfg.EventBusName == "" {
		return eventbridge.NopPublisher{}
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideProfileService creates the profile service.
func ProvideProfileService(profiles ports.ProfileRepository, logger *zap.Logger) *services.ProfileService {
	return services.NewProfileService(profiles, logger)
}

// ProvideFollowService creates the follow service.
func ProvideFollowService(follows ports.FollowRepository, profiles ports.ProfileRepository, publisher ports.EventPublisher, logger *zap.Logger) *services.FollowService {
	return services.NewFollowService(follows, profiles, publisher, logger)
}

// ProvidePostService creates the post service.
func ProvidePostService(posts ports.PostRepository, profiles ports.ProfileRepository, cfg *config.Config, publisher ports.EventPublisher, logger *zap.Logger) *services.PostService {
	return services.NewPostService(posts, profiles, cfg, publisher, logger)
}

// ProvideAuthService creates the auth service.
func ProvideAuthService(provider ports.IdentityProvider, profiles ports.ProfileRepository, logger *zap.Logger) *services.AuthService {
	return services.NewAuthService(provider, profiles, logger)
}

// ProvideImageService creates the image service.
func ProvideImageService(store ports.ImageStore, logger *zap.Logger) *services.ImageService {
	return services.NewImageService(store, logger)
}
