package di

import (
	"context"
	"net/http"

	"reach-backend/infrastructure/config"
	"reach-backend/interfaces/http/rest"
	"reach-backend/interfaces/http/rest/handlers"
	"reach-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container wires the whole application together and owns the resources
// the binaries need at the top.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Router  http.Handler
	Watcher *config.Watcher
}

// InitializeContainer builds the dependency graph from configuration down
// to the assembled router.
func InitializeContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	dynamoClient := ProvideDynamoDBClient(awsCfg)
	cognitoClient := ProvideCognitoClient(awsCfg)
	s3Client := ProvideS3Client(awsCfg)
	eventsClient := ProvideEventBridgeClient(awsCfg)
	metrics := ProvideMetrics(cfg, awsCfg, logger)

	profiles := ProvideProfileRepository(dynamoClient, cfg, logger)
	posts := ProvidePostRepository(dynamoClient, cfg, logger)
	follows := ProvideFollowRepository(dynamoClient, cfg, logger)
	identityProvider := ProvideIdentityProvider(cognitoClient, cfg, logger)
	imageStore := ProvideImageStore(s3Client, cfg, logger)
	publisher := ProvideEventPublisher(eventsClient, cfg, logger)

	profileService := ProvideProfileService(profiles, logger)
	followService := ProvideFollowService(follows, profiles, publisher, logger)
	postService := ProvidePostService(posts, profiles, cfg, publisher, logger)
	authService := ProvideAuthService(identityProvider, profiles, logger)
	imageService := ProvideImageService(imageStore, logger)

	router := rest.NewRouter(cfg, rest.Handlers{
		Profiles: handlers.NewProfileHandler(profileService, logger),
		Posts:    handlers.NewPostHandler(postService, logger),
		Follows:  handlers.NewFollowHandler(followService, logger),
		Auth:     handlers.NewAuthHandler(authService, logger),
		Images:   handlers.NewImageHandler(imageService, logger),
	}, authService, metrics, logger)

	watcher, err := config.NewWatcher(cfg, logger)
	if err != nil {
		logger.Warn("Config watcher unavailable", zap.Error(err))
	}

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Router:  router,
		Watcher: watcher,
	}, nil
}

// Shutdown releases container-owned resources.
func (c *Container) Shutdown() {
	c.Metrics.Close()
	if c.Watcher != nil {
		c.Watcher.Close()
	}
	c.Logger.Sync()
}
