package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/application/services"
	"papergraph/infrastructure/arxiv"
	"papergraph/infrastructure/cache"
	"papergraph/infrastructure/config"
	"papergraph/infrastructure/perplexity"
	"papergraph/infrastructure/persistence/dynamodb"
	"papergraph/pkg/retry"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	Cache         *cache.Memory
	Papers        *services.PaperService
	Related       *services.RelatedService
	Discovery     *services.DiscoveryService
	Collaborators *services.CollaboratorService
	Outlines      *services.OutlineService
}

// Shutdown releases background resources held by the container.
func (c *Container) Shutdown() {
	c.Cache.Stop()
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideMemoryCache creates the process-wide TTL cache
func ProvideMemoryCache(cfg *config.Config) *cache.Memory {
	return cache.NewMemory(cfg.CacheSweepInterval)
}

// ProvideCache exposes the memory cache through its port
func ProvideCache(m *cache.Memory) ports.Cache {
	return m
}

// ProvideRetrier creates the shared retry policy for external calls
func ProvideRetrier(cfg *config.Config) *retry.Retrier {
	return retry.New(cfg.RetryMaxAttempts, cfg.RetryInitialDelay)
}

// ProvidePaperStore creates the persistent paper store
func ProvidePaperStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.PaperStore {
	return dynamodb.NewPaperStore(client, cfg.DynamoDBTable, logger)
}

// ProvideMetadataSource creates the arXiv metadata client
func ProvideMetadataSource(cfg *config.Config, c ports.Cache, retrier *retry.Retrier, logger *zap.Logger) ports.MetadataSource {
	return arxiv.NewClient(cfg.ArxivBaseURL, cfg.ArxivTimeout, c, cfg.MetadataTTL, retrier, logger)
}

// ProvideChatCompleter creates the LLM client used for outline generation
func ProvideChatCompleter(cfg *config.Config, logger *zap.Logger) ports.ChatCompleter {
	return perplexity.NewClient(cfg.PerplexityAPIKey, cfg.PerplexityBaseURL, cfg.PerplexityModel, logger)
}

// ProvidePaperService creates the paper resolution service
func ProvidePaperService(c ports.Cache, store ports.PaperStore, source ports.MetadataSource, cfg *config.Config, logger *zap.Logger) *services.PaperService {
	return services.NewPaperService(c, store, source, cfg.MetadataTTL, logger)
}

// ProvideRelatedService creates the related-paper lookup service
func ProvideRelatedService(c ports.Cache, source ports.MetadataSource, cfg *config.Config, logger *zap.Logger) *services.RelatedService {
	return services.NewRelatedService(c, source, cfg.MetadataTTL, logger)
}

// ProvideDiscoveryService creates the graph traversal service
func ProvideDiscoveryService(papers *services.PaperService, related *services.RelatedService, cfg *config.Config, logger *zap.Logger) *services.DiscoveryService {
	return services.NewDiscoveryService(papers, related, cfg.MaxConcurrent, logger)
}

// ProvideCollaboratorService creates the similarity ranking service
func ProvideCollaboratorService() *services.CollaboratorService {
	return services.NewCollaboratorService()
}

// ProvideOutlineService creates the flowchart outline service
func ProvideOutlineService(c ports.Cache, llm ports.ChatCompleter, retrier *retry.Retrier, cfg *config.Config, logger *zap.Logger) *services.OutlineService {
	return services.NewOutlineService(c, llm, retrier, cfg.DerivedTTL, logger)
}
