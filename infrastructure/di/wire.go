//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"papergraph/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideMemoryCache,
	ProvideCache,
	ProvideRetrier,
	ProvidePaperStore,
	ProvideMetadataSource,
	ProvideChatCompleter,
	ProvidePaperService,
	ProvideRelatedService,
	ProvideDiscoveryService,
	ProvideCollaboratorService,
	ProvideOutlineService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
