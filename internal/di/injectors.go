//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"fixd/internal"
	"fixd/internal/billing"
	"fixd/internal/controllers"
	"fixd/internal/models"
	"fixd/internal/persistence"
	"fixd/internal/providers"
	"fixd/internal/services"
	"fixd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		models.NewSettingsState,
		services.NewSubscriptionService,
		services.NewOutcomeService,

		persistence.NewZstdCompressor,
		persistence.NewFileManager,
		persistence.NewSessionArchive,
		persistence.NewScheduler,

		billing.NewStaticClient,
		wire.Bind(new(billing.EntitlementClient), new(*billing.StaticClient)),

		controllers.NewApiController,
		controllers.NewAccountController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
