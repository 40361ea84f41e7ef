// Package di provides dependency injection configuration for the Kiasu server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/raygaledev/kiasu/internal/api"
	"github.com/raygaledev/kiasu/internal/auth"
	"github.com/raygaledev/kiasu/internal/config"
	"github.com/raygaledev/kiasu/internal/di/providers"
	"github.com/raygaledev/kiasu/internal/logger"
	"github.com/raygaledev/kiasu/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideAvatarStorage)
	do.Provide(injector, providers.ProvideLinkPreview)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvidePasswordHasher)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideStudyListService)
	do.Provide(injector, providers.ProvideStudyItemService)
	do.Provide(injector, providers.ProvideVoteService)
	do.Provide(injector, providers.ProvideCopyService)
	do.Provide(injector, providers.ProvideAdminService)
	do.Provide(injector, providers.ProvideDiscoveryService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideLinkService)

	// Server
	do.Provide(injector, providers.ProvideAPIServer)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap resolves every provider, which opens the database and index,
// starts the SSE manager and begins serving HTTP.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*api.Server](injector)

	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	providers.PopulateSearchIndexIfNeeded(injector)

	return nil
}
