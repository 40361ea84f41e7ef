package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/raygaledev/kiasu/internal/api"
	"github.com/raygaledev/kiasu/internal/config"
	"github.com/raygaledev/kiasu/internal/logger"
	"github.com/raygaledev/kiasu/internal/service"
	"github.com/raygaledev/kiasu/internal/sse"
)

// ProvideAPIServer provides the huma API with every route registered.
func ProvideAPIServer(i do.Injector) (*api.Server, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	index := do.MustInvoke[*SearchIndexHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	authService := do.MustInvoke[*service.AuthService](i)

	services := &api.Services{
		Auth:      authService,
		Lists:     do.MustInvoke[*service.StudyListService](i),
		Items:     do.MustInvoke[*service.StudyItemService](i),
		Discovery: do.MustInvoke[*service.DiscoveryService](i),
		Votes:     do.MustInvoke[*service.VoteService](i),
		Copies:    do.MustInvoke[*service.CopyService](i),
		Profiles:  do.MustInvoke[*service.ProfileService](i),
		Admin:     do.MustInvoke[*service.AdminService](i),
		Links:     do.MustInvoke[*service.LinkService](i),
	}

	sseHandler := sse.NewHandler(sseHandle.Manager, authService, log.Component("sse"))

	return api.NewServer(
		storeHandle.Store,
		services,
		index.Index,
		sseHandle.Manager,
		sseHandler,
		api.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AuthPerMinute:  cfg.RateLimit.AuthPerMinute,
			VotesPerMinute: cfg.RateLimit.VotesPerMinute,
		},
		log.Logger,
	), nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer starts listening in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	handler := do.MustInvoke[*api.Server](i)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
