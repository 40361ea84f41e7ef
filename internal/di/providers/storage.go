package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/raygaledev/kiasu/internal/config"
	"github.com/raygaledev/kiasu/internal/logger"
	"github.com/raygaledev/kiasu/internal/media/images"
	"github.com/raygaledev/kiasu/internal/media/linkpreview"
)

// AvatarStorage is the on-disk store for profile pictures.
type AvatarStorage struct {
	*images.Storage
}

// ProvideAvatarStorage provides avatar storage under the data directory.
func ProvideAvatarStorage(i do.Injector) (*AvatarStorage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	avatars, err := images.NewStorage(cfg.Data.BasePath, "avatars")
	if err != nil {
		return nil, fmt.Errorf("avatar storage: %w", err)
	}

	log.Info("Avatar storage initialized", "path", cfg.Data.AvatarPath())

	return &AvatarStorage{Storage: avatars}, nil
}

// LinkPreviewHandle wraps the link title client with shutdown capability.
type LinkPreviewHandle struct {
	*linkpreview.Client
}

// Shutdown implements do.Shutdownable.
func (h *LinkPreviewHandle) Shutdown() error {
	h.Client.Close()
	return nil
}

// ProvideLinkPreview provides the client that looks up titles for item URLs.
func ProvideLinkPreview(i do.Injector) (*LinkPreviewHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := linkpreview.New(linkpreview.Config{
		OEmbedEndpoint: cfg.Media.OEmbedEndpoint,
		Timeout:        cfg.Media.LookupTimeout,
	}, log.Component("linkpreview"))

	return &LinkPreviewHandle{Client: client}, nil
}
