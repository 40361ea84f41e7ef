package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	domainerrors "github.com/raygaledev/kiasu/internal/errors"
	"github.com/raygaledev/kiasu/internal/media/linkpreview"
	"github.com/raygaledev/kiasu/internal/validation"
)

// TitleLookup resolves a page title for a URL. *linkpreview.Client
// implements it.
type TitleLookup interface {
	Title(ctx context.Context, rawURL string) (*linkpreview.Result, error)
}

// LinkService prefills item titles from their resource URL.
type LinkService struct {
	lookup TitleLookup
	logger *slog.Logger
}

// NewLinkService creates a new link service.
func NewLinkService(lookup TitleLookup, logger *slog.Logger) *LinkService {
	return &LinkService{lookup: lookup, logger: logger}
}

// Title looks up the title for rawURL. Signed-in callers only, since the
// lookup makes an outbound request on their behalf.
func (s *LinkService) Title(ctx context.Context, userID, rawURL string) (*linkpreview.Result, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, domainerrors.Validation("Missing url param")
	}
	if !validation.IsHTTPURL(rawURL) {
		return nil, domainerrors.ValidationWithDetails("url must be a valid http or https URL",
			map[string]string{"url": "must be a valid http or https URL"})
	}

	res, err := s.lookup.Title(ctx, rawURL)
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, linkpreview.ErrNotFound):
		return nil, domainerrors.NotFound("Could not fetch video info")
	case errors.Is(err, linkpreview.ErrUnsupportedURL), errors.Is(err, linkpreview.ErrBlockedAddress):
		return nil, domainerrors.Validation("url must be a valid http or https URL")
	default:
		s.logger.Warn("link title lookup failed", "url", rawURL, "error", err)
		return nil, domainerrors.Upstream("Could not fetch video info", err)
	}
}
