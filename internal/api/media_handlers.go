package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/raygaledev/kiasu/internal/media/linkpreview"
)

func (s *Server) registerMediaRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "lookupResourceTitle",
		Method:      http.MethodGet,
		Path:        "/api/v1/media/title",
		Summary:     "Look up resource title",
		Description: "Fetches a title for an item URL: oEmbed for YouTube, the page title otherwise",
		Tags:        []string{"Media"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLookupTitle)
}

// LookupTitleInput carries the URL to inspect.
type LookupTitleInput struct {
	URL string `query:"url" doc:"http or https URL"`
}

// LookupTitleOutput wraps the title for huma.
type LookupTitleOutput struct {
	Body linkpreview.Result
}

func (s *Server) handleLookupTitle(ctx context.Context, input *LookupTitleInput) (*LookupTitleOutput, error) {
	result, err := s.services.Links.Title(ctx, optionalUserID(ctx), input.URL)
	if err != nil {
		return nil, err
	}
	return &LookupTitleOutput{Body: *result}, nil
}
