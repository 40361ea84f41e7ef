package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/raygaledev/kiasu/internal/domain"
	"github.com/raygaledev/kiasu/internal/service"
)

func (s *Server) registerDiscoveryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDiscoveryFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/discovery",
		Summary:     "Discovery feed",
		Description: "Returns public lists ranked by votes, copies and age. The category filter applies after ranking.",
		Tags:        []string{"Discovery"},
	}, s.handleDiscoveryFeed)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchDiscovery",
		Method:      http.MethodGet,
		Path:        "/api/v1/discovery/search",
		Summary:     "Search public lists",
		Description: "Full-text search over titles, descriptions and owner usernames of public lists",
		Tags:        []string{"Discovery"},
	}, s.handleSearchDiscovery)

	huma.Register(s.api, huma.Operation{
		OperationID: "voteStudyList",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists/{id}/vote",
		Summary:     "Vote on a list",
		Description: "Casts UP or DOWN. Repeating the current vote removes it; the opposite vote replaces it.",
		Tags:        []string{"Discovery"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: huma.Middlewares{s.limitByUser(s.voteRateLimiter)},
	}, s.handleVote)

	huma.Register(s.api, huma.Operation{
		OperationID:   "copyStudyList",
		Method:        http.MethodPost,
		Path:          "/api/v1/lists/{id}/copy",
		Summary:       "Copy a public list",
		Description:   "Saves a private copy of someone else's public list, with progress reset, at the top of the dashboard",
		Tags:          []string{"Discovery"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCopy)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSharedList",
		Method:      http.MethodGet,
		Path:        "/api/v1/shared/{id}",
		Summary:     "Shared list",
		Description: "Read-only view of a public list. Items are always reported as not completed.",
		Tags:        []string{"Discovery"},
	}, s.handleSharedList)
}

// === DTOs ===

// DiscoveryFeedInput contains the optional category filter.
type DiscoveryFeedInput struct {
	Category string `query:"category" doc:"Category filter; empty or 'all' for every category"`
}

// DiscoveryFeedOutput wraps the ranked feed for huma.
type DiscoveryFeedOutput struct {
	CacheControl string `header:"Cache-Control"`
	Body         service.DiscoveryFeed
}

// SearchDiscoveryInput contains search parameters.
type SearchDiscoveryInput struct {
	Query    string `query:"q" doc:"Search text"`
	Category string `query:"category" doc:"Category filter; empty or 'all' for every category"`
	Limit    int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Maximum results"`
}

// SearchDiscoveryOutput wraps search results for huma.
type SearchDiscoveryOutput struct {
	Body []domain.RankedList
}

// VoteBody carries the vote type.
type VoteBody struct {
	Type domain.VoteType `json:"type" enum:"UP,DOWN" doc:"UP or DOWN"`
}

// VoteInput wraps the vote request for huma.
type VoteInput struct {
	ListID string `path:"id" doc:"List ID"`
	Body   VoteBody
}

// VoteOutput wraps the new tally for huma.
type VoteOutput struct {
	Body service.VoteResult
}

// CopyInput identifies the list to copy.
type CopyInput struct {
	ListID string `path:"id" doc:"List ID"`
}

// CopyOutput wraps the new copy for huma.
type CopyOutput struct {
	Body service.CopyResult
}

// SharedListInput identifies a shared list.
type SharedListInput struct {
	ID string `path:"id" doc:"List ID"`
}

// SharedListOutput wraps the share view for huma.
type SharedListOutput struct {
	Body service.SharedList
}

// === Handlers ===

func (s *Server) handleDiscoveryFeed(ctx context.Context, input *DiscoveryFeedInput) (*DiscoveryFeedOutput, error) {
	feed, err := s.services.Discovery.Feed(ctx, viewerFrom(ctx), input.Category)
	if err != nil {
		return nil, err
	}
	return &DiscoveryFeedOutput{CacheControl: CacheNoStore, Body: *feed}, nil
}

func (s *Server) handleSearchDiscovery(ctx context.Context, input *SearchDiscoveryInput) (*SearchDiscoveryOutput, error) {
	results, err := s.services.Discovery.Search(ctx, viewerFrom(ctx), input.Query, input.Category, input.Limit)
	if err != nil {
		return nil, err
	}
	return &SearchDiscoveryOutput{Body: results}, nil
}

func (s *Server) handleVote(ctx context.Context, input *VoteInput) (*VoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Votes.Vote(ctx, userID, input.ListID, input.Body.Type)
	if err != nil {
		return nil, err
	}
	return &VoteOutput{Body: *result}, nil
}

func (s *Server) handleCopy(ctx context.Context, input *CopyInput) (*CopyOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Copies.Copy(ctx, userID, input.ListID)
	if err != nil {
		return nil, err
	}
	return &CopyOutput{Body: *result}, nil
}

func (s *Server) handleSharedList(ctx context.Context, input *SharedListInput) (*SharedListOutput, error) {
	shared, err := s.services.Profiles.SharedList(ctx, viewerFrom(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &SharedListOutput{Body: *shared}, nil
}
