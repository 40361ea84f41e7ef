package api

import (
	"github.com/raygaledev/kiasu/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth      *service.AuthService
	Lists     *service.StudyListService
	Items     *service.StudyItemService
	Discovery *service.DiscoveryService
	Votes     *service.VoteService
	Copies    *service.CopyService
	Profiles  *service.ProfileService
	Admin     *service.AdminService
	Links     *service.LinkService // resource title autofill
}

// SearchHealth reports on the full-text index. *search.Index implements it.
type SearchHealth interface {
	DocumentCount() (uint64, error)
}
