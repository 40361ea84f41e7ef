package providers

import (
	"github.com/samber/do/v2"

	"github.com/raygaledev/kiasu/internal/auth"
	"github.com/raygaledev/kiasu/internal/logger"
	"github.com/raygaledev/kiasu/internal/service"
)

// ProvideAuthService provides the sign-up, login and token verification service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	hasher := do.MustInvoke[*auth.PasswordHasher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokens, hasher, log.Component("auth")), nil
}

// ProvideStudyListService provides the study list service.
func ProvideStudyListService(i do.Injector) (*service.StudyListService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStudyListService(storeHandle.Store, sseHandle.Manager, log.Component("lists")), nil
}

// ProvideStudyItemService provides the study item service.
func ProvideStudyItemService(i do.Injector) (*service.StudyItemService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStudyItemService(storeHandle.Store, sseHandle.Manager, log.Component("items")), nil
}

// ProvideVoteService provides the vote service.
func ProvideVoteService(i do.Injector) (*service.VoteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewVoteService(storeHandle.Store, sseHandle.Manager, log.Component("votes")), nil
}

// ProvideCopyService provides the list copy service.
func ProvideCopyService(i do.Injector) (*service.CopyService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCopyService(storeHandle.Store, sseHandle.Manager, log.Component("copies")), nil
}

// ProvideAdminService provides the moderation service.
func ProvideAdminService(i do.Injector) (*service.AdminService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAdminService(storeHandle.Store, sseHandle.Manager, log.Component("admin")), nil
}

// ProvideDiscoveryService provides the ranked feed and search service.
func ProvideDiscoveryService(i do.Injector) (*service.DiscoveryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	index := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDiscoveryService(storeHandle.Store, index.Index, log.Component("discovery")), nil
}

// ProvideProfileService provides account settings, profiles and share views.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	avatars := do.MustInvoke[*AvatarStorage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(storeHandle.Store, avatars.Storage, log.Component("profiles")), nil
}

// ProvideLinkService provides item title prefill.
func ProvideLinkService(i do.Injector) (*service.LinkService, error) {
	links := do.MustInvoke[*LinkPreviewHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLinkService(links.Client, log.Component("links")), nil
}
