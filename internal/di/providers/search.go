package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/raygaledev/kiasu/internal/config"
	"github.com/raygaledev/kiasu/internal/logger"
	"github.com/raygaledev/kiasu/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex opens the bleve index used by discovery search.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.Open(search.Options{
		DataPath: cfg.Data.SearchIndexPath(),
		Logger:   log.Component("search"),
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// PopulateSearchIndexIfNeeded rebuilds an empty index from the database in
// the background. Call it after the store is wired.
func PopulateSearchIndexIfNeeded(i do.Injector) {
	index := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	go func() {
		if err := index.EnsurePopulated(context.Background(), storeHandle.Store); err != nil {
			log.Error("Initial search reindex failed", "error", err)
			return
		}
		count, _ := index.DocumentCount()
		log.Debug("Search index ready", "documents", count)
	}()
}
