package maintenance

import (
	"log/slog"

	"github.com/albapepper/hockey-explainer/internal/cache"
)

// Response cache key prefixes. Handlers build keys from these so the hooks
// below can purge exactly what a data change invalidates.
const (
	PrefixExplain = "explain:"
	PrefixLookup  = "lookup:"
	PrefixList    = "list:"
	PrefixCompare = "compare:"
	PrefixMeta    = "meta:"
)

// OnKnowledgeReload drops every cached response, since all of them derive
// from the knowledge base.
func OnKnowledgeReload(c *cache.Cache, logger *slog.Logger) func() {
	return func() {
		n := c.Purge("")
		logger.Info("Purged response cache after knowledge reload", "entries", n)
	}
}

// OnRosterRefresh drops cached player comparisons. Concept and listing
// responses do not depend on the roster and survive.
func OnRosterRefresh(c *cache.Cache, logger *slog.Logger) func(players int) {
	return func(players int) {
		n := c.Purge(PrefixCompare)
		logger.Info("Purged player responses after roster refresh",
			"entries", n, "players", players)
	}
}
