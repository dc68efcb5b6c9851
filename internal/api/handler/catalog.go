package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/hockey-explainer/internal/api/respond"
	"github.com/albapepper/hockey-explainer/internal/archetype"
	"github.com/albapepper/hockey-explainer/internal/cache"
	"github.com/albapepper/hockey-explainer/internal/config"
	"github.com/albapepper/hockey-explainer/internal/knowledge"
	"github.com/albapepper/hockey-explainer/internal/maintenance"
)

// DomainInfo describes one queryable domain.
type DomainInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// Domains lists the domain selectors.
// @Summary List domains
// @Description Returns every domain selector with its entry count.
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /domains [get]
func (h *Handler) Domains(w http.ResponseWriter, r *http.Request) {
	reg := h.kb.Current()
	h.writeCached(w, r, cacheKey(maintenance.PrefixMeta, reg, "domains"), cache.TTLListing, func() any {
		counts := reg.Counts()
		out := make([]DomainInfo, 0, len(config.DomainOrder))
		for _, id := range config.DomainOrder {
			dc := config.DomainRegistry[id]
			out = append(out, DomainInfo{ID: dc.ID, Name: dc.Name, Description: dc.Description, Count: counts[id]})
		}
		return map[string]any{"domains": out}
	})
}

// ListDomain lists the keys of a domain.
// @Summary List entries in a domain
// @Description Returns every canonical key in the domain, primary store first.
// @Tags catalog
// @Produce json
// @Param domain path string true "Domain selector" Enums(concept, player, stat, term, zone)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /{domain} [get]
func (h *Handler) ListDomain(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "domain")
	reg := h.kb.Current()
	d, ok := h.domain(w, reg, name)
	if !ok {
		return
	}
	h.writeCached(w, r, cacheKey(maintenance.PrefixList, reg, name), cache.TTLListing, func() any {
		return map[string]any{
			"domain": name,
			"count":  d.Len(),
			"keys":   d.Keys(),
		}
	})
}

// Archetypes returns the archetype catalogue.
// @Summary List archetypes
// @Description Returns every player archetype with its description and comparison pools.
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /archetypes [get]
func (h *Handler) Archetypes(w http.ResponseWriter, r *http.Request) {
	reg := h.kb.Current()
	h.writeCached(w, r, cacheKey(maintenance.PrefixMeta, reg, "archetypes"), cache.TTLListing, func() any {
		return map[string]any{
			"archetypes": h.pools.Profiles(),
			"rules":      ruleNames(),
		}
	})
}

func ruleNames() []string {
	out := make([]string, len(archetype.Rules))
	for i, rule := range archetype.Rules {
		out[i] = rule.Name
	}
	return out
}

// Random returns a random concept or curated player.
// @Summary Random concept or player
// @Description Picks a concept or a curated player with equal odds.
// @Tags catalog
// @Produce json
// @Success 200 {object} assemble.RandomPick
// @Failure 404 {object} respond.ErrorResponse
// @Router /random [get]
func (h *Handler) Random(w http.ResponseWriter, r *http.Request) {
	reg := h.kb.Current()
	concepts, _ := reg.Domain(knowledge.DomainConcept)
	players, _ := reg.Domain(knowledge.DomainPlayer)
	pick, ok := h.assembler.Random(concepts, players)
	if !ok {
		respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound, "Knowledge base is empty")
		return
	}
	respond.WriteNoStore(w, http.StatusOK, pick)
}
