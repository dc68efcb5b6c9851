package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/hockey-explainer/internal/api/respond"
	"github.com/albapepper/hockey-explainer/internal/archetype"
	"github.com/albapepper/hockey-explainer/internal/assemble"
	"github.com/albapepper/hockey-explainer/internal/cache"
	"github.com/albapepper/hockey-explainer/internal/knowledge"
	"github.com/albapepper/hockey-explainer/internal/lookuplog"
	"github.com/albapepper/hockey-explainer/internal/maintenance"
	"github.com/albapepper/hockey-explainer/internal/provider"
)

var errNoCandidates = errors.New("no roster candidates")

// Explain resolves a hockey concept.
// @Summary Explain a concept
// @Description Resolves a free-text query against the concept domain (general topics first, then exact, synonym and fuzzy matching) and returns the entry with its cross-sport analogies. Not-found is a 200 with found=false and suggestions.
// @Tags query
// @Produce json
// @Param query path string true "Free-text concept query, e.g. power-play or pp"
// @Success 200 {object} assemble.Match
// @Success 304 "Not modified"
// @Router /explain/{query} [get]
func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	h.resolveInto(w, r, knowledge.DomainConcept, chi.URLParam(r, "query"), maintenance.PrefixExplain)
}

// Lookup resolves a query in any domain.
// @Summary Look up a query in a domain
// @Description Generic resolution for concept, player, stat, term or zone. A missing q resolves as an empty query and returns the miss shape.
// @Tags query
// @Produce json
// @Param domain path string true "Domain selector" Enums(concept, player, stat, term, zone)
// @Param q query string false "Free-text query"
// @Success 200 {object} assemble.Match
// @Failure 400 {object} respond.ErrorResponse
// @Router /lookup/{domain} [get]
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	h.resolveInto(w, r, chi.URLParam(r, "domain"), r.URL.Query().Get("q"), maintenance.PrefixLookup)
}

func (h *Handler) resolveInto(w http.ResponseWriter, r *http.Request, domain, raw, prefix string) {
	reg := h.kb.Current()
	d, ok := h.domain(w, reg, domain)
	if !ok {
		return
	}
	res := h.resolver.Resolve(raw, d)
	outcome := lookuplog.Resolved
	if !res.Found {
		outcome = lookuplog.NotFound
	}
	h.record(domain, raw, res, outcome, "")

	h.writeCached(w, r, cacheKey(prefix, reg, domain, res.Query), cache.TTLResolved, func() any {
		return h.assembler.Match(domain, res.Query, res)
	})
}

// Compare returns cross-sport comparisons for a player.
// @Summary Compare a player
// @Description Resolves a player against the curated set first. When no curated player matches, the live NHL roster is searched and the player's career profile is classified into an archetype whose comparison pool supplies the analogies. Provider failures degrade to the miss shape, never an error status.
// @Tags query
// @Produce json
// @Param query path string true "Player name or nickname"
// @Success 200 {object} assemble.Player
// @Router /compare/{query} [get]
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "query")
	reg := h.kb.Current()
	d, ok := h.domain(w, reg, knowledge.DomainPlayer)
	if !ok {
		return
	}

	res := h.resolver.Resolve(raw, d)
	if res.Found && res.Entry != nil {
		h.record(knowledge.DomainPlayer, raw, res, lookuplog.Resolved, "")
		h.writeCached(w, r, cacheKey(maintenance.PrefixCompare, reg, res.Query), cache.TTLResolved, func() any {
			return h.assembler.CuratedPlayer(res)
		})
		return
	}

	if res.Query != "" {
		p, alternates, err := h.external(r.Context(), res.Query)
		if err == nil {
			arch, rule := archetype.Explain(*p)
			h.logger.Debug("Classified external player",
				"player", p.Name, "archetype", arch, "rule", rule)
			h.record(knowledge.DomainPlayer, raw, res, lookuplog.Fallback, p.Name)
			respond.WriteNoStore(w, http.StatusOK, h.assembler.ExternalPlayer(p, arch, alternates))
			return
		}
		if !errors.Is(err, errNoCandidates) {
			h.logger.Warn("External player lookup unavailable", "query", res.Query, "error", err)
		}
	}

	h.record(knowledge.DomainPlayer, raw, res, lookuplog.NotFound, "")
	respond.WriteNoStore(w, http.StatusOK, assemble.NewMiss(knowledge.DomainPlayer, res.Query, res.Suggestions))
}

// external finds the best roster candidate for q and fetches its profile.
// The whole lookup shares one timeout.
func (h *Handler) external(ctx context.Context, q string) (*provider.PlayerProfile, []string, error) {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.ExternalTimeout)
	defer cancel()

	cands, err := h.roster.FindCandidates(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	if len(cands) == 0 {
		return nil, nil, errNoCandidates
	}
	best := cands[0]
	p, err := h.roster.FetchProfile(ctx, best.ID)
	if err != nil {
		return nil, nil, err
	}

	// Fill identity gaps from the roster without touching the cached profile.
	prof := *p
	if prof.Name == "" {
		prof.Name = best.Name
	}
	if prof.TeamAbbrev == "" {
		prof.TeamAbbrev = best.TeamAbbrev
	}
	if prof.Headshot == "" {
		prof.Headshot = best.Headshot
	}
	if prof.WeightLbs == 0 {
		prof.WeightLbs = best.WeightLbs
	}

	var alternates []string
	for _, c := range cands[1:] {
		alternates = append(alternates, c.Name)
	}
	return &prof, alternates, nil
}

