package handler

import (
	"net/http"

	"github.com/albapepper/hockey-explainer/internal/cache"
	"github.com/albapepper/hockey-explainer/internal/maintenance"
)

// AutofillEntry is one searchable name for frontend autocomplete.
type AutofillEntry struct {
	Domain  string   `json:"domain"`
	Key     string   `json:"key"`
	Aliases []string `json:"aliases,omitempty"`
}

// GetAutofill returns every key and alias across all domains.
// @Summary Get autofill database
// @Description Returns every canonical key with its aliases, grouped by domain, for frontend search and autocomplete.
// @Tags bootstrap
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /autofill [get]
func (h *Handler) GetAutofill(w http.ResponseWriter, r *http.Request) {
	reg := h.kb.Current()
	h.writeCached(w, r, cacheKey(maintenance.PrefixMeta, reg, "autofill"), cache.TTLListing, func() any {
		var out []AutofillEntry
		total := 0
		for _, name := range reg.Names() {
			d, _ := reg.Domain(name)
			for _, e := range d.Entries() {
				out = append(out, AutofillEntry{Domain: name, Key: e.Key, Aliases: e.Aliases})
				total += 1 + len(e.Aliases)
			}
		}
		return map[string]any{
			"entries": out,
			"names":   total,
		}
	})
}
