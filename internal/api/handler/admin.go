package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/albapepper/hockey-explainer/internal/api/respond"
	"github.com/albapepper/hockey-explainer/internal/auth"
	"github.com/albapepper/hockey-explainer/internal/listener"
)

// RefreshRoster reloads the league roster from the provider.
// @Summary Refresh the NHL roster
// @Description Fetches every team roster and atomically replaces the cached roster. On failure the previous roster keeps serving.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /admin/roster/refresh [post]
func (h *Handler) RefreshRoster(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	n, err := h.roster.Refresh(r.Context())
	if err != nil {
		h.logger.Error("Roster refresh failed", "error", err, "by", auth.Subject(r.Context()))
		respond.WriteErrorDetail(w, http.StatusBadGateway, respond.CodeRefreshFailed,
			"Roster refresh failed; previous roster still serving", err.Error())
		return
	}
	h.logger.Info("Roster refreshed by admin", "players", n, "by", auth.Subject(r.Context()))
	h.publish(r.Context(), listener.KindRosterRefresh)
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"players_loaded": n,
		"duration_ms":    time.Since(start).Milliseconds(),
	})
}

// ReloadKnowledge re-reads the knowledge files.
// @Summary Reload the knowledge base
// @Description Re-reads and validates every knowledge file and swaps the new data in atomically. Invalid data leaves the current knowledge base in place.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Router /admin/knowledge/reload [post]
func (h *Handler) ReloadKnowledge(w http.ResponseWriter, r *http.Request) {
	if err := h.kb.Reload(); err != nil {
		h.logger.Error("Knowledge reload failed", "error", err, "by", auth.Subject(r.Context()))
		respond.WriteErrorDetail(w, http.StatusUnprocessableEntity, respond.CodeReloadFailed,
			"Knowledge reload failed; previous data still serving", err.Error())
		return
	}
	h.publish(r.Context(), listener.KindKnowledgeReload)
	reg := h.kb.Current()
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"domains":   reg.Counts(),
		"loaded_at": reg.LoadedAt.Format(time.RFC3339Nano),
	})
}

// publish forwards an admin action to the other replicas. Failure only
// leaves them stale until their own reload or refresh.
func (h *Handler) publish(ctx context.Context, kind listener.Kind) {
	if h.sync == nil {
		return
	}
	if err := h.sync.Publish(ctx, kind); err != nil {
		h.logger.Warn("Failed to notify replicas", "kind", kind, "error", err)
	}
}
