package api

import (
	"context"
	"net/http"
	"time"

	"quickcart-be/internal/access"
	"quickcart-be/internal/logger"
	"quickcart-be/internal/user"
	"quickcart-be/internal/utils"

	"go.uber.org/zap"
)

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Stats.Admin(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

func (h *Handler) SellerStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Stats.Seller(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

// ResolveView answers whether the caller may open a storefront or dashboard view.
func (h *Handler) ResolveView(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		handleError(w, r, errBadRequest)
		return
	}

	role := user.Role(utils.GetUserRoleFromContext(r.Context()))
	writeJSON(w, r, http.StatusOK, access.ResolveView(path, role))
}

func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	role := user.Role(utils.GetUserRoleFromContext(r.Context()))
	writeJSON(w, r, http.StatusOK, map[string]string{
		"role": string(role),
		"path": access.LandingPath(role),
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		logger.FromCtx(ctx).Warn("health check failed", zap.Error(err))
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
