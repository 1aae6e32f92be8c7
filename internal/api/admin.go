package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/arvindnk/campusfound/internal/model"
	"github.com/arvindnk/campusfound/internal/store"
)

// AdminHandler handles dashboard and review-queue endpoints.
type AdminHandler struct {
	DB *sql.DB
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := store.GetStats(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// Items handles GET /api/admin/items, optionally filtered by security point.
func (h *AdminHandler) Items(w http.ResponseWriter, r *http.Request) {
	var filter store.ItemFilter
	if v := r.URL.Query().Get("security_point_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid security_point_id")
			return
		}
		filter.SecurityPointID = id
	}

	items, err := store.ListItems(r.Context(), h.DB, filter)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Claims handles GET /api/admin/claims. "pending=true" restricts to the
// review queue; "item_id" restricts to one item's claim history.
func (h *AdminHandler) Claims(w http.ResponseWriter, r *http.Request) {
	filter := store.ClaimFilter{
		Pending: r.URL.Query().Get("pending") == "true",
	}
	if v := r.URL.Query().Get("item_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid item_id")
			return
		}
		filter.ItemID = id
	}

	claims, err := store.ListClaims(r.Context(), h.DB, filter)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list claims")
		return
	}
	if claims == nil {
		claims = []model.Claim{}
	}
	jsonResponse(w, http.StatusOK, claims)
}
