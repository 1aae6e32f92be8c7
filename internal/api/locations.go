package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/arvindnk/campusfound/internal/model"
	"github.com/arvindnk/campusfound/internal/store"
)

// LocationsHandler handles building and security point endpoints.
type LocationsHandler struct {
	DB *sql.DB
}

type createBuildingRequest struct {
	Name string `json:"name"`
}

type createSecurityPointRequest struct {
	Name string `json:"name"`
}

// ListBuildings handles GET /api/buildings.
func (h *LocationsHandler) ListBuildings(w http.ResponseWriter, r *http.Request) {
	buildings, err := store.ListBuildings(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list buildings")
		return
	}
	if buildings == nil {
		buildings = []model.Building{}
	}
	jsonResponse(w, http.StatusOK, buildings)
}

// CreateBuilding handles POST /api/buildings.
func (h *LocationsHandler) CreateBuilding(w http.ResponseWriter, r *http.Request) {
	var req createBuildingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	building, err := store.CreateBuilding(r.Context(), h.DB, req.Name)
	if err != nil {
		coreError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, building)
}

// ListSecurityPoints handles GET /api/buildings/{id}/security-points.
func (h *LocationsHandler) ListSecurityPoints(w http.ResponseWriter, r *http.Request) {
	buildingID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid building id")
		return
	}

	points, err := store.ListSecurityPoints(r.Context(), h.DB, buildingID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list security points")
		return
	}
	if points == nil {
		points = []model.SecurityPoint{}
	}
	jsonResponse(w, http.StatusOK, points)
}

// CreateSecurityPoint handles POST /api/buildings/{id}/security-points.
func (h *LocationsHandler) CreateSecurityPoint(w http.ResponseWriter, r *http.Request) {
	buildingID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid building id")
		return
	}

	var req createSecurityPointRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	point, err := store.CreateSecurityPoint(r.Context(), h.DB, buildingID, req.Name)
	if err != nil {
		coreError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, point)
}
