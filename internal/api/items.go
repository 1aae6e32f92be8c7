package api

import (
	"database/sql"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/arvindnk/campusfound/internal/imaging"
	"github.com/arvindnk/campusfound/internal/model"
	"github.com/arvindnk/campusfound/internal/store"
)

// ItemsHandler handles found-item endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type reportItemRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	PlaceDetails    string  `json:"place_details"`
	HiddenDetail    string  `json:"hidden_detail"`
	IsHighValue     bool    `json:"is_high_value"`
	BuildingID      int64   `json:"building_id"`
	SecurityPointID int64   `json:"security_point_id"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	FoundAt         string  `json:"found_at"` // RFC 3339, optional
}

// Report handles POST /api/items/report.
func (h *ItemsHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req reportItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var foundAt time.Time
	if req.FoundAt != "" {
		var err error
		foundAt, err = time.Parse(time.RFC3339, req.FoundAt)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "found_at must be RFC 3339")
			return
		}
	}

	draft := store.ItemDraft{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		PlaceDetails:    req.PlaceDetails,
		HiddenDetail:    req.HiddenDetail,
		IsHighValue:     req.IsHighValue,
		BuildingID:      req.BuildingID,
		SecurityPointID: req.SecurityPointID,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		FoundAt:         foundAt,
	}
	if claims := GetClaims(r.Context()); claims != nil {
		draft.ReportedBy = &claims.UserID
	}

	item, err := store.CreateItem(r.Context(), h.DB, draft)
	if err != nil {
		coreError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.ItemFilter{
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
	}
	if v := r.URL.Query().Get("building_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid building_id")
			return
		}
		filter.BuildingID = id
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

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	data, mime, ok := readUploadedPhoto(w, r)
	if !ok {
		return
	}

	if err := store.SetItemImage(r.Context(), h.DB, id, data, mime); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// readUploadedPhoto extracts the "photo" multipart file (5 MB limit) and
// runs it through the imaging pipeline. On failure it writes the error
// response and returns ok=false.
func readUploadedPhoto(w http.ResponseWriter, r *http.Request) (data []byte, mime string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return nil, "", false
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return nil, "", false
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to read photo")
		return nil, "", false
	}

	data, mime, err = imaging.Process(raw)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return nil, "", false
	}
	return data, mime, true
}
