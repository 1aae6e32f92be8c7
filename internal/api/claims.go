package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/arvindnk/campusfound/internal/lifecycle"
	"github.com/arvindnk/campusfound/internal/store"
)

// ClaimsHandler handles claim endpoints.
type ClaimsHandler struct {
	DB          *sql.DB
	Coordinator *lifecycle.Coordinator
}

type claimRequest struct {
	ItemID              int64  `json:"item_id"`
	RegistrationNumber  string `json:"registration_number"`
	CollegeDetails      string `json:"college_details"`
	HiddenDetailEntered string `json:"hidden_detail_entered"`
}

type verifyRequest struct {
	ClaimID            int64  `json:"claim_id"`
	VerificationResult string `json:"verification_result"`
}

// Request handles POST /api/claims/request.
func (h *ClaimsHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft := lifecycle.ClaimDraft{
		ItemID:              req.ItemID,
		RegistrationNumber:  req.RegistrationNumber,
		CollegeDetails:      req.CollegeDetails,
		HiddenDetailEntered: req.HiddenDetailEntered,
	}
	if claims := GetClaims(r.Context()); claims != nil {
		draft.ClaimedBy = &claims.UserID
	}

	claim, err := h.Coordinator.SubmitClaim(r.Context(), draft)
	if err != nil {
		coreError(w, err)
		return
	}

	slog.Info("claim submitted", "claim", claim.ID, "item", claim.ItemID,
		"auto_verified", !claim.Pending())
	jsonResponse(w, http.StatusCreated, claim)
}

// Verify handles POST /api/claims/verify.
func (h *ClaimsHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var decidedBy *int64
	if claims := GetClaims(r.Context()); claims != nil {
		decidedBy = &claims.UserID
	}

	claim, err := h.Coordinator.Decide(r.Context(), req.ClaimID, req.VerificationResult, decidedBy)
	if err != nil {
		coreError(w, err)
		return
	}

	slog.Info("claim decided", "claim", claim.ID, "item", claim.ItemID,
		"result", req.VerificationResult)
	jsonResponse(w, http.StatusOK, claim)
}

// UploadPickupPhoto handles PUT /api/claims/{id}/pickup-photo. High-value
// items require photo evidence at release; other items do not take one.
func (h *ClaimsHandler) UploadPickupPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	claim, err := store.GetClaim(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get claim")
		return
	}
	if claim == nil {
		jsonError(w, http.StatusNotFound, "claim not found")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, claim.ItemID)
	if err != nil || item == nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if !item.IsHighValue {
		jsonError(w, http.StatusBadRequest, "pickup photo only required for high-value items")
		return
	}

	data, mime, ok := readUploadedPhoto(w, r)
	if !ok {
		return
	}

	if err := store.SetClaimPickupPhoto(r.Context(), h.DB, id, data, mime); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save pickup photo")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "pickup photo uploaded"})
}

// GetPickupPhoto handles GET /api/claims/{id}/pickup-photo.
func (h *ClaimsHandler) GetPickupPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	data, mime, err := store.GetClaimPickupPhoto(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get pickup photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no pickup photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Write(data)
}
