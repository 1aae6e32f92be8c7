package model

import "time"

// Item represents a found item tracked from drop-off at a security point to
// resolution. HiddenDetail is the finder's secret and is never serialized.
type Item struct {
	ID              int64     `json:"id"`
	ItemCode        string    `json:"item_code"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category"`
	PlaceDetails    string    `json:"place_details,omitempty"`
	HiddenDetail    string    `json:"-"`
	IsHighValue     bool      `json:"is_high_value"`
	BuildingID      int64     `json:"building_id"`
	SecurityPointID int64     `json:"security_point_id"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	ImageMime       string    `json:"image_mime,omitempty"`
	Status          string    `json:"status"`
	FoundAt         time.Time `json:"found_at"`
	ReportedBy      *int64    `json:"reported_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Item statuses.
const (
	ItemStatusStored       = "stored"
	ItemStatusClaimPending = "claim_pending"
	ItemStatusClaimed      = "claimed"
)

// ValidTransition reports whether an item may move between the given
// statuses. stored -> claimed covers the auto-verified claim path, which
// pends and finalizes in a single step. claimed is terminal.
func ValidTransition(from, to string) bool {
	switch from {
	case ItemStatusStored:
		return to == ItemStatusClaimPending || to == ItemStatusClaimed
	case ItemStatusClaimPending:
		return to == ItemStatusClaimed || to == ItemStatusStored
	}
	return false
}
