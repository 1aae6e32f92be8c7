package model

import "time"

// Claim represents a user's request to take ownership of an item. A nil
// VerificationResult means the claim is still awaiting a decision.
// HiddenDetailEntered is the claimant's guess at the item secret and is
// never serialized.
type Claim struct {
	ID                  int64      `json:"id"`
	ItemID              int64      `json:"item_id"`
	ClaimedBy           *int64     `json:"claimed_by,omitempty"`
	RegistrationNumber  string     `json:"registration_number"`
	CollegeDetails      string     `json:"college_details,omitempty"`
	HiddenDetailEntered string     `json:"-"`
	LikelyMatch         bool       `json:"likely_match"`
	VerificationResult  *string    `json:"verification_result"`
	DecidedBy           *int64     `json:"decided_by,omitempty"`
	DecidedAt           *time.Time `json:"decided_at,omitempty"`
	PickupPhotoMime     string     `json:"pickup_photo_mime,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// Verification results.
const (
	ClaimVerified = "verified"
	ClaimRejected = "rejected"
)

// Pending reports whether the claim has not been decided yet.
func (c *Claim) Pending() bool {
	return c.VerificationResult == nil
}
