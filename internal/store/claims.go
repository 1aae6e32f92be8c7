package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arvindnk/campusfound/internal/model"
)

// ClaimFilter narrows ListClaims results. The zero value matches everything.
type ClaimFilter struct {
	ItemID  int64
	Pending bool
}

const claimCols = `id, item_id, claimed_by, registration_number, college_details,
	hidden_detail_entered, likely_match, verification_result,
	decided_by, decided_at, pickup_photo_mime, created_at`

// GetClaim returns a claim by ID.
func GetClaim(ctx context.Context, db *sql.DB, id int64) (*model.Claim, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+claimCols+` FROM claims WHERE id = ?`, id,
	)
	claim, err := scanClaim(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	return claim, nil
}

// ListClaims returns claims matching the filter, newest first. Pending
// restricts to undecided claims (the admin review queue).
func ListClaims(ctx context.Context, db *sql.DB, filter ClaimFilter) ([]model.Claim, error) {
	query := `SELECT ` + claimCols + ` FROM claims WHERE 1=1`
	var args []any

	if filter.ItemID > 0 {
		query += ` AND item_id = ?`
		args = append(args, filter.ItemID)
	}
	if filter.Pending {
		query += ` AND verification_result IS NULL`
	}

	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		claims = append(claims, *claim)
	}
	return claims, rows.Err()
}

func scanClaim(row scannable) (*model.Claim, error) {
	claim := &model.Claim{}
	var collegeDetails, hiddenEntered, result, pickupMime sql.NullString
	err := row.Scan(&claim.ID, &claim.ItemID, &claim.ClaimedBy, &claim.RegistrationNumber,
		&collegeDetails, &hiddenEntered, &claim.LikelyMatch, &result,
		&claim.DecidedBy, &claim.DecidedAt, &pickupMime, &claim.CreatedAt)
	if err != nil {
		return nil, err
	}
	claim.CollegeDetails = collegeDetails.String
	claim.HiddenDetailEntered = hiddenEntered.String
	claim.PickupPhotoMime = pickupMime.String
	if result.Valid {
		claim.VerificationResult = &result.String
	}
	return claim, nil
}

// SetClaimPickupPhoto stores the release evidence photo for a claim.
func SetClaimPickupPhoto(ctx context.Context, db *sql.DB, id int64, photo []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE claims SET pickup_photo = ?, pickup_photo_mime = ? WHERE id = ?`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting pickup photo: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("claim %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// GetClaimPickupPhoto returns a claim's release evidence photo and MIME type.
func GetClaimPickupPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT pickup_photo, pickup_photo_mime FROM claims WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting pickup photo: %w", err)
	}
	return photo, mime.String, nil
}
