// Package lifecycle coordinates item status transitions and claim decisions
// across the items and claims tables.
package lifecycle

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/arvindnk/campusfound/internal/model"
	"github.com/arvindnk/campusfound/internal/store"
	"github.com/arvindnk/campusfound/internal/verify"
)

// Coordinator sequences claim submission and finalization. It holds no data
// of its own; every operation runs as a single SQLite transaction that takes
// the write lock before reading item state, so concurrent attempts against
// the same item serialize and losers observe the conflict.
type Coordinator struct {
	DB *sql.DB
}

// ClaimDraft carries the caller-supplied fields for a new claim request.
type ClaimDraft struct {
	ItemID              int64
	ClaimedBy           *int64
	RegistrationNumber  string
	CollegeDetails      string
	HiddenDetailEntered string
}

// SubmitClaim validates the draft, records the claim, and applies the
// automatic verification path:
//
//   - entered secret matches and the item is not high-value: the claim is
//     verified immediately and the item moves straight to claimed;
//   - entered secret matches a high-value item: the claim is flagged as a
//     likely match for the admin queue but stays undecided, and the item
//     moves to claim_pending;
//   - no match: the claim stays undecided and the item moves to
//     claim_pending.
//
// Fails with ErrNotFound for an unknown item and ErrConflict if the item is
// already claimed or already has a pending claim.
func (c *Coordinator) SubmitClaim(ctx context.Context, draft ClaimDraft) (*model.Claim, error) {
	if strings.TrimSpace(draft.RegistrationNumber) == "" {
		return nil, model.Validationf("registration_number required")
	}
	if strings.TrimSpace(draft.CollegeDetails) == "" {
		return nil, model.Validationf("college_details required")
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Take the database write lock before reading item state so the
	// check-insert-transition sequence is atomic per item.
	if err := lockWrites(ctx, tx, draft.ItemID); err != nil {
		return nil, err
	}

	var status, hiddenDetail string
	var highValue bool
	err = tx.QueryRowContext(ctx,
		`SELECT status, hidden_detail, is_high_value FROM items WHERE id = ?`,
		draft.ItemID,
	).Scan(&status, &hiddenDetail, &highValue)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %d: %w", draft.ItemID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading item: %w", err)
	}

	switch status {
	case model.ItemStatusClaimed:
		return nil, fmt.Errorf("item %d is already claimed: %w", draft.ItemID, model.ErrConflict)
	case model.ItemStatusClaimPending:
		return nil, fmt.Errorf("item %d already has a pending claim: %w", draft.ItemID, model.ErrConflict)
	}

	var result *string
	likelyMatch := false
	target := model.ItemStatusClaimPending
	if verify.Match(draft.HiddenDetailEntered, hiddenDetail) {
		if highValue {
			// Manual review stays mandatory for high-value items; the
			// match only flags the claim for the admin queue.
			likelyMatch = true
		} else {
			verified := model.ClaimVerified
			result = &verified
			target = model.ItemStatusClaimed
		}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO claims (item_id, claimed_by, registration_number, college_details,
		                     hidden_detail_entered, likely_match, verification_result)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		draft.ItemID, draft.ClaimedBy, draft.RegistrationNumber, draft.CollegeDetails,
		draft.HiddenDetailEntered, likelyMatch, result,
	)
	if err != nil {
		return nil, fmt.Errorf("creating claim: %w", err)
	}

	claimID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting claim id: %w", err)
	}

	if err := setItemStatus(ctx, tx, draft.ItemID, status, target); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing claim: %w", err)
	}

	return store.GetClaim(ctx, c.DB, claimID)
}

// Decide records an admin's decision on a pending claim. On verified, any
// sibling claims still pending are auto-rejected (the item is no longer
// available) and the item moves to claimed. On rejected, the item returns to
// stored and becomes claimable again.
//
// Fails with ErrNotFound for an unknown claim, ErrAlreadyDecided if the
// claim already has a result, and a ValidationError for a result outside
// {verified, rejected}.
func (c *Coordinator) Decide(ctx context.Context, claimID int64, result string, decidedBy *int64) (*model.Claim, error) {
	if result != model.ClaimVerified && result != model.ClaimRejected {
		return nil, model.Validationf("verification_result must be %q or %q",
			model.ClaimVerified, model.ClaimRejected)
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemID int64
	err = tx.QueryRowContext(ctx,
		`SELECT item_id FROM claims WHERE id = ?`, claimID,
	).Scan(&itemID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("claim %d: %w", claimID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading claim: %w", err)
	}

	if err := lockWrites(ctx, tx, itemID); err != nil {
		return nil, err
	}

	var current sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT verification_result FROM claims WHERE id = ?`, claimID,
	).Scan(&current)
	if err != nil {
		return nil, fmt.Errorf("loading claim: %w", err)
	}
	if current.Valid {
		return nil, fmt.Errorf("claim %d: %w", claimID, model.ErrAlreadyDecided)
	}

	var itemStatus string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM items WHERE id = ?`, itemID,
	).Scan(&itemStatus)
	if err != nil {
		return nil, fmt.Errorf("loading item: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE claims SET verification_result = ?, decided_by = ?, decided_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		result, decidedBy, claimID,
	)
	if err != nil {
		return nil, fmt.Errorf("recording decision: %w", err)
	}

	switch result {
	case model.ClaimVerified:
		_, err = tx.ExecContext(ctx,
			`UPDATE claims SET verification_result = ?, decided_at = CURRENT_TIMESTAMP
			 WHERE item_id = ? AND id != ? AND verification_result IS NULL`,
			model.ClaimRejected, itemID, claimID,
		)
		if err != nil {
			return nil, fmt.Errorf("rejecting sibling claims: %w", err)
		}
		if err := setItemStatus(ctx, tx, itemID, itemStatus, model.ItemStatusClaimed); err != nil {
			return nil, err
		}
	case model.ClaimRejected:
		if err := setItemStatus(ctx, tx, itemID, itemStatus, model.ItemStatusStored); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing decision: %w", err)
	}

	return store.GetClaim(ctx, c.DB, claimID)
}

// lockWrites promotes tx to a write transaction with a no-op update touch,
// equivalent to BEGIN IMMEDIATE. Reads after this point see state no
// concurrent writer can change before our commit.
func lockWrites(ctx context.Context, tx *sql.Tx, itemID int64) error {
	if _, err := tx.ExecContext(ctx, `UPDATE items SET id = id WHERE id = ?`, itemID); err != nil {
		return fmt.Errorf("locking item: %w", err)
	}
	return nil
}

// setItemStatus applies a status transition inside tx, guarding both the
// transition table and a compare-and-swap on the expected current status.
func setItemStatus(ctx context.Context, tx *sql.Tx, itemID int64, from, to string) error {
	if !model.ValidTransition(from, to) {
		return fmt.Errorf("item %d cannot move from %s to %s: %w", itemID, from, to, model.ErrConflict)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE items SET status = ? WHERE id = ? AND status = ?`,
		to, itemID, from,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("item %d status changed concurrently: %w", itemID, model.ErrConflict)
	}
	return nil
}
