package lifecycle

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvindnk/campusfound/internal/db"
	"github.com/arvindnk/campusfound/internal/model"
	"github.com/arvindnk/campusfound/internal/store"
)

// seedItem creates a building, a security point and one item with the given
// hidden detail, and returns the item.
func seedItem(t *testing.T, database *sql.DB, hiddenDetail string, highValue bool) *model.Item {
	t.Helper()
	ctx := context.Background()

	building, err := store.CreateBuilding(ctx, database, "Main Block")
	require.NoError(t, err)
	point, err := store.CreateSecurityPoint(ctx, database, building.ID, "Main Gate")
	require.NoError(t, err)

	item, err := store.CreateItem(ctx, database, store.ItemDraft{
		Title:           "Black Wallet",
		Category:        "wallets",
		HiddenDetail:    hiddenDetail,
		IsHighValue:     highValue,
		BuildingID:      building.ID,
		SecurityPointID: point.ID,
	})
	require.NoError(t, err)
	return item
}

func draft(itemID int64, entered string) ClaimDraft {
	return ClaimDraft{
		ItemID:              itemID,
		RegistrationNumber:  "CS21B042",
		CollegeDetails:      "CSE, 3rd year",
		HiddenDetailEntered: entered,
	}
}

func itemStatus(t *testing.T, database *sql.DB, itemID int64) string {
	t.Helper()
	item, err := store.GetItem(context.Background(), database, itemID)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item.Status
}

func TestSubmitClaimAutoVerifies(t *testing.T) {
	database := db.NewTestDB(t)
	coord := &Coordinator{DB: database}
	item := seedItem(t, database, "Sticker of a cat on the back", false)

	// Matching is trimmed and case-insensitive.
	claim, err := coord.SubmitClaim(context.Background(), draft(item.ID, "  sticker of a CAT on the back "))
	require.NoError(t, err)

	require.NotNil(t, claim.VerificationResult)
	assert.Equal(t, model.ClaimVerified, *claim.VerificationResult)
	assert.False(t, claim.LikelyMatch)
	assert.Equal(t, model.ItemStatusClaimed, itemStatus(t, database, item.ID))
}

func TestSubmitClaimMismatchGoesPending(t *testing.T) {
	database := db.NewTestDB(t)
	coord := &Coordinator{DB: database}
	item := seedItem(t, database, "red keychain", false)

	claim, err := coord.SubmitClaim(context.Background(), draft(item.ID, "blue keychain"))
	require.NoError(t, err)

	assert.Nil(t, claim.VerificationResult)
	assert.True(t, claim.Pending())
	assert.False(t, claim.LikelyMatch)
	assert.Equal(t, model.ItemStatusClaimPending, itemStatus(t, database, item.ID))
}

func TestSubmitClaimHighValueNeverAutoVerifies(t *testing.T) {
	database := db.NewTestDB(t)
	coord := &Coordinator{DB: database}
	item := seedItem(t, database, "serial ends in 7741", true)

	claim, err := coord.SubmitClaim(context.Background(), draft(item.ID, "serial ends in 7741"))
	require.NoError(t, err)

	// An exact match on a high-value item only flags the claim; the
	// decision stays with an admin.
	assert.Nil(t, claim.VerificationResult)
	assert.True(t, claim.LikelyMatch)
	assert.Equal(t, model.ItemStatusClaimPending, itemStatus(t, database, item.ID))
}

func TestSubmitClaimEmptySecretNeverMatches(t *testing.T) {
	database := db.NewTestDB(t)
	coord := &Coordinator{DB: database}
	item := seedItem(t, database, "secret", false)

	// Empty entered secret never auto-verifies, not even against an item
	// whose stored secret degenerated to whitespace.
	_, err := database.Exec(`UPDATE items SET hidden_detail = '   ' WHERE id = ?`, item.ID)
	require.NoError(t, err)

	claim, err := coord.SubmitClaim(context.Background(), draft(item.ID, ""))
	require.NoError(t, err)

	assert.Nil(t, claim.VerificationResult)
	assert.Equal(t, model.ItemStatusClaimPending, itemStatus(t, database, item.ID))
}

func TestSubmitClaimValidation(t *testing.T) {
	database := db.NewTestDB(t)
	coord := &Coordinator{DB: database}
	item := seedItem(t, database, "secret", false)

	tests := []struct {
		name   string
		mutate func(*ClaimDraft)
	}{
		{"blank registration number", func(d *ClaimDraft) { d.RegistrationNumber = "   " }},
		{"blank college details", func(d *ClaimDraft) { d.CollegeDetails = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := draft(item.ID, "secret")
			tt.mutate(&d)
			_, err := coord.SubmitClaim(context.Background(), d)

			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}

	// Nothing was written and the item is untouched.
	claims, err := store.ListClaims(context.Background(), database, store.ClaimFilter{})
	require.NoError(t, err)
	assert.Empty(t, claims)
	assert.Equal(t, model.ItemStatusStored, itemStatus(t, database, item.ID))
}

func TestSubmitClaimUnknownItem(t *testing.T) {
	database := db.NewTestDB(t)
	coord := &Coordinator{DB: database}

	_, err := coord.SubmitClaim(context.Background(), draft(9999, "anything"))
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestSubmitClaimOnPendingItemConflicts(t *testing.T) {
	database := db.NewTestDB(t)
	coord := &Coordinator{DB: database}
	item := seedItem(t, database, "secret", false)

	_, err := coord.SubmitClaim(context.Background(), draft(item.ID, "wrong"))
	require.NoError(t, err)

	_, err = coord.SubmitClaim(context.Background(), draft(item.ID, "secret"))
	require.ErrorIs(t, err, model.ErrConflict)

	claims, err := store.ListClaims(context.Background(), database, store.ClaimFilter{ItemID: item.ID})
	require.NoError(t, err)
	assert.Len(t, claims, 1)
}

func TestSubmitClaimOnClaimedItemConflicts(t *testing.T) {
	database := db.NewTestDB(t)
	coord := &Coordinator{DB: database}
	item := seedItem(t, database, "secret", false)

	_, err := coord.SubmitClaim(context.Background(), draft(item.ID, "secret"))
	require.NoError(t, err)
	require.Equal(t, model.ItemStatusClaimed, itemStatus(t, database, item.ID))

	_, err = coord.SubmitClaim(context.Background(), draft(item.ID, "secret"))
	require.ErrorIs(t, err, model.ErrConflict)

	// The losing attempt must not leave a claim row behind.
	claims, err := store.ListClaims(context.Background(), database, store.ClaimFilter{ItemID: item.ID})
	require.NoError(t, err)
	assert.Len(t, claims, 1)
}

func TestSubmitClaimConcurrentRace(t *testing.T) {
	database := db.NewTestDB(t)
	coord := &Coordinator{DB: database}
	item := seedItem(t, database, "secret", false)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = coord.SubmitClaim(context.Background(), draft(item.ID, "secret"))
		}()
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, model.ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, wins, "exactly one claim should win")
	assert.Equal(t, 1, conflicts, "the other should observe the conflict")
	assert.Equal(t, model.ItemStatusClaimed, itemStatus(t, database, item.ID))
}

func TestDecideVerified(t *testing.T) {
	database := db.NewTestDB(t)
	coord := &Coordinator{DB: database}
	ctx := context.Background()
	item := seedItem(t, database, "secret", true)

	pending, err := coord.SubmitClaim(ctx, draft(item.ID, "secret"))
	require.NoError(t, err)

	// decided_by references a real user row.
	admin, err := store.CreateUser(ctx, database, "officer", "hash", model.RoleAdmin)
	require.NoError(t, err)

	decided, err := coord.Decide(ctx, pending.ID, model.ClaimVerified, &admin.ID)
	require.NoError(t, err)

	require.NotNil(t, decided.VerificationResult)
	assert.Equal(t, model.ClaimVerified, *decided.VerificationResult)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, admin.ID, *decided.DecidedBy)
	assert.NotNil(t, decided.DecidedAt)
	assert.Equal(t, model.ItemStatusClaimed, itemStatus(t, database, item.ID))
}

func TestDecideRejectedReopensItem(t *testing.T) {
	database := db.NewTestDB(t)
	coord := &Coordinator{DB: database}
	ctx := context.Background()
	item := seedItem(t, database, "secret", false)

	first, err := coord.SubmitClaim(ctx, draft(item.ID, "wrong guess"))
	require.NoError(t, err)

	_, err = coord.Decide(ctx, first.ID, model.ClaimRejected, nil)
	require.NoError(t, err)
	assert.Equal(t, model.ItemStatusStored, itemStatus(t, database, item.ID))

	// The item is claimable again, and a correct secret auto-verifies.
	second, err := coord.SubmitClaim(ctx, draft(item.ID, "secret"))
	require.NoError(t, err)
	require.NotNil(t, second.VerificationResult)
	assert.Equal(t, model.ClaimVerified, *second.VerificationResult)
}

func TestDecideTwiceFails(t *testing.T) {
	database := db.NewTestDB(t)
	coord := &Coordinator{DB: database}
	ctx := context.Background()
	item := seedItem(t, database, "secret", false)

	claim, err := coord.SubmitClaim(ctx, draft(item.ID, "wrong"))
	require.NoError(t, err)

	_, err = coord.Decide(ctx, claim.ID, model.ClaimRejected, nil)
	require.NoError(t, err)

	_, err = coord.Decide(ctx, claim.ID, model.ClaimVerified, nil)
	require.ErrorIs(t, err, model.ErrAlreadyDecided)

	// The failed second decision changed nothing.
	got, err := store.GetClaim(ctx, database, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ClaimRejected, *got.VerificationResult)
	assert.Equal(t, model.ItemStatusStored, itemStatus(t, database, item.ID))
}

func TestDecideUnknownClaim(t *testing.T) {
	database := db.NewTestDB(t)
	coord := &Coordinator{DB: database}

	_, err := coord.Decide(context.Background(), 12345, model.ClaimVerified, nil)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestDecideInvalidResult(t *testing.T) {
	database := db.NewTestDB(t)
	coord := &Coordinator{DB: database}

	_, err := coord.Decide(context.Background(), 1, "approved", nil)

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
}
