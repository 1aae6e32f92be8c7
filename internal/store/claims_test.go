package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/arvindnk/campusfound/internal/db"
	"github.com/arvindnk/campusfound/internal/model"
)

// insertClaim writes a claim row directly; claim creation normally happens
// inside the lifecycle coordinator's transaction.
func insertClaim(t *testing.T, database *sql.DB, itemID int64, result *string) int64 {
	t.Helper()
	res, err := database.Exec(
		`INSERT INTO claims (item_id, registration_number, college_details, hidden_detail_entered, verification_result)
		 VALUES (?, ?, ?, ?, ?)`,
		itemID, "REG-1001", "CS, 3rd year", "a guess", result,
	)
	if err != nil {
		t.Fatalf("inserting claim: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func TestGetClaim(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	buildingID, pointID := seedLocation(t, database)
	item, _ := CreateItem(ctx, database, testDraft(buildingID, pointID))

	id := insertClaim(t, database, item.ID, nil)

	claim, err := GetClaim(ctx, database, id)
	if err != nil {
		t.Fatalf("GetClaim: %v", err)
	}
	if claim.ItemID != item.ID {
		t.Errorf("expected item_id %d, got %d", item.ID, claim.ItemID)
	}
	if !claim.Pending() {
		t.Error("expected claim to be pending")
	}

	missing, err := GetClaim(ctx, database, 999)
	if err != nil {
		t.Fatalf("GetClaim unknown: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown claim")
	}
}

func TestListClaimsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	buildingID, pointID := seedLocation(t, database)
	itemA, _ := CreateItem(ctx, database, testDraft(buildingID, pointID))
	itemB, _ := CreateItem(ctx, database, testDraft(buildingID, pointID))

	rejected := model.ClaimRejected
	insertClaim(t, database, itemA.ID, nil)
	insertClaim(t, database, itemA.ID, &rejected)
	insertClaim(t, database, itemB.ID, &rejected)

	all, err := ListClaims(ctx, database, ClaimFilter{})
	if err != nil {
		t.Fatalf("ListClaims: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 claims, got %d", len(all))
	}

	byItem, _ := ListClaims(ctx, database, ClaimFilter{ItemID: itemA.ID})
	if len(byItem) != 2 {
		t.Errorf("expected 2 claims for item A, got %d", len(byItem))
	}

	pending, _ := ListClaims(ctx, database, ClaimFilter{Pending: true})
	if len(pending) != 1 || pending[0].ItemID != itemA.ID {
		t.Errorf("pending filter: got %+v", pending)
	}
}

func TestOnlyOnePendingClaimPerItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	buildingID, pointID := seedLocation(t, database)
	item, _ := CreateItem(ctx, database, testDraft(buildingID, pointID))

	insertClaim(t, database, item.ID, nil)

	// The partial unique index is the schema-level backstop for the
	// one-pending-claim-per-item rule.
	_, err := database.Exec(
		`INSERT INTO claims (item_id, registration_number) VALUES (?, ?)`,
		item.ID, "REG-1002",
	)
	if err == nil {
		t.Fatal("expected unique violation for second pending claim")
	}
}

func TestClaimJSONHidesEnteredSecret(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	buildingID, pointID := seedLocation(t, database)
	item, _ := CreateItem(ctx, database, testDraft(buildingID, pointID))

	id := insertClaim(t, database, item.ID, nil)
	claim, _ := GetClaim(ctx, database, id)

	data, err := json.Marshal(claim)
	if err != nil {
		t.Fatalf("marshaling claim: %v", err)
	}
	if strings.Contains(string(data), "a guess") {
		t.Errorf("serialized claim leaks entered secret: %s", data)
	}
}

func TestClaimPickupPhoto(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	buildingID, pointID := seedLocation(t, database)
	item, _ := CreateItem(ctx, database, testDraft(buildingID, pointID))

	id := insertClaim(t, database, item.ID, nil)
	if err := SetClaimPickupPhoto(ctx, database, id, []byte("photo bytes"), "image/jpeg"); err != nil {
		t.Fatalf("SetClaimPickupPhoto: %v", err)
	}

	data, mime, err := GetClaimPickupPhoto(ctx, database, id)
	if err != nil {
		t.Fatalf("GetClaimPickupPhoto: %v", err)
	}
	if string(data) != "photo bytes" || mime != "image/jpeg" {
		t.Errorf("pickup photo round-trip: %q %q", data, mime)
	}

	if err := SetClaimPickupPhoto(ctx, database, 999, []byte("x"), "image/jpeg"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown claim, got %v", err)
	}
}
