package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/arvindnk/campusfound/internal/itemcode"
	"github.com/arvindnk/campusfound/internal/model"
)

// ItemDraft carries the caller-supplied fields for a new item report.
type ItemDraft struct {
	Title           string
	Description     string
	Category        string
	PlaceDetails    string
	HiddenDetail    string
	IsHighValue     bool
	BuildingID      int64
	SecurityPointID int64
	Latitude        float64
	Longitude       float64
	FoundAt         time.Time
	ReportedBy      *int64
}

// ItemFilter narrows ListItems results. Zero values match everything;
// provided fields combine with AND semantics.
type ItemFilter struct {
	Category        string
	BuildingID      int64
	SecurityPointID int64
	Status          string
}

const itemCols = `id, item_code, title, description, category, place_details,
	hidden_detail, is_high_value, building_id, security_point_id,
	latitude, longitude, image_mime, status, found_at, reported_by, created_at`

// codeAttempts bounds the retry loop on item code collisions. With 2^32
// possible codes a second collision in a row is effectively unreachable.
const codeAttempts = 5

// CreateItem validates the draft and creates the item with a freshly issued
// item code and status "stored". An empty FoundAt defaults to now.
func CreateItem(ctx context.Context, db *sql.DB, draft ItemDraft) (*model.Item, error) {
	if err := validateItemDraft(ctx, db, draft); err != nil {
		return nil, err
	}

	foundAt := draft.FoundAt
	if foundAt.IsZero() {
		foundAt = time.Now()
	}

	var lastErr error
	for range codeAttempts {
		code := itemcode.New()
		result, err := db.ExecContext(ctx,
			`INSERT INTO items (item_code, title, description, category, place_details,
			                    hidden_detail, is_high_value, building_id, security_point_id,
			                    latitude, longitude, found_at, reported_by)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			code, draft.Title, draft.Description, draft.Category, draft.PlaceDetails,
			draft.HiddenDetail, draft.IsHighValue, draft.BuildingID, draft.SecurityPointID,
			draft.Latitude, draft.Longitude, foundAt, draft.ReportedBy,
		)
		if err != nil {
			if isItemCodeCollision(err) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("creating item: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("getting item id: %w", err)
		}
		return GetItem(ctx, db, id)
	}

	return nil, fmt.Errorf("creating item: %w", lastErr)
}

// isItemCodeCollision detects a unique-index violation on items.item_code.
func isItemCodeCollision(err error) bool {
	return err != nil && strings.Contains(err.Error(), "items.item_code")
}

func validateItemDraft(ctx context.Context, db *sql.DB, draft ItemDraft) error {
	switch {
	case strings.TrimSpace(draft.Title) == "":
		return model.Validationf("title required")
	case strings.TrimSpace(draft.Category) == "":
		return model.Validationf("category required")
	case strings.TrimSpace(draft.HiddenDetail) == "":
		return model.Validationf("hidden_detail required")
	case draft.BuildingID == 0:
		return model.Validationf("building_id required")
	case draft.SecurityPointID == 0:
		return model.Validationf("security_point_id required")
	}

	building, err := GetBuilding(ctx, db, draft.BuildingID)
	if err != nil {
		return err
	}
	if building == nil {
		return model.Validationf("building %d does not exist", draft.BuildingID)
	}

	point, err := GetSecurityPoint(ctx, db, draft.SecurityPointID)
	if err != nil {
		return err
	}
	if point == nil {
		return model.Validationf("security point %d does not exist", draft.SecurityPointID)
	}
	if point.BuildingID != draft.BuildingID {
		return model.Validationf("security point %d is not in building %d",
			draft.SecurityPointID, draft.BuildingID)
	}

	return nil
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemCols+` FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns items matching the filter, newest first.
func ListItems(ctx context.Context, db *sql.DB, filter ItemFilter) ([]model.Item, error) {
	query := `SELECT ` + itemCols + ` FROM items WHERE 1=1`
	var args []any

	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.BuildingID > 0 {
		query += ` AND building_id = ?`
		args = append(args, filter.BuildingID)
	}
	if filter.SecurityPointID > 0 {
		query += ` AND security_point_id = ?`
		args = append(args, filter.SecurityPointID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// scannable covers *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanItem(row scannable) (*model.Item, error) {
	item := &model.Item{}
	var description, placeDetails, imageMime sql.NullString
	err := row.Scan(&item.ID, &item.ItemCode, &item.Title, &description, &item.Category,
		&placeDetails, &item.HiddenDetail, &item.IsHighValue, &item.BuildingID,
		&item.SecurityPointID, &item.Latitude, &item.Longitude, &imageMime,
		&item.Status, &item.FoundAt, &item.ReportedBy, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.PlaceDetails = placeDetails.String
	item.ImageMime = imageMime.String
	return item, nil
}

// SetItemImage sets an item's photo.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ? WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// GetItemImage returns an item's photo data and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}
