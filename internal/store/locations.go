package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/arvindnk/campusfound/internal/model"
)

// CreateBuilding creates a new building. Names are unique campus-wide.
func CreateBuilding(ctx context.Context, db *sql.DB, name string) (*model.Building, error) {
	if strings.TrimSpace(name) == "" {
		return nil, model.Validationf("name required")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO buildings (name) VALUES (?)`, name,
	)
	if err != nil {
		if strings.Contains(err.Error(), "buildings.name") {
			return nil, fmt.Errorf("building %q already exists: %w", name, model.ErrConflict)
		}
		return nil, fmt.Errorf("creating building: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting building id: %w", err)
	}

	return GetBuilding(ctx, db, id)
}

// GetBuilding returns a building by ID.
func GetBuilding(ctx context.Context, db *sql.DB, id int64) (*model.Building, error) {
	b := &model.Building{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name FROM buildings WHERE id = ?`, id,
	).Scan(&b.ID, &b.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting building: %w", err)
	}
	return b, nil
}

// ListBuildings returns all buildings ordered by name.
func ListBuildings(ctx context.Context, db *sql.DB) ([]model.Building, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name FROM buildings ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing buildings: %w", err)
	}
	defer rows.Close()

	var buildings []model.Building
	for rows.Next() {
		var b model.Building
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, fmt.Errorf("scanning building: %w", err)
		}
		buildings = append(buildings, b)
	}
	return buildings, rows.Err()
}

// CreateSecurityPoint creates a manned security point inside a building.
func CreateSecurityPoint(ctx context.Context, db *sql.DB, buildingID int64, name string) (*model.SecurityPoint, error) {
	if strings.TrimSpace(name) == "" {
		return nil, model.Validationf("name required")
	}

	building, err := GetBuilding(ctx, db, buildingID)
	if err != nil {
		return nil, err
	}
	if building == nil {
		return nil, model.Validationf("building %d does not exist", buildingID)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO security_points (building_id, name) VALUES (?, ?)`,
		buildingID, name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating security point: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting security point id: %w", err)
	}

	return GetSecurityPoint(ctx, db, id)
}

// GetSecurityPoint returns a security point by ID.
func GetSecurityPoint(ctx context.Context, db *sql.DB, id int64) (*model.SecurityPoint, error) {
	p := &model.SecurityPoint{}
	err := db.QueryRowContext(ctx,
		`SELECT id, building_id, name FROM security_points WHERE id = ?`, id,
	).Scan(&p.ID, &p.BuildingID, &p.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting security point: %w", err)
	}
	return p, nil
}

// ListSecurityPoints returns security points, optionally filtered by building.
func ListSecurityPoints(ctx context.Context, db *sql.DB, buildingID int64) ([]model.SecurityPoint, error) {
	query := `SELECT id, building_id, name FROM security_points`
	var args []any

	if buildingID > 0 {
		query += ` WHERE building_id = ?`
		args = append(args, buildingID)
	}

	query += ` ORDER BY building_id, name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing security points: %w", err)
	}
	defer rows.Close()

	var points []model.SecurityPoint
	for rows.Next() {
		var p model.SecurityPoint
		if err := rows.Scan(&p.ID, &p.BuildingID, &p.Name); err != nil {
			return nil, fmt.Errorf("scanning security point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
