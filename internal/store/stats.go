package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arvindnk/campusfound/internal/model"
)

// Stats summarizes the current item and claim population for the admin
// dashboard. Values are computed from committed state at call time.
type Stats struct {
	TotalItems    int            `json:"total_items"`
	ItemsByStatus map[string]int `json:"items_by_status"`
	PendingClaims int            `json:"pending_claims"`
}

// GetStats computes dashboard statistics.
func GetStats(ctx context.Context, db *sql.DB) (*Stats, error) {
	stats := &Stats{
		ItemsByStatus: map[string]int{
			model.ItemStatusStored:       0,
			model.ItemStatusClaimPending: 0,
			model.ItemStatusClaimed:      0,
		},
	}

	rows, err := db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM items GROUP BY status`,
	)
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning item counts: %w", err)
		}
		stats.ItemsByStatus[status] = count
		stats.TotalItems += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM claims WHERE verification_result IS NULL`,
	).Scan(&stats.PendingClaims)
	if err != nil {
		return nil, fmt.Errorf("counting pending claims: %w", err)
	}

	return stats, nil
}
