// internal/adapter/storage/snapshot_store.go

package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"trendradar/internal/domain/trend"
)

// SnapshotStore implements trend.SnapshotStore on Postgres
type SnapshotStore struct {
	db *pgxpool.Pool
}

// NewSnapshotStore creates a new snapshot store
func NewSnapshotStore(db *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{
		db: db,
	}
}

// SaveSnapshots persists one observation row per product
func (s *SnapshotStore) SaveSnapshots(ctx context.Context, snapshots []trend.Snapshot) error {
	query := `
		INSERT INTO trend_snapshots (
			product_id, product_name, category, trend_score,
			viral_velocity, status, platforms, captured_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (product_id, captured_at) DO UPDATE
		SET
			product_name = $2,
			category = $3,
			trend_score = $4,
			viral_velocity = $5,
			status = $6,
			platforms = $7
	`

	for _, snapshot := range snapshots {
		platformsJSON, err := json.Marshal(snapshot.Platforms)
		if err != nil {
			return fmt.Errorf("error marshaling platforms: %w", err)
		}

		_, err = s.db.Exec(
			ctx,
			query,
			snapshot.ProductID,
			snapshot.ProductName,
			snapshot.Category,
			snapshot.TrendScore,
			snapshot.ViralVelocity,
			string(snapshot.Status),
			platformsJSON,
			snapshot.CapturedAt,
		)
		if err != nil {
			return fmt.Errorf("error executing query: %w", err)
		}
	}

	return nil
}

// History returns the most recent observations for a product, newest
// first
func (s *SnapshotStore) History(ctx context.Context, productID string, limit int) ([]trend.Snapshot, error) {
	query := `
		SELECT
			product_id, product_name, category, trend_score,
			viral_velocity, status, platforms, captured_at
		FROM trend_snapshots
		WHERE product_id = $1
		ORDER BY captured_at DESC
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var snapshots []trend.Snapshot
	for rows.Next() {
		var snapshot trend.Snapshot
		var status string
		var platformsJSON []byte

		err := rows.Scan(
			&snapshot.ProductID,
			&snapshot.ProductName,
			&snapshot.Category,
			&snapshot.TrendScore,
			&snapshot.ViralVelocity,
			&status,
			&platformsJSON,
			&snapshot.CapturedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning snapshot: %w", err)
		}

		snapshot.Status = trend.Status(status)

		if err := json.Unmarshal(platformsJSON, &snapshot.Platforms); err != nil {
			return nil, fmt.Errorf("error unmarshaling platforms: %w", err)
		}

		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}
