package postgres

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pods/internal/dbx"
	"github.com/dmitrijs2005/pods/internal/models"
)

// FollowRepository implements follow-edge storage over a dbx.DBTX.
type FollowRepository struct {
	db dbx.DBTX
}

func (r *FollowRepository) ListByParty(ctx context.Context, partyID string) ([]models.Follow, error) {
	query := `
		SELECT id, follower_id, target_card_id, party_id, "timestamp" FROM follows
		WHERE party_id = $1
		ORDER BY "timestamp" DESC
	`
	rows, err := r.db.QueryContext(ctx, query, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to select follows: %w", err)
	}
	defer rows.Close()

	var result []models.Follow
	for rows.Next() {
		var item models.Follow
		if err := rows.Scan(&item.ID, &item.FollowerID, &item.TargetCardID, &item.PartyID, &item.Timestamp); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Insert creates the edge unless one already exists for the same
// (follower, card) pair; the unique constraint plus DO NOTHING keeps rapid
// toggles from ever duplicating an edge.
func (r *FollowRepository) Insert(ctx context.Context, follow models.Follow) error {
	query := `
		INSERT INTO follows (id, follower_id, target_card_id, party_id, "timestamp")
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (follower_id, target_card_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query,
		follow.ID, follow.FollowerID, follow.TargetCardID, follow.PartyID, follow.Timestamp); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *FollowRepository) DeleteEdge(ctx context.Context, followerID, targetCardID string) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND target_card_id = $2`

	if _, err := r.db.ExecContext(ctx, query, followerID, targetCardID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *FollowRepository) DeleteByParty(ctx context.Context, partyID string) error {
	query := `DELETE FROM follows WHERE party_id = $1`

	if _, err := r.db.ExecContext(ctx, query, partyID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
