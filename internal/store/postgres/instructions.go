package postgres

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/dbx"
	"github.com/dmitrijs2005/pods/internal/models"
)

// InstructionRepository implements instruction box storage over a dbx.DBTX.
type InstructionRepository struct {
	db dbx.DBTX
}

func (r *InstructionRepository) ListVisible(ctx context.Context, partyID string) ([]models.InstructionBox, error) {
	query := `
		SELECT id, folder_id, party_id, content, x, y, width, height
		FROM instructions
		WHERE party_id = $1 OR party_id = $2
	`
	rows, err := r.db.QueryContext(ctx, query, partyID, common.SystemPartyID)
	if err != nil {
		return nil, fmt.Errorf("failed to select instructions: %w", err)
	}
	defer rows.Close()

	var result []models.InstructionBox
	for rows.Next() {
		var item models.InstructionBox
		if err := rows.Scan(
			&item.ID, &item.FolderID, &item.PartyID, &item.Content,
			&item.X, &item.Y, &item.Width, &item.Height,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *InstructionRepository) Upsert(ctx context.Context, box models.InstructionBox) error {
	query := `
		INSERT INTO instructions (id, folder_id, party_id, content, x, y, width, height)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			folder_id = EXCLUDED.folder_id,
			party_id = EXCLUDED.party_id,
			content = EXCLUDED.content,
			x = EXCLUDED.x,
			y = EXCLUDED.y,
			width = EXCLUDED.width,
			height = EXCLUDED.height
	`
	if _, err := r.db.ExecContext(ctx, query,
		box.ID, box.FolderID, box.PartyID, box.Content,
		box.X, box.Y, box.Width, box.Height); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *InstructionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM instructions WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *InstructionRepository) DeleteByParty(ctx context.Context, partyID string) error {
	query := `DELETE FROM instructions WHERE party_id = $1`

	if _, err := r.db.ExecContext(ctx, query, partyID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
