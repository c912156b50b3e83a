package postgres

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/dbx"
	"github.com/dmitrijs2005/pods/internal/models"
)

// FolderRepository implements folder storage over a dbx.DBTX.
type FolderRepository struct {
	db dbx.DBTX
}

func (r *FolderRepository) ListVisible(ctx context.Context, partyID string) ([]models.Folder, error) {
	query := `
		SELECT id, name, icon, party_id FROM folders
		WHERE party_id = $1 OR party_id = $2
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query, partyID, common.SystemPartyID)
	if err != nil {
		return nil, fmt.Errorf("failed to select folders: %w", err)
	}
	defer rows.Close()

	var result []models.Folder
	for rows.Next() {
		var item models.Folder
		if err := rows.Scan(&item.ID, &item.Name, &item.Icon, &item.PartyID); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *FolderRepository) Insert(ctx context.Context, folder models.Folder) error {
	query := `INSERT INTO folders (id, name, icon, party_id) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, folder.ID, folder.Name, folder.Icon, folder.PartyID); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *FolderRepository) Rename(ctx context.Context, id, name string) error {
	query := `UPDATE folders SET name = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, name)
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

func (r *FolderRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM folders WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *FolderRepository) DeleteByParty(ctx context.Context, partyID string) error {
	query := `DELETE FROM folders WHERE party_id = $1`

	if _, err := r.db.ExecContext(ctx, query, partyID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
