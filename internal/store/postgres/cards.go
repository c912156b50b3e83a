package postgres

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/dbx"
	"github.com/dmitrijs2005/pods/internal/models"
)

// CardRepository implements card storage over a dbx.DBTX. Expired rows are
// kept; visibility filtering happens in the sync engine.
type CardRepository struct {
	db dbx.DBTX
}

const cardColumns = `id, user_id, creator_role, folder_id, party_id, display_name,
	external_link, external_link2, link1_label, link2_label, is_permanent, is_pinned, "timestamp"`

func (r *CardRepository) ListVisible(ctx context.Context, partyID string) ([]models.Card, error) {
	query := `
		SELECT ` + cardColumns + ` FROM cards
		WHERE party_id = $1 OR party_id = $2
		ORDER BY "timestamp" DESC
	`
	rows, err := r.db.QueryContext(ctx, query, partyID, common.SystemPartyID)
	if err != nil {
		return nil, fmt.Errorf("failed to select cards: %w", err)
	}
	defer rows.Close()

	var result []models.Card
	for rows.Next() {
		var item models.Card
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.CreatorRole, &item.FolderID, &item.PartyID, &item.DisplayName,
			&item.ExternalLink, &item.ExternalLink2, &item.Link1Label, &item.Link2Label,
			&item.IsPermanent, &item.IsPinned, &item.Timestamp,
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

func (r *CardRepository) Insert(ctx context.Context, card models.Card) error {
	query := `
		INSERT INTO cards (id, user_id, creator_role, folder_id, party_id, display_name,
			external_link, external_link2, link1_label, link2_label, is_permanent, is_pinned, "timestamp")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	if _, err := r.db.ExecContext(ctx, query,
		card.ID, card.UserID, card.CreatorRole, card.FolderID, card.PartyID, card.DisplayName,
		card.ExternalLink, card.ExternalLink2, card.Link1Label, card.Link2Label,
		card.IsPermanent, card.IsPinned, card.Timestamp); err != nil {
		return mapError(err)
	}
	return nil
}

// Update replaces the member-editable fields. Ownership, scoping and the
// captured creator role are immutable by construction.
func (r *CardRepository) Update(ctx context.Context, card models.Card) error {
	query := `
		UPDATE cards SET
			display_name = $2,
			external_link = $3,
			external_link2 = $4,
			link1_label = $5,
			link2_label = $6,
			is_permanent = $7
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		card.ID, card.DisplayName, card.ExternalLink, card.ExternalLink2,
		card.Link1Label, card.Link2Label, card.IsPermanent)
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

func (r *CardRepository) SetPinned(ctx context.Context, id string, pinned bool) error {
	query := `UPDATE cards SET is_pinned = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, pinned)
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

func (r *CardRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM cards WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *CardRepository) DeleteByParty(ctx context.Context, partyID string) error {
	query := `DELETE FROM cards WHERE party_id = $1`

	if _, err := r.db.ExecContext(ctx, query, partyID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
