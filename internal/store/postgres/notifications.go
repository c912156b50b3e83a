package postgres

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/dbx"
	"github.com/dmitrijs2005/pods/internal/models"
)

// NotificationRepository implements notification storage over a dbx.DBTX.
type NotificationRepository struct {
	db dbx.DBTX
}

func (r *NotificationRepository) ListByParty(ctx context.Context, partyID string) ([]models.AppNotification, error) {
	query := `
		SELECT id, recipient_id, sender_id, sender_name, type, related_card_id, party_id, "timestamp", "read"
		FROM notifications
		WHERE party_id = $1
		ORDER BY "timestamp" DESC
	`
	rows, err := r.db.QueryContext(ctx, query, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to select notifications: %w", err)
	}
	defer rows.Close()

	var result []models.AppNotification
	for rows.Next() {
		var item models.AppNotification
		if err := rows.Scan(
			&item.ID, &item.RecipientID, &item.SenderID, &item.SenderName, &item.Type,
			&item.RelatedCardID, &item.PartyID, &item.Timestamp, &item.Read,
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

func (r *NotificationRepository) Insert(ctx context.Context, notification models.AppNotification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, sender_id, sender_name, type, related_card_id, party_id, "timestamp", "read")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := r.db.ExecContext(ctx, query,
		notification.ID, notification.RecipientID, notification.SenderID, notification.SenderName,
		notification.Type, notification.RelatedCardID, notification.PartyID,
		notification.Timestamp, notification.Read); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	query := `UPDATE notifications SET "read" = TRUE WHERE id = $1`

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

func (r *NotificationRepository) DeleteByParty(ctx context.Context, partyID string) error {
	query := `DELETE FROM notifications WHERE party_id = $1`

	if _, err := r.db.ExecContext(ctx, query, partyID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
