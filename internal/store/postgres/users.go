package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/dbx"
	"github.com/dmitrijs2005/pods/internal/models"
)

// UserRepository implements user storage over a dbx.DBTX.
type UserRepository struct {
	db dbx.DBTX
}

const userColumns = `id, name, role, party_id, password_hash, admin_code_hash`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Role, &user.PartyID, &user.PasswordHash, &user.AdminCodeHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByNameAndParty(ctx context.Context, name, partyID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE name = $1 AND party_id = $2`
	return scanUser(r.db.QueryRowContext(ctx, query, name, partyID))
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()

	var result []models.User
	for rows.Next() {
		var item models.User
		if err := rows.Scan(&item.ID, &item.Name, &item.Role, &item.PartyID, &item.PasswordHash, &item.AdminCodeHash); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *UserRepository) Insert(ctx context.Context, user models.User) error {
	query := `
		INSERT INTO users (id, name, role, party_id, password_hash, admin_code_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Role, user.PartyID, user.PasswordHash, user.AdminCodeHash); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *UserRepository) DeleteByParty(ctx context.Context, partyID string) error {
	query := `DELETE FROM users WHERE party_id = $1`

	if _, err := r.db.ExecContext(ctx, query, partyID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
