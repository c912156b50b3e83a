package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/dbx"
	"github.com/dmitrijs2005/pods/internal/models"
)

// PartyRepository implements party storage over a dbx.DBTX.
type PartyRepository struct {
	db dbx.DBTX
}

func (r *PartyRepository) Get(ctx context.Context, id string) (*models.Party, error) {
	query := `SELECT id, name, timezone FROM parties WHERE id = $1`

	party := &models.Party{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&party.ID, &party.Name, &party.Timezone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return party, nil
}

func (r *PartyRepository) GetByName(ctx context.Context, name string) (*models.Party, error) {
	query := `SELECT id, name, timezone FROM parties WHERE lower(name) = lower($1)`

	party := &models.Party{}
	err := r.db.QueryRowContext(ctx, query, strings.TrimSpace(name)).Scan(&party.ID, &party.Name, &party.Timezone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return party, nil
}

func (r *PartyRepository) List(ctx context.Context) ([]models.Party, error) {
	query := `SELECT id, name, timezone FROM parties ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select parties: %w", err)
	}
	defer rows.Close()

	var result []models.Party
	for rows.Next() {
		var item models.Party
		if err := rows.Scan(&item.ID, &item.Name, &item.Timezone); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PartyRepository) Insert(ctx context.Context, party models.Party) error {
	query := `INSERT INTO parties (id, name, timezone) VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, party.ID, party.Name, party.Timezone); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *PartyRepository) UpdateTimezone(ctx context.Context, id, timezone string) error {
	query := `UPDATE parties SET timezone = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, timezone)
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

func (r *PartyRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM parties WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
