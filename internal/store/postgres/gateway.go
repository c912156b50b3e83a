// Package postgres implements the store gateway over PostgreSQL: raw SQL
// repositories on database/sql with the pgx driver, goose-run migrations,
// and a LISTEN/NOTIFY change feed on a dedicated native connection.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/dbx"
	"github.com/dmitrijs2005/pods/internal/store"
	"github.com/dmitrijs2005/pods/internal/store/postgres/migrations"
)

// changeChannel is the pg_notify channel the schema triggers publish to.
// The payload is the party id of the mutated row.
const changeChannel = "pods_changes"

// Gateway is the PostgreSQL-backed store.Gateway.
type Gateway struct {
	db  *sql.DB
	dsn string

	parties       *PartyRepository
	users         *UserRepository
	folders       *FolderRepository
	cards         *CardRepository
	follows       *FollowRepository
	notifications *NotificationRepository
	instructions  *InstructionRepository
}

// NewGateway opens the database, runs pending migrations and wires the
// collection repositories.
func NewGateway(ctx context.Context, dsn string) (*Gateway, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	g := &Gateway{
		db:            db,
		dsn:           dsn,
		parties:       &PartyRepository{db: db},
		users:         &UserRepository{db: db},
		folders:       &FolderRepository{db: db},
		cards:         &CardRepository{db: db},
		follows:       &FollowRepository{db: db},
		notifications: &NotificationRepository{db: db},
		instructions:  &InstructionRepository{db: db},
	}

	if err := g.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return g, nil
}

// RunMigrations applies the embedded goose migrations.
func (g *Gateway) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, g.db, "."); err != nil {
		return err
	}

	return nil
}

func (g *Gateway) Parties() store.PartyRepository              { return g.parties }
func (g *Gateway) Users() store.UserRepository                 { return g.users }
func (g *Gateway) Folders() store.FolderRepository             { return g.folders }
func (g *Gateway) Cards() store.CardRepository                 { return g.cards }
func (g *Gateway) Follows() store.FollowRepository             { return g.follows }
func (g *Gateway) Notifications() store.NotificationRepository { return g.notifications }
func (g *Gateway) Instructions() store.InstructionRepository   { return g.instructions }

func (g *Gateway) Close() error {
	return g.db.Close()
}

// PurgeParty removes a party and everything scoped to it in a single
// transaction, children before parents.
func (g *Gateway) PurgeParty(ctx context.Context, partyID string) error {
	return dbx.WithTx(ctx, g.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		steps := []func(context.Context, string) error{
			(&NotificationRepository{db: tx}).DeleteByParty,
			(&FollowRepository{db: tx}).DeleteByParty,
			(&CardRepository{db: tx}).DeleteByParty,
			(&InstructionRepository{db: tx}).DeleteByParty,
			(&FolderRepository{db: tx}).DeleteByParty,
			(&UserRepository{db: tx}).DeleteByParty,
		}
		for _, step := range steps {
			if err := step(ctx, partyID); err != nil {
				return err
			}
		}
		return (&PartyRepository{db: tx}).Delete(ctx, partyID)
	})
}

// pgSubscription is a live LISTEN loop on its own native connection.
type pgSubscription struct {
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

func (s *pgSubscription) Done() <-chan struct{} { return s.done }

func (s *pgSubscription) Stop() {
	s.once.Do(s.cancel)
}

// Subscribe opens a dedicated connection, LISTENs on the change channel and
// forwards notifications whose payload matches partyID or the system-party
// overlay. The loop ends on Stop or on connection failure; either way the
// subscription's Done channel is closed.
func (g *Gateway) Subscribe(ctx context.Context, partyID string, onChange store.ChangeHandler) (store.Subscription, error) {
	conn, err := pgx.Connect(ctx, g.dsn)
	if err != nil {
		return nil, fmt.Errorf("listen connect error: %w", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+changeChannel); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("listen error: %w", err)
	}

	// The loop's lifetime is governed by Stop, not by the setup context.
	loopCtx, cancel := context.WithCancel(context.Background())
	sub := &pgSubscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		defer func() {
			_ = conn.Close(context.Background())
		}()
		for {
			notification, err := conn.WaitForNotification(loopCtx)
			if err != nil {
				return
			}
			if notification.Payload == partyID || notification.Payload == common.SystemPartyID {
				onChange()
			}
		}
	}()

	return sub, nil
}

// mapError translates driver-level constraint violations into the shared
// sentinel errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return common.ErrorAlreadyExists
	}
	return fmt.Errorf("db error: %w", err)
}
