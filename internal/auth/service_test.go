package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/logging"
	"github.com/dmitrijs2005/pods/internal/models"
	"github.com/dmitrijs2005/pods/internal/store/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Gateway) {
	t.Helper()
	g := memory.NewGateway()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewService(g, log), g
}

func TestRegisterParty_CreatesPartyAndAdminTogether(t *testing.T) {
	s, g := newTestService(t)
	ctx := context.Background()

	party, admin, err := s.RegisterParty(ctx, "Testers", "Europe/Riga", "Hamstar421", "boss", "pw")
	require.NoError(t, err)
	require.Equal(t, "42", party.ID)
	require.Equal(t, models.RoleAdmin, admin.Role)
	require.Equal(t, "42", admin.PartyID)

	stored, err := g.Users().Get(ctx, admin.ID)
	require.NoError(t, err)
	require.True(t, CheckSecret(stored.PasswordHash, "pw"))
	require.True(t, CheckSecret(stored.AdminCodeHash, "Hamstar421"))
}

func TestRegisterParty_Rejections(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := s.RegisterParty(ctx, "Testers", "UTC", "Hamstar421", "boss", "pw")
	require.NoError(t, err)

	_, _, err = s.RegisterParty(ctx, "Testers", "UTC", "Hamstar551", "boss", "pw")
	require.ErrorIs(t, err, common.ErrorPartyNameTaken)

	_, _, err = s.RegisterParty(ctx, "Others", "UTC", "Hamstar422", "boss", "pw")
	require.ErrorIs(t, err, common.ErrorPartyCodeInUse)

	_, _, err = s.RegisterParty(ctx, "Others", "Mars/Olympus", "Hamstar551", "boss", "pw")
	require.ErrorIs(t, err, common.ErrorInvalidTimezone)

	_, _, err = s.RegisterParty(ctx, "Others", "UTC", "letmein", "boss", "pw")
	require.ErrorIs(t, err, common.ErrorInvalidPasswordFormat)
}

func TestRegisterUserAndLogin(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := s.RegisterParty(ctx, "Testers", "UTC", "Hamstar421", "boss", "adminpw")
	require.NoError(t, err)

	user, err := s.RegisterUser(ctx, "Testers", "alice", "alicepw")
	require.NoError(t, err)
	require.Equal(t, models.RoleRegular, user.Role)

	_, err = s.RegisterUser(ctx, "Testers", "alice", "other")
	require.ErrorIs(t, err, common.ErrorUserAlreadyExists)

	got, err := s.Login(ctx, "Testers", "alice", "alicepw")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	_, err = s.Login(ctx, "Testers", "alice", "wrong")
	require.ErrorIs(t, err, common.ErrorInvalidLoginPassword)

	_, err = s.Login(ctx, "Testers", "nobody", "alicepw")
	require.ErrorIs(t, err, common.ErrorInvalidLoginPassword)
}

func TestLogin_AdminCodeWorksAsPassword(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, admin, err := s.RegisterParty(ctx, "Testers", "UTC", "Hamstar421", "boss", "adminpw")
	require.NoError(t, err)

	got, err := s.Login(ctx, "Testers", "boss", "Hamstar421")
	require.NoError(t, err)
	require.Equal(t, admin.ID, got.ID)
}

func TestLogin_ArchitectKeyBypassesParty(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureArchitect(ctx))

	got, err := s.Login(ctx, "", "", "Dev42")
	require.NoError(t, err)
	require.Equal(t, common.ArchitectUserID, got.ID)
	require.Equal(t, models.RoleArchitect, got.Role)
}

func TestEnsureArchitect_Idempotent(t *testing.T) {
	s, g := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureArchitect(ctx))
	require.NoError(t, s.EnsureArchitect(ctx))

	party, err := g.Parties().Get(ctx, common.SystemPartyID)
	require.NoError(t, err)
	require.Equal(t, common.SystemPartyName, party.Name)
}

func TestDeleteParty_CascadesAndGuards(t *testing.T) {
	s, g := newTestService(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureArchitect(ctx))

	_, admin, err := s.RegisterParty(ctx, "Testers", "UTC", "Hamstar421", "boss", "pw")
	require.NoError(t, err)
	require.NoError(t, g.Cards().Insert(ctx, models.Card{ID: "c1", PartyID: "42", UserID: admin.ID}))
	require.NoError(t, g.Follows().Insert(ctx, models.Follow{ID: "fl1", FollowerID: admin.ID, TargetCardID: "c1", PartyID: "42"}))

	architect, err := g.Users().Get(ctx, common.ArchitectUserID)
	require.NoError(t, err)

	require.ErrorIs(t, s.DeleteParty(ctx, *admin, "42"), common.ErrorUnauthorized)
	require.ErrorIs(t, s.DeleteParty(ctx, *architect, common.SystemPartyID), common.ErrorValidation)

	require.NoError(t, s.DeleteParty(ctx, *architect, "42"))

	_, err = g.Parties().Get(ctx, "42")
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = g.Users().Get(ctx, admin.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
	cards, err := g.Cards().ListVisible(ctx, "42")
	require.NoError(t, err)
	require.Empty(t, cards)
}

func TestDeleteUser_ArchitectOnly(t *testing.T) {
	s, g := newTestService(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureArchitect(ctx))

	_, admin, err := s.RegisterParty(ctx, "Testers", "UTC", "Hamstar421", "boss", "pw")
	require.NoError(t, err)
	user, err := s.RegisterUser(ctx, "Testers", "alice", "pw")
	require.NoError(t, err)

	architect, err := g.Users().Get(ctx, common.ArchitectUserID)
	require.NoError(t, err)

	require.ErrorIs(t, s.DeleteUser(ctx, *admin, user.ID), common.ErrorUnauthorized)
	require.ErrorIs(t, s.DeleteUser(ctx, *architect, common.ArchitectUserID), common.ErrorValidation)
	require.NoError(t, s.DeleteUser(ctx, *architect, user.ID))

	_, err = g.Users().Get(ctx, user.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
}
