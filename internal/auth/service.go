// Package auth implements registration, login and party administration over
// the store gateway. Credentials follow fixed patterns: the admin code
// doubles as the party registration key, and a standalone maintenance key
// unlocks the architect.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/logging"
	"github.com/dmitrijs2005/pods/internal/models"
	"github.com/dmitrijs2005/pods/internal/store"
	"github.com/dmitrijs2005/pods/internal/temporal"
)

// Service executes the account and party lifecycle operations.
type Service struct {
	gw  store.Gateway
	log logging.Logger
}

func NewService(gw store.Gateway, log logging.Logger) *Service {
	return &Service{gw: gw, log: log}
}

// EnsureArchitect seeds the system party and its singleton architect user.
// Safe to call on every start.
func (s *Service) EnsureArchitect(ctx context.Context) error {
	party := models.Party{
		ID:       common.SystemPartyID,
		Name:     common.SystemPartyName,
		Timezone: "UTC",
	}
	if err := s.gw.Parties().Insert(ctx, party); err != nil && !errors.Is(err, common.ErrorAlreadyExists) {
		return fmt.Errorf("seed system party: %w", err)
	}

	architect := models.User{
		ID:      common.ArchitectUserID,
		Name:    "Architect",
		Role:    models.RoleArchitect,
		PartyID: common.SystemPartyID,
	}
	if err := s.gw.Users().Insert(ctx, architect); err != nil && !errors.Is(err, common.ErrorAlreadyExists) {
		return fmt.Errorf("seed architect: %w", err)
	}
	return nil
}

// RegisterParty creates a party together with its first admin. The admin
// code fixes the party id; a second registration with the same code is
// rejected, as is a reused display name.
func (s *Service) RegisterParty(ctx context.Context, name, timezone, adminCode, adminName, adminPassword string) (*models.Party, *models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(adminName) == "" || adminPassword == "" {
		return nil, nil, fmt.Errorf("%w: party name, admin name and password are required", common.ErrorValidation)
	}
	if !temporal.IsValidTimeZone(timezone) {
		return nil, nil, common.ErrorInvalidTimezone
	}

	partyID, adminSlot, err := ParseAdminCode(adminCode)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.gw.Parties().GetByName(ctx, name); err == nil {
		return nil, nil, common.ErrorPartyNameTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, nil, err
	}
	if _, err := s.gw.Parties().Get(ctx, partyID); err == nil {
		return nil, nil, common.ErrorPartyCodeInUse
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, nil, err
	}

	party := models.Party{ID: partyID, Name: name, Timezone: timezone}
	if err := s.gw.Parties().Insert(ctx, party); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, nil, common.ErrorPartyCodeInUse
		}
		return nil, nil, err
	}

	passwordHash, err := HashSecret(adminPassword)
	if err != nil {
		return nil, nil, err
	}
	codeHash, err := HashSecret(adminCode)
	if err != nil {
		return nil, nil, err
	}

	admin := models.User{
		ID:            fmt.Sprintf("%s-admin-%s", partyID, adminSlot),
		Name:          strings.TrimSpace(adminName),
		Role:          models.RoleAdmin,
		PartyID:       partyID,
		PasswordHash:  passwordHash,
		AdminCodeHash: codeHash,
	}
	if err := s.gw.Users().Insert(ctx, admin); err != nil {
		return nil, nil, err
	}

	s.log.Info(ctx, "party registered", "party_id", partyID, "name", name)
	return &party, &admin, nil
}

// RegisterUser joins a regular member to an existing party.
func (s *Service) RegisterUser(ctx context.Context, partyName, userName, password string) (*models.User, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" || password == "" {
		return nil, fmt.Errorf("%w: user name and password are required", common.ErrorValidation)
	}

	party, err := s.gw.Parties().GetByName(ctx, partyName)
	if err != nil {
		return nil, err
	}

	if _, err := s.gw.Users().GetByNameAndParty(ctx, userName, party.ID); err == nil {
		return nil, common.ErrorUserAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	passwordHash, err := HashSecret(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         userName,
		Role:         models.RoleRegular,
		PartyID:      party.ID,
		PasswordHash: passwordHash,
	}
	if err := s.gw.Users().Insert(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorUserAlreadyExists
		}
		return nil, err
	}

	return &user, nil
}

// Login authenticates a member of a party. The architect signs in with the
// maintenance key alone, regardless of the party and name given. Admins may
// present either their password or their admin code.
func (s *Service) Login(ctx context.Context, partyName, userName, password string) (*models.User, error) {
	if IsArchitectCode(password) {
		architect, err := s.gw.Users().Get(ctx, common.ArchitectUserID)
		if err != nil {
			return nil, err
		}
		return architect, nil
	}

	party, err := s.gw.Parties().GetByName(ctx, partyName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidLoginPassword
		}
		return nil, err
	}

	user, err := s.gw.Users().GetByNameAndParty(ctx, strings.TrimSpace(userName), party.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidLoginPassword
		}
		return nil, err
	}

	if !CheckSecret(user.PasswordHash, password) && !CheckSecret(user.AdminCodeHash, password) {
		return nil, common.ErrorInvalidLoginPassword
	}
	return user, nil
}

// UpdatePartyTimezone changes the party's timezone. Only a privileged member
// of the party, or the architect, may do it.
func (s *Service) UpdatePartyTimezone(ctx context.Context, actor models.User, partyID, timezone string) error {
	if !temporal.IsValidTimeZone(timezone) {
		return common.ErrorInvalidTimezone
	}
	if actor.Role != models.RoleArchitect && !(actor.Role == models.RoleAdmin && actor.PartyID == partyID) {
		return common.ErrorUnauthorized
	}
	return s.gw.Parties().UpdateTimezone(ctx, partyID, timezone)
}

// DeleteParty removes a party and everything scoped to it. Architect only.
// The deletion order keeps no collection referencing rows already gone:
// notifications, follows, cards, instructions, folders, users, then the
// party row itself.
func (s *Service) DeleteParty(ctx context.Context, actor models.User, partyID string) error {
	if actor.Role != models.RoleArchitect {
		return common.ErrorUnauthorized
	}
	if partyID == common.SystemPartyID {
		return fmt.Errorf("%w: the system party cannot be deleted", common.ErrorValidation)
	}

	if purger, ok := s.gw.(store.PartyPurger); ok {
		if err := purger.PurgeParty(ctx, partyID); err != nil {
			return fmt.Errorf("delete party: %w", err)
		}
		s.log.Info(ctx, "party deleted", "party_id", partyID)
		return nil
	}

	steps := []struct {
		name string
		fn   func(context.Context, string) error
	}{
		{"notifications", s.gw.Notifications().DeleteByParty},
		{"follows", s.gw.Follows().DeleteByParty},
		{"cards", s.gw.Cards().DeleteByParty},
		{"instructions", s.gw.Instructions().DeleteByParty},
		{"folders", s.gw.Folders().DeleteByParty},
		{"users", s.gw.Users().DeleteByParty},
	}
	for _, step := range steps {
		if err := step.fn(ctx, partyID); err != nil {
			return fmt.Errorf("delete party %s: %w", step.name, err)
		}
	}
	if err := s.gw.Parties().Delete(ctx, partyID); err != nil {
		return fmt.Errorf("delete party: %w", err)
	}

	s.log.Info(ctx, "party deleted", "party_id", partyID)
	return nil
}

// DeleteUser removes a member. Architect only; the architect itself is not
// removable.
func (s *Service) DeleteUser(ctx context.Context, actor models.User, userID string) error {
	if actor.Role != models.RoleArchitect {
		return common.ErrorUnauthorized
	}
	if userID == common.ArchitectUserID {
		return fmt.Errorf("%w: the architect cannot be deleted", common.ErrorValidation)
	}
	return s.gw.Users().Delete(ctx, userID)
}
