// Package store defines the client-side contract of the remote datastore:
// per-collection repositories plus a change-subscription primitive. The sync
// engine depends on this exact call shape; implementations live in the
// postgres and memory subpackages.
package store

import (
	"context"

	"github.com/dmitrijs2005/pods/internal/models"
)

// PartyRepository manages the parties collection.
type PartyRepository interface {
	// Get returns the party by id, or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Party, error)
	// GetByName matches the display name case-insensitively.
	GetByName(ctx context.Context, name string) (*models.Party, error)
	// List returns all parties ordered by name.
	List(ctx context.Context) ([]models.Party, error)
	Insert(ctx context.Context, party models.Party) error
	UpdateTimezone(ctx context.Context, id, timezone string) error
	Delete(ctx context.Context, id string) error
}

// UserRepository manages the users collection.
type UserRepository interface {
	Get(ctx context.Context, id string) (*models.User, error)
	// GetByNameAndParty resolves a member within their party scope.
	GetByNameAndParty(ctx context.Context, name, partyID string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Insert(ctx context.Context, user models.User) error
	Delete(ctx context.Context, id string) error
	DeleteByParty(ctx context.Context, partyID string) error
}

// FolderRepository manages the folders collection.
type FolderRepository interface {
	// ListVisible returns the party's folders unioned with the system
	// party's, ordered by name.
	ListVisible(ctx context.Context, partyID string) ([]models.Folder, error)
	Insert(ctx context.Context, folder models.Folder) error
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
	DeleteByParty(ctx context.Context, partyID string) error
}

// CardRepository manages the cards collection. Expiry is not a storage
// concern: expired rows persist and are filtered by the sync engine.
type CardRepository interface {
	// ListVisible returns the party's cards unioned with the system
	// party's, newest first.
	ListVisible(ctx context.Context, partyID string) ([]models.Card, error)
	Insert(ctx context.Context, card models.Card) error
	// Update replaces the mutable fields of the card identified by card.ID.
	Update(ctx context.Context, card models.Card) error
	SetPinned(ctx context.Context, id string, pinned bool) error
	Delete(ctx context.Context, id string) error
	DeleteByParty(ctx context.Context, partyID string) error
}

// FollowRepository manages the follows collection.
type FollowRepository interface {
	ListByParty(ctx context.Context, partyID string) ([]models.Follow, error)
	Insert(ctx context.Context, follow models.Follow) error
	// DeleteEdge removes the (follower, card) edge by its natural key; the
	// filtered delete keeps toggling idempotent without knowing the row id.
	DeleteEdge(ctx context.Context, followerID, targetCardID string) error
	DeleteByParty(ctx context.Context, partyID string) error
}

// NotificationRepository manages the notifications collection. Rows are
// never deleted in normal operation; the only mutation flips read to true.
type NotificationRepository interface {
	// ListByParty returns the party's notifications, newest first.
	ListByParty(ctx context.Context, partyID string) ([]models.AppNotification, error)
	Insert(ctx context.Context, notification models.AppNotification) error
	MarkRead(ctx context.Context, id string) error
	DeleteByParty(ctx context.Context, partyID string) error
}

// InstructionRepository manages the instructions collection.
type InstructionRepository interface {
	ListVisible(ctx context.Context, partyID string) ([]models.InstructionBox, error)
	Upsert(ctx context.Context, box models.InstructionBox) error
	Delete(ctx context.Context, id string) error
	DeleteByParty(ctx context.Context, partyID string) error
}
