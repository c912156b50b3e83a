package store

import "context"

// ChangeHandler is invoked at least once per remote mutation matching a
// subscription's party filter. It carries no payload: the receiver treats it
// as a cue to refetch, never as the new state.
type ChangeHandler func()

// Subscription is a live change feed. Stop releases it; Done is closed once
// the feed no longer delivers, whether through Stop or transport failure,
// letting consumers track connection status.
type Subscription interface {
	Done() <-chan struct{}
	Stop()
}

// PartyPurger is an optional gateway capability: remove a party and every
// row scoped to it atomically. Callers fall back to collection-by-collection
// deletion when the gateway does not provide it.
type PartyPurger interface {
	PurgeParty(ctx context.Context, partyID string) error
}

// Gateway aggregates the collection repositories with the change feed, in
// the manner of a repository manager. The storage engine behind it is
// external; only this call surface is part of the system.
type Gateway interface {
	Parties() PartyRepository
	Users() UserRepository
	Folders() FolderRepository
	Cards() CardRepository
	Follows() FollowRepository
	Notifications() NotificationRepository
	Instructions() InstructionRepository

	// Subscribe registers onChange for row-level changes on the mutable
	// collections (cards, folders, instructions and the party row itself)
	// scoped to partyID or to the system-party overlay.
	Subscribe(ctx context.Context, partyID string, onChange ChangeHandler) (Subscription, error)

	Close() error
}
