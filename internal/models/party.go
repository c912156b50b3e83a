// Package models defines the domain entities shared by the PODs
// synchronization core: parties, users, folders, cards, follows,
// notifications and instruction boxes.
package models

// Party is the scoping unit (a "community"). All other entities belong to
// exactly one party. The reserved system party overlays its folders, cards
// and instructions onto every other party's view.
type Party struct {
	// ID is the party identifier. Registered parties use the two-digit
	// code encoded in the admin credential.
	ID string `json:"id"`

	// Name is the unique display name of the community.
	Name string `json:"name"`

	// Timezone is an IANA timezone identifier. Card expiry is evaluated
	// against this zone. Invalid or absent values fall back to UTC.
	Timezone string `json:"timezone"`
}
