package models

// Card is the central engagement unit: a member's posted profile with one
// required external link and an optional second one.
type Card struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	// CreatorRole is the author's role captured at creation time. It is
	// never re-derived from the live user, so later role changes do not
	// alter old cards.
	CreatorRole Role `json:"creator_role"`

	FolderID    string `json:"folder_id"`
	PartyID     string `json:"party_id"`
	DisplayName string `json:"display_name"`

	// ExternalLink is the required first link slot.
	ExternalLink string `json:"external_link"`
	// ExternalLink2 is the optional second link slot.
	ExternalLink2 string `json:"external_link2,omitempty"`

	// Link labels are optional custom captions for the two slots.
	Link1Label string `json:"link1_label,omitempty"`
	Link2Label string `json:"link2_label,omitempty"`

	// IsPermanent exempts the card from calendar-day expiry.
	IsPermanent bool `json:"is_permanent,omitempty"`

	// IsPinned floats the card above unpinned ones in the grid.
	IsPinned bool `json:"is_pinned,omitempty"`

	// Timestamp is the creation instant in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// HasSecondLink reports whether the optional second link slot is populated.
func (c Card) HasSecondLink() bool {
	return c.ExternalLink2 != ""
}
