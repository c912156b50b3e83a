package models

// NotificationType classifies an engagement notification.
type NotificationType string

const (
	// NotificationFollow is sent when someone follows a card and the
	// author has not followed any of the sender's cards.
	NotificationFollow NotificationType = "FOLLOW"
	// NotificationFollowBack is sent when the follow closes a reciprocal
	// loop: the target card's author already follows a card of the sender.
	NotificationFollowBack NotificationType = "FOLLOW_BACK"
)

// AppNotification records a follow event for its recipient. Notifications are
// never deleted; the only mutation is flipping Read to true.
type AppNotification struct {
	ID            string           `json:"id"`
	RecipientID   string           `json:"recipient_id"`
	SenderID      string           `json:"sender_id"`
	SenderName    string           `json:"sender_name"`
	Type          NotificationType `json:"type"`
	RelatedCardID string           `json:"related_card_id"`
	PartyID       string           `json:"party_id"`
	Timestamp     int64            `json:"timestamp"`
	Read          bool             `json:"read"`
}
