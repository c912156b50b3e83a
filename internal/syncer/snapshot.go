package syncer

import "github.com/dmitrijs2005/pods/internal/models"

// Snapshot is one fully consistent view of the active party: the party row
// plus the five visible collections, fetched together and replaced
// atomically. Consumers treat it as read-only; mutations go through the
// engagement service, which requests a fresh snapshot instead of patching
// this one.
type Snapshot struct {
	Party         *models.Party
	Folders       []models.Folder
	Cards         []models.Card
	Follows       []models.Follow
	Notifications []models.AppNotification
	Instructions  []models.InstructionBox
}

// CardByID returns the visible card with the given id, or nil.
func (s *Snapshot) CardByID(id string) *models.Card {
	for i := range s.Cards {
		if s.Cards[i].ID == id {
			return &s.Cards[i]
		}
	}
	return nil
}

// CardsByUser returns the visible cards authored by the given user.
func (s *Snapshot) CardsByUser(userID string) []models.Card {
	var result []models.Card
	for _, c := range s.Cards {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	return result
}

// CardsInFolder returns the visible cards in the given folder, preserving
// snapshot order.
func (s *Snapshot) CardsInFolder(folderID string) []models.Card {
	var result []models.Card
	for _, c := range s.Cards {
		if c.FolderID == folderID {
			result = append(result, c)
		}
	}
	return result
}

// FollowEdge returns the follow edge from follower to card, or nil when the
// follower does not follow the card.
func (s *Snapshot) FollowEdge(followerID, targetCardID string) *models.Follow {
	for i := range s.Follows {
		if s.Follows[i].FollowerID == followerID && s.Follows[i].TargetCardID == targetCardID {
			return &s.Follows[i]
		}
	}
	return nil
}

// UnreadCount returns the number of unread notifications addressed to the
// given user.
func (s *Snapshot) UnreadCount(userID string) int {
	n := 0
	for _, item := range s.Notifications {
		if item.RecipientID == userID && !item.Read {
			n++
		}
	}
	return n
}
