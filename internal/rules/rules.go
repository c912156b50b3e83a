// Package rules holds the pure business-rule predicates evaluated against
// the synchronized snapshot before any mutating call is issued. The gateway
// re-validates destructive operations; these checks are the first line, not
// the only one.
package rules

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/models"
	"github.com/dmitrijs2005/pods/internal/temporal"
)

// rollingWindow is the rate-limit horizon. It is a rolling window from "now",
// not a calendar-day boundary.
const rollingWindow = 24 * time.Hour

var (
	// ErrProfileExists rejects a second non-expired card in the same
	// folder for a non-privileged member.
	ErrProfileExists = errors.New("profile exists already in this community folder")

	// ErrRestrictedFolder rejects posting into a system-party folder by
	// anyone but an architect.
	ErrRestrictedFolder = errors.New("restricted folder: architect access only")
)

// RateLimitError names the specific per-role limit that was hit.
type RateLimitError struct {
	Limit int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit: max %d per 24 hours", e.Limit)
}

// rateLimit returns the rolling-window card allowance for a role.
// A zero return means unlimited.
func rateLimit(role models.Role) int {
	switch role {
	case models.RoleArchitect:
		return 0
	case models.RoleAdmin:
		return 2
	default:
		return 1
	}
}

// CheckCreateCard decides whether actor may post a new card into folder,
// given the currently visible cards. It returns nil when allowed, or one of
// the rule errors naming the violated limit.
func CheckCreateCard(actor models.User, folder models.Folder, cards []models.Card, party *models.Party, nowMillis int64) error {
	if folder.PartyID == common.SystemPartyID && actor.Role != models.RoleArchitect {
		return ErrRestrictedFolder
	}

	// One non-expired card per folder for non-privileged members.
	if !actor.Role.Privileged() {
		for _, c := range cards {
			if c.UserID == actor.ID && c.FolderID == folder.ID && !temporal.IsExpired(c, party, nowMillis) {
				return ErrProfileExists
			}
		}
	}

	limit := rateLimit(actor.Role)
	if limit == 0 {
		return nil
	}

	windowStart := nowMillis - rollingWindow.Milliseconds()
	recent := 0
	for _, c := range cards {
		if c.UserID == actor.ID && c.Timestamp > windowStart {
			recent++
		}
	}
	if recent >= limit {
		return &RateLimitError{Limit: limit}
	}
	return nil
}

// CanManage reports whether actor may edit or delete the card. Architects
// manage everything; admins manage everything except architect-authored
// cards; regular members manage only their own.
func CanManage(card models.Card, actor models.User) bool {
	switch actor.Role {
	case models.RoleArchitect:
		return true
	case models.RoleAdmin:
		return card.CreatorRole != models.RoleArchitect
	default:
		return card.UserID == actor.ID
	}
}

// CanPin reports whether actor may toggle the card's pinned flag. Regular
// members never pin; admins cannot pin architect-authored cards.
func CanPin(card models.Card, actor models.User) bool {
	switch actor.Role {
	case models.RoleArchitect:
		return true
	case models.RoleAdmin:
		return card.CreatorRole != models.RoleArchitect
	default:
		return false
	}
}
