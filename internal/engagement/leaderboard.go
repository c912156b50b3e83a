package engagement

import (
	"sort"

	"github.com/dmitrijs2005/pods/internal/syncer"
)

// LeaderboardEntry is one member's engagement tally.
type LeaderboardEntry struct {
	UserID          string
	Name            string
	FollowsGiven    int
	FollowsReceived int
}

// Engagement is the ranking score: activity in both directions counts.
func (e LeaderboardEntry) Engagement() int {
	return e.FollowsGiven + e.FollowsReceived
}

// Leaderboard tallies follows given and received per member from the visible
// snapshot, ranked by total engagement descending, name ascending on ties.
// Members are identified through their cards; a follower without any visible
// card still appears, named by id.
func Leaderboard(snap *syncer.Snapshot) []LeaderboardEntry {
	cardOwner := make(map[string]string)
	names := make(map[string]string)
	entries := make(map[string]*LeaderboardEntry)

	touch := func(userID string) *LeaderboardEntry {
		if e, ok := entries[userID]; ok {
			return e
		}
		e := &LeaderboardEntry{UserID: userID}
		entries[userID] = e
		return e
	}

	for _, c := range snap.Cards {
		cardOwner[c.ID] = c.UserID
		if _, ok := names[c.UserID]; !ok {
			names[c.UserID] = c.DisplayName
		}
		touch(c.UserID)
	}

	for _, f := range snap.Follows {
		touch(f.FollowerID).FollowsGiven++
		if owner, ok := cardOwner[f.TargetCardID]; ok {
			touch(owner).FollowsReceived++
		}
	}

	result := make([]LeaderboardEntry, 0, len(entries))
	for userID, e := range entries {
		e.Name = names[userID]
		if e.Name == "" {
			e.Name = userID
		}
		result = append(result, *e)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Engagement() != result[j].Engagement() {
			return result[i].Engagement() > result[j].Engagement()
		}
		return result[i].Name < result[j].Name
	})
	return result
}
