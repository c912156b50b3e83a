package engagement

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/pods/internal/models"
	"github.com/dmitrijs2005/pods/internal/syncer"
)

func TestLeaderboard_RanksByTotalEngagement(t *testing.T) {
	snap := &syncer.Snapshot{
		Cards: []models.Card{
			{ID: "c-a", UserID: "a", DisplayName: "Ann"},
			{ID: "c-b", UserID: "b", DisplayName: "Ben"},
			{ID: "c-c", UserID: "c", DisplayName: "Cid"},
		},
		Follows: []models.Follow{
			{ID: "1", FollowerID: "a", TargetCardID: "c-b"},
			{ID: "2", FollowerID: "b", TargetCardID: "c-a"},
			{ID: "3", FollowerID: "c", TargetCardID: "c-a"},
		},
	}

	board := Leaderboard(snap)
	require.Len(t, board, 3)

	// Ann: 1 given + 2 received; Ben: 1 + 1; Cid: 1 + 0.
	require.Equal(t, "Ann", board[0].Name)
	require.Equal(t, 3, board[0].Engagement())
	require.Equal(t, "Ben", board[1].Name)
	require.Equal(t, "Cid", board[2].Name)
	require.Equal(t, 1, board[2].FollowsGiven)
	require.Equal(t, 0, board[2].FollowsReceived)
}

func TestLeaderboard_FollowerWithoutCardAppearsByID(t *testing.T) {
	snap := &syncer.Snapshot{
		Cards: []models.Card{
			{ID: "c-a", UserID: "a", DisplayName: "Ann"},
		},
		Follows: []models.Follow{
			{ID: "1", FollowerID: "ghost", TargetCardID: "c-a"},
		},
	}

	board := Leaderboard(snap)
	require.Len(t, board, 2)
	require.Equal(t, "ghost", board[1].Name)
	require.Equal(t, 1, board[1].FollowsGiven)
}
