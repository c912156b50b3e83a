package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/pods/internal/engagement"
	"github.com/dmitrijs2005/pods/internal/models"
)

// Visit marks a card's link slot as opened and prints the URL. Slot defaults
// to 1.
func (a *App) Visit(ctx context.Context, cardRef, slot string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}
	snap := a.snapshot()
	if snap == nil {
		return nil
	}
	card := a.cardByRef(snap, cardRef)
	if card == nil {
		return nil
	}

	n := 1
	if slot != "" {
		var err error
		if n, err = strconv.Atoi(slot); err != nil || n < 1 || n > 2 {
			fmt.Fprintln(a.out, "Usage: visit <n> [1|2]")
			return nil
		}
	}

	url := card.ExternalLink
	if n == 2 {
		if !card.HasSecondLink() {
			fmt.Fprintln(a.out, "This card has no second link")
			return nil
		}
		url = card.ExternalLink2
	}

	a.svc.Visits().MarkVisited(card.ID, n)
	fmt.Fprintf(a.out, "Open %s\n", url)

	if a.svc.Visits().AllVisited(*card) {
		fmt.Fprintln(a.out, "All links visited, you can follow this card now")
	}
	return nil
}

// Follow creates the follow edge to a card.
func (a *App) Follow(ctx context.Context, cardRef string) error {
	return a.toggleFollow(ctx, cardRef, false)
}

// Unfollow removes the follow edge after an explicit confirmation.
func (a *App) Unfollow(ctx context.Context, cardRef string) error {
	return a.toggleFollow(ctx, cardRef, true)
}

func (a *App) toggleFollow(ctx context.Context, cardRef string, unfollow bool) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}
	snap := a.snapshot()
	if snap == nil {
		return nil
	}
	card := a.cardByRef(snap, cardRef)
	if card == nil {
		return nil
	}

	following := snap.FollowEdge(a.user.ID, card.ID) != nil
	if unfollow != following {
		if unfollow {
			fmt.Fprintln(a.out, "You do not follow this card")
		} else {
			fmt.Fprintln(a.out, "Already following; use 'unfollow' to disengage")
		}
		return nil
	}

	if unfollow {
		ok, err := GetConfirm(a.reader, fmt.Sprintf("Unfollow %q?", card.DisplayName), a.out)
		if err != nil || !ok {
			return err
		}
	}

	if err := a.svc.ToggleFollow(ctx, *a.user, snap, card.ID); err != nil {
		fmt.Fprintln(a.out, "Follow failed:", err)
		return err
	}
	if unfollow {
		fmt.Fprintln(a.out, "Unfollowed")
	} else {
		fmt.Fprintln(a.out, "Following", card.DisplayName)
	}
	return nil
}

// Notifications lists the current user's notifications, unread first in
// snapshot order.
func (a *App) Notifications(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}
	snap := a.snapshot()
	if snap == nil {
		return nil
	}

	i := 0
	for _, n := range snap.Notifications {
		if n.RecipientID != a.user.ID {
			continue
		}
		i++
		mark := " "
		if !n.Read {
			mark = "!"
		}
		verb := "followed your card"
		if n.Type == models.NotificationFollowBack {
			verb = "followed you back"
		}
		fmt.Fprintf(a.out, "%s%2d. %s %s\n", mark, i, n.SenderName, verb)
	}
	if i == 0 {
		fmt.Fprintln(a.out, "No notifications")
	}
	return nil
}

// ReadNotification marks the n-th listed notification as read.
func (a *App) ReadNotification(ctx context.Context, ref string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}
	snap := a.snapshot()
	if snap == nil {
		return nil
	}

	want, err := strconv.Atoi(ref)
	if err != nil || want < 1 {
		fmt.Fprintln(a.out, "Usage: read <n>")
		return nil
	}

	i := 0
	for _, n := range snap.Notifications {
		if n.RecipientID != a.user.ID {
			continue
		}
		i++
		if i != want {
			continue
		}
		if err := a.svc.MarkNotificationRead(ctx, *a.user, snap, n.ID); err != nil {
			fmt.Fprintln(a.out, "Mark read failed:", err)
			return err
		}
		fmt.Fprintln(a.out, "Marked as read")
		return nil
	}
	fmt.Fprintln(a.out, "No such notification")
	return nil
}

// Board prints the engagement leaderboard of the visible snapshot.
func (a *App) Board(ctx context.Context) error {
	snap := a.snapshot()
	if snap == nil {
		return nil
	}

	board := engagement.Leaderboard(snap)
	if len(board) == 0 {
		fmt.Fprintln(a.out, "Nobody on the board yet")
		return nil
	}
	for i, e := range board {
		fmt.Fprintf(a.out, "%2d. %-20s given %2d  received %2d  total %2d\n",
			i+1, e.Name, e.FollowsGiven, e.FollowsReceived, e.Engagement())
	}
	return nil
}
