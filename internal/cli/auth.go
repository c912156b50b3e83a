package cli

import (
	"context"
	"fmt"
)

// RegisterParty interactively creates a new party with its first admin and
// signs the admin in.
func (a *App) RegisterParty(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Party name", a.out)
	if err != nil {
		return err
	}
	timezone, err := GetSimpleText(a.reader, "Party timezone (IANA name, e.g. Europe/Riga)", a.out)
	if err != nil {
		return err
	}
	adminName, err := GetSimpleText(a.reader, "Admin display name", a.out)
	if err != nil {
		return err
	}
	adminCode, err := GetPassword(a.out, "Admin code")
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "Admin password")
	if err != nil {
		return err
	}

	_, admin, err := a.authSvc.RegisterParty(ctx, name, timezone, string(adminCode), adminName, string(password))
	if err != nil {
		fmt.Fprintln(a.out, "Registration failed:", err)
		return err
	}

	if err := a.sessions.Save(*admin); err != nil {
		a.log.Warn(ctx, "failed to persist session", "error", err)
	}
	a.signIn(ctx, admin)
	return nil
}

// Join interactively registers a regular member in an existing party and
// signs them in.
func (a *App) Join(ctx context.Context) error {
	partyName, err := GetSimpleText(a.reader, "Party name", a.out)
	if err != nil {
		return err
	}
	userName, err := GetSimpleText(a.reader, "Your display name", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "Password")
	if err != nil {
		return err
	}

	user, err := a.authSvc.RegisterUser(ctx, partyName, userName, string(password))
	if err != nil {
		fmt.Fprintln(a.out, "Join failed:", err)
		return err
	}

	if err := a.sessions.Save(*user); err != nil {
		a.log.Warn(ctx, "failed to persist session", "error", err)
	}
	a.signIn(ctx, user)
	return nil
}

// Login authenticates an existing member. The architect key works with
// empty party and name.
func (a *App) Login(ctx context.Context) error {
	partyName, err := GetSimpleText(a.reader, "Party name (empty for architect)", a.out)
	if err != nil {
		return err
	}
	userName := ""
	if partyName != "" {
		userName, err = GetSimpleText(a.reader, "Your display name", a.out)
		if err != nil {
			return err
		}
	}
	password, err := GetPassword(a.out, "Password")
	if err != nil {
		return err
	}

	user, err := a.authSvc.Login(ctx, partyName, userName, string(password))
	if err != nil {
		fmt.Fprintln(a.out, "Login failed:", err)
		return err
	}

	if err := a.sessions.Save(*user); err != nil {
		a.log.Warn(ctx, "failed to persist session", "error", err)
	}
	a.signIn(ctx, user)
	return nil
}

// Logout ends the session.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return nil
	}
	a.signOut()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Timezone updates the current party's timezone.
func (a *App) Timezone(ctx context.Context, tz string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}
	if tz == "" {
		fmt.Fprintln(a.out, "Usage: timezone <IANA name>")
		return nil
	}

	if err := a.authSvc.UpdatePartyTimezone(ctx, *a.user, a.user.PartyID, tz); err != nil {
		fmt.Fprintln(a.out, "Timezone update failed:", err)
		return err
	}
	a.engine.RequestRefresh()
	fmt.Fprintln(a.out, "Timezone updated to", tz)
	return nil
}

// DeleteParty removes a whole party and everything in it. Architect only,
// confirmed.
func (a *App) DeleteParty(ctx context.Context, partyID string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}
	if partyID == "" {
		fmt.Fprintln(a.out, "Usage: delete-party <id>")
		return nil
	}

	ok, err := GetConfirm(a.reader, fmt.Sprintf("Delete party %s and all its data?", partyID), a.out)
	if err != nil || !ok {
		return err
	}

	if err := a.authSvc.DeleteParty(ctx, *a.user, partyID); err != nil {
		fmt.Fprintln(a.out, "Delete failed:", err)
		return err
	}
	a.engine.RequestRefresh()
	fmt.Fprintln(a.out, "Party deleted")
	return nil
}

// DeleteUser removes a member. Architect only, confirmed.
func (a *App) DeleteUser(ctx context.Context, userID string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}
	if userID == "" {
		fmt.Fprintln(a.out, "Usage: delete-user <id>")
		return nil
	}

	ok, err := GetConfirm(a.reader, fmt.Sprintf("Delete user %s?", userID), a.out)
	if err != nil || !ok {
		return err
	}

	if err := a.authSvc.DeleteUser(ctx, *a.user, userID); err != nil {
		fmt.Fprintln(a.out, "Delete failed:", err)
		return err
	}
	a.engine.RequestRefresh()
	fmt.Fprintln(a.out, "User deleted")
	return nil
}

// Status prints the engine and session state.
func (a *App) Status(ctx context.Context) error {
	fmt.Fprintf(a.out, "sync: %s, connection: %s\n", a.engine.State(), a.engine.Conn())
	if a.user != nil {
		fmt.Fprintf(a.out, "user: %s (%s), party: %s\n", a.user.Name, a.user.Role, a.user.PartyID)
	}
	return nil
}
