package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/models"
	"github.com/dmitrijs2005/pods/internal/syncer"
)

// folderByName finds a visible folder case-insensitively.
func folderByName(snap *syncer.Snapshot, name string) *models.Folder {
	for i := range snap.Folders {
		if strings.EqualFold(snap.Folders[i].Name, name) {
			return &snap.Folders[i]
		}
	}
	return nil
}

// AddFolder creates a folder in the current party. Privileged roles only;
// the architect's folders land in the system scope and show up everywhere.
func (a *App) AddFolder(ctx context.Context, name string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}
	if !a.user.Role.Privileged() {
		fmt.Fprintln(a.out, "Folder creation failed:", common.ErrorUnauthorized)
		return common.ErrorUnauthorized
	}
	if name == "" {
		fmt.Fprintln(a.out, "Usage: folder-add <name>")
		return nil
	}
	snap := a.snapshot()
	if snap == nil {
		return nil
	}
	if folderByName(snap, name) != nil {
		fmt.Fprintln(a.out, "Folder creation failed:", common.ErrorAlreadyExists)
		return common.ErrorAlreadyExists
	}

	folder := models.Folder{
		ID:      uuid.NewString(),
		PartyID: a.user.PartyID,
		Name:    name,
	}
	if err := a.gw.Folders().Insert(ctx, folder); err != nil {
		fmt.Fprintln(a.out, "Folder creation failed:", err)
		return err
	}
	a.engine.RequestRefresh()
	fmt.Fprintln(a.out, "Folder created")
	return nil
}

// RenameFolder interactively renames a folder of the current party.
func (a *App) RenameFolder(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}
	if !a.user.Role.Privileged() {
		fmt.Fprintln(a.out, "Rename failed:", common.ErrorUnauthorized)
		return common.ErrorUnauthorized
	}
	snap := a.snapshot()
	if snap == nil {
		return nil
	}

	oldName, err := GetSimpleText(a.reader, "Folder to rename", a.out)
	if err != nil {
		return err
	}
	folder := folderByName(snap, oldName)
	if folder == nil {
		fmt.Fprintln(a.out, "No folder named", oldName)
		return nil
	}
	if folder.PartyID == common.SystemPartyID && a.user.Role != models.RoleArchitect {
		fmt.Fprintln(a.out, "Rename failed:", common.ErrorUnauthorized)
		return common.ErrorUnauthorized
	}

	newName, err := GetSimpleText(a.reader, "New name", a.out)
	if err != nil {
		return err
	}
	if newName == "" {
		return nil
	}

	if err := a.gw.Folders().Rename(ctx, folder.ID, newName); err != nil {
		fmt.Fprintln(a.out, "Rename failed:", err)
		return err
	}
	a.engine.RequestRefresh()
	fmt.Fprintln(a.out, "Renamed")
	return nil
}

// DeleteFolder removes a folder and the cards inside it, after confirmation.
func (a *App) DeleteFolder(ctx context.Context, name string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}
	if !a.user.Role.Privileged() {
		fmt.Fprintln(a.out, "Delete failed:", common.ErrorUnauthorized)
		return common.ErrorUnauthorized
	}
	if name == "" {
		fmt.Fprintln(a.out, "Usage: folder-delete <name>")
		return nil
	}
	snap := a.snapshot()
	if snap == nil {
		return nil
	}
	folder := folderByName(snap, name)
	if folder == nil {
		fmt.Fprintln(a.out, "No folder named", name)
		return nil
	}
	if folder.PartyID == common.SystemPartyID && a.user.Role != models.RoleArchitect {
		fmt.Fprintln(a.out, "Delete failed:", common.ErrorUnauthorized)
		return common.ErrorUnauthorized
	}

	ok, err := GetConfirm(a.reader, fmt.Sprintf("Delete folder %q and its cards?", folder.Name), a.out)
	if err != nil || !ok {
		return err
	}

	for _, c := range snap.CardsInFolder(folder.ID) {
		if err := a.gw.Cards().Delete(ctx, c.ID); err != nil {
			fmt.Fprintln(a.out, "Delete failed:", err)
			return err
		}
	}
	if err := a.gw.Folders().Delete(ctx, folder.ID); err != nil {
		fmt.Fprintln(a.out, "Delete failed:", err)
		return err
	}
	if a.folderID == folder.ID {
		a.folderID = ""
	}
	a.engine.RequestRefresh()
	fmt.Fprintln(a.out, "Folder deleted")
	return nil
}

// Pause stops background polling until Resume, as when the app loses
// visibility.
func (a *App) Pause(ctx context.Context) error {
	a.engine.SetForeground(false)
	fmt.Fprintln(a.out, "Background sync paused")
	return nil
}

// Resume re-enables polling and catches up immediately.
func (a *App) Resume(ctx context.Context) error {
	a.engine.SetForeground(true)
	fmt.Fprintln(a.out, "Background sync resumed")
	return nil
}
