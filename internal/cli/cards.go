package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/engagement"
	"github.com/dmitrijs2005/pods/internal/models"
	"github.com/dmitrijs2005/pods/internal/syncer"
	"github.com/dmitrijs2005/pods/internal/temporal"
)

// folderCards returns the selected folder's cards in display order: pinned
// first, then newest first within each group.
func folderCards(snap *syncer.Snapshot, folderID string) []models.Card {
	cards := snap.CardsInFolder(folderID)
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].IsPinned != cards[j].IsPinned {
			return cards[i].IsPinned
		}
		return cards[i].Timestamp > cards[j].Timestamp
	})
	return cards
}

// cardByRef resolves a 1-based position in the current folder listing.
func (a *App) cardByRef(snap *syncer.Snapshot, ref string) *models.Card {
	if a.folderID == "" {
		fmt.Fprintln(a.out, "Select a folder first")
		return nil
	}
	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 {
		fmt.Fprintln(a.out, "Expected a card number from 'list'")
		return nil
	}
	cards := folderCards(snap, a.folderID)
	if n > len(cards) {
		fmt.Fprintln(a.out, "No such card")
		return nil
	}
	return &cards[n-1]
}

// Folders prints the folders visible to the current party.
func (a *App) Folders(ctx context.Context) error {
	snap := a.snapshot()
	if snap == nil {
		return nil
	}
	if len(snap.Folders) == 0 {
		fmt.Fprintln(a.out, "No folders yet")
		return nil
	}
	for _, f := range snap.Folders {
		marker := ""
		if f.PartyID == common.SystemPartyID {
			marker = " [system]"
		}
		fmt.Fprintf(a.out, "  %s%s\n", f.Name, marker)
	}
	return nil
}

// SelectFolder makes the named folder current for card commands.
func (a *App) SelectFolder(ctx context.Context, name string) error {
	if name == "" {
		fmt.Fprintln(a.out, "Usage: select <folder name>")
		return nil
	}
	snap := a.snapshot()
	if snap == nil {
		return nil
	}
	for _, f := range snap.Folders {
		if strings.EqualFold(f.Name, name) {
			a.folderID = f.ID
			fmt.Fprintln(a.out, "Selected folder", f.Name)
			return nil
		}
	}
	fmt.Fprintln(a.out, "No folder named", name)
	return nil
}

// List prints the cards of the selected folder with their expiry status and
// follow counts.
func (a *App) List(ctx context.Context) error {
	if a.folderID == "" {
		fmt.Fprintln(a.out, "Select a folder first")
		return nil
	}
	snap := a.snapshot()
	if snap == nil {
		return nil
	}

	cards := folderCards(snap, a.folderID)
	if len(cards) == 0 {
		fmt.Fprintln(a.out, "No cards in this folder")
		return nil
	}

	now := time.Now().UnixMilli()
	for i, c := range cards {
		followers := 0
		for _, f := range snap.Follows {
			if f.TargetCardID == c.ID {
				followers++
			}
		}
		pin := " "
		if c.IsPinned {
			pin = "*"
		}
		status := temporal.StatusOf(c, snap.Party, now)
		fmt.Fprintf(a.out, "%s%2d. %s (%s, %d followers)\n", pin, i+1, c.DisplayName, status, followers)
		fmt.Fprintf(a.out, "      1) %s\n", describeLink(c.ExternalLink, c.Link1Label))
		if c.HasSecondLink() {
			fmt.Fprintf(a.out, "      2) %s\n", describeLink(c.ExternalLink2, c.Link2Label))
		}
	}

	for _, box := range snap.Instructions {
		if box.FolderID == a.folderID {
			fmt.Fprintf(a.out, "  [note] %s\n", box.Content)
		}
	}
	return nil
}

func describeLink(url, label string) string {
	if label == "" {
		return url
	}
	return fmt.Sprintf("%s (%s)", label, url)
}

// promptCardInput collects the member-editable card fields. Defaults, when
// given, fill in empty answers.
func (a *App) promptCardInput(defaults *models.Card) (engagement.CardInput, error) {
	var input engagement.CardInput
	var err error

	withDefault := func(prompt, current string) (string, error) {
		if current != "" {
			prompt = fmt.Sprintf("%s [%s]", prompt, current)
		}
		answer, err := GetSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return "", err
		}
		if answer == "" {
			return current, nil
		}
		return answer, nil
	}

	var cur models.Card
	if defaults != nil {
		cur = *defaults
	}

	if input.DisplayName, err = withDefault("Display name", cur.DisplayName); err != nil {
		return input, err
	}
	if input.ExternalLink, err = withDefault("Link", cur.ExternalLink); err != nil {
		return input, err
	}
	if input.Link1Label, err = withDefault("Link label (optional)", cur.Link1Label); err != nil {
		return input, err
	}
	if input.ExternalLink2, err = withDefault("Second link (optional)", cur.ExternalLink2); err != nil {
		return input, err
	}
	if input.ExternalLink2 != "" {
		if input.Link2Label, err = withDefault("Second link label (optional)", cur.Link2Label); err != nil {
			return input, err
		}
	}
	return input, nil
}

// Post creates a card in the selected folder.
func (a *App) Post(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}
	if a.folderID == "" {
		fmt.Fprintln(a.out, "Select a folder first")
		return nil
	}
	snap := a.snapshot()
	if snap == nil {
		return nil
	}

	input, err := a.promptCardInput(nil)
	if err != nil {
		return err
	}
	input.FolderID = a.folderID

	if a.user.Role.Privileged() {
		permanent, err := GetConfirm(a.reader, "Make the card permanent?", a.out)
		if err != nil {
			return err
		}
		input.IsPermanent = permanent
	}

	card, err := a.svc.CreateCard(ctx, *a.user, snap, input)
	if err != nil {
		fmt.Fprintln(a.out, "Post failed:", err)
		return err
	}
	fmt.Fprintln(a.out, "Posted", card.DisplayName)
	return nil
}

// Edit updates a card's fields.
func (a *App) Edit(ctx context.Context, cardRef string) error {
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

	input, err := a.promptCardInput(card)
	if err != nil {
		return err
	}
	if err := a.svc.UpdateCard(ctx, *a.user, snap, card.ID, input); err != nil {
		fmt.Fprintln(a.out, "Edit failed:", err)
		return err
	}
	fmt.Fprintln(a.out, "Updated")
	return nil
}

// Delete removes a card after confirmation.
func (a *App) Delete(ctx context.Context, cardRef string) error {
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

	ok, err := GetConfirm(a.reader, fmt.Sprintf("Delete card %q?", card.DisplayName), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.svc.DeleteCard(ctx, *a.user, snap, card.ID); err != nil {
		fmt.Fprintln(a.out, "Delete failed:", err)
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

// Pin toggles a card's pinned flag.
func (a *App) Pin(ctx context.Context, cardRef string) error {
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

	if err := a.svc.TogglePin(ctx, *a.user, snap, card.ID); err != nil {
		fmt.Fprintln(a.out, "Pin failed:", err)
		return err
	}
	fmt.Fprintln(a.out, "Pin toggled")
	return nil
}

// Instruct creates or replaces the instruction note of the selected folder.
// Privileged roles only.
func (a *App) Instruct(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Log in first")
		return nil
	}
	if !a.user.Role.Privileged() {
		fmt.Fprintln(a.out, "Instruct failed:", common.ErrorUnauthorized)
		return common.ErrorUnauthorized
	}
	if a.folderID == "" {
		fmt.Fprintln(a.out, "Select a folder first")
		return nil
	}
	snap := a.snapshot()
	if snap == nil {
		return nil
	}

	content, err := GetSimpleText(a.reader, "Note text (empty to remove)", a.out)
	if err != nil {
		return err
	}

	// Reuse the existing note's id so there is one per folder.
	var existing *models.InstructionBox
	for i := range snap.Instructions {
		if snap.Instructions[i].FolderID == a.folderID {
			existing = &snap.Instructions[i]
			break
		}
	}

	if content == "" {
		if existing == nil {
			return nil
		}
		if err := a.gw.Instructions().Delete(ctx, existing.ID); err != nil {
			fmt.Fprintln(a.out, "Instruct failed:", err)
			return err
		}
		a.engine.RequestRefresh()
		fmt.Fprintln(a.out, "Note removed")
		return nil
	}

	box := models.InstructionBox{
		ID:       uuid.NewString(),
		FolderID: a.folderID,
		PartyID:  a.user.PartyID,
		Content:  content,
	}
	if existing != nil {
		box.ID = existing.ID
		box.PartyID = existing.PartyID
		box.X, box.Y = existing.X, existing.Y
		box.Width, box.Height = existing.Width, existing.Height
	}
	if err := a.gw.Instructions().Upsert(ctx, box); err != nil {
		fmt.Fprintln(a.out, "Instruct failed:", err)
		return err
	}
	a.engine.RequestRefresh()
	fmt.Fprintln(a.out, "Note saved")
	return nil
}
