// Package engagement implements the mutating workflows over the store
// gateway: follow toggling with its notification side effects, card
// lifecycle, pinning and notification reads. Every mutation finishes by
// requesting a coalesced snapshot refresh; the workflows never patch the
// snapshot themselves.
package engagement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/logging"
	"github.com/dmitrijs2005/pods/internal/models"
	"github.com/dmitrijs2005/pods/internal/rules"
	"github.com/dmitrijs2005/pods/internal/store"
	"github.com/dmitrijs2005/pods/internal/syncer"
)

// ErrLinksNotVisited gates a follow on someone else's card until every link
// slot of that card was visited this session.
var ErrLinksNotVisited = errors.New("visit all card links before following")

// Refresher requests a coalesced snapshot refresh. The sync engine satisfies
// it.
type Refresher interface {
	RequestRefresh()
}

// Service executes engagement mutations against the gateway.
type Service struct {
	gw     store.Gateway
	ref    Refresher
	log    logging.Logger
	visits *Visits

	// now supplies epoch-millisecond timestamps.
	now func() int64
}

func NewService(gw store.Gateway, ref Refresher, log logging.Logger) *Service {
	return &Service{
		gw:     gw,
		ref:    ref,
		log:    log,
		visits: NewVisits(),
		now:    func() int64 { return time.Now().UnixMilli() },
	}
}

// Visits exposes the session-local link-visit tracker.
func (s *Service) Visits() *Visits {
	return s.visits
}

// ToggleFollow creates or removes the follow edge from actor to the card.
//
// On create, when the card is not the actor's own, exactly one notification
// is written for the card's author: follow-back when the author already
// follows one of the actor's cards, plain follow otherwise. The actor's own
// unread follow notifications from that author are collapsed to read. On
// remove there are no notification side effects.
//
// A refresh is requested regardless of outcome; the next snapshot, not local
// bookkeeping, is the source of truth.
func (s *Service) ToggleFollow(ctx context.Context, actor models.User, snap *syncer.Snapshot, cardID string) error {
	card := snap.CardByID(cardID)
	if card == nil {
		return common.ErrorNotFound
	}

	defer s.ref.RequestRefresh()

	if edge := snap.FollowEdge(actor.ID, cardID); edge != nil {
		if err := s.gw.Follows().DeleteEdge(ctx, actor.ID, cardID); err != nil {
			return fmt.Errorf("unfollow: %w", err)
		}
		return nil
	}

	foreign := card.UserID != actor.ID
	if foreign && !s.visits.AllVisited(*card) {
		return ErrLinksNotVisited
	}

	nowMillis := s.now()
	follow := models.Follow{
		ID:           uuid.NewString(),
		FollowerID:   actor.ID,
		TargetCardID: cardID,
		PartyID:      card.PartyID,
		Timestamp:    nowMillis,
	}
	if err := s.gw.Follows().Insert(ctx, follow); err != nil {
		return fmt.Errorf("follow: %w", err)
	}

	if !foreign {
		return nil
	}

	notification := models.AppNotification{
		ID:            uuid.NewString(),
		RecipientID:   card.UserID,
		SenderID:      actor.ID,
		SenderName:    actor.Name,
		Type:          s.followType(snap, actor, card),
		RelatedCardID: actorCardID(snap, actor.ID),
		PartyID:       card.PartyID,
		Timestamp:     nowMillis,
	}
	if err := s.gw.Notifications().Insert(ctx, notification); err != nil {
		// The edge is already in; a missing notification is non-fatal
		// and is never reconciled later.
		s.log.Warn(ctx, "follow recorded without notification",
			"card_id", cardID, "recipient", card.UserID, "error", err)
	}

	s.collapseFollowPrompts(ctx, snap, actor.ID, card.UserID)
	return nil
}

// actorCardID returns the actor's own card for the notification's related
// card reference, so the recipient can jump straight to it and close the
// loop. Empty when the actor has no visible card.
func actorCardID(snap *syncer.Snapshot, actorID string) string {
	cards := snap.CardsByUser(actorID)
	if len(cards) == 0 {
		return ""
	}
	return cards[0].ID
}

// followType decides between follow and follow-back: the latter when the
// card's author already follows one of the actor's visible cards.
func (s *Service) followType(snap *syncer.Snapshot, actor models.User, card *models.Card) models.NotificationType {
	mine := make(map[string]bool)
	for _, c := range snap.CardsByUser(actor.ID) {
		mine[c.ID] = true
	}
	for _, f := range snap.Follows {
		if f.FollowerID == card.UserID && mine[f.TargetCardID] {
			return models.NotificationFollowBack
		}
	}
	return models.NotificationFollow
}

// collapseFollowPrompts marks the actor's unread follow notifications from
// the given author as read: once the actor engages back, the prompt has
// served its purpose.
func (s *Service) collapseFollowPrompts(ctx context.Context, snap *syncer.Snapshot, actorID, authorID string) {
	for _, n := range snap.Notifications {
		if n.RecipientID != actorID || n.SenderID != authorID {
			continue
		}
		if n.Type != models.NotificationFollow || n.Read {
			continue
		}
		if err := s.gw.Notifications().MarkRead(ctx, n.ID); err != nil {
			s.log.Warn(ctx, "failed to collapse follow prompt", "notification_id", n.ID, "error", err)
		}
	}
}

// CardInput holds the member-editable fields of a card.
type CardInput struct {
	FolderID      string
	DisplayName   string
	ExternalLink  string
	ExternalLink2 string
	Link1Label    string
	Link2Label    string
	IsPermanent   bool
}

// CreateCard posts a new card after re-running the posting rules against the
// snapshot. Cards posted into a system folder land in the system party so
// every party sees them.
func (s *Service) CreateCard(ctx context.Context, actor models.User, snap *syncer.Snapshot, input CardInput) (*models.Card, error) {
	if input.DisplayName == "" || input.ExternalLink == "" {
		return nil, fmt.Errorf("%w: display name and first link are required", common.ErrorValidation)
	}

	var folder *models.Folder
	for i := range snap.Folders {
		if snap.Folders[i].ID == input.FolderID {
			folder = &snap.Folders[i]
			break
		}
	}
	if folder == nil {
		return nil, common.ErrorNotFound
	}

	nowMillis := s.now()
	if err := rules.CheckCreateCard(actor, *folder, snap.Cards, snap.Party, nowMillis); err != nil {
		return nil, err
	}

	partyID := actor.PartyID
	if folder.PartyID == common.SystemPartyID {
		partyID = common.SystemPartyID
	}

	card := models.Card{
		ID:            uuid.NewString(),
		UserID:        actor.ID,
		CreatorRole:   actor.Role,
		FolderID:      folder.ID,
		PartyID:       partyID,
		DisplayName:   input.DisplayName,
		ExternalLink:  input.ExternalLink,
		ExternalLink2: input.ExternalLink2,
		Link1Label:    input.Link1Label,
		Link2Label:    input.Link2Label,
		IsPermanent:   input.IsPermanent && actor.Role.Privileged(),
		Timestamp:     nowMillis,
	}

	defer s.ref.RequestRefresh()
	if err := s.gw.Cards().Insert(ctx, card); err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}
	return &card, nil
}

// UpdateCard replaces the member-editable fields of the card.
func (s *Service) UpdateCard(ctx context.Context, actor models.User, snap *syncer.Snapshot, cardID string, input CardInput) error {
	card := snap.CardByID(cardID)
	if card == nil {
		return common.ErrorNotFound
	}
	if !rules.CanManage(*card, actor) {
		return common.ErrorUnauthorized
	}
	if input.DisplayName == "" || input.ExternalLink == "" {
		return fmt.Errorf("%w: display name and first link are required", common.ErrorValidation)
	}

	updated := *card
	updated.DisplayName = input.DisplayName
	updated.ExternalLink = input.ExternalLink
	updated.ExternalLink2 = input.ExternalLink2
	updated.Link1Label = input.Link1Label
	updated.Link2Label = input.Link2Label

	defer s.ref.RequestRefresh()
	if err := s.gw.Cards().Update(ctx, updated); err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	return nil
}

// DeleteCard removes the card.
func (s *Service) DeleteCard(ctx context.Context, actor models.User, snap *syncer.Snapshot, cardID string) error {
	card := snap.CardByID(cardID)
	if card == nil {
		return common.ErrorNotFound
	}
	if !rules.CanManage(*card, actor) {
		return common.ErrorUnauthorized
	}

	defer s.ref.RequestRefresh()
	if err := s.gw.Cards().Delete(ctx, cardID); err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	return nil
}

// TogglePin flips the card's pinned flag.
func (s *Service) TogglePin(ctx context.Context, actor models.User, snap *syncer.Snapshot, cardID string) error {
	card := snap.CardByID(cardID)
	if card == nil {
		return common.ErrorNotFound
	}
	if !rules.CanPin(*card, actor) {
		return common.ErrorUnauthorized
	}

	defer s.ref.RequestRefresh()
	if err := s.gw.Cards().SetPinned(ctx, cardID, !card.IsPinned); err != nil {
		return fmt.Errorf("toggle pin: %w", err)
	}
	return nil
}

// MarkNotificationRead flips a notification addressed to the actor to read.
func (s *Service) MarkNotificationRead(ctx context.Context, actor models.User, snap *syncer.Snapshot, notificationID string) error {
	var target *models.AppNotification
	for i := range snap.Notifications {
		if snap.Notifications[i].ID == notificationID {
			target = &snap.Notifications[i]
			break
		}
	}
	if target == nil {
		return common.ErrorNotFound
	}
	if target.RecipientID != actor.ID {
		return common.ErrorUnauthorized
	}

	defer s.ref.RequestRefresh()
	if err := s.gw.Notifications().MarkRead(ctx, notificationID); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}
