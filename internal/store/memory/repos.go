package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/models"
)

// visibleTo reports whether a row's party scope is visible to a subscriber
// of partyID (own party plus the system overlay).
func visibleTo(rowPartyID, partyID string) bool {
	return rowPartyID == partyID || rowPartyID == common.SystemPartyID
}

type partyRepo struct{ g *Gateway }

func (r *partyRepo) Get(ctx context.Context, id string) (*models.Party, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	p, ok := r.g.parties[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (r *partyRepo) GetByName(ctx context.Context, name string) (*models.Party, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	for _, p := range r.g.parties {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return &p, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *partyRepo) List(ctx context.Context) ([]models.Party, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	result := make([]models.Party, 0, len(r.g.parties))
	for _, p := range r.g.parties {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *partyRepo) Insert(ctx context.Context, party models.Party) error {
	r.g.mu.Lock()
	if _, ok := r.g.parties[party.ID]; ok {
		r.g.mu.Unlock()
		return common.ErrorAlreadyExists
	}
	r.g.parties[party.ID] = party
	r.g.mu.Unlock()
	r.g.notify(party.ID)
	return nil
}

func (r *partyRepo) UpdateTimezone(ctx context.Context, id, timezone string) error {
	r.g.mu.Lock()
	p, ok := r.g.parties[id]
	if !ok {
		r.g.mu.Unlock()
		return common.ErrorNotFound
	}
	p.Timezone = timezone
	r.g.parties[id] = p
	r.g.mu.Unlock()
	r.g.notify(id)
	return nil
}

func (r *partyRepo) Delete(ctx context.Context, id string) error {
	r.g.mu.Lock()
	delete(r.g.parties, id)
	r.g.mu.Unlock()
	r.g.notify(id)
	return nil
}

type userRepo struct{ g *Gateway }

func (r *userRepo) Get(ctx context.Context, id string) (*models.User, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	u, ok := r.g.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByNameAndParty(ctx context.Context, name, partyID string) (*models.User, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	for _, u := range r.g.users {
		if u.Name == name && u.PartyID == partyID {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *userRepo) List(ctx context.Context) ([]models.User, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	result := make([]models.User, 0, len(r.g.users))
	for _, u := range r.g.users {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *userRepo) Insert(ctx context.Context, user models.User) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if _, ok := r.g.users[user.ID]; ok {
		return common.ErrorAlreadyExists
	}
	r.g.users[user.ID] = user
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	delete(r.g.users, id)
	return nil
}

func (r *userRepo) DeleteByParty(ctx context.Context, partyID string) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	for id, u := range r.g.users {
		if u.PartyID == partyID {
			delete(r.g.users, id)
		}
	}
	return nil
}

type folderRepo struct{ g *Gateway }

func (r *folderRepo) ListVisible(ctx context.Context, partyID string) ([]models.Folder, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	var result []models.Folder
	for _, f := range r.g.folders {
		if visibleTo(f.PartyID, partyID) {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *folderRepo) Insert(ctx context.Context, folder models.Folder) error {
	r.g.mu.Lock()
	if _, ok := r.g.folders[folder.ID]; ok {
		r.g.mu.Unlock()
		return common.ErrorAlreadyExists
	}
	r.g.folders[folder.ID] = folder
	r.g.mu.Unlock()
	r.g.notify(folder.PartyID)
	return nil
}

func (r *folderRepo) Rename(ctx context.Context, id, name string) error {
	r.g.mu.Lock()
	f, ok := r.g.folders[id]
	if !ok {
		r.g.mu.Unlock()
		return common.ErrorNotFound
	}
	f.Name = name
	r.g.folders[id] = f
	r.g.mu.Unlock()
	r.g.notify(f.PartyID)
	return nil
}

func (r *folderRepo) Delete(ctx context.Context, id string) error {
	r.g.mu.Lock()
	f, ok := r.g.folders[id]
	delete(r.g.folders, id)
	r.g.mu.Unlock()
	if ok {
		r.g.notify(f.PartyID)
	}
	return nil
}

func (r *folderRepo) DeleteByParty(ctx context.Context, partyID string) error {
	r.g.mu.Lock()
	for id, f := range r.g.folders {
		if f.PartyID == partyID {
			delete(r.g.folders, id)
		}
	}
	r.g.mu.Unlock()
	r.g.notify(partyID)
	return nil
}

type cardRepo struct{ g *Gateway }

func (r *cardRepo) ListVisible(ctx context.Context, partyID string) ([]models.Card, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	var result []models.Card
	for _, c := range r.g.cards {
		if visibleTo(c.PartyID, partyID) {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Timestamp > result[j].Timestamp })
	return result, nil
}

func (r *cardRepo) Insert(ctx context.Context, card models.Card) error {
	r.g.mu.Lock()
	if _, ok := r.g.cards[card.ID]; ok {
		r.g.mu.Unlock()
		return common.ErrorAlreadyExists
	}
	r.g.cards[card.ID] = card
	r.g.mu.Unlock()
	r.g.notify(card.PartyID)
	return nil
}

func (r *cardRepo) Update(ctx context.Context, card models.Card) error {
	r.g.mu.Lock()
	if _, ok := r.g.cards[card.ID]; !ok {
		r.g.mu.Unlock()
		return common.ErrorNotFound
	}
	r.g.cards[card.ID] = card
	r.g.mu.Unlock()
	r.g.notify(card.PartyID)
	return nil
}

func (r *cardRepo) SetPinned(ctx context.Context, id string, pinned bool) error {
	r.g.mu.Lock()
	c, ok := r.g.cards[id]
	if !ok {
		r.g.mu.Unlock()
		return common.ErrorNotFound
	}
	c.IsPinned = pinned
	r.g.cards[id] = c
	r.g.mu.Unlock()
	r.g.notify(c.PartyID)
	return nil
}

func (r *cardRepo) Delete(ctx context.Context, id string) error {
	r.g.mu.Lock()
	c, ok := r.g.cards[id]
	delete(r.g.cards, id)
	r.g.mu.Unlock()
	if ok {
		r.g.notify(c.PartyID)
	}
	return nil
}

func (r *cardRepo) DeleteByParty(ctx context.Context, partyID string) error {
	r.g.mu.Lock()
	for id, c := range r.g.cards {
		if c.PartyID == partyID {
			delete(r.g.cards, id)
		}
	}
	r.g.mu.Unlock()
	r.g.notify(partyID)
	return nil
}

type followRepo struct{ g *Gateway }

func (r *followRepo) ListByParty(ctx context.Context, partyID string) ([]models.Follow, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	var result []models.Follow
	for _, f := range r.g.follows {
		if f.PartyID == partyID {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Timestamp > result[j].Timestamp })
	return result, nil
}

func (r *followRepo) Insert(ctx context.Context, follow models.Follow) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	// Idempotent on the natural key: a duplicate toggle must not create a
	// second edge.
	for _, f := range r.g.follows {
		if f.FollowerID == follow.FollowerID && f.TargetCardID == follow.TargetCardID {
			return nil
		}
	}
	r.g.follows[follow.ID] = follow
	return nil
}

func (r *followRepo) DeleteEdge(ctx context.Context, followerID, targetCardID string) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	for id, f := range r.g.follows {
		if f.FollowerID == followerID && f.TargetCardID == targetCardID {
			delete(r.g.follows, id)
		}
	}
	return nil
}

func (r *followRepo) DeleteByParty(ctx context.Context, partyID string) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	for id, f := range r.g.follows {
		if f.PartyID == partyID {
			delete(r.g.follows, id)
		}
	}
	return nil
}

type notificationRepo struct{ g *Gateway }

func (r *notificationRepo) ListByParty(ctx context.Context, partyID string) ([]models.AppNotification, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	var result []models.AppNotification
	for _, n := range r.g.notifications {
		if n.PartyID == partyID {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Timestamp > result[j].Timestamp })
	return result, nil
}

func (r *notificationRepo) Insert(ctx context.Context, notification models.AppNotification) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	if _, ok := r.g.notifications[notification.ID]; ok {
		return common.ErrorAlreadyExists
	}
	r.g.notifications[notification.ID] = notification
	return nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	n, ok := r.g.notifications[id]
	if !ok {
		return common.ErrorNotFound
	}
	n.Read = true
	r.g.notifications[id] = n
	return nil
}

func (r *notificationRepo) DeleteByParty(ctx context.Context, partyID string) error {
	r.g.mu.Lock()
	defer r.g.mu.Unlock()
	for id, n := range r.g.notifications {
		if n.PartyID == partyID {
			delete(r.g.notifications, id)
		}
	}
	return nil
}

type instructionRepo struct{ g *Gateway }

func (r *instructionRepo) ListVisible(ctx context.Context, partyID string) ([]models.InstructionBox, error) {
	r.g.mu.RLock()
	defer r.g.mu.RUnlock()
	var result []models.InstructionBox
	for _, b := range r.g.instructions {
		if visibleTo(b.PartyID, partyID) {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *instructionRepo) Upsert(ctx context.Context, box models.InstructionBox) error {
	r.g.mu.Lock()
	r.g.instructions[box.ID] = box
	r.g.mu.Unlock()
	r.g.notify(box.PartyID)
	return nil
}

func (r *instructionRepo) Delete(ctx context.Context, id string) error {
	r.g.mu.Lock()
	b, ok := r.g.instructions[id]
	delete(r.g.instructions, id)
	r.g.mu.Unlock()
	if ok {
		r.g.notify(b.PartyID)
	}
	return nil
}

func (r *instructionRepo) DeleteByParty(ctx context.Context, partyID string) error {
	r.g.mu.Lock()
	for id, b := range r.g.instructions {
		if b.PartyID == partyID {
			delete(r.g.instructions, id)
		}
	}
	r.g.mu.Unlock()
	r.g.notify(partyID)
	return nil
}
