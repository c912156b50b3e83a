// Package memory implements the store gateway over mutex-guarded maps with
// synchronous change fan-out. It backs unit tests and mirrors the semantics
// the postgres implementation gets from constraints and triggers.
package memory

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/models"
	"github.com/dmitrijs2005/pods/internal/store"
)

// Gateway is an in-memory store.Gateway.
type Gateway struct {
	mu sync.RWMutex

	parties       map[string]models.Party
	users         map[string]models.User
	folders       map[string]models.Folder
	cards         map[string]models.Card
	follows       map[string]models.Follow
	notifications map[string]models.AppNotification
	instructions  map[string]models.InstructionBox

	subMu   sync.Mutex
	nextSub int
	subs    map[int]*memSubscription
}

// NewGateway returns an empty in-memory gateway.
func NewGateway() *Gateway {
	return &Gateway{
		parties:       make(map[string]models.Party),
		users:         make(map[string]models.User),
		folders:       make(map[string]models.Folder),
		cards:         make(map[string]models.Card),
		follows:       make(map[string]models.Follow),
		notifications: make(map[string]models.AppNotification),
		instructions:  make(map[string]models.InstructionBox),
		subs:          make(map[int]*memSubscription),
	}
}

func (g *Gateway) Parties() store.PartyRepository              { return &partyRepo{g} }
func (g *Gateway) Users() store.UserRepository                 { return &userRepo{g} }
func (g *Gateway) Folders() store.FolderRepository             { return &folderRepo{g} }
func (g *Gateway) Cards() store.CardRepository                 { return &cardRepo{g} }
func (g *Gateway) Follows() store.FollowRepository             { return &followRepo{g} }
func (g *Gateway) Notifications() store.NotificationRepository { return &notificationRepo{g} }
func (g *Gateway) Instructions() store.InstructionRepository   { return &instructionRepo{g} }

// memSubscription implements store.Subscription for the in-memory feed.
type memSubscription struct {
	g       *Gateway
	id      int
	partyID string
	handler store.ChangeHandler
	once    sync.Once
	done    chan struct{}
}

func (s *memSubscription) Done() <-chan struct{} { return s.done }

func (s *memSubscription) Stop() {
	s.g.subMu.Lock()
	delete(s.g.subs, s.id)
	s.g.subMu.Unlock()
	s.shutdown()
}

func (s *memSubscription) shutdown() {
	s.once.Do(func() { close(s.done) })
}

// Subscribe registers a synchronous change handler scoped to partyID.
// System-party changes are fanned out to every subscriber, matching the
// overlay visibility rule.
func (g *Gateway) Subscribe(ctx context.Context, partyID string, onChange store.ChangeHandler) (store.Subscription, error) {
	g.subMu.Lock()
	defer g.subMu.Unlock()

	g.nextSub++
	sub := &memSubscription{
		g:       g,
		id:      g.nextSub,
		partyID: partyID,
		handler: onChange,
		done:    make(chan struct{}),
	}
	g.subs[sub.id] = sub

	return sub, nil
}

// Close drops every subscription and signals its Done channel so watchers
// observe the shutdown.
func (g *Gateway) Close() error {
	g.subMu.Lock()
	subs := make([]*memSubscription, 0, len(g.subs))
	for _, s := range g.subs {
		subs = append(subs, s)
	}
	g.subs = make(map[int]*memSubscription)
	g.subMu.Unlock()

	for _, s := range subs {
		s.shutdown()
	}
	return nil
}

// notify fans a change on the given party out to matching subscribers.
// Must not be called while g.mu is held: handlers typically re-enter the
// gateway through a refresh.
func (g *Gateway) notify(partyID string) {
	g.subMu.Lock()
	var handlers []store.ChangeHandler
	for _, s := range g.subs {
		if s.partyID == partyID || partyID == common.SystemPartyID {
			handlers = append(handlers, s.handler)
		}
	}
	g.subMu.Unlock()

	for _, h := range handlers {
		h()
	}
}
