package engagement

import (
	"sync"

	"github.com/dmitrijs2005/pods/internal/models"
)

// Visits is the session-local link-visit tracker. Following someone else's
// card is gated on having visited every populated link slot of that card in
// the current session. The state is never persisted; a new session starts
// empty.
type Visits struct {
	mu   sync.Mutex
	seen map[string]map[int]bool
}

func NewVisits() *Visits {
	return &Visits{seen: make(map[string]map[int]bool)}
}

// MarkVisited records that the given link slot (1 or 2) of the card was
// opened.
func (v *Visits) MarkVisited(cardID string, slot int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seen[cardID] == nil {
		v.seen[cardID] = make(map[int]bool)
	}
	v.seen[cardID][slot] = true
}

// Visited reports whether the given link slot of the card was opened.
func (v *Visits) Visited(cardID string, slot int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.seen[cardID][slot]
}

// AllVisited reports whether every populated link slot of the card was
// opened this session.
func (v *Visits) AllVisited(card models.Card) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	slots := v.seen[card.ID]
	if !slots[1] {
		return false
	}
	if card.HasSecondLink() && !slots[2] {
		return false
	}
	return true
}

// Reset clears all recorded visits, for session teardown.
func (v *Visits) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seen = make(map[string]map[int]bool)
}
