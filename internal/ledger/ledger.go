// Package ledger is the durable record of managed accounts: their slot
// numbers, the rotation order and which slot is active.
package ledger

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"time"
)

// AuthMode is how an account authenticates with the host.
type AuthMode string

const (
	// OAuth accounts carry their identity in the host config and the host
	// may refresh their credentials at any time.
	OAuth AuthMode = "oauth"
	// Token accounts use a fixed long-lived secret.
	Token AuthMode = "token"
)

// Slot is one managed account.
type Slot struct {
	ID         int
	Label      string // email for OAuth accounts, operator-chosen for tokens
	ExternalID string // host account uuid; empty for tokens
	Added      time.Time
	Mode       AuthMode
}

// Ledger is the in-memory form of the ledger file. Active is 0 when no slot
// is active; slot ids start at 1.
type Ledger struct {
	Active      int
	LastUpdated time.Time
	Order       []int
	Slots       map[int]Slot
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{Order: []int{}, Slots: map[int]Slot{}}
}

// Len is the number of managed slots.
func (l *Ledger) Len() int { return len(l.Slots) }

// NextSlotID is one more than the highest slot id in use. Once the highest
// slot is removed its id is handed out again.
func (l *Ledger) NextSlotID() int {
	max := 0
	for id := range l.Slots {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// Get returns the slot with id.
func (l *Ledger) Get(id int) (Slot, bool) {
	s, ok := l.Slots[id]
	return s, ok
}

// ActiveSlot returns the active slot, if any.
func (l *Ledger) ActiveSlot() (Slot, bool) {
	if l.Active == 0 {
		return Slot{}, false
	}
	return l.Get(l.Active)
}

// FindByLabel returns the lowest-numbered slot whose label equals label.
// Labels are not unique; duplicates are not rejected when added.
func (l *Ledger) FindByLabel(label string) (Slot, bool) {
	ids := make([]int, 0, len(l.Slots))
	for id, s := range l.Slots {
		if s.Label == label {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return Slot{}, false
	}
	sort.Ints(ids)
	return l.Slots[ids[0]], true
}

// Resolve finds a slot by numeric id or, failing to parse as a number, by
// exact label. A number that is not a slot id does not fall back to labels.
func (l *Ledger) Resolve(identifier string) (Slot, bool) {
	if id, err := strconv.Atoi(identifier); err == nil {
		return l.Get(id)
	}
	return l.FindByLabel(identifier)
}

// Insert registers s, appends it to the rotation order and makes it active.
func (l *Ledger) Insert(s Slot) error {
	if s.ID < 1 {
		return fmt.Errorf("invalid slot id %d", s.ID)
	}
	if _, exists := l.Slots[s.ID]; exists {
		return fmt.Errorf("slot %d already exists", s.ID)
	}
	if l.Slots == nil {
		l.Slots = map[int]Slot{}
	}
	l.Slots[s.ID] = s
	l.Order = append(l.Order, s.ID)
	l.Active = s.ID
	return nil
}

// Remove deletes slot id from the map and the rotation order, clearing the
// active pointer if it pointed at id.
func (l *Ledger) Remove(id int) {
	delete(l.Slots, id)
	l.Order = slices.DeleteFunc(l.Order, func(n int) bool { return n == id })
	if l.Active == id {
		l.Active = 0
	}
}

// Ordered returns the slots in rotation order.
func (l *Ledger) Ordered() []Slot {
	out := make([]Slot, 0, len(l.Order))
	for _, id := range l.Order {
		if s, ok := l.Slots[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// NextAfter returns the id following current in rotation order, wrapping
// past the end. An id not in the order is treated as the first position.
func (l *Ledger) NextAfter(current int) (int, bool) {
	if len(l.Order) == 0 {
		return 0, false
	}
	idx := slices.Index(l.Order, current)
	if idx < 0 {
		idx = 0
	}
	return l.Order[(idx+1)%len(l.Order)], true
}

// Validate checks the structural invariants: the rotation order and the
// slot map hold the same ids without duplicates, and the active slot, if
// any, is one of them.
func (l *Ledger) Validate() error {
	seen := make(map[int]bool, len(l.Order))
	for _, id := range l.Order {
		if seen[id] {
			return fmt.Errorf("slot %d appears twice in rotation order", id)
		}
		seen[id] = true
		if _, ok := l.Slots[id]; !ok {
			return fmt.Errorf("rotation order names unknown slot %d", id)
		}
	}
	for id, s := range l.Slots {
		if id < 1 {
			return fmt.Errorf("invalid slot id %d", id)
		}
		if s.ID != id {
			return fmt.Errorf("slot %d is recorded under id %d", s.ID, id)
		}
		if !seen[id] {
			return fmt.Errorf("slot %d missing from rotation order", id)
		}
	}
	if l.Active != 0 {
		if _, ok := l.Slots[l.Active]; !ok {
			return fmt.Errorf("active slot %d does not exist", l.Active)
		}
	}
	return nil
}
