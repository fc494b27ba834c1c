// Package slots models the fixed set of plan slots a user owns. A Board is a
// small state machine: each slot is empty or occupied, and an offer that finds
// every slot occupied parks the board until the caller picks a slot to
// replace or cancels.
package slots

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidSlot          = errors.New("invalid plan slot")
	ErrSlotEmpty            = errors.New("plan slot is empty")
	ErrNoPendingOffer       = errors.New("no plan is waiting for a slot")
	ErrAwaitingConfirmation = errors.New("a previous plan is still waiting for a slot")
)

// State of a single slot.
type State string

const (
	StateEmpty    State = "empty"
	StateOccupied State = "occupied"
)

// Outcome of offering a plan to the board.
type Outcome string

const (
	OutcomePlaced            Outcome = "placed"             // Stored in the first empty slot
	OutcomeUnchanged         Outcome = "unchanged"          // Same answers already stored
	OutcomeNeedsConfirmation Outcome = "needs_confirmation" // Every slot occupied
	OutcomeReplaced          Outcome = "replaced"           // Pending offer confirmed into an occupied slot
	OutcomeRefreshed         Outcome = "refreshed"          // Slot with the same answers rebuilt in place
)

// Entry is the visible state of one slot.
type Entry struct {
	Slot      int       `json:"slot"`
	State     State     `json:"state"`
	Hash      string    `json:"sourceAnswersHash,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Decision tells the caller what Offer did and which slot it refers to. For
// OutcomeNeedsConfirmation Slot is -1.
type Decision struct {
	Outcome Outcome `json:"outcome"`
	Slot    int     `json:"slot"`
}

// Board holds the slots of one user. It is not safe for concurrent use; load
// it per request from storage.
type Board struct {
	entries []Entry
	pending string
	now     func() time.Time
}

// NewBoard returns a board with size empty slots.
func NewBoard(size int, now func() time.Time) *Board {
	if now == nil {
		now = time.Now
	}
	b := &Board{entries: make([]Entry, size), now: now}
	for i := range b.entries {
		b.entries[i] = Entry{Slot: i, State: StateEmpty}
	}
	return b
}

// Restore marks slot as occupied by a previously stored plan.
func (b *Board) Restore(slot int, hash string, updatedAt time.Time) error {
	if err := b.check(slot); err != nil {
		return err
	}
	b.entries[slot] = Entry{Slot: slot, State: StateOccupied, Hash: hash, UpdatedAt: updatedAt}
	return nil
}

// Offer places a plan identified by its source answers hash. While an offer
// is pending confirmation no other offer is accepted.
func (b *Board) Offer(hash string) (Decision, error) {
	if b.pending != "" {
		return Decision{}, ErrAwaitingConfirmation
	}
	for _, e := range b.entries {
		if e.State == StateOccupied && e.Hash == hash {
			return Decision{Outcome: OutcomeUnchanged, Slot: e.Slot}, nil
		}
	}
	for i, e := range b.entries {
		if e.State == StateEmpty {
			b.occupy(i, hash)
			return Decision{Outcome: OutcomePlaced, Slot: i}, nil
		}
	}
	b.pending = hash
	return Decision{Outcome: OutcomeNeedsConfirmation, Slot: -1}, nil
}

// Refresh offers a plan rebuilt from answers that may already be stored,
// e.g. after the catalog changed. A slot holding hash is overwritten in place
// with OutcomeRefreshed; otherwise it behaves like Offer.
func (b *Board) Refresh(hash string) (Decision, error) {
	if b.pending != "" {
		return Decision{}, ErrAwaitingConfirmation
	}
	for i, e := range b.entries {
		if e.State == StateOccupied && e.Hash == hash {
			b.occupy(i, hash)
			return Decision{Outcome: OutcomeRefreshed, Slot: i}, nil
		}
	}
	return b.Offer(hash)
}

// Replace confirms the pending offer by overwriting slot.
func (b *Board) Replace(slot int) (Decision, error) {
	if b.pending == "" {
		return Decision{}, ErrNoPendingOffer
	}
	if err := b.check(slot); err != nil {
		return Decision{}, err
	}
	b.occupy(slot, b.pending)
	b.pending = ""
	return Decision{Outcome: OutcomeReplaced, Slot: slot}, nil
}

// Cancel drops the pending offer. It reports whether there was one.
func (b *Board) Cancel() bool {
	had := b.pending != ""
	b.pending = ""
	return had
}

// Clear empties an occupied slot.
func (b *Board) Clear(slot int) error {
	if err := b.check(slot); err != nil {
		return err
	}
	if b.entries[slot].State == StateEmpty {
		return fmt.Errorf("slot %d: %w", slot, ErrSlotEmpty)
	}
	b.entries[slot] = Entry{Slot: slot, State: StateEmpty}
	return nil
}

// Pending returns the hash waiting for confirmation, if any.
func (b *Board) Pending() (string, bool) {
	return b.pending, b.pending != ""
}

// Entries returns a copy of every slot in slot order.
func (b *Board) Entries() []Entry {
	return append([]Entry(nil), b.entries...)
}

// Occupied counts occupied slots.
func (b *Board) Occupied() int {
	n := 0
	for _, e := range b.entries {
		if e.State == StateOccupied {
			n++
		}
	}
	return n
}

// Full reports whether every slot is occupied.
func (b *Board) Full() bool {
	return b.Occupied() == len(b.entries)
}

func (b *Board) occupy(slot int, hash string) {
	b.entries[slot] = Entry{Slot: slot, State: StateOccupied, Hash: hash, UpdatedAt: b.now().UTC()}
}

func (b *Board) check(slot int) error {
	if slot < 0 || slot >= len(b.entries) {
		return fmt.Errorf("slot %d not in [0,%d): %w", slot, len(b.entries), ErrInvalidSlot)
	}
	return nil
}
