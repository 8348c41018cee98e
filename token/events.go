package token

import (
	"time"

	"github.com/holiman/uint256"
)

// Kind identifies a notification record type.
type Kind string

// Notification kinds emitted by mutating operations.
const (
	KindTransfer          Kind = "Transfer"
	KindApproval          Kind = "Approval"
	KindMint              Kind = "Mint"
	KindBurn              Kind = "Burn"
	KindGreenFundTransfer Kind = "GreenFundTransfer"
	KindOutflowCapSet     Kind = "OutflowCapSet"
	KindReservesUpdated   Kind = "ReservesUpdated"
	KindPauseToggled      Kind = "PauseToggled"
)

// Notification is one append-only record describing a committed mutation.
// Field meaning varies by kind:
//
//	Transfer          From -> To moved Amount (From/To may be the null address)
//	Approval          From granted To a spending limit of Amount
//	Mint              To received Amount of new supply
//	Burn              From destroyed Amount
//	GreenFundTransfer From paid Amount of fee to To (the green fund)
//	OutflowCapSet     Amount is the new cap
//	ReservesUpdated   Amount is the new reserve counter
//	PauseToggled      Paused is the new pause state
type Notification struct {
	Seq    uint64       `json:"seq"`
	Kind   Kind         `json:"kind"`
	From   Address      `json:"from,omitempty"`
	To     Address      `json:"to,omitempty"`
	Amount *uint256.Int `json:"amount,omitempty"`
	Paused bool         `json:"paused,omitempty"`
	Time   time.Time    `json:"time"`
}

// emit appends a record to the journal. Callers hold the mutation lock.
func (l *Ledger) emit(n Notification) {
	l.seq++
	n.Seq = l.seq
	n.Time = l.now()
	l.journal = append(l.journal, n)
}

// Notifications returns a copy of the journal without consuming it.
func (l *Ledger) Notifications() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Notification, len(l.journal))
	copy(out, l.journal)
	return out
}

// Drain returns all journaled notifications and empties the journal.
func (l *Ledger) Drain() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.journal
	l.journal = nil
	return out
}

// restore puts drained notifications back at the front of the journal,
// ahead of anything emitted since the drain.
func (l *Ledger) restore(notes []Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.journal = append(notes, l.journal...)
}
