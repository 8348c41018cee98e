package token

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/indicoin-xyz/go-indicoin/eventsource"
)

// Recorder couples a Ledger with an eventsource stream. After each
// successful mutation it drains the ledger's journal and appends the
// notifications to the stream with optimistic concurrency, so external
// observers see exactly the records the engine emitted, in order.
type Recorder struct {
	ledger  *Ledger
	store   eventsource.Store
	stream  string
	version int
}

// NewRecorder attaches a ledger to a stream, picking up the stream's
// current version.
func NewRecorder(ctx context.Context, ledger *Ledger, store eventsource.Store, stream string) (*Recorder, error) {
	version, err := store.StreamVersion(ctx, stream)
	if err != nil {
		return nil, err
	}
	return &Recorder{ledger: ledger, store: store, stream: stream, version: version}, nil
}

// Ledger returns the underlying ledger for read-only access.
func (r *Recorder) Ledger() *Ledger { return r.ledger }

// Flush appends all drained notifications to the stream. The mirrored
// operations call it automatically; it is exported for attaching a recorder
// to a ledger that already has journaled notifications. When the append
// fails, the notifications are put back in the journal so a later flush
// can still record them.
func (r *Recorder) Flush(ctx context.Context) error {
	notes := r.ledger.Drain()
	if len(notes) == 0 {
		return nil
	}

	events := make([]*eventsource.Event, 0, len(notes))
	for _, n := range notes {
		e, err := eventsource.NewEvent(r.stream, string(n.Kind), n)
		if err != nil {
			r.ledger.restore(notes)
			return err
		}
		events = append(events, e)
	}

	version, err := r.store.Append(ctx, r.stream, r.version, events)
	if err != nil {
		r.ledger.restore(notes)
		return err
	}
	r.version = version
	return nil
}

// Mint mints through the ledger and records the notifications.
func (r *Recorder) Mint(ctx context.Context, caller, to Address, amount *uint256.Int) error {
	if err := r.ledger.Mint(caller, to, amount); err != nil {
		return err
	}
	return r.Flush(ctx)
}

// Burn burns through the ledger and records the notifications.
func (r *Recorder) Burn(ctx context.Context, caller Address, amount *uint256.Int) error {
	if err := r.ledger.Burn(caller, amount); err != nil {
		return err
	}
	return r.Flush(ctx)
}

// Transfer transfers through the ledger and records the notifications.
func (r *Recorder) Transfer(ctx context.Context, caller, to Address, amount *uint256.Int) error {
	if err := r.ledger.Transfer(caller, to, amount); err != nil {
		return err
	}
	return r.Flush(ctx)
}

// Approve approves through the ledger and records the notification.
func (r *Recorder) Approve(ctx context.Context, caller, spender Address, amount *uint256.Int) error {
	if err := r.ledger.Approve(caller, spender, amount); err != nil {
		return err
	}
	return r.Flush(ctx)
}

// TransferFrom spends an allowance through the ledger and records the
// notifications.
func (r *Recorder) TransferFrom(ctx context.Context, caller, from, to Address, amount *uint256.Int) error {
	if err := r.ledger.TransferFrom(caller, from, to, amount); err != nil {
		return err
	}
	return r.Flush(ctx)
}

// SetOutflowCap updates the cap through the ledger and records the
// notification.
func (r *Recorder) SetOutflowCap(ctx context.Context, caller Address, newCap *uint256.Int) error {
	if err := r.ledger.SetOutflowCap(caller, newCap); err != nil {
		return err
	}
	return r.Flush(ctx)
}

// UpdateReserves updates reserves through the ledger and records the
// notification.
func (r *Recorder) UpdateReserves(ctx context.Context, caller Address, amount *uint256.Int) error {
	if err := r.ledger.UpdateReserves(caller, amount); err != nil {
		return err
	}
	return r.Flush(ctx)
}

// TogglePause toggles the pause flag through the ledger and records the
// notification.
func (r *Recorder) TogglePause(ctx context.Context, caller Address) error {
	if err := r.ledger.TogglePause(caller); err != nil {
		return err
	}
	return r.Flush(ctx)
}
