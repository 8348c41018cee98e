package token_test

import (
	"context"
	"errors"
	"testing"

	"github.com/indicoin-xyz/go-indicoin/eventsource"
	"github.com/indicoin-xyz/go-indicoin/token"
)

func TestRecorderAndReplay(t *testing.T) {
	ctx := context.Background()
	store := eventsource.NewMemoryStore()
	defer store.Close()

	l := newLedger()
	rec, err := token.NewRecorder(ctx, l, store, "indicoin")
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	if err := rec.Mint(ctx, owner, alice, amt(10000)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := rec.Transfer(ctx, alice, bob, amt(5000)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if err := rec.Approve(ctx, alice, bob, amt(1000)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := rec.Burn(ctx, alice, amt(2000)); err != nil {
		t.Fatalf("burn: %v", err)
	}
	if err := rec.SetOutflowCap(ctx, owner, amt(777)); err != nil {
		t.Fatalf("set cap: %v", err)
	}
	if err := rec.UpdateReserves(ctx, owner, amt(5)); err != nil {
		t.Fatalf("reserves: %v", err)
	}
	if err := rec.TogglePause(ctx, owner); err != nil {
		t.Fatalf("pause: %v", err)
	}

	// The journal is drained as it is recorded.
	if notes := l.Notifications(); len(notes) != 0 {
		t.Errorf("journal not drained: %d records left", len(notes))
	}

	view, err := token.Replay(ctx, store, "indicoin")
	if err != nil {
		t.Fatalf("replay: %v", err)
	}

	for _, acct := range []token.Address{alice, bob, fund} {
		want := l.BalanceOf(acct)
		got, ok := view.Balances[acct]
		if !ok || !got.Eq(want) {
			t.Errorf("replayed balance[%s] = %v, want %s", acct, got, want.Dec())
		}
	}
	if !view.TotalSupply.Eq(l.TotalSupply()) {
		t.Errorf("replayed supply = %s, want %s", view.TotalSupply.Dec(), l.TotalSupply().Dec())
	}
	if !view.OutflowCap.Eq(amt(777)) {
		t.Errorf("replayed cap = %s, want 777", view.OutflowCap.Dec())
	}
	if !view.TotalReserves.Eq(amt(5)) {
		t.Errorf("replayed reserves = %s, want 5", view.TotalReserves.Dec())
	}
	if !view.Paused {
		t.Error("replayed pause flag should be set")
	}
	if got := view.Allowances[alice][bob]; got == nil || !got.Eq(amt(1000)) {
		t.Errorf("replayed allowance = %v, want 1000", got)
	}
}

func TestRecorderFailedOpRecordsNothing(t *testing.T) {
	ctx := context.Background()
	store := eventsource.NewMemoryStore()
	defer store.Close()

	l := newLedger()
	rec, err := token.NewRecorder(ctx, l, store, "indicoin")
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	if err := rec.Mint(ctx, alice, alice, amt(1)); !errors.Is(err, token.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	version, err := store.StreamVersion(ctx, "indicoin")
	if err != nil {
		t.Fatalf("stream version: %v", err)
	}
	if version != -1 {
		t.Errorf("stream version = %d, want -1 (nothing recorded)", version)
	}
}

func TestReplayTracksAllowanceSpend(t *testing.T) {
	ctx := context.Background()
	store := eventsource.NewMemoryStore()
	defer store.Close()

	l := newLedger()
	rec, err := token.NewRecorder(ctx, l, store, "indicoin")
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	if err := rec.Mint(ctx, owner, alice, amt(10000)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := rec.Approve(ctx, alice, bob, amt(1000)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := rec.TransferFrom(ctx, bob, alice, carol, amt(600)); err != nil {
		t.Fatalf("transferFrom: %v", err)
	}

	view, err := token.Replay(ctx, store, "indicoin")
	if err != nil {
		t.Fatalf("replay: %v", err)
	}

	// The replayed allowance follows the spend, matching the live ledger.
	live := l.Allowance(alice, bob)
	if !live.Eq(amt(400)) {
		t.Fatalf("live allowance = %s, want 400", live.Dec())
	}
	if got := view.Allowances[alice][bob]; got == nil || !got.Eq(live) {
		t.Errorf("replayed allowance = %v, want %s", got, live.Dec())
	}
}

func TestFlushFailureKeepsJournal(t *testing.T) {
	ctx := context.Background()
	store := eventsource.NewMemoryStore()
	defer store.Close()

	l1 := newLedger()
	rec1, err := token.NewRecorder(ctx, l1, store, "indicoin")
	if err != nil {
		t.Fatal(err)
	}
	l2 := newLedger()
	rec2, err := token.NewRecorder(ctx, l2, store, "indicoin")
	if err != nil {
		t.Fatal(err)
	}

	if err := rec1.Mint(ctx, owner, alice, amt(1)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := rec2.Mint(ctx, owner, bob, amt(7)); !errors.Is(err, eventsource.ErrConcurrencyConflict) {
		t.Fatalf("expected ErrConcurrencyConflict, got %v", err)
	}

	// The failed append must not lose the notifications: the mutation is
	// committed in the ledger, so its records stay journaled.
	notes := l2.Notifications()
	if len(notes) != 2 {
		t.Fatalf("journal after failed flush has %d records, want 2", len(notes))
	}
	if notes[0].Kind != token.KindMint || notes[0].To != bob {
		t.Errorf("unexpected journaled record: %+v", notes[0])
	}

	// A recorder attached at the current stream version can still record
	// them.
	rec3, err := token.NewRecorder(ctx, l2, store, "indicoin")
	if err != nil {
		t.Fatal(err)
	}
	if err := rec3.Flush(ctx); err != nil {
		t.Fatalf("flush after re-attach: %v", err)
	}
	if remaining := l2.Notifications(); len(remaining) != 0 {
		t.Errorf("journal not drained after successful flush: %d records", len(remaining))
	}

	version, err := store.StreamVersion(ctx, "indicoin")
	if err != nil {
		t.Fatalf("stream version: %v", err)
	}
	if version != 3 {
		t.Errorf("stream version = %d, want 3", version)
	}
}

func TestRecorderConcurrencyConflict(t *testing.T) {
	ctx := context.Background()
	store := eventsource.NewMemoryStore()
	defer store.Close()

	l1 := newLedger()
	rec1, err := token.NewRecorder(ctx, l1, store, "indicoin")
	if err != nil {
		t.Fatal(err)
	}
	l2 := newLedger()
	rec2, err := token.NewRecorder(ctx, l2, store, "indicoin")
	if err != nil {
		t.Fatal(err)
	}

	if err := rec1.Mint(ctx, owner, alice, amt(1)); err != nil {
		t.Fatalf("mint: %v", err)
	}

	// rec2 still expects the empty stream; its append must conflict.
	if err := rec2.Mint(ctx, owner, bob, amt(1)); !errors.Is(err, eventsource.ErrConcurrencyConflict) {
		t.Errorf("expected ErrConcurrencyConflict, got %v", err)
	}
}
