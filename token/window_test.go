package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/indicoin-xyz/go-indicoin/token"
)

// windowLedger returns a ledger with a movable clock and a small cap.
func windowLedger(t *testing.T, cap uint64) (*token.Ledger, *time.Time) {
	t.Helper()
	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l := token.New(owner, fund,
		token.WithClock(func() time.Time { return current }),
		token.WithOutflowCap(amt(cap)))
	if err := l.Mint(owner, alice, amt(1_000_000)); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	return l, &current
}

func TestBurnWithinCap(t *testing.T) {
	l, _ := windowLedger(t, 100)

	for _, n := range []uint64{40, 35, 25} {
		if err := l.Burn(alice, amt(n)); err != nil {
			t.Fatalf("burn %d failed: %v", n, err)
		}
	}
	if got := l.CurrentOutflow(); !got.Eq(amt(100)) {
		t.Errorf("current outflow = %s, want 100", got.Dec())
	}
	checkConservation(t, l)
}

func TestBurnCapExceeded(t *testing.T) {
	l, _ := windowLedger(t, 100)

	if err := l.Burn(alice, amt(80)); err != nil {
		t.Fatalf("burn failed: %v", err)
	}

	before := l.BalanceOf(alice)
	supply := l.TotalSupply()

	if err := l.Burn(alice, amt(21)); !errors.Is(err, token.ErrOutflowCapExceeded) {
		t.Fatalf("expected ErrOutflowCapExceeded, got %v", err)
	}

	// The rejection is atomic: no partial mutation.
	if got := l.BalanceOf(alice); !got.Eq(before) {
		t.Errorf("balance changed on rejected burn: %s -> %s", before.Dec(), got.Dec())
	}
	if got := l.TotalSupply(); !got.Eq(supply) {
		t.Errorf("supply changed on rejected burn: %s -> %s", supply.Dec(), got.Dec())
	}
	if got := l.CurrentOutflow(); !got.Eq(amt(80)) {
		t.Errorf("outflow changed on rejected burn: %s", got.Dec())
	}

	// Exactly filling the cap still works.
	if err := l.Burn(alice, amt(20)); err != nil {
		t.Errorf("burn to exact cap failed: %v", err)
	}
}

func TestWindowRollover(t *testing.T) {
	l, clock := windowLedger(t, 100)
	reset := l.ResetTime()

	if err := l.Burn(alice, amt(100)); err != nil {
		t.Fatalf("burn failed: %v", err)
	}
	if err := l.Burn(alice, amt(1)); !errors.Is(err, token.ErrOutflowCapExceeded) {
		t.Fatalf("expected cap exhaustion, got %v", err)
	}

	// A burn at exactly the reset instant starts a fresh quota before its
	// own amount counts against the cap.
	*clock = reset
	if err := l.Burn(alice, amt(100)); err != nil {
		t.Fatalf("burn at rollover failed: %v", err)
	}
	if got := l.CurrentOutflow(); !got.Eq(amt(100)) {
		t.Errorf("current outflow = %s, want 100", got.Dec())
	}
	if got := l.ResetTime(); !got.Equal(reset.Add(token.OutflowWindow)) {
		t.Errorf("reset time = %v, want %v", got, reset.Add(token.OutflowWindow))
	}
}

func TestBurnErrors(t *testing.T) {
	l, _ := windowLedger(t, 100)

	if err := l.Burn(alice, amt(0)); !errors.Is(err, token.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if err := l.Burn(bob, amt(1)); !errors.Is(err, token.ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestBurnNotifications(t *testing.T) {
	l, _ := windowLedger(t, 100)
	l.Drain()

	if err := l.Burn(alice, amt(10)); err != nil {
		t.Fatalf("burn failed: %v", err)
	}

	notes := l.Notifications()
	if len(notes) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notes))
	}
	if notes[0].Kind != token.KindBurn || notes[0].From != alice {
		t.Errorf("unexpected burn record: %+v", notes[0])
	}
	if notes[1].Kind != token.KindTransfer || notes[1].To != token.ZeroAddress {
		t.Errorf("unexpected transfer record: %+v", notes[1])
	}
}
