package token

import (
	"sync"
	"time"

	"github.com/holiman/uint256"
)

// Ledger is the ledger and policy engine. One instance owns all state; a
// single mutation lock serializes operations so no interleaving is
// observable.
type Ledger struct {
	mu sync.Mutex

	owner     Address
	greenFund Address

	balances    map[Address]*uint256.Int
	allowances  map[Address]map[Address]*uint256.Int
	totalSupply *uint256.Int

	outflowCap     *uint256.Int
	currentOutflow *uint256.Int
	resetTime      time.Time

	totalReserves *uint256.Int
	paused        bool

	now func() time.Time

	journal []Notification
	seq     uint64
}

// Option configures a Ledger at creation.
type Option func(*Ledger)

// WithClock overrides the time source used for window rollover and
// notification timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithOutflowCap overrides the initial burn cap.
func WithOutflowCap(cap *uint256.Int) Option {
	return func(l *Ledger) { l.outflowCap = cap.Clone() }
}

// New creates a ledger owned by owner, with transfer fees routed to
// greenFund. Supply starts at zero, the outflow cap at 1,000,000 tokens,
// and the first window at creation time plus 24 hours.
func New(owner, greenFund Address, opts ...Option) *Ledger {
	l := &Ledger{
		owner:          owner,
		greenFund:      greenFund,
		balances:       make(map[Address]*uint256.Int),
		allowances:     make(map[Address]map[Address]*uint256.Int),
		totalSupply:    uint256.NewInt(0),
		outflowCap:     DefaultOutflowCap(),
		currentOutflow: uint256.NewInt(0),
		totalReserves:  uint256.NewInt(0),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.resetTime = l.now().Add(OutflowWindow)
	return l
}

func positive(amount *uint256.Int) bool {
	return amount != nil && !amount.IsZero()
}

// balance returns the stored balance, or zero. Callers hold the lock.
func (l *Ledger) balance(a Address) *uint256.Int {
	if b, ok := l.balances[a]; ok {
		return b
	}
	return uint256.NewInt(0)
}

// credit adds amount to an account. Callers hold the lock.
func (l *Ledger) credit(a Address, amount *uint256.Int) {
	l.balances[a] = new(uint256.Int).Add(l.balance(a), amount)
}

// debit subtracts amount from an account. Callers hold the lock and have
// already checked sufficiency.
func (l *Ledger) debit(a Address, amount *uint256.Int) {
	l.balances[a] = new(uint256.Int).Sub(l.balance(a), amount)
}

// Mint creates amount new base units for to. Owner-only.
func (l *Ledger) Mint(caller, to Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return ErrNotOwner
	}
	if to == ZeroAddress || !positive(amount) {
		return ErrInvalidArgument
	}
	if l.paused {
		return ErrPaused
	}

	l.totalSupply = new(uint256.Int).Add(l.totalSupply, amount)
	l.credit(to, amount)

	l.emit(Notification{Kind: KindMint, To: to, Amount: amount.Clone()})
	l.emit(Notification{Kind: KindTransfer, From: ZeroAddress, To: to, Amount: amount.Clone()})
	return nil
}

// Burn destroys amount base units from the caller's balance, subject to the
// rolling outflow cap. If the current window has elapsed, the window resets
// before the cap check, so a burn at the rollover instant starts a fresh
// quota.
func (l *Ledger) Burn(caller Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.paused {
		return ErrPaused
	}
	if !positive(amount) {
		return ErrInvalidArgument
	}
	if l.balance(caller).Lt(amount) {
		return ErrInsufficientBalance
	}

	now := l.now()
	if !now.Before(l.resetTime) {
		l.currentOutflow = uint256.NewInt(0)
		l.resetTime = now.Add(OutflowWindow)
	}

	next := new(uint256.Int).Add(l.currentOutflow, amount)
	if next.Gt(l.outflowCap) {
		return ErrOutflowCapExceeded
	}

	l.currentOutflow = next
	l.debit(caller, amount)
	l.totalSupply = new(uint256.Int).Sub(l.totalSupply, amount)

	l.emit(Notification{Kind: KindBurn, From: caller, Amount: amount.Clone()})
	l.emit(Notification{Kind: KindTransfer, From: caller, To: ZeroAddress, Amount: amount.Clone()})
	return nil
}

// Transfer moves amount from the caller to to, splitting off the green-fund
// fee. The sender is debited the full amount; the credits to the recipient
// and the fund sum back to it, so balances stay conserved.
func (l *Ledger) Transfer(caller, to Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transfer(caller, to, amount)
}

// transfer performs the shared transfer logic. Callers hold the lock.
func (l *Ledger) transfer(from, to Address, amount *uint256.Int) error {
	if to == ZeroAddress || !positive(amount) {
		return ErrInvalidArgument
	}
	if l.paused {
		return ErrPaused
	}
	if l.balance(from).Lt(amount) {
		return ErrInsufficientBalance
	}

	fee := new(uint256.Int).Mul(amount, uint256.NewInt(GreenFundRateBps))
	fee.Div(fee, uint256.NewInt(RateDenominator))
	actual := new(uint256.Int).Sub(amount, fee)

	l.debit(from, amount)
	l.credit(to, actual)
	l.credit(l.greenFund, fee)

	l.emit(Notification{Kind: KindTransfer, From: from, To: to, Amount: actual})
	l.emit(Notification{Kind: KindTransfer, From: from, To: l.greenFund, Amount: fee.Clone()})
	l.emit(Notification{Kind: KindGreenFundTransfer, From: from, To: l.greenFund, Amount: fee})
	return nil
}

// Approve overwrites the caller's allowance for spender. Not additive, and
// permitted while paused; approving zero revokes.
func (l *Ledger) Approve(caller, spender Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if spender == ZeroAddress {
		return ErrInvalidArgument
	}
	if amount == nil {
		amount = uint256.NewInt(0)
	}

	m, ok := l.allowances[caller]
	if !ok {
		m = make(map[Address]*uint256.Int)
		l.allowances[caller] = m
	}
	m[spender] = amount.Clone()

	l.emit(Notification{Kind: KindApproval, From: caller, To: spender, Amount: amount.Clone()})
	return nil
}

// TransferFrom spends the caller's allowance on from's balance and performs
// the same fee-splitting transfer as Transfer. All checks run before any
// mutation: a balance or pause failure leaves the allowance untouched.
// The allowance check runs first, so allowance errors take precedence over
// balance errors. An Approval record carrying the remaining allowance is
// emitted after the transfer records, so stream consumers see the
// decrement.
func (l *Ledger) TransferFrom(caller, from, to Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	allowed := l.allowance(from, caller)
	if amount == nil || allowed.Lt(amount) {
		return ErrAllowanceExceeded
	}
	if to == ZeroAddress || !positive(amount) {
		return ErrInvalidArgument
	}
	if l.paused {
		return ErrPaused
	}
	if l.balance(from).Lt(amount) {
		return ErrInsufficientBalance
	}

	remaining := new(uint256.Int).Sub(allowed, amount)
	l.allowances[from][caller] = remaining
	if err := l.transfer(from, to, amount); err != nil {
		return err
	}

	l.emit(Notification{Kind: KindApproval, From: from, To: caller, Amount: remaining.Clone()})
	return nil
}

// SetOutflowCap replaces the burn cap. Owner-only; the cap must be
// positive. The current window's accumulated outflow is kept.
func (l *Ledger) SetOutflowCap(caller Address, newCap *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return ErrNotOwner
	}
	if !positive(newCap) {
		return ErrInvalidArgument
	}

	l.outflowCap = newCap.Clone()
	l.emit(Notification{Kind: KindOutflowCapSet, Amount: newCap.Clone()})
	return nil
}

// UpdateReserves sets the informational reserve counter. Owner-only. No
// invariant ties reserves to supply; this is a reporting field.
func (l *Ledger) UpdateReserves(caller Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return ErrNotOwner
	}
	if amount == nil {
		amount = uint256.NewInt(0)
	}

	l.totalReserves = amount.Clone()
	l.emit(Notification{Kind: KindReservesUpdated, Amount: amount.Clone()})
	return nil
}

// TogglePause flips the pause flag unconditionally. Owner-only. While
// paused, mint, burn, and transfer reject; approvals, administrative
// operations, and reads are unaffected.
func (l *Ledger) TogglePause(caller Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return ErrNotOwner
	}

	l.paused = !l.paused
	l.emit(Notification{Kind: KindPauseToggled, Paused: l.paused})
	return nil
}

// allowance returns the stored allowance, or zero. Callers hold the lock.
func (l *Ledger) allowance(owner, spender Address) *uint256.Int {
	if m, ok := l.allowances[owner]; ok {
		if a, ok := m[spender]; ok {
			return a
		}
	}
	return uint256.NewInt(0)
}

// TotalSupply returns the current total supply.
func (l *Ledger) TotalSupply() *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalSupply.Clone()
}

// BalanceOf returns the balance of account.
func (l *Ledger) BalanceOf(account Address) *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance(account).Clone()
}

// Allowance returns the remaining allowance owner has granted spender.
func (l *Ledger) Allowance(owner, spender Address) *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allowance(owner, spender).Clone()
}

// Owner returns the privileged address set at creation.
func (l *Ledger) Owner() Address { return l.owner }

// GreenFund returns the fee recipient address.
func (l *Ledger) GreenFund() Address { return l.greenFund }

// OutflowCap returns the current burn cap.
func (l *Ledger) OutflowCap() *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.outflowCap.Clone()
}

// CurrentOutflow returns the amount burned so far in the current window.
func (l *Ledger) CurrentOutflow() *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentOutflow.Clone()
}

// ResetTime returns when the current outflow window ends.
func (l *Ledger) ResetTime() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resetTime
}

// TotalReserves returns the informational reserve counter.
func (l *Ledger) TotalReserves() *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalReserves.Clone()
}

// Paused reports whether the engine is paused.
func (l *Ledger) Paused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.paused
}

// Balances returns a copy of the full balance table. Zero balances created
// by full spends are included.
func (l *Ledger) Balances() map[Address]*uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[Address]*uint256.Int, len(l.balances))
	for a, b := range l.balances {
		out[a] = b.Clone()
	}
	return out
}
