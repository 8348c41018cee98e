package token

import "errors"

var (
	// ErrNotOwner is returned when a non-owner invokes an owner-only
	// operation.
	ErrNotOwner = errors.New("token: caller is not the owner")

	// ErrInvalidArgument is returned for a zero address, a non-positive
	// amount, or a non-positive cap.
	ErrInvalidArgument = errors.New("token: invalid argument")

	// ErrPaused is returned when a mint, burn, or transfer is attempted
	// while the engine is paused.
	ErrPaused = errors.New("token: paused")

	// ErrInsufficientBalance is returned when the debited account holds
	// less than the requested amount.
	ErrInsufficientBalance = errors.New("token: insufficient balance")

	// ErrAllowanceExceeded is returned when a transferFrom exceeds the
	// spender's allowance. Checked before the balance, so allowance errors
	// take precedence over balance errors.
	ErrAllowanceExceeded = errors.New("token: allowance exceeded")

	// ErrOutflowCapExceeded is returned when a burn would push the
	// cumulative outflow of the current window past the cap.
	ErrOutflowCapExceeded = errors.New("token: outflow cap exceeded")
)
