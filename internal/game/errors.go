package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientResource means the paying pool cannot cover the cost. State is unchanged.
	ErrInsufficientResource = errors.New("insufficient resource")

	// ErrAlreadyPurchased rejects a second purchase of a one-shot upgrade.
	// It matches ErrInsufficientResource under errors.Is.
	ErrAlreadyPurchased = fmt.Errorf("%w: already purchased", ErrInsufficientResource)

	// ErrInvalidItem means an unknown generator/upgrade reference or a malformed key.
	ErrInvalidItem = errors.New("invalid item reference")

	// ErrNonFiniteComputation means an income or cost calculation produced NaN or Inf.
	ErrNonFiniteComputation = errors.New("non-finite computation")

	// ErrResetFailed means a reset could not be applied. State is unchanged.
	ErrResetFailed = errors.New("reset failed")

	// ErrInvalidBalance means the balance tables are malformed.
	ErrInvalidBalance = errors.New("invalid balance")
)
