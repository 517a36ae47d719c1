package core

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidLiquidationThreshold = errors.New("liquidation threshold must be positive")
	ErrNonFiniteInput              = errors.New("input value is not finite")
	ErrNegativeUsdValue            = errors.New("usd value must not be negative")
	ErrInconsistentSnapshot        = errors.New("liquidatable flag does not match risk ratio")
	ErrInvalidRange                = errors.New("range min exceeds max")
	ErrInvalidConfig               = errors.New("invalid engine config")
)
