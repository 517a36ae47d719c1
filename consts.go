package core

import (
	"github.com/shopspring/decimal"
)

// ShockAllAssets is the wildcard selector: every position's base leg is
// shocked regardless of its symbol.
const ShockAllAssets = "*"

var (
	ONE     = decimal.NewFromInt(1)
	HUNDRED = decimal.NewFromInt(100)

	// RISK_RATIO_CAP is the sentinel risk ratio for debt-free positions.
	RISK_RATIO_CAP = decimal.NewFromInt(999)

	// NET_EXPOSURE_EPSILON guards the linear first-liquidation estimate
	// against near-zero denominators.
	NET_EXPOSURE_EPSILON = decimal.NewFromFloat(0.01)

	// CLIFF_PREV_DEBT_FLOOR caps the denominator when comparing consecutive
	// sweep points, so near-zero ranges do not explode the step multiplier.
	CLIFF_PREV_DEBT_FLOOR = decimal.NewFromInt(1)
)
