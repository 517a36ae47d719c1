package core

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type (
	// SweepPoint is one sampled shock level of a stress curve, with the
	// liquidation load split by position direction.
	SweepPoint struct {
		PriceChangePct    decimal.Decimal `json:"priceChange"`
		LiquidatableCount int             `json:"liquidatableCount"`
		DebtAtRiskUsd     decimal.Decimal `json:"debtAtRiskUsd"`

		LongLiquidatableCount  int             `json:"longLiquidatableCount"`
		ShortLiquidatableCount int             `json:"shortLiquidatableCount"`
		LongDebtAtRiskUsd      decimal.Decimal `json:"longDebtAtRiskUsd"`
		ShortDebtAtRiskUsd     decimal.Decimal `json:"shortDebtAtRiskUsd"`
	}

	SweepResult struct {
		Points []SweepPoint `json:"points"`

		// Cliff is the point where debt at risk jumps disproportionately,
		// nil when the curve grows smoothly.
		Cliff *SweepPoint `json:"cliff,omitempty"`
	}
)

// Sweep samples the configured shock range and builds the stress curve for
// the position set.
func (e *StressEngine) Sweep(positions []*PositionSnapshot, shockAssetSelector string) (*SweepResult, error) {
	if err := validateAll(positions); err != nil {
		return nil, err
	}

	var points []SweepPoint
	for pct := e.cfg.SweepMinPct; pct.LessThanOrEqual(e.cfg.SweepMaxPct); pct = pct.Add(e.cfg.SweepStepPct) {
		points = append(points, e.sweepPoint(positions, pct, shockAssetSelector))
	}

	result := &SweepResult{
		Points: points,
		Cliff:  e.findCliff(points),
	}
	if result.Cliff != nil {
		e.log.Debug().
			Str("priceChange", result.Cliff.PriceChangePct.String()).
			Str("debtAtRiskUsd", result.Cliff.DebtAtRiskUsd.String()).
			Msg("liquidation cliff detected")
	}
	return result, nil
}

func (e *StressEngine) sweepPoint(positions []*PositionSnapshot, shockPct decimal.Decimal, shockAssetSelector string) SweepPoint {
	params := ShockParameters{
		ShockAssetSelector: shockAssetSelector,
		ShockPct:           shockPct,
		IsActive:           true,
	}

	point := SweepPoint{
		PriceChangePct:     shockPct,
		DebtAtRiskUsd:      decimal.Zero,
		LongDebtAtRiskUsd:  decimal.Zero,
		ShortDebtAtRiskUsd: decimal.Zero,
	}
	for _, position := range positions {
		sim := e.simulate(position, params)
		if !sim.WouldLiquidate {
			continue
		}

		_, debt := shockedLegValues(position, params)
		point.LiquidatableCount++
		point.DebtAtRiskUsd = point.DebtAtRiskUsd.Add(debt)

		switch ClassifyDirection(position).Direction {
		case DirectionLong:
			point.LongLiquidatableCount++
			point.LongDebtAtRiskUsd = point.LongDebtAtRiskUsd.Add(debt)
		case DirectionShort:
			point.ShortLiquidatableCount++
			point.ShortDebtAtRiskUsd = point.ShortDebtAtRiskUsd.Add(debt)
		}
	}
	return point
}

// findCliff scans consecutive points for the largest debt-at-risk jump that
// clears both the multiplier and the absolute-size filter.
func (e *StressEngine) findCliff(points []SweepPoint) *SweepPoint {
	var cliff *SweepPoint
	best := decimal.Zero
	for i := 1; i < len(points); i++ {
		prevDebt := points[i-1].DebtAtRiskUsd
		if prevDebt.LessThan(CLIFF_PREV_DEBT_FLOOR) {
			prevDebt = CLIFF_PREV_DEBT_FLOOR
		}
		multiplier := points[i].DebtAtRiskUsd.Div(prevDebt)

		if multiplier.LessThan(e.cfg.CliffMinMultiplier) {
			continue
		}
		if points[i].DebtAtRiskUsd.LessThanOrEqual(e.cfg.CliffMinDebtUsd) {
			continue
		}
		if multiplier.GreaterThan(best) {
			best = multiplier
			cliff = &points[i]
		}
	}
	return cliff
}

// IsInRange reports whether the position liquidates at any sampled shock in
// [rng.Min, rng.Max]. This is an existential test over the discretized
// interval, not a closed-form solve.
func (e *StressEngine) IsInRange(position *PositionSnapshot, rng RangeSelection, shockAssetSelector string) (bool, error) {
	if err := position.Validate(); err != nil {
		return false, err
	}
	if rng.Min.GreaterThan(rng.Max) {
		return false, errors.Wrapf(ErrInvalidRange, "min %s, max %s", rng.Min, rng.Max)
	}

	for pct := rng.Min; pct.LessThanOrEqual(rng.Max); pct = pct.Add(e.cfg.RangeStepPct) {
		sim := e.simulate(position, ShockParameters{
			ShockAssetSelector: shockAssetSelector,
			ShockPct:           pct,
			IsActive:           true,
		})
		if sim.WouldLiquidate {
			return true, nil
		}
	}
	return false, nil
}
