package core

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ScenarioSummary aggregates one shock scenario across a position set.
type ScenarioSummary struct {
	LiquidatableCount   int             `json:"liquidatableCount"`
	DebtAtRiskUsd       decimal.Decimal `json:"debtAtRiskUsd"`
	CollateralAtRiskUsd decimal.Decimal `json:"collateralAtRiskUsd"`

	// NewLiquidations counts positions pushed over the threshold by the
	// shock, excluding those already liquidatable at zero shock.
	NewLiquidations int `json:"newLiquidations"`

	// FirstLiquidationAt is the estimated shock percentage at which the
	// nearest currently-safe position first liquidates. Nil when no safe
	// position has a downward trigger.
	FirstLiquidationAt *decimal.Decimal `json:"firstLiquidationAt"`
}

func (s *ScenarioSummary) String() string {
	first := "none"
	if s.FirstLiquidationAt != nil {
		first = s.FirstLiquidationAt.StringFixed(2) + "%"
	}
	return fmt.Sprintf("liquidatable=%d new=%d debtAtRisk=$%s collateralAtRisk=$%s firstLiquidationAt=%s",
		s.LiquidatableCount,
		s.NewLiquidations,
		humanize.CommafWithDigits(s.DebtAtRiskUsd.InexactFloat64(), 2),
		humanize.CommafWithDigits(s.CollateralAtRiskUsd.InexactFloat64(), 2),
		first,
	)
}

// SimulateBatch runs the shock simulator over every position and aggregates
// the outcome. Debt and collateral at risk are taken at their shocked
// values, not the snapshot values. The whole call is rejected on the first
// invalid snapshot.
func (e *StressEngine) SimulateBatch(positions []*PositionSnapshot, shockPct decimal.Decimal, shockAssetSelector string) (*ScenarioSummary, error) {
	if err := validateAll(positions); err != nil {
		return nil, err
	}

	params := ShockParameters{
		ShockAssetSelector: shockAssetSelector,
		ShockPct:           shockPct,
		IsActive:           !shockPct.IsZero(),
	}

	summary := &ScenarioSummary{
		DebtAtRiskUsd:       decimal.Zero,
		CollateralAtRiskUsd: decimal.Zero,
	}
	for _, position := range positions {
		sim := e.simulate(position, params)
		if !sim.WouldLiquidate {
			continue
		}

		collateral, debt := shockedLegValues(position, params)
		summary.LiquidatableCount++
		summary.CollateralAtRiskUsd = summary.CollateralAtRiskUsd.Add(collateral)
		summary.DebtAtRiskUsd = summary.DebtAtRiskUsd.Add(debt)
		if !position.IsLiquidatable {
			summary.NewLiquidations++
		}
	}
	summary.FirstLiquidationAt = estimateFirstLiquidation(positions)

	return summary, nil
}

// estimateFirstLiquidation finds the downward trigger closest to zero using
// a linear approximation of the collateral response. The approximation
// ignores the debt-side shock on purpose, so it will not agree exactly with
// the multiplicative simulator at the margin.
func estimateFirstLiquidation(positions []*PositionSnapshot) *decimal.Decimal {
	var nearest *decimal.Decimal
	for _, position := range positions {
		if position.IsLiquidatable {
			continue
		}

		netBaseExposure := position.BaseAssetUsd.Sub(position.BaseDebtUsd)
		if netBaseExposure.Abs().LessThanOrEqual(NET_EXPOSURE_EPSILON) {
			continue
		}

		collateral := position.CollateralValueUsd()
		debt := position.TotalDebtUsd()
		targetCollateral := position.LiquidationThreshold.Mul(debt)
		pctChange := targetCollateral.Sub(collateral).Div(netBaseExposure).Mul(HUNDRED)

		// only downward triggers count
		if !pctChange.IsNegative() {
			continue
		}
		if nearest == nil || pctChange.GreaterThan(*nearest) {
			nearest = &pctChange
		}
	}
	return nearest
}

func validateAll(positions []*PositionSnapshot) error {
	for _, position := range positions {
		if err := position.Validate(); err != nil {
			return err
		}
	}
	return nil
}
