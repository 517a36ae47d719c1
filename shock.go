package core

import (
	"github.com/shopspring/decimal"
)

type (
	// RangeSelection bounds the existential range filter, in signed
	// percent.
	RangeSelection struct {
		Min decimal.Decimal `json:"min"`
		Max decimal.Decimal `json:"max"`
	}

	// ShockParameters is the scenario currently under inspection: which
	// asset is shocked, by how much, and an optional range selection.
	ShockParameters struct {
		ShockAssetSelector string          `json:"shockAssetSelector"`
		ShockPct           decimal.Decimal `json:"shockPct"`
		RangeSelection     *RangeSelection `json:"rangeSelection,omitempty"`
		IsActive           bool            `json:"isActive"`
	}

	// SimulatedPosition is a snapshot re-evaluated under a shock, with
	// deltas against the unshocked state.
	SimulatedPosition struct {
		PositionSnapshot

		SimulatedHealthFactor decimal.Decimal `json:"simulatedHealthFactor"`
		SimulatedBuffer       decimal.Decimal `json:"simulatedBuffer"`
		WouldLiquidate        bool            `json:"wouldLiquidate"`
		Impact                Impact          `json:"impact"`

		BufferDelta       decimal.Decimal `json:"bufferDelta"`
		HealthFactorDelta decimal.Decimal `json:"healthFactorDelta"`
	}
)

type Impact uint8

const (
	ImpactSafe Impact = iota
	ImpactWatch
	ImpactLiq
)

func (i Impact) String() string {
	switch i {
	case ImpactSafe:
		return "SAFE"
	case ImpactWatch:
		return "WATCH"
	case ImpactLiq:
		return "LIQ"
	default:
		return "Unknown"
	}
}

// StressEngine evaluates positions under hypothetical price shocks. All of
// its methods are pure functions of their inputs and the fixed config.
type StressEngine struct {
	cfg Config
	log Log
}

func NewStressEngine(cfg Config, log Log) (*StressEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = nopLog()
	}
	return &StressEngine{cfg: cfg, log: log}, nil
}

// Simulate re-evaluates one position under the given shock.
func (e *StressEngine) Simulate(position *PositionSnapshot, params ShockParameters) (*SimulatedPosition, error) {
	if err := position.Validate(); err != nil {
		return nil, err
	}
	return e.simulate(position, params), nil
}

func (e *StressEngine) simulate(position *PositionSnapshot, params ShockParameters) *SimulatedPosition {
	collateral, debt := shockedLegValues(position, params)

	ratio := computeRiskRatio(collateral, debt)
	buffer := liquidationBuffer(ratio, position.LiquidationThreshold)
	wouldLiquidate := ratio.LessThanOrEqual(position.LiquidationThreshold)

	impact := ImpactSafe
	switch {
	case wouldLiquidate:
		impact = ImpactLiq
	case buffer.LessThan(e.cfg.WatchBufferPct):
		impact = ImpactWatch
	}

	return &SimulatedPosition{
		PositionSnapshot:      *position,
		SimulatedHealthFactor: ratio,
		SimulatedBuffer:       buffer,
		WouldLiquidate:        wouldLiquidate,
		Impact:                impact,
		BufferDelta:           buffer.Sub(position.DistanceToLiquidation),
		HealthFactorDelta:     ratio.Sub(position.RiskRatio),
	}
}

// shockedLegValues scales the base leg's collateral and debt together by the
// shock multiplier and leaves the quote leg untouched. The selector is only
// ever matched against the base symbol; a selector naming the quote asset
// is a no-op on that position.
func shockedLegValues(position *PositionSnapshot, params ShockParameters) (collateralValueUsd, debtValueUsd decimal.Decimal) {
	multiplier := ONE
	if params.ShockAssetSelector == ShockAllAssets || params.ShockAssetSelector == position.BaseAssetSymbol {
		multiplier = ONE.Add(params.ShockPct.Div(HUNDRED))
	}

	collateralValueUsd = position.BaseAssetUsd.Mul(multiplier).Add(position.QuoteAssetUsd)
	debtValueUsd = position.BaseDebtUsd.Mul(multiplier).Add(position.QuoteDebtUsd)
	return collateralValueUsd, debtValueUsd
}
