package core

import (
	"context"
	"math"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type (
	// PositionProvider is the upstream collaborator supplying current
	// position snapshots. Refresh cadence is the provider's concern; the
	// engine only ever sees immutable snapshots.
	PositionProvider interface {
		ListPositions(ctx context.Context) ([]*PositionSnapshot, error)
		GetPositionById(ctx context.Context, positionId uuid.UUID) (*PositionSnapshot, error)
	}

	// PositionSnapshot describes one margin position's collateral, debt
	// and threshold state at a point in time. All USD values are spot
	// valuations of the two legs.
	PositionSnapshot struct {
		PositionId uuid.UUID `json:"positionId"`

		BaseAssetSymbol  string `json:"baseAssetSymbol"`
		QuoteAssetSymbol string `json:"quoteAssetSymbol"`

		BaseAssetUsd  decimal.Decimal `json:"baseAssetUsd"`
		QuoteAssetUsd decimal.Decimal `json:"quoteAssetUsd"`
		BaseDebtUsd   decimal.Decimal `json:"baseDebtUsd"`
		QuoteDebtUsd  decimal.Decimal `json:"quoteDebtUsd"`

		RiskRatio             decimal.Decimal `json:"riskRatio"`
		LiquidationThreshold  decimal.Decimal `json:"liquidationThreshold"`
		DistanceToLiquidation decimal.Decimal `json:"distanceToLiquidation"`
		IsLiquidatable        bool            `json:"isLiquidatable"`
	}
)

// NewPositionSnapshot derives the risk fields from the raw legs and
// validates the result.
func NewPositionSnapshot(positionId uuid.UUID, baseSymbol, quoteSymbol string, baseAssetUsd, quoteAssetUsd, baseDebtUsd, quoteDebtUsd, liquidationThreshold decimal.Decimal) (*PositionSnapshot, error) {
	p := &PositionSnapshot{
		PositionId:           positionId,
		BaseAssetSymbol:      baseSymbol,
		QuoteAssetSymbol:     quoteSymbol,
		BaseAssetUsd:         baseAssetUsd,
		QuoteAssetUsd:        quoteAssetUsd,
		BaseDebtUsd:          baseDebtUsd,
		QuoteDebtUsd:         quoteDebtUsd,
		LiquidationThreshold: liquidationThreshold,
	}
	// the raw legs must be checked before deriving: liquidationBuffer
	// divides by the threshold
	if err := p.validateLegs(); err != nil {
		return nil, err
	}

	p.RiskRatio = computeRiskRatio(p.CollateralValueUsd(), p.TotalDebtUsd())
	p.DistanceToLiquidation = liquidationBuffer(p.RiskRatio, liquidationThreshold)
	p.IsLiquidatable = p.RiskRatio.LessThanOrEqual(liquidationThreshold)

	return p, nil
}

// NewPositionSnapshotFromFloats is the boundary constructor for callers
// holding float64 values (JSON-RPC decoding and the like). NaN and Inf are
// rejected here so they never reach the risk math.
func NewPositionSnapshotFromFloats(positionId uuid.UUID, baseSymbol, quoteSymbol string, baseAssetUsd, quoteAssetUsd, baseDebtUsd, quoteDebtUsd, liquidationThreshold float64) (*PositionSnapshot, error) {
	fields := []struct {
		name  string
		value float64
	}{
		{"baseAssetUsd", baseAssetUsd},
		{"quoteAssetUsd", quoteAssetUsd},
		{"baseDebtUsd", baseDebtUsd},
		{"quoteDebtUsd", quoteDebtUsd},
		{"liquidationThreshold", liquidationThreshold},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return nil, errors.Wrapf(ErrNonFiniteInput, "position %s: %s", positionId, f.name)
		}
	}

	return NewPositionSnapshot(positionId, baseSymbol, quoteSymbol,
		decimal.NewFromFloat(baseAssetUsd),
		decimal.NewFromFloat(quoteAssetUsd),
		decimal.NewFromFloat(baseDebtUsd),
		decimal.NewFromFloat(quoteDebtUsd),
		decimal.NewFromFloat(liquidationThreshold),
	)
}

func (p *PositionSnapshot) CollateralValueUsd() decimal.Decimal {
	return p.BaseAssetUsd.Add(p.QuoteAssetUsd)
}

func (p *PositionSnapshot) TotalDebtUsd() decimal.Decimal {
	return p.BaseDebtUsd.Add(p.QuoteDebtUsd)
}

func (p *PositionSnapshot) Validate() error {
	if err := p.validateLegs(); err != nil {
		return err
	}
	if p.IsLiquidatable != p.RiskRatio.LessThanOrEqual(p.LiquidationThreshold) {
		return errors.Wrapf(ErrInconsistentSnapshot, "position %s", p.PositionId)
	}
	return nil
}

func (p *PositionSnapshot) validateLegs() error {
	if !p.LiquidationThreshold.IsPositive() {
		return errors.Wrapf(ErrInvalidLiquidationThreshold, "position %s", p.PositionId)
	}
	legs := []struct {
		name  string
		value decimal.Decimal
	}{
		{"baseAssetUsd", p.BaseAssetUsd},
		{"quoteAssetUsd", p.QuoteAssetUsd},
		{"baseDebtUsd", p.BaseDebtUsd},
		{"quoteDebtUsd", p.QuoteDebtUsd},
	}
	for _, leg := range legs {
		if leg.value.IsNegative() {
			return errors.Wrapf(ErrNegativeUsdValue, "position %s: %s", p.PositionId, leg.name)
		}
	}
	return nil
}

func (p *PositionSnapshot) Clone() *PositionSnapshot {
	clone := *p
	return &clone
}

// computeRiskRatio returns collateral over debt, or the sentinel cap when
// the position carries no debt.
func computeRiskRatio(collateralValueUsd, debtValueUsd decimal.Decimal) decimal.Decimal {
	if !debtValueUsd.IsPositive() {
		return RISK_RATIO_CAP
	}
	return collateralValueUsd.Div(debtValueUsd)
}

// liquidationBuffer is the signed percentage distance between a risk ratio
// and the liquidation threshold.
func liquidationBuffer(riskRatio, liquidationThreshold decimal.Decimal) decimal.Decimal {
	return riskRatio.Sub(liquidationThreshold).Div(liquidationThreshold).Mul(HUNDRED)
}
