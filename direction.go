package core

import (
	"github.com/shopspring/decimal"
)

type Direction uint8

const (
	DirectionLong Direction = iota
	DirectionShort
)

func (d Direction) String() string {
	switch d {
	case DirectionLong:
		return "LONG"
	case DirectionShort:
		return "SHORT"
	default:
		return "Unknown"
	}
}

type DirectionInfo struct {
	Direction      Direction       `json:"direction"`
	NetExposureUsd decimal.Decimal `json:"netExposureUsd"`
}

// ClassifyDirection describes a position's inherent exposure to its base
// asset. Net long positions lose value when the price falls, net short
// positions when it rises. The quote leg plays no part.
func ClassifyDirection(position *PositionSnapshot) DirectionInfo {
	netExposureUsd := position.BaseAssetUsd.Sub(position.BaseDebtUsd)
	direction := DirectionLong
	if netExposureUsd.IsNegative() {
		direction = DirectionShort
	}
	return DirectionInfo{
		Direction:      direction,
		NetExposureUsd: netExposureUsd,
	}
}
