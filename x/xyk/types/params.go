package types

import (
	"fmt"
)

const (
	// DefaultMaxInRatio caps a sell at a third of the input reserve.
	DefaultMaxInRatio uint64 = 3
	// DefaultMaxOutRatio caps a buy at a third of the output reserve.
	DefaultMaxOutRatio uint64 = 3
	// DefaultNativeAssetID is the reference asset discount fees are paid in.
	DefaultNativeAssetID AssetID = 0
)

// Params are the process-wide, read-only settings of the xyk module.
type Params struct {
	// ExchangeFee is the standard trading fee.
	ExchangeFee Fee `json:"exchange_fee" yaml:"exchange_fee"`
	// MaxInRatio bounds a sell: amount in <= reserve in / MaxInRatio.
	MaxInRatio uint64 `json:"max_in_ratio" yaml:"max_in_ratio"`
	// MaxOutRatio bounds a buy: amount out <= reserve out / MaxOutRatio.
	MaxOutRatio uint64 `json:"max_out_ratio" yaml:"max_out_ratio"`
	// NativeAssetID is the reference asset used for discounted fees.
	NativeAssetID AssetID `json:"native_asset_id" yaml:"native_asset_id"`
}

// DefaultParams returns a default set of parameters
func DefaultParams() Params {
	return Params{
		ExchangeFee:   DefaultExchangeFee(),
		MaxInRatio:    DefaultMaxInRatio,
		MaxOutRatio:   DefaultMaxOutRatio,
		NativeAssetID: DefaultNativeAssetID,
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if err := p.ExchangeFee.Validate(); err != nil {
		return ErrInvalidParams.Wrapf("exchange fee: %v", err)
	}
	if p.MaxInRatio == 0 {
		return ErrInvalidParams.Wrap("max in ratio must be positive")
	}
	if p.MaxOutRatio == 0 {
		return ErrInvalidParams.Wrap("max out ratio must be positive")
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("exchange_fee=%s max_in_ratio=%d max_out_ratio=%d native_asset_id=%d",
		p.ExchangeFee, p.MaxInRatio, p.MaxOutRatio, p.NativeAssetID)
}
