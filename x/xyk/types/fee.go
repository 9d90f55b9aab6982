package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/paw-chain/xyk/x/xyk/formula"
)

// DiscountedFeeRate is the fee schedule applied when a trader pays the fee in the reference asset.
var DiscountedFeeRate = Fee{Numerator: 7, Denominator: 10000}

// Fee is a fee rate expressed as Numerator/Denominator.
type Fee struct {
	Numerator   uint32 `json:"numerator" yaml:"numerator"`
	Denominator uint32 `json:"denominator" yaml:"denominator"`
}

// DefaultExchangeFee is 0.2%.
func DefaultExchangeFee() Fee {
	return Fee{Numerator: 2, Denominator: 1000}
}

// Validate checks the fee is a fraction no greater than one.
func (f Fee) Validate() error {
	if f.Denominator == 0 {
		return fmt.Errorf("fee denominator cannot be zero")
	}
	if f.Numerator > f.Denominator {
		return fmt.Errorf("fee %d/%d exceeds 100%%", f.Numerator, f.Denominator)
	}
	return nil
}

// JustFee returns floor(amount * Numerator / Denominator).
func (f Fee) JustFee(amount sdkmath.Int) (sdkmath.Int, error) {
	if f.Denominator == 0 {
		return sdkmath.Int{}, ErrFeeAmountInvalid.Wrap("fee denominator is zero")
	}
	fee, err := formula.MulDiv(amount, sdkmath.NewIntFromUint64(uint64(f.Numerator)), sdkmath.NewIntFromUint64(uint64(f.Denominator)))
	if err != nil {
		return sdkmath.Int{}, ErrFeeAmountInvalid.Wrapf("fee on %s: %v", amount, err)
	}
	return fee, nil
}

// DiscountedFee returns the fee owed on amount under the discounted schedule.
func DiscountedFee(amount sdkmath.Int) (sdkmath.Int, error) {
	return DiscountedFeeRate.JustFee(amount)
}

func (f Fee) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}
