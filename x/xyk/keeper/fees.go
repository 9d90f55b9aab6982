package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/xyk/x/xyk/types"
)

// FeeEngine computes trading fees and prices discounted fees in the reference asset.
type FeeEngine struct {
	prices   types.PriceLookup
	balances types.BalanceReader
}

// NewFeeEngine returns a fee engine reading pool prices from prices and trader balances from balances.
func NewFeeEngine(prices types.PriceLookup, balances types.BalanceReader) FeeEngine {
	return FeeEngine{prices: prices, balances: balances}
}

// ComputeFee returns the fee charged in the trade asset and, for discounted trades, the
// secondary fee that is converted into the reference asset and burned from the trader.
// Without a discount the secondary fee is zero.
func (f FeeEngine) ComputeFee(amount sdkmath.Int, discount bool, params types.Params) (tradeFee, secondaryFee sdkmath.Int, err error) {
	if !discount {
		tradeFee, err = params.ExchangeFee.JustFee(amount)
		if err != nil {
			return sdkmath.Int{}, sdkmath.Int{}, err
		}
		return tradeFee, sdkmath.ZeroInt(), nil
	}

	tradeFee, err = types.DiscountedFee(amount)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	return tradeFee, tradeFee, nil
}

// CheckDiscountPool fails unless a pool pairs asset with the reference asset.
func (f FeeEngine) CheckDiscountPool(ctx context.Context, asset types.AssetID, params types.Params) error {
	if !f.prices.Exists(ctx, types.NewAssetPair(asset, params.NativeAssetID)) {
		return types.ErrCannotApplyDiscount.Wrapf("no pool for %d/%d", asset, params.NativeAssetID)
	}
	return nil
}

// ResolveDiscountFee converts secondaryFee of asset into the reference asset at the discount
// pool's spot price and checks that who can pay it.
func (f FeeEngine) ResolveDiscountFee(ctx context.Context, who sdk.AccAddress, asset types.AssetID, secondaryFee sdkmath.Int, params types.Params) (sdkmath.Int, error) {
	native, err := f.prices.SpotPrice(ctx, asset, params.NativeAssetID, secondaryFee)
	if err != nil {
		return sdkmath.Int{}, types.ErrCannotApplyDiscount.Wrapf("price %d in %d: %v", asset, params.NativeAssetID, err)
	}

	balance := f.balances.FreeBalance(ctx, params.NativeAssetID, who)
	if balance.LT(native) {
		return sdkmath.Int{}, types.ErrInsufficientNativeBalance.Wrapf("has %s, discount fee is %s", balance, native)
	}
	return native, nil
}
