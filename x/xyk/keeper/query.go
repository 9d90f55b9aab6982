package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"

	"github.com/paw-chain/xyk/x/xyk/formula"
	"github.com/paw-chain/xyk/x/xyk/types"
)

// SpotPrice converts amount of base into quote at the ratio of the (base, quote) pool reserves.
func (k Keeper) SpotPrice(ctx context.Context, base, quote types.AssetID, amount sdkmath.Int) (sdkmath.Int, error) {
	pair := types.NewAssetPair(base, quote)
	if !k.Exists(ctx, pair) {
		return sdkmath.Int{}, types.ErrPoolNotFound.Wrapf("pair %s", pair)
	}
	reserveBase, reserveQuote := k.GetPoolReserves(ctx, pair)
	return formula.CalculateSpotPrice(reserveBase, reserveQuote, amount)
}

// GetSpotPriceUnchecked is SpotPrice with every failure reported as zero.
func (k Keeper) GetSpotPriceUnchecked(ctx context.Context, assetA, assetB types.AssetID, amount sdkmath.Int) sdkmath.Int {
	price, err := k.SpotPrice(ctx, assetA, assetB, amount)
	if err != nil {
		return sdkmath.ZeroInt()
	}
	return price
}
