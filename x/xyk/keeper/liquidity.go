package keeper

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/xyk/x/xyk/formula"
	"github.com/paw-chain/xyk/x/xyk/types"
)

const (
	opCreatePool      = "create_pool"
	opAddLiquidity    = "add_liquidity"
	opRemoveLiquidity = "remove_liquidity"
)

// CreatePool creates the pool for (assetA, assetB) funded with amount of assetA and
// amount*initialPrice of assetB. The caller receives the initial shares.
func (k Keeper) CreatePool(ctx context.Context, who sdk.AccAddress, assetA, assetB types.AssetID, amount sdkmath.Int, initialPrice sdkmath.LegacyDec) (err error) {
	defer k.observe(ctx, opCreatePool, &err)

	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrCannotCreatePoolWithZeroLiquidity
	}
	if initialPrice.IsNil() || !initialPrice.IsPositive() {
		return types.ErrCannotCreatePoolWithZeroInitialPrice
	}
	if assetA == assetB {
		return types.ErrCannotCreatePoolWithSameAssets.Wrapf("asset %d", assetA)
	}

	pair := types.NewAssetPair(assetA, assetB)
	if k.Exists(ctx, pair) {
		return types.ErrPoolAlreadyExists.Wrapf("pair %s", pair)
	}

	amountB, err := formula.MulPrice(amount, initialPrice)
	if err != nil {
		return types.ErrCreatePoolAssetAmountInvalid.Wrapf("%s at price %s: %v", amount, initialPrice, err)
	}
	if amountB.IsZero() {
		return types.ErrCreatePoolAssetAmountInvalid.Wrapf("%s at price %s funds no %d", amount, initialPrice, assetB)
	}

	sharesAdded := amountB
	if assetA < assetB {
		sharesAdded = amount
	}

	if balance := k.currency.FreeBalance(ctx, assetA, who); balance.LT(amount) {
		return types.ErrInsufficientAssetBalance.Wrapf("asset %d: has %s, needs %s", assetA, balance, amount)
	}
	if balance := k.currency.FreeBalance(ctx, assetB, who); balance.LT(amountB) {
		return types.ErrInsufficientAssetBalance.Wrapf("asset %d: has %s, needs %s", assetB, balance, amountB)
	}

	pool := pair.Account()
	var shareToken types.AssetID
	err = k.commit(ctx, opCreatePool, func(cacheCtx sdk.Context) error {
		var err error
		shareToken, err = k.assetRegistry.GetOrCreateAsset(cacheCtx, pair.Name())
		if err != nil {
			return fmt.Errorf("share token: %w", err)
		}
		if err := k.createPoolRecord(cacheCtx, pair, shareToken, sharesAdded); err != nil {
			return err
		}
		if err := k.currency.Transfer(cacheCtx, assetA, who, pool, amount); err != nil {
			return fmt.Errorf("transfer %d: %w", assetA, err)
		}
		if err := k.currency.Transfer(cacheCtx, assetB, who, pool, amountB); err != nil {
			return fmt.Errorf("transfer %d: %w", assetB, err)
		}
		if err := k.currency.Deposit(cacheCtx, shareToken, who, sharesAdded); err != nil {
			return fmt.Errorf("mint shares: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolCreated,
			sdk.NewAttribute(types.AttributeKeyWho, who.String()),
			sdk.NewAttribute(types.AttributeKeyAssetA, fmt.Sprintf("%d", assetA)),
			sdk.NewAttribute(types.AttributeKeyAssetB, fmt.Sprintf("%d", assetB)),
			sdk.NewAttribute(types.AttributeKeyShares, sharesAdded.String()),
			sdk.NewAttribute(types.AttributeKeyPoolAccount, pool.String()),
		),
	)

	k.metrics.PoolsCreated.Inc()
	k.metrics.PoolsActive.Inc()
	k.metrics.LiquidityAdded.WithLabelValues(pair.String()).Add(metricAmount(sharesAdded))

	k.Logger(ctx).Info("pool created",
		"asset_a", assetA,
		"asset_b", assetB,
		"amount_a", amount.String(),
		"amount_b", amountB.String(),
		"share_token", shareToken,
		"shares", sharesAdded.String(),
	)
	return nil
}

// AddLiquidity deposits amountA of assetA and the matching amount of assetB at the current
// pool ratio. The deposit fails if the matching amount exceeds amountBMaxLimit.
func (k Keeper) AddLiquidity(ctx context.Context, who sdk.AccAddress, assetA, assetB types.AssetID, amountA, amountBMaxLimit sdkmath.Int) (err error) {
	defer k.observe(ctx, opAddLiquidity, &err)

	pair := types.NewAssetPair(assetA, assetB)
	if !k.Exists(ctx, pair) {
		return types.ErrPoolNotFound.Wrapf("pair %s", pair)
	}
	if amountA.IsNil() || amountBMaxLimit.IsNil() || !amountA.IsPositive() || !amountBMaxLimit.IsPositive() {
		return types.ErrCannotAddZeroLiquidity
	}

	pool := pair.Account()
	shareToken, _ := k.GetShareToken(ctx, pool)
	reserveA, reserveB := k.GetPoolReserves(ctx, pair)
	totalLiquidity, err := k.GetTotalLiquidity(ctx, pool)
	if err != nil {
		return err
	}

	amountBRequired, err := formula.CalculateLiquidityIn(reserveA, reserveB, amountA)
	if err != nil {
		return types.ErrAddAssetAmountInvalid.Wrapf("reserves %s/%s: %v", reserveA, reserveB, err)
	}
	if amountBRequired.GT(amountBMaxLimit) {
		return types.ErrAssetBalanceLimitExceeded.Wrapf("requires %s of %d, limit %s", amountBRequired, assetB, amountBMaxLimit)
	}

	sharesAdded := amountBRequired
	if assetA < assetB {
		sharesAdded = amountA
	}
	if sharesAdded.IsZero() {
		return types.ErrInvalidMintedLiquidity
	}

	liquidityAfter, err := formula.CheckedAdd(totalLiquidity, sharesAdded)
	if err != nil {
		return types.ErrInvalidLiquidityAmount.Wrapf("total %s + %s: %v", totalLiquidity, sharesAdded, err)
	}

	if balance := k.currency.FreeBalance(ctx, assetA, who); balance.LT(amountA) {
		return types.ErrInsufficientAssetBalance.Wrapf("asset %d: has %s, needs %s", assetA, balance, amountA)
	}
	if balance := k.currency.FreeBalance(ctx, assetB, who); balance.LT(amountBRequired) {
		return types.ErrInsufficientAssetBalance.Wrapf("asset %d: has %s, needs %s", assetB, balance, amountBRequired)
	}

	err = k.commit(ctx, opAddLiquidity, func(cacheCtx sdk.Context) error {
		if err := k.currency.Transfer(cacheCtx, assetA, who, pool, amountA); err != nil {
			return fmt.Errorf("transfer %d: %w", assetA, err)
		}
		if err := k.currency.Transfer(cacheCtx, assetB, who, pool, amountBRequired); err != nil {
			return fmt.Errorf("transfer %d: %w", assetB, err)
		}
		if err := k.currency.Deposit(cacheCtx, shareToken, who, sharesAdded); err != nil {
			return fmt.Errorf("mint shares: %w", err)
		}
		return k.setTotalLiquidity(cacheCtx, pool, liquidityAfter)
	})
	if err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeLiquidityAdded,
			sdk.NewAttribute(types.AttributeKeyWho, who.String()),
			sdk.NewAttribute(types.AttributeKeyAssetA, fmt.Sprintf("%d", assetA)),
			sdk.NewAttribute(types.AttributeKeyAssetB, fmt.Sprintf("%d", assetB)),
			sdk.NewAttribute(types.AttributeKeyAmountA, amountA.String()),
			sdk.NewAttribute(types.AttributeKeyAmountB, amountBRequired.String()),
		),
	)
	k.metrics.LiquidityAdded.WithLabelValues(pair.String()).Add(metricAmount(sharesAdded))
	return nil
}

// RemoveLiquidity burns liquidityAmount shares and pays out the proportional reserves. Burning
// the last shares destroys the pool.
func (k Keeper) RemoveLiquidity(ctx context.Context, who sdk.AccAddress, assetA, assetB types.AssetID, liquidityAmount sdkmath.Int) (err error) {
	defer k.observe(ctx, opRemoveLiquidity, &err)

	if liquidityAmount.IsNil() || !liquidityAmount.IsPositive() {
		return types.ErrCannotRemoveLiquidityWithZero
	}

	pair := types.NewAssetPair(assetA, assetB)
	if !k.Exists(ctx, pair) {
		return types.ErrPoolNotFound.Wrapf("pair %s", pair)
	}

	pool := pair.Account()
	shareToken, _ := k.GetShareToken(ctx, pool)
	totalLiquidity, err := k.GetTotalLiquidity(ctx, pool)
	if err != nil {
		return err
	}

	if shares := k.currency.FreeBalance(ctx, shareToken, who); shares.LT(liquidityAmount) {
		return types.ErrInsufficientAssetBalance.Wrapf("holds %s shares, removing %s", shares, liquidityAmount)
	}
	if totalLiquidity.LT(liquidityAmount) {
		return types.ErrInsufficientAssetBalance.Wrapf("pool has %s shares, removing %s", totalLiquidity, liquidityAmount)
	}

	reserveA, reserveB := k.GetPoolReserves(ctx, pair)
	amountA, amountB, err := formula.CalculateLiquidityOut(reserveA, reserveB, liquidityAmount, totalLiquidity)
	if err != nil {
		return types.ErrRemoveAssetAmountInvalid.Wrapf("%s of %s shares: %v", liquidityAmount, totalLiquidity, err)
	}

	// the reserves are re-read so a balance moved since the quote cannot be overdrawn
	if reserve := k.currency.FreeBalance(ctx, assetA, pool); reserve.LT(amountA) {
		return types.ErrInsufficientPoolAssetBalance.Wrapf("asset %d: reserve %s, owed %s", assetA, reserve, amountA)
	}
	if reserve := k.currency.FreeBalance(ctx, assetB, pool); reserve.LT(amountB) {
		return types.ErrInsufficientPoolAssetBalance.Wrapf("asset %d: reserve %s, owed %s", assetB, reserve, amountB)
	}

	liquidityLeft := totalLiquidity.Sub(liquidityAmount)
	destroyed := liquidityLeft.IsZero()

	err = k.commit(ctx, opRemoveLiquidity, func(cacheCtx sdk.Context) error {
		if err := k.currency.Transfer(cacheCtx, assetA, pool, who, amountA); err != nil {
			return fmt.Errorf("transfer %d: %w", assetA, err)
		}
		if err := k.currency.Transfer(cacheCtx, assetB, pool, who, amountB); err != nil {
			return fmt.Errorf("transfer %d: %w", assetB, err)
		}
		if err := k.currency.Withdraw(cacheCtx, shareToken, who, liquidityAmount); err != nil {
			return fmt.Errorf("burn shares: %w", err)
		}
		if destroyed {
			k.destroyPool(cacheCtx, pool)
			return nil
		}
		return k.setTotalLiquidity(cacheCtx, pool, liquidityLeft)
	})
	if err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeLiquidityRemoved,
			sdk.NewAttribute(types.AttributeKeyWho, who.String()),
			sdk.NewAttribute(types.AttributeKeyAssetA, fmt.Sprintf("%d", assetA)),
			sdk.NewAttribute(types.AttributeKeyAssetB, fmt.Sprintf("%d", assetB)),
			sdk.NewAttribute(types.AttributeKeyShares, liquidityAmount.String()),
		),
	)
	k.metrics.LiquidityRemoved.WithLabelValues(pair.String()).Add(metricAmount(liquidityAmount))

	if destroyed {
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePoolDestroyed,
				sdk.NewAttribute(types.AttributeKeyWho, who.String()),
				sdk.NewAttribute(types.AttributeKeyAssetA, fmt.Sprintf("%d", assetA)),
				sdk.NewAttribute(types.AttributeKeyAssetB, fmt.Sprintf("%d", assetB)),
			),
		)
		k.metrics.PoolsDestroyed.Inc()
		k.metrics.PoolsActive.Dec()
		k.Logger(ctx).Info("pool destroyed", "asset_a", assetA, "asset_b", assetB, "share_token", shareToken)
	}
	return nil
}
