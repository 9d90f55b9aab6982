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
	opValidateSell = "validate_sell"
	opExecuteSell  = "execute_sell"
	opValidateBuy  = "validate_buy"
	opExecuteBuy   = "execute_buy"
	opSell         = "sell"
	opBuy          = "buy"
)

type swapKind uint8

const (
	swapKindNone swapKind = iota
	swapKindSell
	swapKindBuy
)

func (s swapKind) String() string {
	switch s {
	case swapKindSell:
		return "sell"
	case swapKindBuy:
		return "buy"
	default:
		return "none"
	}
}

// SwapIntent is a validated swap awaiting execution. Only ValidateSell and ValidateBuy produce
// one, and it can be executed once by the matching Execute call. Intents are never persisted
// and must be executed against the same state they were validated against.
type SwapIntent struct {
	kind     swapKind
	consumed bool

	origin         sdk.AccAddress
	assets         types.AssetPair
	amountIn       sdkmath.Int
	amountOut      sdkmath.Int
	discount       bool
	discountAsset  types.AssetID
	discountAmount sdkmath.Int
}

// Origin is the trader.
func (i *SwapIntent) Origin() sdk.AccAddress { return i.origin }

// Assets is the traded pair: the trader pays AssetIn and receives AssetOut.
func (i *SwapIntent) Assets() types.AssetPair { return i.assets }

// AmountIn is what the trader pays into the pool.
func (i *SwapIntent) AmountIn() sdkmath.Int { return i.amountIn }

// AmountOut is what the trader receives from the pool.
func (i *SwapIntent) AmountOut() sdkmath.Int { return i.amountOut }

// Discount reports whether the fee is discounted.
func (i *SwapIntent) Discount() bool { return i.discount }

// DiscountAmount is the reference asset burned from the trader, zero without a discount.
func (i *SwapIntent) DiscountAmount() sdkmath.Int { return i.discountAmount }

// Consumed reports whether the intent was already executed.
func (i *SwapIntent) Consumed() bool { return i.consumed }

func (i *SwapIntent) String() string {
	if i == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %s in=%s out=%s discount=%t fee=%s",
		i.kind, i.assets, i.amountIn, i.amountOut, i.discount, i.discountAmount)
}

// begin marks the intent consumed, failing if it is not a fresh intent of kind.
func (i *SwapIntent) begin(kind swapKind) error {
	if i == nil || i.kind == swapKindNone {
		return types.ErrIntentNotValidated
	}
	if i.kind != kind {
		return types.ErrIntentNotValidated.Wrapf("%s intent passed to %s", i.kind, kind)
	}
	if i.consumed {
		return types.ErrIntentConsumed
	}
	i.consumed = true
	return nil
}

// ValidateSell checks that who can sell amount of pair.AssetIn for at least minBought of
// pair.AssetOut and returns the resulting intent. It never mutates state.
func (k Keeper) ValidateSell(ctx context.Context, who sdk.AccAddress, pair types.AssetPair, amount, minBought sdkmath.Int, discount bool) (intent *SwapIntent, err error) {
	defer k.observe(ctx, opValidateSell, &err)

	if amount.IsNil() || !amount.IsPositive() {
		return nil, types.ErrZeroAmount
	}
	if minBought.IsNil() || minBought.IsNegative() {
		return nil, types.ErrSellAssetAmountInvalid.Wrap("negative minimum bought")
	}
	if balance := k.currency.FreeBalance(ctx, pair.AssetIn, who); balance.LT(amount) {
		return nil, types.ErrInsufficientAssetBalance.Wrapf("asset %d: has %s, needs %s", pair.AssetIn, balance, amount)
	}
	if !k.Exists(ctx, pair) {
		return nil, types.ErrPoolNotFound.Wrapf("pair %s", pair)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	fees := k.fees()
	if discount {
		if err := fees.CheckDiscountPool(ctx, pair.AssetIn, params); err != nil {
			return nil, err
		}
	}

	reserveIn, reserveOut := k.GetPoolReserves(ctx, pair)
	maxIn := reserveIn.Quo(sdkmath.NewIntFromUint64(params.MaxInRatio))
	if amount.GT(maxIn) {
		return nil, types.ErrMaxInRatioExceeded.Wrapf("%s above %s (reserve %s / %d)", amount, maxIn, reserveIn, params.MaxInRatio)
	}

	tradeFee, secondaryFee, err := fees.ComputeFee(amount, discount, params)
	if err != nil {
		return nil, err
	}
	amountOut, err := formula.CalculateOutGivenIn(reserveIn, reserveOut, amount.Sub(tradeFee))
	if err != nil {
		return nil, types.ErrSellAssetAmountInvalid.Wrapf("reserves %s/%s: %v", reserveIn, reserveOut, err)
	}
	if reserveOut.LT(amountOut) {
		return nil, types.ErrInsufficientPoolAssetBalance.Wrapf("reserve %s, out %s", reserveOut, amountOut)
	}
	if amountOut.LT(minBought) {
		return nil, types.ErrAssetBalanceLimitExceeded.Wrapf("sale yields %s, minimum %s", amountOut, minBought)
	}

	discountAmount := sdkmath.ZeroInt()
	if discount && secondaryFee.IsPositive() {
		discountAmount, err = fees.ResolveDiscountFee(ctx, who, pair.AssetIn, secondaryFee, params)
		if err != nil {
			return nil, err
		}
	}

	return &SwapIntent{
		kind:           swapKindSell,
		origin:         who,
		assets:         pair,
		amountIn:       amount,
		amountOut:      amountOut,
		discount:       discount,
		discountAsset:  params.NativeAssetID,
		discountAmount: discountAmount,
	}, nil
}

// ExecuteSell settles a sell intent: the discount fee is burned, then amountIn moves into the
// pool and amountOut out of it. Nothing is committed unless every step succeeds.
func (k Keeper) ExecuteSell(ctx context.Context, intent *SwapIntent) (err error) {
	defer k.observe(ctx, opExecuteSell, &err)

	if err := intent.begin(swapKindSell); err != nil {
		return err
	}
	if err := k.settle(ctx, opExecuteSell, intent); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSellExecuted,
			sdk.NewAttribute(types.AttributeKeyWho, intent.origin.String()),
			sdk.NewAttribute(types.AttributeKeyAssetIn, fmt.Sprintf("%d", intent.assets.AssetIn)),
			sdk.NewAttribute(types.AttributeKeyAssetOut, fmt.Sprintf("%d", intent.assets.AssetOut)),
			sdk.NewAttribute(types.AttributeKeyAmount, intent.amountIn.String()),
			sdk.NewAttribute(types.AttributeKeySalePrice, intent.amountOut.String()),
			sdk.NewAttribute(types.AttributeKeyDiscountFee, intent.discountAmount.String()),
		),
	)
	k.recordSwap(ctx, intent)
	return nil
}

// ValidateBuy checks that who can buy amount of pair.AssetOut paying at most maxLimit of
// pair.AssetIn and returns the resulting intent. It never mutates state.
func (k Keeper) ValidateBuy(ctx context.Context, who sdk.AccAddress, pair types.AssetPair, amount, maxLimit sdkmath.Int, discount bool) (intent *SwapIntent, err error) {
	defer k.observe(ctx, opValidateBuy, &err)

	if amount.IsNil() || !amount.IsPositive() {
		return nil, types.ErrZeroAmount
	}
	if maxLimit.IsNil() || maxLimit.IsNegative() {
		return nil, types.ErrBuyAssetAmountInvalid.Wrap("negative maximum sold")
	}
	if !k.Exists(ctx, pair) {
		return nil, types.ErrPoolNotFound.Wrapf("pair %s", pair)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	reserveIn, reserveOut := k.GetPoolReserves(ctx, pair)
	maxOut := reserveOut.Quo(sdkmath.NewIntFromUint64(params.MaxOutRatio))
	if amount.GT(maxOut) {
		return nil, types.ErrMaxOutRatioExceeded.Wrapf("%s above %s (reserve %s / %d)", amount, maxOut, reserveOut, params.MaxOutRatio)
	}
	if reserveOut.LTE(amount) {
		return nil, types.ErrInsufficientPoolAssetBalance.Wrapf("reserve %s, buying %s", reserveOut, amount)
	}

	fees := k.fees()
	if discount {
		if err := fees.CheckDiscountPool(ctx, pair.AssetOut, params); err != nil {
			return nil, err
		}
	}

	tradeFee, secondaryFee, err := fees.ComputeFee(amount, discount, params)
	if err != nil {
		return nil, err
	}
	amountWithFee := amount.Add(tradeFee)
	if amountWithFee.GT(reserveOut) {
		return nil, types.ErrInsufficientPoolAssetBalance.Wrapf("reserve %s, buying %s with fee", reserveOut, amountWithFee)
	}

	amountIn, err := formula.CalculateInGivenOut(reserveOut, reserveIn, amountWithFee)
	if err != nil {
		return nil, types.ErrBuyAssetAmountInvalid.Wrapf("reserves %s/%s: %v", reserveIn, reserveOut, err)
	}
	if balance := k.currency.FreeBalance(ctx, pair.AssetIn, who); balance.LT(amountIn) {
		return nil, types.ErrInsufficientAssetBalance.Wrapf("asset %d: has %s, needs %s", pair.AssetIn, balance, amountIn)
	}
	if amountIn.GT(maxLimit) {
		return nil, types.ErrAssetBalanceLimitExceeded.Wrapf("costs %s, limit %s", amountIn, maxLimit)
	}

	discountAmount := sdkmath.ZeroInt()
	if discount && secondaryFee.IsPositive() {
		discountAmount, err = fees.ResolveDiscountFee(ctx, who, pair.AssetOut, secondaryFee, params)
		if err != nil {
			return nil, err
		}
	}

	return &SwapIntent{
		kind:           swapKindBuy,
		origin:         who,
		assets:         pair,
		amountIn:       amountIn,
		amountOut:      amount,
		discount:       discount,
		discountAsset:  params.NativeAssetID,
		discountAmount: discountAmount,
	}, nil
}

// ExecuteBuy settles a buy intent with the same atomicity as ExecuteSell.
func (k Keeper) ExecuteBuy(ctx context.Context, intent *SwapIntent) (err error) {
	defer k.observe(ctx, opExecuteBuy, &err)

	if err := intent.begin(swapKindBuy); err != nil {
		return err
	}
	if err := k.settle(ctx, opExecuteBuy, intent); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeBuyExecuted,
			sdk.NewAttribute(types.AttributeKeyWho, intent.origin.String()),
			sdk.NewAttribute(types.AttributeKeyAssetOut, fmt.Sprintf("%d", intent.assets.AssetOut)),
			sdk.NewAttribute(types.AttributeKeyAssetIn, fmt.Sprintf("%d", intent.assets.AssetIn)),
			sdk.NewAttribute(types.AttributeKeyAmount, intent.amountOut.String()),
			sdk.NewAttribute(types.AttributeKeyBuyPrice, intent.amountIn.String()),
			sdk.NewAttribute(types.AttributeKeyDiscountFee, intent.discountAmount.String()),
		),
	)
	k.recordSwap(ctx, intent)
	return nil
}

// Sell validates and executes a sell in one call.
func (k Keeper) Sell(ctx context.Context, who sdk.AccAddress, assetIn, assetOut types.AssetID, amount, minBought sdkmath.Int, discount bool) (*SwapIntent, error) {
	intent, err := k.ValidateSell(ctx, who, types.NewAssetPair(assetIn, assetOut), amount, minBought, discount)
	if err != nil {
		return nil, err
	}
	if err := k.ExecuteSell(ctx, intent); err != nil {
		return nil, err
	}
	return intent, nil
}

// Buy validates and executes a buy in one call.
func (k Keeper) Buy(ctx context.Context, who sdk.AccAddress, assetOut, assetIn types.AssetID, amount, maxLimit sdkmath.Int, discount bool) (*SwapIntent, error) {
	intent, err := k.ValidateBuy(ctx, who, types.NewAssetPair(assetIn, assetOut), amount, maxLimit, discount)
	if err != nil {
		return nil, err
	}
	if err := k.ExecuteBuy(ctx, intent); err != nil {
		return nil, err
	}
	return intent, nil
}

// settle applies the ledger movements of an intent inside one cache context.
func (k Keeper) settle(ctx context.Context, operation string, intent *SwapIntent) error {
	pool := intent.assets.Account()
	return k.commit(ctx, operation, func(cacheCtx sdk.Context) error {
		if intent.discount && intent.discountAmount.IsPositive() {
			if err := k.currency.Withdraw(cacheCtx, intent.discountAsset, intent.origin, intent.discountAmount); err != nil {
				return fmt.Errorf("burn discount fee: %w", err)
			}
		}
		if err := k.currency.Transfer(cacheCtx, intent.assets.AssetIn, intent.origin, pool, intent.amountIn); err != nil {
			return fmt.Errorf("transfer %d in: %w", intent.assets.AssetIn, err)
		}
		if err := k.currency.Transfer(cacheCtx, intent.assets.AssetOut, pool, intent.origin, intent.amountOut); err != nil {
			return fmt.Errorf("transfer %d out: %w", intent.assets.AssetOut, err)
		}
		return nil
	})
}

func (k Keeper) recordSwap(ctx context.Context, intent *SwapIntent) {
	assetIn := fmt.Sprintf("%d", intent.assets.AssetIn)
	k.metrics.SwapsTotal.WithLabelValues(intent.kind.String(), assetIn, fmt.Sprintf("%d", intent.assets.AssetOut), fmt.Sprintf("%t", intent.discount)).Inc()
	k.metrics.SwapVolume.WithLabelValues(assetIn).Add(metricAmount(intent.amountIn))
	if intent.discountAmount.IsPositive() {
		k.metrics.SwapFees.WithLabelValues(fmt.Sprintf("%d", intent.discountAsset)).Add(metricAmount(intent.discountAmount))
	}

	k.Logger(ctx).Debug("swap executed",
		"kind", intent.kind.String(),
		"who", intent.origin.String(),
		"asset_in", intent.assets.AssetIn,
		"asset_out", intent.assets.AssetOut,
		"amount_in", intent.amountIn.String(),
		"amount_out", intent.amountOut.String(),
		"discount_fee", intent.discountAmount.String(),
	)
}
