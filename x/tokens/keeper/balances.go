package keeper

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/xyk/x/tokens/types"
)

// FreeBalance returns the balance of asset held by who, zero when none is recorded.
func (k Keeper) FreeBalance(ctx context.Context, asset types.AssetID, who sdk.AccAddress) sdkmath.Int {
	return k.getInt(ctx, types.BalanceKey(asset, who))
}

// TotalIssuance returns the total amount of asset in existence.
func (k Keeper) TotalIssuance(ctx context.Context, asset types.AssetID) sdkmath.Int {
	return k.getInt(ctx, types.TotalIssuanceKey(asset))
}

// Transfer moves amount of asset from one account to another. Nothing is written on failure.
func (k Keeper) Transfer(ctx context.Context, asset types.AssetID, from, to sdk.AccAddress, amount sdkmath.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	fromBalance := k.FreeBalance(ctx, asset, from)
	if fromBalance.LT(amount) {
		return types.ErrInsufficientBalance.Wrapf("asset %d: %s has %s, needs %s", asset, from, fromBalance, amount)
	}
	if amount.IsZero() || from.Equals(to) {
		return nil
	}

	toBalance := k.FreeBalance(ctx, asset, to).Add(amount)
	if toBalance.GT(types.MaxBalance) {
		return types.ErrBalanceOverflow.Wrapf("asset %d: balance of %s", asset, to)
	}

	if err := k.setInt(ctx, types.BalanceKey(asset, from), fromBalance.Sub(amount)); err != nil {
		return fmt.Errorf("Transfer: %w", err)
	}
	if err := k.setInt(ctx, types.BalanceKey(asset, to), toBalance); err != nil {
		return fmt.Errorf("Transfer: %w", err)
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTransfer,
			sdk.NewAttribute(types.AttributeKeyAsset, fmt.Sprintf("%d", asset)),
			sdk.NewAttribute(types.AttributeKeyFrom, from.String()),
			sdk.NewAttribute(types.AttributeKeyTo, to.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

// Deposit mints amount of asset to who, increasing total issuance.
func (k Keeper) Deposit(ctx context.Context, asset types.AssetID, who sdk.AccAddress, amount sdkmath.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}

	issuance := k.TotalIssuance(ctx, asset).Add(amount)
	if issuance.GT(types.MaxBalance) {
		return types.ErrBalanceOverflow.Wrapf("asset %d: total issuance", asset)
	}
	// balance <= issuance, so the balance cannot overflow either
	balance := k.FreeBalance(ctx, asset, who).Add(amount)

	if err := k.setInt(ctx, types.TotalIssuanceKey(asset), issuance); err != nil {
		return fmt.Errorf("Deposit: %w", err)
	}
	if err := k.setInt(ctx, types.BalanceKey(asset, who), balance); err != nil {
		return fmt.Errorf("Deposit: %w", err)
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeposit,
			sdk.NewAttribute(types.AttributeKeyAsset, fmt.Sprintf("%d", asset)),
			sdk.NewAttribute(types.AttributeKeyWho, who.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

// Withdraw burns amount of asset from who, decreasing total issuance.
func (k Keeper) Withdraw(ctx context.Context, asset types.AssetID, who sdk.AccAddress, amount sdkmath.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	balance := k.FreeBalance(ctx, asset, who)
	if balance.LT(amount) {
		return types.ErrInsufficientBalance.Wrapf("asset %d: %s has %s, needs %s", asset, who, balance, amount)
	}
	if amount.IsZero() {
		return nil
	}

	if err := k.setInt(ctx, types.BalanceKey(asset, who), balance.Sub(amount)); err != nil {
		return fmt.Errorf("Withdraw: %w", err)
	}
	if err := k.setInt(ctx, types.TotalIssuanceKey(asset), k.TotalIssuance(ctx, asset).Sub(amount)); err != nil {
		return fmt.Errorf("Withdraw: %w", err)
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdraw,
			sdk.NewAttribute(types.AttributeKeyAsset, fmt.Sprintf("%d", asset)),
			sdk.NewAttribute(types.AttributeKeyWho, who.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

// IterateBalances calls cb for every non-zero balance until cb returns true.
func (k Keeper) IterateBalances(ctx context.Context, cb func(asset types.AssetID, who sdk.AccAddress, amount sdkmath.Int) bool) error {
	iterator := k.getStore(ctx).Iterator(types.BalanceKeyPrefix, storetypes.PrefixEndBytes(types.BalanceKeyPrefix))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		asset, who, ok := types.SplitBalanceKey(iterator.Key())
		if !ok {
			return fmt.Errorf("IterateBalances: malformed key %X", iterator.Key())
		}
		var amount sdkmath.Int
		if err := amount.Unmarshal(iterator.Value()); err != nil {
			return fmt.Errorf("IterateBalances: unmarshal: %w", err)
		}
		if cb(asset, who, amount) {
			break
		}
	}
	return nil
}

func (k Keeper) getInt(ctx context.Context, key []byte) sdkmath.Int {
	bz := k.getStore(ctx).Get(key)
	if bz == nil {
		return sdkmath.ZeroInt()
	}
	var v sdkmath.Int
	if err := v.Unmarshal(bz); err != nil {
		// values are only ever written by setInt
		panic(fmt.Errorf("tokens: corrupt value under %X: %w", key, err))
	}
	return v
}

func (k Keeper) setInt(ctx context.Context, key []byte, v sdkmath.Int) error {
	store := k.getStore(ctx)
	if v.IsZero() {
		store.Delete(key)
		return nil
	}
	bz, err := v.Marshal()
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	store.Set(key, bz)
	return nil
}

func validateAmount(amount sdkmath.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return types.ErrInvalidAmount.Wrapf("%v", amount)
	}
	return nil
}
