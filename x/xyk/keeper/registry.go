package keeper

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/xyk/x/xyk/types"
)

// AssetBalance is one reserve of a pool.
type AssetBalance struct {
	Asset   types.AssetID `json:"asset" yaml:"asset"`
	Balance sdkmath.Int   `json:"balance" yaml:"balance"`
}

// GetPairID returns the pool account of the pair.
func (k Keeper) GetPairID(pair types.AssetPair) sdk.AccAddress {
	return pair.Account()
}

// Exists reports whether a pool is registered for the pair, regardless of direction.
func (k Keeper) Exists(ctx context.Context, pair types.AssetPair) bool {
	return k.getStore(ctx).Has(types.ShareTokenKey(pair.Account()))
}

// PoolExists reports whether a pool is registered for the unordered pair (assetA, assetB).
func (k Keeper) PoolExists(ctx context.Context, assetA, assetB types.AssetID) bool {
	return k.Exists(ctx, types.NewAssetPair(assetA, assetB))
}

// GetShareToken returns the share token of the pool held by account.
func (k Keeper) GetShareToken(ctx context.Context, account sdk.AccAddress) (types.AssetID, bool) {
	bz := k.getStore(ctx).Get(types.ShareTokenKey(account))
	if bz == nil {
		return 0, false
	}
	return types.DecodeAssetID(bz)
}

// GetTotalLiquidity returns the outstanding shares of the pool held by account, zero if none.
func (k Keeper) GetTotalLiquidity(ctx context.Context, account sdk.AccAddress) (sdkmath.Int, error) {
	bz := k.getStore(ctx).Get(types.TotalLiquidityKey(account))
	if bz == nil {
		return sdkmath.ZeroInt(), nil
	}
	var total sdkmath.Int
	if err := total.Unmarshal(bz); err != nil {
		return sdkmath.Int{}, fmt.Errorf("GetTotalLiquidity: unmarshal: %w", err)
	}
	return total, nil
}

func (k Keeper) setTotalLiquidity(ctx context.Context, account sdk.AccAddress, amount sdkmath.Int) error {
	bz, err := amount.Marshal()
	if err != nil {
		return fmt.Errorf("setTotalLiquidity: marshal: %w", err)
	}
	k.getStore(ctx).Set(types.TotalLiquidityKey(account), bz)
	return nil
}

// GetPoolAssets returns the assets of the pool held by account in creation order.
func (k Keeper) GetPoolAssets(ctx context.Context, account sdk.AccAddress) ([]types.AssetID, bool) {
	bz := k.getStore(ctx).Get(types.PoolAssetsKey(account))
	if len(bz) != 8 {
		return nil, false
	}
	assetA, _ := types.DecodeAssetID(bz[:4])
	assetB, _ := types.DecodeAssetID(bz[4:])
	return []types.AssetID{assetA, assetB}, true
}

// GetPoolBalances returns the reserves of the pool held by account.
func (k Keeper) GetPoolBalances(ctx context.Context, account sdk.AccAddress) ([]AssetBalance, bool) {
	assets, found := k.GetPoolAssets(ctx, account)
	if !found {
		return nil, false
	}
	balances := make([]AssetBalance, 0, len(assets))
	for _, asset := range assets {
		balances = append(balances, AssetBalance{
			Asset:   asset,
			Balance: k.currency.FreeBalance(ctx, asset, account),
		})
	}
	return balances, true
}

// GetPoolReserves reads both reserves of the pair's pool from the ledger.
func (k Keeper) GetPoolReserves(ctx context.Context, pair types.AssetPair) (reserveIn, reserveOut sdkmath.Int) {
	account := pair.Account()
	return k.currency.FreeBalance(ctx, pair.AssetIn, account), k.currency.FreeBalance(ctx, pair.AssetOut, account)
}

// createPoolRecord registers a pool with its share token and initial supply.
func (k Keeper) createPoolRecord(ctx context.Context, pair types.AssetPair, shareToken types.AssetID, initialSupply sdkmath.Int) error {
	if k.Exists(ctx, pair) {
		return types.ErrPoolAlreadyExists.Wrapf("pair %s", pair)
	}

	account := pair.Account()
	store := k.getStore(ctx)
	store.Set(types.ShareTokenKey(account), types.EncodeAssetID(shareToken))
	store.Set(types.PoolAssetsKey(account), append(types.EncodeAssetID(pair.AssetIn), types.EncodeAssetID(pair.AssetOut)...))
	return k.setTotalLiquidity(ctx, account, initialSupply)
}

// destroyPool removes every registry entry of the pool held by account. Callers must have
// established that no shares remain.
func (k Keeper) destroyPool(ctx context.Context, account sdk.AccAddress) {
	store := k.getStore(ctx)
	store.Delete(types.ShareTokenKey(account))
	store.Delete(types.PoolAssetsKey(account))
	store.Delete(types.TotalLiquidityKey(account))
}

// IteratePools calls cb for every registered pool until cb returns true.
func (k Keeper) IteratePools(ctx context.Context, cb func(pool types.PoolRecord) (stop bool)) error {
	store := k.getStore(ctx)
	iterator := store.Iterator(types.ShareTokenKeyPrefix, storetypes.PrefixEndBytes(types.ShareTokenKeyPrefix))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		account := sdk.AccAddress(iterator.Key()[len(types.ShareTokenKeyPrefix):])
		shareToken, ok := types.DecodeAssetID(iterator.Value())
		if !ok {
			return fmt.Errorf("IteratePools: malformed share token for %s", account)
		}
		assets, found := k.GetPoolAssets(ctx, account)
		if !found {
			return fmt.Errorf("IteratePools: pool %s has no assets", account)
		}
		total, err := k.GetTotalLiquidity(ctx, account)
		if err != nil {
			return fmt.Errorf("IteratePools: %w", err)
		}

		record := types.PoolRecord{
			AssetA:         assets[0],
			AssetB:         assets[1],
			ShareToken:     shareToken,
			TotalLiquidity: total,
		}
		if cb(record) {
			break
		}
	}
	return nil
}

// GetAllPools returns every registered pool.
func (k Keeper) GetAllPools(ctx context.Context) ([]types.PoolRecord, error) {
	pools := []types.PoolRecord{}
	err := k.IteratePools(ctx, func(pool types.PoolRecord) bool {
		pools = append(pools, pool)
		return false
	})
	return pools, err
}
