package keeper

import (
	"context"
	"fmt"
	"math"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/xyk/x/assetregistry/types"
)

// Keeper of the asset registry store
type Keeper struct {
	storeKey storetypes.StoreKey
}

// NewKeeper creates a new asset registry Keeper instance
func NewKeeper(key storetypes.StoreKey) Keeper {
	return Keeper{storeKey: key}
}

// getStore returns the KVStore for the asset registry module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// GetOrCreateAsset returns the id registered for name, registering the next free id if the
// name is unknown. The mapping is permanent.
func (k Keeper) GetOrCreateAsset(ctx context.Context, name []byte) (types.AssetID, error) {
	if len(name) == 0 {
		return 0, types.ErrEmptyAssetName
	}
	if id, found := k.GetAssetID(ctx, name); found {
		return id, nil
	}

	id := k.GetNextAssetID(ctx)
	if id == math.MaxUint32 {
		return 0, types.ErrAssetIDOverflow
	}
	if err := k.registerAsset(ctx, id, name); err != nil {
		return 0, fmt.Errorf("GetOrCreateAsset: %w", err)
	}
	k.setNextAssetID(ctx, id+1)

	k.Logger(ctx).Debug("asset registered", "id", id, "name", fmt.Sprintf("%X", name))
	return id, nil
}

// GetAssetID returns the id registered under name.
func (k Keeper) GetAssetID(ctx context.Context, name []byte) (types.AssetID, bool) {
	bz := k.getStore(ctx).Get(types.AssetByNameKey(name))
	if bz == nil {
		return 0, false
	}
	return types.DecodeAssetID(bz)
}

// GetAssetName returns the name registered for id.
func (k Keeper) GetAssetName(ctx context.Context, id types.AssetID) ([]byte, error) {
	bz := k.getStore(ctx).Get(types.AssetKey(id))
	if bz == nil {
		return nil, types.ErrAssetNotFound.Wrapf("asset %d", id)
	}
	return bz, nil
}

// GetNextAssetID returns the id the next new asset will receive.
func (k Keeper) GetNextAssetID(ctx context.Context) types.AssetID {
	bz := k.getStore(ctx).Get(types.NextAssetIDKey)
	if bz == nil {
		return types.FirstAssetID
	}
	id, ok := types.DecodeAssetID(bz)
	if !ok {
		panic(fmt.Errorf("assetregistry: corrupt next asset id %X", bz))
	}
	return id
}

// IterateAssets calls cb for every registered asset in id order until cb returns true.
func (k Keeper) IterateAssets(ctx context.Context, cb func(asset types.Asset) bool) {
	iterator := k.getStore(ctx).Iterator(types.AssetKeyPrefix, storetypes.PrefixEndBytes(types.AssetKeyPrefix))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		id, ok := types.DecodeAssetID(iterator.Key()[len(types.AssetKeyPrefix):])
		if !ok {
			continue
		}
		if cb(types.Asset{ID: id, Name: append([]byte(nil), iterator.Value()...)}) {
			break
		}
	}
}

func (k Keeper) registerAsset(ctx context.Context, id types.AssetID, name []byte) error {
	store := k.getStore(ctx)
	if store.Has(types.AssetByNameKey(name)) {
		return types.ErrAssetExists.Wrapf("name %X", name)
	}
	if store.Has(types.AssetKey(id)) {
		return types.ErrAssetExists.Wrapf("id %d", id)
	}
	store.Set(types.AssetByNameKey(name), types.EncodeAssetID(id))
	store.Set(types.AssetKey(id), name)
	return nil
}

func (k Keeper) setNextAssetID(ctx context.Context, id types.AssetID) {
	k.getStore(ctx).Set(types.NextAssetIDKey, types.EncodeAssetID(id))
}
