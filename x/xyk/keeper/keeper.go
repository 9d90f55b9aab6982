package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	sharedkeeper "github.com/paw-chain/xyk/x/shared/keeper"
	"github.com/paw-chain/xyk/x/xyk/types"
)

// Keeper of the xyk store
type Keeper struct {
	storeKey      storetypes.StoreKey
	currency      types.Currency
	assetRegistry types.AssetRegistry
	metrics       *XYKMetrics
}

// NewKeeper creates a new xyk Keeper instance
func NewKeeper(
	key storetypes.StoreKey,
	currency types.Currency,
	assetRegistry types.AssetRegistry,
) *Keeper {
	return &Keeper{
		storeKey:      key,
		currency:      currency,
		assetRegistry: assetRegistry,
		metrics:       NewXYKMetrics(),
	}
}

// getStore returns the KVStore for the xyk module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// Currency returns the ledger the keeper settles against.
func (k Keeper) Currency() types.Currency {
	return k.currency
}

// fees returns a fee engine pricing discounts against this keeper's pools.
func (k Keeper) fees() FeeEngine {
	return NewFeeEngine(k, k.currency)
}

// commit runs fn inside a cache context and writes it only if fn succeeds. Validation has
// already passed when commit is reached, so any failure is reported as a fatal invariant
// violation and leaves no partial state behind.
func (k Keeper) commit(ctx context.Context, operation string, fn func(cacheCtx sdk.Context) error) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, writeFn := sdkCtx.CacheContext()

	if err := fn(cacheCtx); err != nil {
		k.metrics.FatalViolations.WithLabelValues(operation).Inc()
		k.Logger(ctx).Error("execution failed after validation; state discarded",
			"operation", operation,
			"error", err,
		)
		return types.ErrFatalInvariantViolation.Wrapf("%s: %v", operation, err)
	}

	writeFn()
	return nil
}

// observe records the outcome of an operation. It is deferred with a pointer to the
// operation's named error result.
func (k Keeper) observe(ctx context.Context, operation string, errp *error) {
	if *errp == nil {
		k.metrics.Operations.WithLabelValues(operation, "success").Inc()
		return
	}
	class := types.ClassOf(*errp).String()
	k.metrics.Operations.WithLabelValues(operation, "rejected").Inc()
	k.metrics.Rejections.WithLabelValues(operation, class).Inc()
	k.Logger(ctx).Debug("operation rejected", "operation", operation, "class", class, "error", *errp)
}

var (
	_ types.PriceLookup        = Keeper{}
	_ sharedkeeper.AMMKeeperV1 = Keeper{}
)
