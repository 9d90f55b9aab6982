// Package keeper provides shared keeper interfaces for cross-module communication.
// Versioned interfaces keep the contract between the AMM, the ledger and the asset registry stable.
package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AssetID identifies a fungible asset across modules.
type AssetID uint32

// =============================================================================
// Ledger Interfaces (Versioned)
// =============================================================================

// MultiCurrencyV1 is the multi-asset ledger consumed by the AMM.
// Every mutating method either applies fully or returns an error leaving balances unchanged.
type MultiCurrencyV1 interface {
	// FreeBalance returns the spendable balance of asset held by who.
	FreeBalance(ctx context.Context, asset AssetID, who sdk.AccAddress) sdkmath.Int

	// TotalIssuance returns the total supply of asset.
	TotalIssuance(ctx context.Context, asset AssetID) sdkmath.Int

	// Transfer moves amount of asset from one account to another.
	Transfer(ctx context.Context, asset AssetID, from, to sdk.AccAddress, amount sdkmath.Int) error

	// Deposit mints amount of asset to who.
	Deposit(ctx context.Context, asset AssetID, who sdk.AccAddress, amount sdkmath.Int) error

	// Withdraw burns amount of asset from who.
	Withdraw(ctx context.Context, asset AssetID, who sdk.AccAddress, amount sdkmath.Int) error
}

// =============================================================================
// Asset Registry Interfaces (Versioned)
// =============================================================================

// AssetRegistryV1 names assets. Names map to ids permanently.
type AssetRegistryV1 interface {
	// GetOrCreateAsset returns the id registered for name, registering a new one if needed.
	GetOrCreateAsset(ctx context.Context, name []byte) (AssetID, error)
}

// =============================================================================
// AMM Keeper Interfaces (Versioned)
// =============================================================================

// AMMKeeperV1 is the read side of the AMM for routers and other modules.
type AMMKeeperV1 interface {
	// PoolExists reports whether a pool is registered for the unordered pair.
	PoolExists(ctx context.Context, assetA, assetB AssetID) bool

	// GetPoolAssets returns the assets of the pool held by poolAccount.
	GetPoolAssets(ctx context.Context, poolAccount sdk.AccAddress) ([]AssetID, bool)

	// GetSpotPriceUnchecked converts amount of assetA into assetB at the pool ratio, zero on error.
	GetSpotPriceUnchecked(ctx context.Context, assetA, assetB AssetID, amount sdkmath.Int) sdkmath.Int
}
