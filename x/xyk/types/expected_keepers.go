package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	sharedkeeper "github.com/paw-chain/xyk/x/shared/keeper"
)

// Currency is the ledger holding pool reserves, trader balances and share tokens.
type Currency = sharedkeeper.MultiCurrencyV1

// AssetRegistry issues share token ids keyed by pair name.
type AssetRegistry = sharedkeeper.AssetRegistryV1

// PriceLookup is the read-only view of other pools used to price discounted fees.
type PriceLookup interface {
	// Exists reports whether a pool is registered for the pair, in either direction.
	Exists(ctx context.Context, pair AssetPair) bool

	// SpotPrice converts amount of base into quote using the reserves of the (base, quote) pool.
	SpotPrice(ctx context.Context, base, quote AssetID, amount sdkmath.Int) (sdkmath.Int, error)
}

// BalanceReader is the subset of the ledger the fee engine reads from.
type BalanceReader interface {
	FreeBalance(ctx context.Context, asset AssetID, who sdk.AccAddress) sdkmath.Int
}
