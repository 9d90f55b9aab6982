package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/xyk/x/xyk/types"
)

// RegisterInvariants registers all xyk invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "share-supply", ShareSupplyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "positive-liquidity", PositiveLiquidityInvariant(k))
	ir.RegisterRoute(types.ModuleName, "positive-reserves", PositiveReservesInvariant(k))
}

// AllInvariants runs all invariants of the xyk module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := ShareSupplyInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = PositiveLiquidityInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return PositiveReservesInvariant(k)(ctx)
	}
}

// ShareSupplyInvariant checks that the ledger issuance of every share token equals the pool's
// recorded total liquidity.
func ShareSupplyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePools(ctx, func(pool types.PoolRecord) bool {
			issuance := k.currency.TotalIssuance(ctx, pool.ShareToken)
			if !issuance.Equal(pool.TotalLiquidity) {
				count++
				msg += fmt.Sprintf("pool %s: share token %d issuance %s != total liquidity %s\n",
					pool.Pair(), pool.ShareToken, issuance, pool.TotalLiquidity)
			}
			return false
		})
		if err != nil {
			count++
			msg += err.Error() + "\n"
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "share-supply",
			fmt.Sprintf("found %d pools with mismatched share supply\n%s", count, msg),
		), broken
	}
}

// PositiveLiquidityInvariant checks that every registered pool has outstanding shares.
func PositiveLiquidityInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePools(ctx, func(pool types.PoolRecord) bool {
			if pool.TotalLiquidity.IsNil() || !pool.TotalLiquidity.IsPositive() {
				count++
				msg += fmt.Sprintf("pool %s: total liquidity is nil or non-positive (%s)\n",
					pool.Pair(), pool.TotalLiquidity)
			}
			return false
		})
		if err != nil {
			count++
			msg += err.Error() + "\n"
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "positive-liquidity",
			fmt.Sprintf("found %d pools without liquidity\n%s", count, msg),
		), broken
	}
}

// PositiveReservesInvariant checks that both reserves of every registered pool are positive.
func PositiveReservesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePools(ctx, func(pool types.PoolRecord) bool {
			reserveA, reserveB := k.GetPoolReserves(ctx, pool.Pair())
			if !reserveA.IsPositive() || !reserveB.IsPositive() {
				count++
				msg += fmt.Sprintf("pool %s: reserves %s/%s\n", pool.Pair(), reserveA, reserveB)
			}
			return false
		})
		if err != nil {
			count++
			msg += err.Error() + "\n"
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "positive-reserves",
			fmt.Sprintf("found %d pools with an empty reserve\n%s", count, msg),
		), broken
	}
}
