package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/xyk/testutil/keeper"
	"github.com/paw-chain/xyk/x/xyk/formula"
	"github.com/paw-chain/xyk/x/xyk/types"
)

var (
	alice = keepertest.TestAddr("alice")
	bob   = keepertest.TestAddr("bob")
	carol = keepertest.TestAddr("carol")
)

func hasEvent(ctx sdk.Context, eventType string) bool {
	for _, ev := range ctx.EventManager().Events() {
		if ev.Type == eventType {
			return true
		}
	}
	return false
}

func TestCreatePool(t *testing.T) {
	f := keepertest.XYKKeeper(t)
	f.Fund(t, alice, 1_000_000, keepertest.AssetA, keepertest.AssetB)

	err := f.Keeper.CreatePool(f.Ctx, alice, keepertest.AssetA, keepertest.AssetB, sdkmath.NewInt(1000), sdkmath.LegacyNewDec(2))
	require.NoError(t, err)

	pool := types.PairAccount(keepertest.AssetA, keepertest.AssetB)
	require.True(t, f.Keeper.PoolExists(f.Ctx, keepertest.AssetB, keepertest.AssetA))
	require.Equal(t, sdkmath.NewInt(1000), f.Balance(pool, keepertest.AssetA))
	require.Equal(t, sdkmath.NewInt(2000), f.Balance(pool, keepertest.AssetB))
	require.Equal(t, sdkmath.NewInt(999_000), f.Balance(alice, keepertest.AssetA))
	require.Equal(t, sdkmath.NewInt(998_000), f.Balance(alice, keepertest.AssetB))

	shareToken, found := f.Keeper.GetShareToken(f.Ctx, pool)
	require.True(t, found)
	require.Equal(t, keepertest.FirstShareToken, shareToken)
	require.Equal(t, sdkmath.NewInt(1000), f.Balance(alice, shareToken))

	total, err := f.Keeper.GetTotalLiquidity(f.Ctx, pool)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(1000), total)
	require.Equal(t, total, f.Tokens.TotalIssuance(f.Ctx, shareToken))

	assets, found := f.Keeper.GetPoolAssets(f.Ctx, pool)
	require.True(t, found)
	require.Equal(t, []types.AssetID{keepertest.AssetA, keepertest.AssetB}, assets)

	require.True(t, hasEvent(f.Ctx, types.EventTypePoolCreated))
}

func TestCreatePoolSharesFollowAssetOrder(t *testing.T) {
	f := keepertest.XYKKeeper(t)
	f.Fund(t, alice, 1_000_000, keepertest.AssetA, keepertest.AssetB)

	// assetA > assetB: the initial shares are the amount of the second asset
	err := f.Keeper.CreatePool(f.Ctx, alice, keepertest.AssetB, keepertest.AssetA, sdkmath.NewInt(1000), sdkmath.LegacyNewDec(2))
	require.NoError(t, err)

	pool := types.PairAccount(keepertest.AssetA, keepertest.AssetB)
	require.Equal(t, sdkmath.NewInt(1000), f.Balance(pool, keepertest.AssetB))
	require.Equal(t, sdkmath.NewInt(2000), f.Balance(pool, keepertest.AssetA))

	total, err := f.Keeper.GetTotalLiquidity(f.Ctx, pool)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(2000), total)
}

func TestCreatePoolRejections(t *testing.T) {
	f := keepertest.XYKKeeper(t)
	f.Fund(t, alice, 1_000_000, keepertest.AssetA, keepertest.AssetB)
	f.Fund(t, bob, 10, keepertest.AssetA, keepertest.AssetC)
	f.CreateTestPool(t, alice, keepertest.AssetA, keepertest.AssetB, 1000, 2000)

	tests := []struct {
		name    string
		who     sdk.AccAddress
		assetA  types.AssetID
		assetB  types.AssetID
		amount  sdkmath.Int
		price   sdkmath.LegacyDec
		wantErr error
	}{
		{"zero liquidity", alice, keepertest.AssetA, keepertest.AssetC, sdkmath.ZeroInt(), sdkmath.LegacyOneDec(), types.ErrCannotCreatePoolWithZeroLiquidity},
		{"zero price", alice, keepertest.AssetA, keepertest.AssetC, sdkmath.NewInt(10), sdkmath.LegacyZeroDec(), types.ErrCannotCreatePoolWithZeroInitialPrice},
		{"same assets", alice, keepertest.AssetA, keepertest.AssetA, sdkmath.NewInt(10), sdkmath.LegacyOneDec(), types.ErrCannotCreatePoolWithSameAssets},
		{"pool exists", alice, keepertest.AssetA, keepertest.AssetB, sdkmath.NewInt(10), sdkmath.LegacyOneDec(), types.ErrPoolAlreadyExists},
		{"pool exists reversed", alice, keepertest.AssetB, keepertest.AssetA, sdkmath.NewInt(10), sdkmath.LegacyOneDec(), types.ErrPoolAlreadyExists},
		{"price funds nothing", bob, keepertest.AssetA, keepertest.AssetC, sdkmath.NewInt(1), sdkmath.LegacyNewDecWithPrec(1, 1), types.ErrCreatePoolAssetAmountInvalid},
		{"insufficient first asset", bob, keepertest.AssetA, keepertest.AssetC, sdkmath.NewInt(11), sdkmath.LegacyOneDec(), types.ErrInsufficientAssetBalance},
		{"insufficient second asset", bob, keepertest.AssetA, keepertest.AssetC, sdkmath.NewInt(10), sdkmath.LegacyNewDec(2), types.ErrInsufficientAssetBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.Keeper.CreatePool(f.Ctx, tt.who, tt.assetA, tt.assetB, tt.amount, tt.price)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	require.False(t, f.Keeper.PoolExists(f.Ctx, keepertest.AssetA, keepertest.AssetC))
	require.Equal(t, sdkmath.NewInt(10), f.Balance(bob, keepertest.AssetA))
}

func TestAddLiquidity(t *testing.T) {
	f := keepertest.XYKKeeper(t)
	f.Fund(t, alice, 1_000_000, keepertest.AssetA, keepertest.AssetB)
	f.CreateTestPool(t, alice, keepertest.AssetA, keepertest.AssetB, 1000, 2000)
	f.Fund(t, bob, 1000, keepertest.AssetA, keepertest.AssetB)

	require.NoError(t, f.Keeper.AddLiquidity(f.Ctx, bob, keepertest.AssetA, keepertest.AssetB, sdkmath.NewInt(100), sdkmath.NewInt(300)))

	pool := types.PairAccount(keepertest.AssetA, keepertest.AssetB)
	require.Equal(t, sdkmath.NewInt(1100), f.Balance(pool, keepertest.AssetA))
	require.Equal(t, sdkmath.NewInt(2200), f.Balance(pool, keepertest.AssetB))
	require.Equal(t, sdkmath.NewInt(900), f.Balance(bob, keepertest.AssetA))
	require.Equal(t, sdkmath.NewInt(800), f.Balance(bob, keepertest.AssetB))
	require.Equal(t, sdkmath.NewInt(100), f.Balance(bob, keepertest.FirstShareToken))

	total, err := f.Keeper.GetTotalLiquidity(f.Ctx, pool)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(1100), total)
	require.True(t, hasEvent(f.Ctx, types.EventTypeLiquidityAdded))
}

func TestAddLiquidityReversedDirection(t *testing.T) {
	f := keepertest.XYKKeeper(t)
	f.Fund(t, alice, 1_000_000, keepertest.AssetA, keepertest.AssetB)
	f.CreateTestPool(t, alice, keepertest.AssetA, keepertest.AssetB, 1000, 2000)
	f.Fund(t, bob, 1000, keepertest.AssetA, keepertest.AssetB)

	// depositing 200 B requires 100 A; shares are counted in the first asset of the pair
	require.NoError(t, f.Keeper.AddLiquidity(f.Ctx, bob, keepertest.AssetB, keepertest.AssetA, sdkmath.NewInt(200), sdkmath.NewInt(100)))
	require.Equal(t, sdkmath.NewInt(100), f.Balance(bob, keepertest.FirstShareToken))
	require.Equal(t, sdkmath.NewInt(900), f.Balance(bob, keepertest.AssetA))
	require.Equal(t, sdkmath.NewInt(800), f.Balance(bob, keepertest.AssetB))
}

func TestAddLiquidityRejections(t *testing.T) {
	f := keepertest.XYKKeeper(t)
	f.Fund(t, alice, 1_000_000, keepertest.AssetA, keepertest.AssetB)
	f.CreateTestPool(t, alice, keepertest.AssetA, keepertest.AssetB, 1000, 2000)
	f.Fund(t, carol, 50, keepertest.AssetA, keepertest.AssetB)

	tests := []struct {
		name    string
		assetA  types.AssetID
		assetB  types.AssetID
		amountA int64
		limit   int64
		wantErr error
	}{
		{"pool not found", keepertest.AssetA, keepertest.AssetC, 10, 10, types.ErrPoolNotFound},
		{"zero amount", keepertest.AssetA, keepertest.AssetB, 0, 10, types.ErrCannotAddZeroLiquidity},
		{"zero limit", keepertest.AssetA, keepertest.AssetB, 10, 0, types.ErrCannotAddZeroLiquidity},
		{"limit exceeded", keepertest.AssetA, keepertest.AssetB, 10, 19, types.ErrAssetBalanceLimitExceeded},
		{"insufficient first asset", keepertest.AssetA, keepertest.AssetB, 51, 200, types.ErrInsufficientAssetBalance},
		{"insufficient second asset", keepertest.AssetA, keepertest.AssetB, 30, 200, types.ErrInsufficientAssetBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.Keeper.AddLiquidity(f.Ctx, carol, tt.assetA, tt.assetB, sdkmath.NewInt(tt.amountA), sdkmath.NewInt(tt.limit))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	require.True(t, f.Balance(carol, keepertest.FirstShareToken).IsZero())
}

func TestAddLiquidityBalanceOverflow(t *testing.T) {
	f := keepertest.XYKKeeper(t)
	f.Fund(t, alice, 1_000_000, keepertest.AssetA, keepertest.AssetB)
	f.CreateTestPool(t, alice, keepertest.AssetA, keepertest.AssetB, 1000, 1000)

	// a total that cannot grow any further is rejected before anything moves
	pool := types.PairAccount(keepertest.AssetA, keepertest.AssetB)
	store := f.Ctx.KVStore(f.StoreKey)
	bz, err := formula.MaxBalance.Marshal()
	require.NoError(t, err)
	store.Set(types.TotalLiquidityKey(pool), bz)

	err = f.Keeper.AddLiquidity(f.Ctx, alice, keepertest.AssetA, keepertest.AssetB, sdkmath.NewInt(10), sdkmath.NewInt(10))
	require.ErrorIs(t, err, types.ErrInvalidLiquidityAmount)
	require.Equal(t, types.ClassArithmetic, types.ClassOf(err))
}

func TestRemoveLiquidity(t *testing.T) {
	f := keepertest.XYKKeeper(t)
	f.Fund(t, alice, 1_000_000, keepertest.AssetA, keepertest.AssetB)
	f.CreateTestPool(t, alice, keepertest.AssetA, keepertest.AssetB, 1000, 2000)

	require.NoError(t, f.Keeper.RemoveLiquidity(f.Ctx, alice, keepertest.AssetA, keepertest.AssetB, sdkmath.NewInt(250)))

	pool := types.PairAccount(keepertest.AssetA, keepertest.AssetB)
	require.Equal(t, sdkmath.NewInt(750), f.Balance(pool, keepertest.AssetA))
	require.Equal(t, sdkmath.NewInt(1500), f.Balance(pool, keepertest.AssetB))
	require.Equal(t, sdkmath.NewInt(999_250), f.Balance(alice, keepertest.AssetA))
	require.Equal(t, sdkmath.NewInt(998_500), f.Balance(alice, keepertest.AssetB))
	require.Equal(t, sdkmath.NewInt(750), f.Balance(alice, keepertest.FirstShareToken))

	total, err := f.Keeper.GetTotalLiquidity(f.Ctx, pool)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(750), total)
	require.True(t, hasEvent(f.Ctx, types.EventTypeLiquidityRemoved))
	require.False(t, hasEvent(f.Ctx, types.EventTypePoolDestroyed))
}

func TestRemoveLiquidityRejections(t *testing.T) {
	f := keepertest.XYKKeeper(t)
	f.Fund(t, alice, 1_000_000, keepertest.AssetA, keepertest.AssetB)
	f.CreateTestPool(t, alice, keepertest.AssetA, keepertest.AssetB, 1000, 2000)

	err := f.Keeper.RemoveLiquidity(f.Ctx, alice, keepertest.AssetA, keepertest.AssetB, sdkmath.ZeroInt())
	require.ErrorIs(t, err, types.ErrCannotRemoveLiquidityWithZero)

	err = f.Keeper.RemoveLiquidity(f.Ctx, alice, keepertest.AssetA, keepertest.AssetC, sdkmath.NewInt(1))
	require.ErrorIs(t, err, types.ErrPoolNotFound)

	err = f.Keeper.RemoveLiquidity(f.Ctx, alice, keepertest.AssetA, keepertest.AssetB, sdkmath.NewInt(1001))
	require.ErrorIs(t, err, types.ErrInsufficientAssetBalance)

	err = f.Keeper.RemoveLiquidity(f.Ctx, bob, keepertest.AssetA, keepertest.AssetB, sdkmath.NewInt(1))
	require.ErrorIs(t, err, types.ErrInsufficientAssetBalance)
}

func TestRemoveAllLiquidityDestroysPool(t *testing.T) {
	f := keepertest.XYKKeeper(t)
	f.Fund(t, alice, 1_000_000, keepertest.AssetA, keepertest.AssetB)
	f.CreateTestPool(t, alice, keepertest.AssetA, keepertest.AssetB, 1000, 2000)

	require.NoError(t, f.Keeper.RemoveLiquidity(f.Ctx, alice, keepertest.AssetA, keepertest.AssetB, sdkmath.NewInt(1000)))

	pool := types.PairAccount(keepertest.AssetA, keepertest.AssetB)
	require.False(t, f.Keeper.PoolExists(f.Ctx, keepertest.AssetA, keepertest.AssetB))
	_, found := f.Keeper.GetPoolAssets(f.Ctx, pool)
	require.False(t, found)
	_, found = f.Keeper.GetShareToken(f.Ctx, pool)
	require.False(t, found)
	total, err := f.Keeper.GetTotalLiquidity(f.Ctx, pool)
	require.NoError(t, err)
	require.True(t, total.IsZero())

	require.True(t, f.Balance(pool, keepertest.AssetA).IsZero())
	require.True(t, f.Balance(pool, keepertest.AssetB).IsZero())
	require.True(t, f.Tokens.TotalIssuance(f.Ctx, keepertest.FirstShareToken).IsZero())
	require.Equal(t, sdkmath.NewInt(1_000_000), f.Balance(alice, keepertest.AssetA))
	require.True(t, hasEvent(f.Ctx, types.EventTypePoolDestroyed))

	// the pair can be created again, in either order, and reuses its share token
	require.NoError(t, f.Keeper.CreatePool(f.Ctx, alice, keepertest.AssetB, keepertest.AssetA, sdkmath.NewInt(500), sdkmath.LegacyNewDec(3)))
	shareToken, found := f.Keeper.GetShareToken(f.Ctx, pool)
	require.True(t, found)
	require.Equal(t, keepertest.FirstShareToken, shareToken)
	require.Equal(t, sdkmath.NewInt(1500), f.Balance(alice, shareToken))
}
