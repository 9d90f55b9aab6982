package keeper_test

import (
	"testing"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/xyk/x/tokens/keeper"
	"github.com/paw-chain/xyk/x/tokens/types"
)

func setupKeeper(t *testing.T) (keeper.Keeper, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())
	return keeper.NewKeeper(storeKey), ctx
}

var (
	alice = sdk.AccAddress([]byte("alice_______________"))
	bob   = sdk.AccAddress([]byte("bob_________________"))
)

func TestDepositWithdraw(t *testing.T) {
	k, ctx := setupKeeper(t)

	require.NoError(t, k.Deposit(ctx, 1, alice, sdkmath.NewInt(100)))
	require.Equal(t, sdkmath.NewInt(100), k.FreeBalance(ctx, 1, alice))
	require.Equal(t, sdkmath.NewInt(100), k.TotalIssuance(ctx, 1))
	require.True(t, k.FreeBalance(ctx, 2, alice).IsZero())

	require.NoError(t, k.Withdraw(ctx, 1, alice, sdkmath.NewInt(40)))
	require.Equal(t, sdkmath.NewInt(60), k.FreeBalance(ctx, 1, alice))
	require.Equal(t, sdkmath.NewInt(60), k.TotalIssuance(ctx, 1))

	err := k.Withdraw(ctx, 1, alice, sdkmath.NewInt(61))
	require.ErrorIs(t, err, types.ErrInsufficientBalance)
	require.Equal(t, sdkmath.NewInt(60), k.FreeBalance(ctx, 1, alice))

	require.ErrorIs(t, k.Deposit(ctx, 1, alice, sdkmath.NewInt(-1)), types.ErrInvalidAmount)
	require.ErrorIs(t, k.Deposit(ctx, 1, alice, sdkmath.Int{}), types.ErrInvalidAmount)
}

func TestDepositOverflow(t *testing.T) {
	k, ctx := setupKeeper(t)

	require.NoError(t, k.Deposit(ctx, 1, alice, types.MaxBalance))
	err := k.Deposit(ctx, 1, bob, sdkmath.OneInt())
	require.ErrorIs(t, err, types.ErrBalanceOverflow)
	require.True(t, k.FreeBalance(ctx, 1, bob).IsZero())
}

func TestTransfer(t *testing.T) {
	k, ctx := setupKeeper(t)
	require.NoError(t, k.Deposit(ctx, 1, alice, sdkmath.NewInt(100)))

	require.NoError(t, k.Transfer(ctx, 1, alice, bob, sdkmath.NewInt(30)))
	require.Equal(t, sdkmath.NewInt(70), k.FreeBalance(ctx, 1, alice))
	require.Equal(t, sdkmath.NewInt(30), k.FreeBalance(ctx, 1, bob))
	require.Equal(t, sdkmath.NewInt(100), k.TotalIssuance(ctx, 1))

	require.ErrorIs(t, k.Transfer(ctx, 1, bob, alice, sdkmath.NewInt(31)), types.ErrInsufficientBalance)
	require.NoError(t, k.Transfer(ctx, 1, alice, alice, sdkmath.NewInt(70)))
	require.Equal(t, sdkmath.NewInt(70), k.FreeBalance(ctx, 1, alice))
	require.NoError(t, k.Transfer(ctx, 2, alice, bob, sdkmath.ZeroInt()))
}

func TestGenesisRoundTrip(t *testing.T) {
	k, ctx := setupKeeper(t)

	genesis := types.GenesisState{Balances: []types.Balance{
		{Address: alice.String(), Asset: 0, Amount: sdkmath.NewInt(5)},
		{Address: bob.String(), Asset: 3, Amount: sdkmath.NewInt(7)},
	}}
	require.NoError(t, k.InitGenesis(ctx, genesis))
	require.Equal(t, sdkmath.NewInt(7), k.TotalIssuance(ctx, 3))

	exported, err := k.ExportGenesis(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, genesis.Balances, exported.Balances)
}

func TestGenesisValidate(t *testing.T) {
	dup := types.GenesisState{Balances: []types.Balance{
		{Address: alice.String(), Asset: 1, Amount: sdkmath.NewInt(5)},
		{Address: alice.String(), Asset: 1, Amount: sdkmath.NewInt(6)},
	}}
	require.ErrorIs(t, dup.Validate(), types.ErrInvalidGenesis)

	bad := types.GenesisState{Balances: []types.Balance{{Address: "nope", Asset: 1, Amount: sdkmath.NewInt(5)}}}
	require.ErrorIs(t, bad.Validate(), types.ErrInvalidGenesis)

	negative := types.GenesisState{Balances: []types.Balance{{Address: alice.String(), Asset: 1, Amount: sdkmath.NewInt(-5)}}}
	require.ErrorIs(t, negative.Validate(), types.ErrInvalidGenesis)
}
