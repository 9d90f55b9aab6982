package keeper

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

	registrykeeper "github.com/paw-chain/xyk/x/assetregistry/keeper"
	registrytypes "github.com/paw-chain/xyk/x/assetregistry/types"
	tokenskeeper "github.com/paw-chain/xyk/x/tokens/keeper"
	tokenstypes "github.com/paw-chain/xyk/x/tokens/types"
	"github.com/paw-chain/xyk/x/xyk/keeper"
	"github.com/paw-chain/xyk/x/xyk/types"
)

// Test asset ids. Share tokens are issued by the registry from FirstShareToken upwards so they
// never collide with the trading assets.
const (
	Native types.AssetID = 0
	AssetA types.AssetID = 1
	AssetB types.AssetID = 2
	AssetC types.AssetID = 3

	FirstShareToken types.AssetID = 1000
)

// XYKFixture bundles an xyk keeper with the ledger and registry it settles against.
type XYKFixture struct {
	Ctx      sdk.Context
	StoreKey storetypes.StoreKey
	Keeper   *keeper.Keeper
	Tokens   tokenskeeper.Keeper
	Registry registrykeeper.Keeper
}

// XYKKeeper creates a test xyk keeper over an in-memory multistore with default params.
func XYKKeeper(t testing.TB) XYKFixture {
	return XYKKeeperWithParams(t, types.DefaultParams())
}

// XYKKeeperWithParams creates a test xyk keeper initialised with params.
func XYKKeeperWithParams(t testing.TB, params types.Params) XYKFixture {
	xykKey := storetypes.NewKVStoreKey(types.StoreKey)
	tokensKey := storetypes.NewKVStoreKey(tokenstypes.StoreKey)
	registryKey := storetypes.NewKVStoreKey(registrytypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(xykKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(tokensKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(registryKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	tokens := tokenskeeper.NewKeeper(tokensKey)
	registry := registrykeeper.NewKeeper(registryKey)
	k := keeper.NewKeeper(xykKey, tokens, registry)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())

	require.NoError(t, registry.InitGenesis(ctx, registrytypes.GenesisState{NextAssetID: FirstShareToken}))
	genesis := types.DefaultGenesis()
	genesis.Params = params
	require.NoError(t, k.InitGenesis(ctx, *genesis))

	return XYKFixture{
		Ctx:      ctx,
		StoreKey: xykKey,
		Keeper:   k,
		Tokens:   tokens,
		Registry: registry,
	}
}

// ZeroFeeParams returns the default params without an exchange fee.
func ZeroFeeParams() types.Params {
	params := types.DefaultParams()
	params.ExchangeFee = types.Fee{Numerator: 0, Denominator: 1000}
	return params
}

// TestAddr returns a deterministic account address for name.
func TestAddr(name string) sdk.AccAddress {
	addr := make([]byte, 20)
	copy(addr, name)
	return sdk.AccAddress(addr)
}

// Fund mints amount of each asset to who.
func (f XYKFixture) Fund(t testing.TB, who sdk.AccAddress, amount int64, assets ...types.AssetID) {
	for _, asset := range assets {
		require.NoError(t, f.Tokens.Deposit(f.Ctx, asset, who, sdkmath.NewInt(amount)))
	}
}

// Balance returns the ledger balance of asset held by who.
func (f XYKFixture) Balance(who sdk.AccAddress, asset types.AssetID) sdkmath.Int {
	return f.Tokens.FreeBalance(f.Ctx, asset, who)
}

// CreateTestPool funds who and creates the pool (assetA, assetB) with amountA of assetA and
// amountB of assetB. amountB must be a multiple of amountA.
func (f XYKFixture) CreateTestPool(t testing.TB, who sdk.AccAddress, assetA, assetB types.AssetID, amountA, amountB int64) {
	require.Zero(t, amountB%amountA, "amountB must be a multiple of amountA")
	require.NoError(t, f.Tokens.Deposit(f.Ctx, assetA, who, sdkmath.NewInt(amountA)))
	require.NoError(t, f.Tokens.Deposit(f.Ctx, assetB, who, sdkmath.NewInt(amountB)))
	require.NoError(t, f.Keeper.CreatePool(f.Ctx, who, assetA, assetB, sdkmath.NewInt(amountA), sdkmath.LegacyNewDec(amountB/amountA)))
}
