package app_test

import (
	"encoding/json"
	"errors"
	"testing"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/xyk/app"
	registrytypes "github.com/paw-chain/xyk/x/assetregistry/types"
	tokenstypes "github.com/paw-chain/xyk/x/tokens/types"
	xyktypes "github.com/paw-chain/xyk/x/xyk/types"
)

const (
	assetA xyktypes.AssetID = 1
	assetB xyktypes.AssetID = 2
)

var alice = sdk.AccAddress([]byte("alice_______________"))

func fundedGenesis(t *testing.T) app.GenesisState {
	genesis := app.NewDefaultGenesisState()
	bz, err := json.Marshal(tokenstypes.GenesisState{Balances: []tokenstypes.Balance{
		{Address: alice.String(), Asset: assetA, Amount: sdkmath.NewInt(10_000)},
		{Address: alice.String(), Asset: assetB, Amount: sdkmath.NewInt(20_000)},
	}})
	require.NoError(t, err)
	genesis[tokenstypes.ModuleName] = bz
	return genesis
}

func newApp(t *testing.T, db dbm.DB) *app.App {
	a, err := app.New(log.NewNopLogger(), db, app.WithInvariantChecks())
	require.NoError(t, err)
	return a
}

func createPool(a *app.App) (sdk.Events, error) {
	return a.Execute("create_pool", func(ctx sdk.Context) error {
		return a.XYKKeeper.CreatePool(ctx, alice, assetA, assetB, sdkmath.NewInt(1000), sdkmath.LegacyNewDec(2))
	})
}

func balance(t *testing.T, a *app.App, who sdk.AccAddress, asset xyktypes.AssetID) sdkmath.Int {
	var out sdkmath.Int
	require.NoError(t, a.Query(func(ctx sdk.Context) error {
		out = a.TokensKeeper.FreeBalance(ctx, asset, who)
		return nil
	}))
	return out
}

func TestInitChainAndExecute(t *testing.T) {
	a := newApp(t, dbm.NewMemDB())
	require.NoError(t, a.InitChain(fundedGenesis(t)))
	require.Equal(t, int64(1), a.LastBlockHeight())
	require.Equal(t, sdkmath.NewInt(10_000), balance(t, a, alice, assetA))

	events, err := createPool(a)
	require.NoError(t, err)
	require.Equal(t, int64(2), a.LastBlockHeight())

	var created bool
	for _, evt := range events {
		created = created || evt.Type == xyktypes.EventTypePoolCreated
	}
	require.True(t, created)

	require.Equal(t, sdkmath.NewInt(9000), balance(t, a, alice, assetA))
	require.Equal(t, sdkmath.NewInt(1000), balance(t, a, alice, app.DefaultFirstShareToken))
	require.NoError(t, a.CheckInvariants())

	// the same pool cannot be created twice and the failed attempt does not commit
	_, err = createPool(a)
	require.ErrorIs(t, err, xyktypes.ErrPoolAlreadyExists)
	require.Equal(t, int64(2), a.LastBlockHeight())
}

func TestExecuteFailureDiscardsState(t *testing.T) {
	a := newApp(t, dbm.NewMemDB())
	require.NoError(t, a.InitChain(fundedGenesis(t)))

	errStop := errors.New("stop")
	_, err := a.Execute("deposit", func(ctx sdk.Context) error {
		if err := a.TokensKeeper.Deposit(ctx, assetA, alice, sdkmath.NewInt(5)); err != nil {
			return err
		}
		return errStop
	})
	require.ErrorIs(t, err, errStop)
	require.Equal(t, sdkmath.NewInt(10_000), balance(t, a, alice, assetA))
	require.Equal(t, int64(1), a.LastBlockHeight())
}

func TestBrokenInvariantRejectsOperation(t *testing.T) {
	a := newApp(t, dbm.NewMemDB())
	require.NoError(t, a.InitChain(fundedGenesis(t)))
	_, err := createPool(a)
	require.NoError(t, err)

	// minting share tokens outside the pool breaks the share supply
	_, err = a.Execute("mint_shares", func(ctx sdk.Context) error {
		return a.TokensKeeper.Deposit(ctx, app.DefaultFirstShareToken, alice, sdkmath.OneInt())
	})
	require.ErrorIs(t, err, xyktypes.ErrFatalInvariantViolation)
	require.Equal(t, sdkmath.NewInt(1000), balance(t, a, alice, app.DefaultFirstShareToken))
}

func TestExportGenesisRoundTrip(t *testing.T) {
	a := newApp(t, dbm.NewMemDB())
	require.NoError(t, a.InitChain(fundedGenesis(t)))
	_, err := createPool(a)
	require.NoError(t, err)

	exported, err := a.ExportGenesis()
	require.NoError(t, err)

	b := newApp(t, dbm.NewMemDB())
	require.NoError(t, b.InitChain(exported))
	require.NoError(t, b.CheckInvariants())

	reexported, err := b.ExportGenesis()
	require.NoError(t, err)
	for module, raw := range exported {
		require.JSONEq(t, string(raw), string(reexported[module]), module)
	}
}

func TestReopenRestoresCommittedState(t *testing.T) {
	db := dbm.NewMemDB()
	a := newApp(t, db)
	require.NoError(t, a.InitChain(fundedGenesis(t)))
	_, err := createPool(a)
	require.NoError(t, err)

	reopened := newApp(t, db)
	require.Equal(t, int64(2), reopened.LastBlockHeight())
	require.Equal(t, sdkmath.NewInt(9000), balance(t, reopened, alice, assetA))
	require.NoError(t, reopened.CheckInvariants())

	// genesis cannot be replayed over committed state
	err = reopened.InitChain(fundedGenesis(t))
	require.ErrorIs(t, err, app.ErrChainInitialized)
	require.Equal(t, int64(2), reopened.LastBlockHeight())
	require.Equal(t, sdkmath.NewInt(9000), balance(t, reopened, alice, assetA))
}

func TestGenesisDecode(t *testing.T) {
	decoded, err := app.GenesisState{}.Decode()
	require.NoError(t, err)
	require.Equal(t, app.DefaultFirstShareToken, decoded.AssetRegistry.NextAssetID)
	require.Equal(t, xyktypes.DefaultParams(), decoded.XYK.Params)

	_, err = app.GenesisState{xyktypes.ModuleName: json.RawMessage(`{"params":{"max_in_ratio":0}}`)}.Decode()
	require.Error(t, err)

	_, err = app.GenesisState{tokenstypes.ModuleName: json.RawMessage(`not json`)}.Decode()
	require.Error(t, err)

	// funding the first share token id would give it holders before any pool exists
	genesis := fundedGenesis(t)
	genesis[tokenstypes.ModuleName] = app.MustMarshalJSON(tokenstypes.GenesisState{Balances: []tokenstypes.Balance{
		{Address: alice.String(), Asset: app.DefaultFirstShareToken, Amount: sdkmath.NewInt(1)},
	}})
	_, err = genesis.Decode()
	require.ErrorIs(t, err, app.ErrInvalidGenesis)

	// ids the registry already issued may be funded
	genesis[registrytypes.ModuleName] = app.MustMarshalJSON(registrytypes.GenesisState{
		Assets:      []registrytypes.Asset{{ID: app.DefaultFirstShareToken, Name: []byte("share")}},
		NextAssetID: app.DefaultFirstShareToken + 1,
	})
	_, err = genesis.Decode()
	require.NoError(t, err)
}
