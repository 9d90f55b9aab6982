package app

import (
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	registrytypes "github.com/paw-chain/xyk/x/assetregistry/types"
	tokenstypes "github.com/paw-chain/xyk/x/tokens/types"
	xyktypes "github.com/paw-chain/xyk/x/xyk/types"
)

// DefaultFirstShareToken is the first id the registry issues to share tokens in the default
// genesis. Ids below it are left to the trading assets funded in the tokens genesis.
const DefaultFirstShareToken registrytypes.AssetID = 1000

const codespace = "app"

var (
	ErrChainInitialized = errorsmod.Register(codespace, 2, "chain already initialized")
	ErrInvalidGenesis   = errorsmod.Register(codespace, 3, "invalid genesis state")
)

// GenesisState is the genesis of every module keyed by module name.
type GenesisState map[string]json.RawMessage

// NewDefaultGenesisState returns the default genesis of every module.
func NewDefaultGenesisState() GenesisState {
	registryGenesis := registrytypes.DefaultGenesis()
	registryGenesis.NextAssetID = DefaultFirstShareToken

	return GenesisState{
		tokenstypes.ModuleName:   MustMarshalJSON(tokenstypes.DefaultGenesis()),
		registrytypes.ModuleName: MustMarshalJSON(registryGenesis),
		xyktypes.ModuleName:      MustMarshalJSON(xyktypes.DefaultGenesis()),
	}
}

// ModuleGenesis is the decoded genesis of every module.
type ModuleGenesis struct {
	Tokens        tokenstypes.GenesisState
	AssetRegistry registrytypes.GenesisState
	XYK           xyktypes.GenesisState
}

// Decode unmarshals and validates the genesis of every module. Missing modules take their default.
func (gs GenesisState) Decode() (ModuleGenesis, error) {
	defaults := NewDefaultGenesisState()
	var out ModuleGenesis

	targets := []struct {
		module string
		into   interface{ Validate() error }
	}{
		{tokenstypes.ModuleName, &out.Tokens},
		{registrytypes.ModuleName, &out.AssetRegistry},
		{xyktypes.ModuleName, &out.XYK},
	}
	for _, target := range targets {
		raw, ok := gs[target.module]
		if !ok {
			raw = defaults[target.module]
		}
		if err := json.Unmarshal(raw, target.into); err != nil {
			return ModuleGenesis{}, fmt.Errorf("decode %s genesis: %w", target.module, err)
		}
		if err := target.into.Validate(); err != nil {
			return ModuleGenesis{}, fmt.Errorf("validate %s genesis: %w", target.module, err)
		}
	}
	if err := validateBalanceAssets(out); err != nil {
		return ModuleGenesis{}, err
	}
	return out, nil
}

// validateBalanceAssets rejects balances of ids the registry has yet to issue. Such an id
// would later become a share token that already has holders.
func validateBalanceAssets(gs ModuleGenesis) error {
	next := gs.AssetRegistry.NextAssetID
	for i, b := range gs.Tokens.Balances {
		if id := registrytypes.AssetID(b.Asset); id >= next {
			return ErrInvalidGenesis.Wrapf("balance %d: asset %d is not issued yet (next id %d)", i, id, next)
		}
	}
	return nil
}

// InitChain loads genesis into the stores and commits it as the first version. It fails on a
// store that already holds a commit.
func (a *App) InitChain(genesis GenesisState) error {
	if height := a.LastBlockHeight(); height > 0 {
		return ErrChainInitialized.Wrapf("store is at height %d", height)
	}
	decoded, err := genesis.Decode()
	if err != nil {
		return err
	}

	_, err = a.Execute("init_chain", func(ctx sdk.Context) error {
		if err := a.AssetRegistryKeeper.InitGenesis(ctx, decoded.AssetRegistry); err != nil {
			return fmt.Errorf("init %s genesis: %w", registrytypes.ModuleName, err)
		}
		if err := a.TokensKeeper.InitGenesis(ctx, decoded.Tokens); err != nil {
			return fmt.Errorf("init %s genesis: %w", tokenstypes.ModuleName, err)
		}
		if err := a.XYKKeeper.InitGenesis(ctx, decoded.XYK); err != nil {
			return fmt.Errorf("init %s genesis: %w", xyktypes.ModuleName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	a.logger.Info("genesis loaded",
		"chain_id", a.chainID,
		"balances", len(decoded.Tokens.Balances),
		"assets", len(decoded.AssetRegistry.Assets),
		"pools", len(decoded.XYK.Pools),
	)
	return nil
}

// ExportGenesis exports the committed state of every module.
func (a *App) ExportGenesis() (GenesisState, error) {
	genesis := make(GenesisState)
	err := a.Query(func(ctx sdk.Context) error {
		tokensGenesis, err := a.TokensKeeper.ExportGenesis(ctx)
		if err != nil {
			return fmt.Errorf("export %s genesis: %w", tokenstypes.ModuleName, err)
		}
		xykGenesis, err := a.XYKKeeper.ExportGenesis(ctx)
		if err != nil {
			return fmt.Errorf("export %s genesis: %w", xyktypes.ModuleName, err)
		}

		genesis[tokenstypes.ModuleName] = MustMarshalJSON(tokensGenesis)
		genesis[registrytypes.ModuleName] = MustMarshalJSON(a.AssetRegistryKeeper.ExportGenesis(ctx))
		genesis[xyktypes.ModuleName] = MustMarshalJSON(xykGenesis)
		return nil
	})
	return genesis, err
}

// MustMarshalJSON encodes a module genesis, panicking on failure.
func MustMarshalJSON(v any) json.RawMessage {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}
