package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/xyk/x/assetregistry/types"
)

// InitGenesis registers the genesis assets and restores the id sequence.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}
	for _, asset := range genState.Assets {
		if err := k.registerAsset(ctx, asset.ID, asset.Name); err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
	}
	k.setNextAssetID(ctx, genState.NextAssetID)
	return nil
}

// ExportGenesis returns the registered assets and the id sequence.
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	genesis := types.DefaultGenesis()
	k.IterateAssets(ctx, func(asset types.Asset) bool {
		genesis.Assets = append(genesis.Assets, asset)
		return false
	})
	genesis.NextAssetID = k.GetNextAssetID(ctx)
	return genesis
}
