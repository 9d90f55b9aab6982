package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/xyk/x/xyk/types"
)

// InitGenesis initializes the xyk module's state from a genesis state. Pool reserves and share
// balances live in the ledger and are restored by its own genesis.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}

	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}

	for _, pool := range genState.Pools {
		if err := k.createPoolRecord(ctx, pool.Pair(), pool.ShareToken, pool.TotalLiquidity); err != nil {
			return fmt.Errorf("failed to set pool %s: %w", pool.Pair(), err)
		}
	}
	return nil
}

// ExportGenesis returns the xyk module's exported genesis
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get params: %w", err)
	}

	pools, err := k.GetAllPools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export pools: %w", err)
	}

	return &types.GenesisState{
		Params: params,
		Pools:  pools,
	}, nil
}
