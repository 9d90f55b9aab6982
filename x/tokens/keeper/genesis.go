package keeper

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/xyk/x/tokens/types"
)

// InitGenesis mints every genesis balance. Total issuance is the sum of the balances.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}
	for _, b := range genState.Balances {
		addr, err := sdk.AccAddressFromBech32(b.Address)
		if err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
		if err := k.Deposit(ctx, b.Asset, addr, b.Amount); err != nil {
			return fmt.Errorf("InitGenesis: balance %s/%d: %w", b.Address, b.Asset, err)
		}
	}
	return nil
}

// ExportGenesis returns the ledger's balances.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	genesis := types.DefaultGenesis()
	err := k.IterateBalances(ctx, func(asset types.AssetID, who sdk.AccAddress, amount sdkmath.Int) bool {
		genesis.Balances = append(genesis.Balances, types.Balance{
			Address: who.String(),
			Asset:   asset,
			Amount:  amount,
		})
		return false
	})
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: %w", err)
	}
	return genesis, nil
}
