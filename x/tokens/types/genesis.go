package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Balance is one account balance in genesis.
type Balance struct {
	Address string      `json:"address" yaml:"address"`
	Asset   AssetID     `json:"asset" yaml:"asset"`
	Amount  sdkmath.Int `json:"amount" yaml:"amount"`
}

// GenesisState defines the tokens module's genesis state. Total issuance is derived from the balances.
type GenesisState struct {
	Balances []Balance `json:"balances" yaml:"balances"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{Balances: []Balance{}}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	seen := make(map[string]struct{}, len(gs.Balances))
	for i, b := range gs.Balances {
		if _, err := sdk.AccAddressFromBech32(b.Address); err != nil {
			return ErrInvalidGenesis.Wrapf("balance %d: invalid address %q: %v", i, b.Address, err)
		}
		if b.Amount.IsNil() || b.Amount.IsNegative() || b.Amount.GT(MaxBalance) {
			return ErrInvalidGenesis.Wrapf("balance %d: invalid amount %s", i, b.Amount)
		}
		key := fmt.Sprintf("%s/%d", b.Address, b.Asset)
		if _, dup := seen[key]; dup {
			return ErrInvalidGenesis.Wrapf("balance %d: duplicate entry for %s", i, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}
