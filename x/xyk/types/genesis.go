package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// PoolRecord is the registry entry of one pool. Reserves are not part of it: they are the
// ledger balances of the pool account and are exported with the ledger.
type PoolRecord struct {
	AssetA         AssetID     `json:"asset_a" yaml:"asset_a"`
	AssetB         AssetID     `json:"asset_b" yaml:"asset_b"`
	ShareToken     AssetID     `json:"share_token" yaml:"share_token"`
	TotalLiquidity sdkmath.Int `json:"total_liquidity" yaml:"total_liquidity"`
}

// Pair returns the asset pair of the record in creation order.
func (r PoolRecord) Pair() AssetPair {
	return NewAssetPair(r.AssetA, r.AssetB)
}

// GenesisState defines the xyk module's genesis state.
type GenesisState struct {
	Params Params       `json:"params" yaml:"params"`
	Pools  []PoolRecord `json:"pools" yaml:"pools"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
		Pools:  []PoolRecord{},
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(gs.Pools))
	for i, pool := range gs.Pools {
		if pool.AssetA == pool.AssetB {
			return ErrInvalidGenesis.Wrapf("pool %d: identical assets %d", i, pool.AssetA)
		}
		if pool.TotalLiquidity.IsNil() || !pool.TotalLiquidity.IsPositive() {
			return ErrInvalidGenesis.Wrapf("pool %d: total liquidity must be positive", i)
		}
		if pool.ShareToken == pool.AssetA || pool.ShareToken == pool.AssetB {
			return ErrInvalidGenesis.Wrapf("pool %d: share token %d collides with a pool asset", i, pool.ShareToken)
		}
		key := pool.Pair().Account().String()
		if _, dup := seen[key]; dup {
			return ErrInvalidGenesis.Wrapf("pool %d: duplicate pool for pair %s", i, pool.Pair())
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (r PoolRecord) String() string {
	return fmt.Sprintf("%d/%d share=%d liquidity=%s", r.AssetA, r.AssetB, r.ShareToken, r.TotalLiquidity)
}
