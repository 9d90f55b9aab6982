package types

import "fmt"

// FirstAssetID is the first id issued by the registry. Lower ids are free for assets allocated
// outside the registry, such as the native asset.
const FirstAssetID AssetID = 1

// Asset is one registered name.
type Asset struct {
	ID   AssetID `json:"id" yaml:"id"`
	Name []byte  `json:"name" yaml:"name"`
}

func (a Asset) String() string {
	return fmt.Sprintf("%d:%X", a.ID, a.Name)
}

// GenesisState defines the asset registry's genesis state.
type GenesisState struct {
	Assets      []Asset `json:"assets" yaml:"assets"`
	NextAssetID AssetID `json:"next_asset_id" yaml:"next_asset_id"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Assets:      []Asset{},
		NextAssetID: FirstAssetID,
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if gs.NextAssetID < FirstAssetID {
		return ErrInvalidGenesis.Wrapf("next asset id %d below %d", gs.NextAssetID, FirstAssetID)
	}

	ids := make(map[AssetID]struct{}, len(gs.Assets))
	names := make(map[string]struct{}, len(gs.Assets))
	for _, asset := range gs.Assets {
		if len(asset.Name) == 0 {
			return ErrInvalidGenesis.Wrapf("asset %d: empty name", asset.ID)
		}
		if asset.ID >= gs.NextAssetID {
			return ErrInvalidGenesis.Wrapf("asset %d: id not below next asset id %d", asset.ID, gs.NextAssetID)
		}
		if _, dup := ids[asset.ID]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate asset id %d", asset.ID)
		}
		if _, dup := names[string(asset.Name)]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate asset name %X", asset.Name)
		}
		ids[asset.ID] = struct{}{}
		names[string(asset.Name)] = struct{}{}
	}
	return nil
}
