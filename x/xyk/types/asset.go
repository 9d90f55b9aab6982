package types

import (
	"encoding/binary"
	"fmt"

	sharedkeeper "github.com/paw-chain/xyk/x/shared/keeper"
)

// AssetID identifies a fungible asset held in the ledger.
type AssetID = sharedkeeper.AssetID

// shareTokenTag separates the two asset ids in a share token name.
var shareTokenTag = []byte("XYK")

// AssetPair is a directed asset pair: AssetIn is sold to the pool, AssetOut is taken from it.
// Pool identity ignores the direction.
type AssetPair struct {
	AssetIn  AssetID `json:"asset_in" yaml:"asset_in"`
	AssetOut AssetID `json:"asset_out" yaml:"asset_out"`
}

// NewAssetPair returns the pair selling assetIn for assetOut.
func NewAssetPair(assetIn, assetOut AssetID) AssetPair {
	return AssetPair{AssetIn: assetIn, AssetOut: assetOut}
}

// Ordered returns the two assets sorted ascending.
func (p AssetPair) Ordered() (AssetID, AssetID) {
	if p.AssetIn < p.AssetOut {
		return p.AssetIn, p.AssetOut
	}
	return p.AssetOut, p.AssetIn
}

// Reverse swaps the direction of the pair.
func (p AssetPair) Reverse() AssetPair {
	return AssetPair{AssetIn: p.AssetOut, AssetOut: p.AssetIn}
}

// Name is the registry name of the pair's share token. It depends only on the unordered pair.
func (p AssetPair) Name() []byte {
	first, second := p.Ordered()
	buf := make([]byte, 0, 8+len(shareTokenTag))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(first))
	buf = append(buf, shareTokenTag...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(second))
	return buf
}

func (p AssetPair) String() string {
	return fmt.Sprintf("%d/%d", p.AssetIn, p.AssetOut)
}
