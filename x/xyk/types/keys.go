package types

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "xyk"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	// ShareTokenKeyPrefix maps a pool account to the asset id of its share token
	ShareTokenKeyPrefix = []byte{0x01}

	// TotalLiquidityKeyPrefix maps a pool account to its outstanding shares
	TotalLiquidityKeyPrefix = []byte{0x02}

	// PoolAssetsKeyPrefix maps a pool account to the asset pair it was created with
	PoolAssetsKeyPrefix = []byte{0x03}

	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x04}
)

// ShareTokenKey returns the store key for a pool's share token
func ShareTokenKey(pool sdk.AccAddress) []byte {
	return append(append([]byte{}, ShareTokenKeyPrefix...), pool.Bytes()...)
}

// TotalLiquidityKey returns the store key for a pool's total liquidity
func TotalLiquidityKey(pool sdk.AccAddress) []byte {
	return append(append([]byte{}, TotalLiquidityKeyPrefix...), pool.Bytes()...)
}

// PoolAssetsKey returns the store key for a pool's asset pair
func PoolAssetsKey(pool sdk.AccAddress) []byte {
	return append(append([]byte{}, PoolAssetsKeyPrefix...), pool.Bytes()...)
}

// EncodeAssetID encodes an asset id as 4 big-endian bytes for store values and keys.
func EncodeAssetID(id AssetID) []byte {
	bz := make([]byte, 4)
	binary.BigEndian.PutUint32(bz, uint32(id))
	return bz
}

// DecodeAssetID decodes an asset id written by EncodeAssetID.
func DecodeAssetID(bz []byte) (AssetID, bool) {
	if len(bz) != 4 {
		return 0, false
	}
	return AssetID(binary.BigEndian.Uint32(bz)), true
}
