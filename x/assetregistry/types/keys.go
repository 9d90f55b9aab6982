package types

import (
	"encoding/binary"

	sharedkeeper "github.com/paw-chain/xyk/x/shared/keeper"
)

const (
	// ModuleName defines the module name
	ModuleName = "assetregistry"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// AssetID is the registry's asset identifier.
type AssetID = sharedkeeper.AssetID

// Store key prefixes
var (
	// AssetByNameKeyPrefix maps an asset name to its id
	AssetByNameKeyPrefix = []byte{0x01}

	// AssetKeyPrefix maps an asset id to its name
	AssetKeyPrefix = []byte{0x02}

	// NextAssetIDKey holds the id handed to the next new asset
	NextAssetIDKey = []byte{0x03}
)

// AssetByNameKey returns the store key of the id registered under name
func AssetByNameKey(name []byte) []byte {
	key := make([]byte, 0, len(AssetByNameKeyPrefix)+len(name))
	key = append(key, AssetByNameKeyPrefix...)
	return append(key, name...)
}

// AssetKey returns the store key of the name registered for id
func AssetKey(id AssetID) []byte {
	key := make([]byte, 0, len(AssetKeyPrefix)+4)
	key = append(key, AssetKeyPrefix...)
	return binary.BigEndian.AppendUint32(key, uint32(id))
}

// EncodeAssetID encodes an id as 4 big-endian bytes.
func EncodeAssetID(id AssetID) []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(id))
}

// DecodeAssetID decodes 4 big-endian bytes produced by EncodeAssetID.
func DecodeAssetID(bz []byte) (AssetID, bool) {
	if len(bz) != 4 {
		return 0, false
	}
	return AssetID(binary.BigEndian.Uint32(bz)), true
}
