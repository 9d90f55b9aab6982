package types

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"golang.org/x/crypto/blake2b"
)

// pairAccountTag domain-separates pool accounts from any other hashed address.
var pairAccountTag = []byte("xykpool")

// PairAccount derives the account holding the reserves of the pool for an unordered asset pair.
// The result is the BLAKE2b-256 hash of the tag followed by both asset ids in ascending order,
// little-endian encoded.
func PairAccount(assetA, assetB AssetID) sdk.AccAddress {
	if assetA > assetB {
		assetA, assetB = assetB, assetA
	}

	buf := make([]byte, 0, len(pairAccountTag)+8)
	buf = append(buf, pairAccountTag...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(assetA))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(assetB))

	hash := blake2b.Sum256(buf)
	return sdk.AccAddress(hash[:])
}

// Account returns the pool account for the pair.
func (p AssetPair) Account() sdk.AccAddress {
	return PairAccount(p.AssetIn, p.AssetOut)
}
