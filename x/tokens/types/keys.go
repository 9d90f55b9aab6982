package types

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"

	sharedkeeper "github.com/paw-chain/xyk/x/shared/keeper"
)

const (
	// ModuleName defines the module name
	ModuleName = "tokens"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	// BalanceKeyPrefix is the prefix for account balances: prefix | asset | address
	BalanceKeyPrefix = []byte{0x01}

	// TotalIssuanceKeyPrefix is the prefix for per-asset total issuance
	TotalIssuanceKeyPrefix = []byte{0x02}
)

// AssetID is the ledger's asset identifier.
type AssetID = sharedkeeper.AssetID

// BalanceKey returns the store key for the balance of asset held by addr
func BalanceKey(asset AssetID, addr sdk.AccAddress) []byte {
	key := BalancePrefixForAsset(asset)
	return append(key, addr.Bytes()...)
}

// BalancePrefixForAsset returns the prefix of all balances of one asset
func BalancePrefixForAsset(asset AssetID) []byte {
	key := make([]byte, 0, len(BalanceKeyPrefix)+4)
	key = append(key, BalanceKeyPrefix...)
	return binary.BigEndian.AppendUint32(key, uint32(asset))
}

// TotalIssuanceKey returns the store key for the total issuance of asset
func TotalIssuanceKey(asset AssetID) []byte {
	key := make([]byte, 0, len(TotalIssuanceKeyPrefix)+4)
	key = append(key, TotalIssuanceKeyPrefix...)
	return binary.BigEndian.AppendUint32(key, uint32(asset))
}

// SplitBalanceKey parses a key produced by BalanceKey.
func SplitBalanceKey(key []byte) (AssetID, sdk.AccAddress, bool) {
	if len(key) < len(BalanceKeyPrefix)+4 {
		return 0, nil, false
	}
	rest := key[len(BalanceKeyPrefix):]
	return AssetID(binary.BigEndian.Uint32(rest[:4])), sdk.AccAddress(rest[4:]), true
}
