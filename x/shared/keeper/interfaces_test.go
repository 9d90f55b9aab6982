package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	registrykeeper "github.com/paw-chain/xyk/x/assetregistry/keeper"
	sharedkeeper "github.com/paw-chain/xyk/x/shared/keeper"
	"github.com/paw-chain/xyk/x/shared/ledger"
	tokenskeeper "github.com/paw-chain/xyk/x/tokens/keeper"
	xykkeeper "github.com/paw-chain/xyk/x/xyk/keeper"
)

// TestInterfaceCompatibility is a compile-time check that every module keeps its versioned contract.
func TestInterfaceCompatibility(t *testing.T) {
	var _ sharedkeeper.MultiCurrencyV1 = tokenskeeper.Keeper{}
	var _ sharedkeeper.MultiCurrencyV1 = ledger.BankCurrency{}
	var _ sharedkeeper.AssetRegistryV1 = registrykeeper.Keeper{}
	var _ sharedkeeper.AMMKeeperV1 = xykkeeper.Keeper{}
	var _ sharedkeeper.AMMKeeperV1 = (*xykkeeper.Keeper)(nil)
}

// TestInterfaceNilSafety verifies interfaces can be nil-checked.
func TestInterfaceNilSafety(t *testing.T) {
	var currency sharedkeeper.MultiCurrencyV1
	require.Nil(t, currency)

	var registry sharedkeeper.AssetRegistryV1
	require.Nil(t, registry)

	var amm sharedkeeper.AMMKeeperV1
	require.Nil(t, amm)
}
