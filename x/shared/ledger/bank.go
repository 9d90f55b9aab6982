// Package ledger adapts a Cosmos bank keeper to the multi-asset ledger contract used by the AMM.
package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	sharedkeeper "github.com/paw-chain/xyk/x/shared/keeper"
)

// DenomPrefix prefixes the bank denom of every ledger asset.
const DenomPrefix = "xyk/"

// Ledger adapter sentinel errors
var (
	ErrInsufficientFunds = errors.Register("ledger", 2, "insufficient funds")
	ErrInvalidAmount     = errors.Register("ledger", 3, "invalid amount")
	ErrInvalidDenom      = errors.Register("ledger", 4, "denom is not a ledger asset")
)

// BankKeeper is the subset of the x/bank keeper used by BankCurrency.
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	GetSupply(ctx context.Context, denom string) sdk.Coin
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
}

// BankCurrency implements the ledger contract on bank denoms "xyk/<asset id>". Minting and
// burning go through moduleName, which needs the minter and burner permissions.
type BankCurrency struct {
	bank       BankKeeper
	moduleName string
}

var _ sharedkeeper.MultiCurrencyV1 = BankCurrency{}

// NewBankCurrency returns a ledger backed by bank, minting and burning through moduleName.
func NewBankCurrency(bank BankKeeper, moduleName string) BankCurrency {
	return BankCurrency{bank: bank, moduleName: moduleName}
}

// Denom returns the bank denom of asset.
func Denom(asset sharedkeeper.AssetID) string {
	return DenomPrefix + strconv.FormatUint(uint64(asset), 10)
}

// ParseDenom returns the asset of a denom produced by Denom.
func ParseDenom(denom string) (sharedkeeper.AssetID, error) {
	if !strings.HasPrefix(denom, DenomPrefix) {
		return 0, ErrInvalidDenom.Wrap(denom)
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(denom, DenomPrefix), 10, 32)
	if err != nil {
		return 0, ErrInvalidDenom.Wrapf("%s: %v", denom, err)
	}
	return sharedkeeper.AssetID(id), nil
}

// FreeBalance returns the bank balance of asset held by who.
func (c BankCurrency) FreeBalance(ctx context.Context, asset sharedkeeper.AssetID, who sdk.AccAddress) sdkmath.Int {
	return c.bank.GetBalance(ctx, who, Denom(asset)).Amount
}

// TotalIssuance returns the bank supply of asset.
func (c BankCurrency) TotalIssuance(ctx context.Context, asset sharedkeeper.AssetID) sdkmath.Int {
	return c.bank.GetSupply(ctx, Denom(asset)).Amount
}

// Transfer sends amount of asset between accounts.
func (c BankCurrency) Transfer(ctx context.Context, asset sharedkeeper.AssetID, from, to sdk.AccAddress, amount sdkmath.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if balance := c.FreeBalance(ctx, asset, from); balance.LT(amount) {
		return ErrInsufficientFunds.Wrapf("%s has %s%s, needs %s", from, balance, Denom(asset), amount)
	}
	if amount.IsZero() {
		return nil
	}
	return c.bank.SendCoins(ctx, from, to, sdk.NewCoins(sdk.NewCoin(Denom(asset), amount)))
}

// Deposit mints amount of asset and credits it to who.
func (c BankCurrency) Deposit(ctx context.Context, asset sharedkeeper.AssetID, who sdk.AccAddress, amount sdkmath.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	coins := sdk.NewCoins(sdk.NewCoin(Denom(asset), amount))
	return atomically(ctx, func(ctx context.Context) error {
		if err := c.bank.MintCoins(ctx, c.moduleName, coins); err != nil {
			return fmt.Errorf("mint: %w", err)
		}
		if err := c.bank.SendCoinsFromModuleToAccount(ctx, c.moduleName, who, coins); err != nil {
			return fmt.Errorf("credit: %w", err)
		}
		return nil
	})
}

// Withdraw debits amount of asset from who and burns it.
func (c BankCurrency) Withdraw(ctx context.Context, asset sharedkeeper.AssetID, who sdk.AccAddress, amount sdkmath.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if balance := c.FreeBalance(ctx, asset, who); balance.LT(amount) {
		return ErrInsufficientFunds.Wrapf("%s has %s%s, needs %s", who, balance, Denom(asset), amount)
	}
	if amount.IsZero() {
		return nil
	}
	coins := sdk.NewCoins(sdk.NewCoin(Denom(asset), amount))
	return atomically(ctx, func(ctx context.Context) error {
		if err := c.bank.SendCoinsFromAccountToModule(ctx, who, c.moduleName, coins); err != nil {
			return fmt.Errorf("debit: %w", err)
		}
		if err := c.bank.BurnCoins(ctx, c.moduleName, coins); err != nil {
			return fmt.Errorf("burn: %w", err)
		}
		return nil
	})
}

// atomically runs a two-step bank operation in a cache context so a failing second step
// does not leave the first applied.
func atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, writeFn := sdkCtx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	writeFn()
	return nil
}

func validateAmount(amount sdkmath.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return ErrInvalidAmount.Wrapf("%v", amount)
	}
	return nil
}
