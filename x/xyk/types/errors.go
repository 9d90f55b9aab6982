package types

import (
	"cosmossdk.io/errors"
)

// XYK module sentinel errors
var (
	ErrCannotCreatePoolWithSameAssets       = errors.Register(ModuleName, 2, "cannot create pool with same assets")
	ErrCannotCreatePoolWithZeroLiquidity    = errors.Register(ModuleName, 3, "cannot create pool with zero initial liquidity")
	ErrCannotCreatePoolWithZeroInitialPrice = errors.Register(ModuleName, 4, "cannot create pool with zero initial price")
	ErrCreatePoolAssetAmountInvalid         = errors.Register(ModuleName, 5, "create pool asset amount invalid")
	ErrCannotRemoveLiquidityWithZero        = errors.Register(ModuleName, 6, "cannot remove zero liquidity")
	ErrCannotAddZeroLiquidity               = errors.Register(ModuleName, 7, "cannot add zero liquidity")
	ErrInvalidMintedLiquidity               = errors.Register(ModuleName, 8, "invalid minted liquidity")
	ErrInvalidLiquidityAmount               = errors.Register(ModuleName, 9, "invalid liquidity amount")
	ErrAssetBalanceLimitExceeded            = errors.Register(ModuleName, 10, "trading limit exceeded")
	ErrInsufficientAssetBalance             = errors.Register(ModuleName, 11, "insufficient asset balance")
	ErrInsufficientPoolAssetBalance         = errors.Register(ModuleName, 12, "insufficient pool asset balance")
	ErrInsufficientNativeBalance            = errors.Register(ModuleName, 13, "insufficient reference asset balance for discount fee")
	ErrPoolNotFound                         = errors.Register(ModuleName, 14, "pool not found")
	ErrPoolAlreadyExists                    = errors.Register(ModuleName, 15, "pool already exists")
	ErrAddAssetAmountInvalid                = errors.Register(ModuleName, 16, "add liquidity amount invalid")
	ErrRemoveAssetAmountInvalid             = errors.Register(ModuleName, 17, "remove liquidity amount invalid")
	ErrSellAssetAmountInvalid               = errors.Register(ModuleName, 18, "sell amount invalid")
	ErrBuyAssetAmountInvalid                = errors.Register(ModuleName, 19, "buy amount invalid")
	ErrFeeAmountInvalid                     = errors.Register(ModuleName, 20, "fee amount invalid")
	ErrCannotApplyDiscount                  = errors.Register(ModuleName, 21, "cannot apply discount")
	ErrMaxOutRatioExceeded                  = errors.Register(ModuleName, 22, "max out ratio exceeded")
	ErrMaxInRatioExceeded                   = errors.Register(ModuleName, 23, "max in ratio exceeded")
	ErrZeroAmount                           = errors.Register(ModuleName, 24, "amount cannot be zero")
	ErrFatalInvariantViolation              = errors.Register(ModuleName, 25, "invariant violated during execution")
	ErrIntentNotValidated                   = errors.Register(ModuleName, 26, "swap intent was not produced by validation")
	ErrIntentConsumed                       = errors.Register(ModuleName, 27, "swap intent already executed")
	ErrInvalidParams                        = errors.Register(ModuleName, 28, "invalid params")
	ErrInvalidGenesis                       = errors.Register(ModuleName, 29, "invalid genesis state")
)

// ErrorClass groups sentinel errors by how a caller should react to them.
type ErrorClass int

const (
	ClassUnknown ErrorClass = iota
	// ClassPrecondition: pool missing or present, zero amount, same assets.
	ClassPrecondition
	// ClassLimit: slippage or ratio limit exceeded; retry with adjusted parameters.
	ClassLimit
	// ClassBalance: caller or pool balance too low.
	ClassBalance
	// ClassArithmetic: overflow or invalid formula result.
	ClassArithmetic
	// ClassFatalInvariant: execution failed after validation passed.
	ClassFatalInvariant
)

func (c ErrorClass) String() string {
	switch c {
	case ClassPrecondition:
		return "precondition"
	case ClassLimit:
		return "limit"
	case ClassBalance:
		return "balance"
	case ClassArithmetic:
		return "arithmetic"
	case ClassFatalInvariant:
		return "fatal_invariant"
	default:
		return "unknown"
	}
}

var errorClasses = []struct {
	class ErrorClass
	errs  []error
}{
	{ClassFatalInvariant, []error{ErrFatalInvariantViolation}},
	{ClassPrecondition, []error{
		ErrCannotCreatePoolWithSameAssets, ErrCannotCreatePoolWithZeroLiquidity,
		ErrCannotCreatePoolWithZeroInitialPrice, ErrCannotRemoveLiquidityWithZero,
		ErrCannotAddZeroLiquidity, ErrPoolNotFound, ErrPoolAlreadyExists, ErrZeroAmount,
		ErrCannotApplyDiscount, ErrIntentNotValidated, ErrIntentConsumed,
		ErrInvalidParams, ErrInvalidGenesis,
	}},
	{ClassLimit, []error{ErrAssetBalanceLimitExceeded, ErrMaxInRatioExceeded, ErrMaxOutRatioExceeded}},
	{ClassBalance, []error{ErrInsufficientAssetBalance, ErrInsufficientPoolAssetBalance, ErrInsufficientNativeBalance}},
	{ClassArithmetic, []error{
		ErrCreatePoolAssetAmountInvalid, ErrInvalidMintedLiquidity, ErrInvalidLiquidityAmount,
		ErrAddAssetAmountInvalid, ErrRemoveAssetAmountInvalid, ErrSellAssetAmountInvalid,
		ErrBuyAssetAmountInvalid, ErrFeeAmountInvalid,
	}},
}

// ClassOf returns the class of a (possibly wrapped) xyk error.
func ClassOf(err error) ErrorClass {
	if err == nil {
		return ClassUnknown
	}
	for _, group := range errorClasses {
		if errors.IsOf(err, group.errs...) {
			return group.class
		}
	}
	return ClassUnknown
}
