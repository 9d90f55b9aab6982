// Package formula holds the pure constant-product formulas used by the xyk keeper.
//
// All inputs and outputs are non-negative integers. Intermediate products are computed on
// big.Int so that no step can overflow silently; every result is bounded by MaxBalance.
// Results round down, except CalculateInGivenOut which rounds up so that a buyer always pays at
// least the exact price.
package formula

import (
	"errors"
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
)

var (
	// ErrOverflow is returned when a result does not fit in a balance.
	ErrOverflow = errors.New("formula: arithmetic overflow")
	// ErrZeroReserve is returned when a reserve used as a divisor is zero.
	ErrZeroReserve = errors.New("formula: zero reserve")
	// ErrInsufficientReserve is returned when a request exceeds what a reserve can cover.
	ErrInsufficientReserve = errors.New("formula: insufficient reserve")
	// ErrNegativeAmount is returned for negative or nil inputs.
	ErrNegativeAmount = errors.New("formula: negative amount")
)

// MaxBalance is the largest representable balance (2^128 - 1).
var MaxBalance = sdkmath.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)))

var (
	maxBalanceBig = MaxBalance.BigInt()
	precisionBig  = new(big.Int).Exp(big.NewInt(10), big.NewInt(sdkmath.LegacyPrecision), nil)
)

// CalculateLiquidityIn returns the amount of asset B required to deposit amountA of asset A
// at the current pool ratio: floor(amountA * reserveB / reserveA).
func CalculateLiquidityIn(reserveA, reserveB, amountA sdkmath.Int) (sdkmath.Int, error) {
	if err := checkInputs(reserveA, reserveB, amountA); err != nil {
		return sdkmath.Int{}, err
	}
	if reserveA.IsZero() {
		return sdkmath.Int{}, ErrZeroReserve
	}
	return mulDivDown(amountA.BigInt(), reserveB.BigInt(), reserveA.BigInt())
}

// CalculateLiquidityOut returns the reserves owed for burning shares out of totalShares:
// (floor(reserveA * shares / totalShares), floor(reserveB * shares / totalShares)).
func CalculateLiquidityOut(reserveA, reserveB, shares, totalShares sdkmath.Int) (sdkmath.Int, sdkmath.Int, error) {
	if err := checkInputs(reserveA, reserveB, shares, totalShares); err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	if totalShares.IsZero() {
		return sdkmath.Int{}, sdkmath.Int{}, ErrZeroReserve
	}
	if shares.GT(totalShares) {
		return sdkmath.Int{}, sdkmath.Int{}, fmt.Errorf("%w: shares %s exceed total %s", ErrInsufficientReserve, shares, totalShares)
	}

	amountA, err := mulDivDown(reserveA.BigInt(), shares.BigInt(), totalShares.BigInt())
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	amountB, err := mulDivDown(reserveB.BigInt(), shares.BigInt(), totalShares.BigInt())
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	return amountA, amountB, nil
}

// CalculateOutGivenIn returns the amount of the out asset received for amountIn of the in asset:
// floor(reserveOut * amountIn / (reserveIn + amountIn)).
func CalculateOutGivenIn(reserveIn, reserveOut, amountIn sdkmath.Int) (sdkmath.Int, error) {
	if err := checkInputs(reserveIn, reserveOut, amountIn); err != nil {
		return sdkmath.Int{}, err
	}

	denominator := new(big.Int).Add(reserveIn.BigInt(), amountIn.BigInt())
	if denominator.Sign() == 0 {
		return sdkmath.Int{}, ErrZeroReserve
	}
	return mulDivDown(reserveOut.BigInt(), amountIn.BigInt(), denominator)
}

// CalculateInGivenOut returns the amount of the in asset required to take amountOut of the out
// asset: ceil(reserveIn * amountOut / (reserveOut - amountOut)).
func CalculateInGivenOut(reserveOut, reserveIn, amountOut sdkmath.Int) (sdkmath.Int, error) {
	if err := checkInputs(reserveOut, reserveIn, amountOut); err != nil {
		return sdkmath.Int{}, err
	}
	if amountOut.GTE(reserveOut) {
		return sdkmath.Int{}, fmt.Errorf("%w: amount out %s, reserve %s", ErrInsufficientReserve, amountOut, reserveOut)
	}

	denominator := new(big.Int).Sub(reserveOut.BigInt(), amountOut.BigInt())
	return mulDivUp(reserveIn.BigInt(), amountOut.BigInt(), denominator)
}

// CalculateSpotPrice converts amount of the base asset into the quote asset at the pool ratio:
// floor(amount * reserveQuote / reserveBase).
func CalculateSpotPrice(reserveBase, reserveQuote, amount sdkmath.Int) (sdkmath.Int, error) {
	if err := checkInputs(reserveBase, reserveQuote, amount); err != nil {
		return sdkmath.Int{}, err
	}
	if reserveBase.IsZero() {
		return sdkmath.Int{}, ErrZeroReserve
	}
	return mulDivDown(amount.BigInt(), reserveQuote.BigInt(), reserveBase.BigInt())
}

// MulPrice multiplies amount by an 18-decimal fixed point price, truncating.
func MulPrice(amount sdkmath.Int, price sdkmath.LegacyDec) (sdkmath.Int, error) {
	if err := checkInputs(amount); err != nil {
		return sdkmath.Int{}, err
	}
	if price.IsNil() || price.IsNegative() {
		return sdkmath.Int{}, ErrNegativeAmount
	}
	return mulDivDown(amount.BigInt(), price.BigInt(), precisionBig)
}

// CheckedAdd adds two balances, failing when the sum exceeds MaxBalance.
func CheckedAdd(a, b sdkmath.Int) (sdkmath.Int, error) {
	if err := checkInputs(a, b); err != nil {
		return sdkmath.Int{}, err
	}
	return bounded(new(big.Int).Add(a.BigInt(), b.BigInt()))
}

// CheckedSub subtracts b from a, failing when b > a.
func CheckedSub(a, b sdkmath.Int) (sdkmath.Int, error) {
	if err := checkInputs(a, b); err != nil {
		return sdkmath.Int{}, err
	}
	if a.LT(b) {
		return sdkmath.Int{}, fmt.Errorf("%w: cannot subtract %s from %s", ErrInsufficientReserve, b, a)
	}
	return a.Sub(b), nil
}

// MulDiv returns floor(a * b / c).
func MulDiv(a, b, c sdkmath.Int) (sdkmath.Int, error) {
	if err := checkInputs(a, b, c); err != nil {
		return sdkmath.Int{}, err
	}
	if c.IsZero() {
		return sdkmath.Int{}, ErrZeroReserve
	}
	return mulDivDown(a.BigInt(), b.BigInt(), c.BigInt())
}

func mulDivDown(a, b, c *big.Int) (sdkmath.Int, error) {
	product := new(big.Int).Mul(a, b)
	return bounded(product.Quo(product, c))
}

func mulDivUp(a, b, c *big.Int) (sdkmath.Int, error) {
	product := new(big.Int).Mul(a, b)
	quo, rem := new(big.Int).QuoRem(product, c, new(big.Int))
	if rem.Sign() != 0 {
		quo.Add(quo, big.NewInt(1))
	}
	return bounded(quo)
}

func bounded(v *big.Int) (sdkmath.Int, error) {
	if v.Cmp(maxBalanceBig) > 0 {
		return sdkmath.Int{}, ErrOverflow
	}
	return sdkmath.NewIntFromBigInt(v), nil
}

func checkInputs(values ...sdkmath.Int) error {
	for _, v := range values {
		if v.IsNil() || v.IsNegative() {
			return ErrNegativeAmount
		}
	}
	return nil
}
