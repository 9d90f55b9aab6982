package types

import (
	"math/big"

	"cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

// Tokens module sentinel errors
var (
	ErrInsufficientBalance = errors.Register(ModuleName, 2, "insufficient balance")
	ErrBalanceOverflow     = errors.Register(ModuleName, 3, "balance overflow")
	ErrInvalidAmount       = errors.Register(ModuleName, 4, "invalid amount")
	ErrInvalidGenesis      = errors.Register(ModuleName, 5, "invalid genesis state")
)

// MaxBalance is the largest balance or issuance the ledger holds (2^128 - 1).
var MaxBalance = sdkmath.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)))
