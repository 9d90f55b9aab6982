package types

import "cosmossdk.io/errors"

// Asset registry sentinel errors
var (
	ErrEmptyAssetName  = errors.Register(ModuleName, 2, "asset name cannot be empty")
	ErrAssetIDOverflow = errors.Register(ModuleName, 3, "no asset ids left")
	ErrAssetNotFound   = errors.Register(ModuleName, 4, "asset not found")
	ErrAssetExists     = errors.Register(ModuleName, 5, "asset already registered")
	ErrInvalidGenesis  = errors.Register(ModuleName, 6, "invalid genesis state")
)
