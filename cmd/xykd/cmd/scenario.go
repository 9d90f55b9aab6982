package cmd

import (
	"fmt"
	"os"
	"sort"

	sdkmath "cosmossdk.io/math"
	"github.com/cometbft/cometbft/crypto"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"

	"github.com/paw-chain/xyk/app"
	registrytypes "github.com/paw-chain/xyk/x/assetregistry/types"
	tokenstypes "github.com/paw-chain/xyk/x/tokens/types"
	xyktypes "github.com/paw-chain/xyk/x/xyk/types"
)

// Scenario actions
const (
	ActionCreatePool      = "create_pool"
	ActionAddLiquidity    = "add_liquidity"
	ActionRemoveLiquidity = "remove_liquidity"
	ActionSell            = "sell"
	ActionBuy             = "buy"
)

// Scenario is a genesis plus an ordered list of pool operations. Params not given keep their
// defaults.
//
//	next_asset_id: 1000
//	params:
//	  exchange_fee: {numerator: 2, denominator: 1000}
//	accounts:
//	  alice: {1: 10000, 2: 20000}
//	steps:
//	  - {action: create_pool, who: alice, asset_a: 1, asset_b: 2, amount: 1000, price: "2"}
//	  - {action: sell, who: alice, asset_in: 1, asset_out: 2, amount: 100, limit: 1, expect_error: limit}
type Scenario struct {
	ChainID     string                            `yaml:"chain_id"`
	NextAssetID uint32                            `yaml:"next_asset_id"`
	Params      *xyktypes.Params                  `yaml:"params"`
	Accounts    map[string]map[uint32]interface{} `yaml:"accounts"`
	Steps       []map[string]interface{}          `yaml:"steps"`
}

// Step is one decoded scenario operation.
type Step struct {
	Index       int
	Action      string
	Who         string
	AssetA      xyktypes.AssetID
	AssetB      xyktypes.AssetID
	Amount      sdkmath.Int
	Limit       sdkmath.Int
	Price       sdkmath.LegacyDec
	Discount    bool
	ExpectError string
}

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(bz)
}

// ParseScenario parses YAML scenario bytes.
func ParseScenario(bz []byte) (*Scenario, error) {
	params := xyktypes.DefaultParams()
	s := Scenario{Params: &params}
	if err := yaml.UnmarshalStrict(bz, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if s.NextAssetID == 0 {
		s.NextAssetID = uint32(app.DefaultFirstShareToken)
	}
	return &s, nil
}

// AccountAddress derives the address of a named scenario account.
func AccountAddress(name string) sdk.AccAddress {
	return sdk.AccAddress(crypto.AddressHash([]byte(name)))
}

// Genesis builds the chain genesis of the scenario.
func (s *Scenario) Genesis() (app.GenesisState, error) {
	genesis := app.NewDefaultGenesisState()

	names := make([]string, 0, len(s.Accounts))
	for name := range s.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	tokensGenesis := tokenstypes.DefaultGenesis()
	for _, name := range names {
		assets := make([]uint32, 0, len(s.Accounts[name]))
		for asset := range s.Accounts[name] {
			assets = append(assets, asset)
		}
		sort.Slice(assets, func(i, j int) bool { return assets[i] < assets[j] })

		for _, asset := range assets {
			amount, err := toInt(s.Accounts[name][asset])
			if err != nil {
				return nil, fmt.Errorf("account %s asset %d: %w", name, asset, err)
			}
			tokensGenesis.Balances = append(tokensGenesis.Balances, tokenstypes.Balance{
				Address: AccountAddress(name).String(),
				Asset:   tokenstypes.AssetID(asset),
				Amount:  amount,
			})
		}
	}

	registryGenesis := registrytypes.DefaultGenesis()
	registryGenesis.NextAssetID = registrytypes.AssetID(s.NextAssetID)

	xykGenesis := xyktypes.DefaultGenesis()
	if s.Params != nil {
		xykGenesis.Params = *s.Params
	}

	genesis[tokenstypes.ModuleName] = app.MustMarshalJSON(tokensGenesis)
	genesis[registrytypes.ModuleName] = app.MustMarshalJSON(registryGenesis)
	genesis[xyktypes.ModuleName] = app.MustMarshalJSON(xykGenesis)

	if _, err := genesis.Decode(); err != nil {
		return nil, err
	}
	return genesis, nil
}

// DecodeSteps decodes every step of the scenario.
func (s *Scenario) DecodeSteps() ([]Step, error) {
	steps := make([]Step, 0, len(s.Steps))
	for i, raw := range s.Steps {
		step, err := decodeStep(i+1, raw)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func decodeStep(index int, raw map[string]interface{}) (Step, error) {
	step := Step{
		Index:       index,
		Action:      cast.ToString(raw["action"]),
		Who:         cast.ToString(raw["who"]),
		Amount:      sdkmath.ZeroInt(),
		Limit:       sdkmath.ZeroInt(),
		ExpectError: cast.ToString(raw["expect_error"]),
	}
	if step.Who == "" {
		return Step{}, fmt.Errorf("step %d: missing who", index)
	}

	var (
		assetKeys = [2]string{"asset_a", "asset_b"}
		allowed   = []string{"action", "who", "expect_error", "amount"}
		err       error
	)
	switch step.Action {
	case ActionCreatePool:
		allowed = append(allowed, "asset_a", "asset_b", "price")
		priceStr := cast.ToString(raw["price"])
		if step.Price, err = sdkmath.LegacyNewDecFromStr(priceStr); err != nil {
			return Step{}, fmt.Errorf("step %d: price %q: %w", index, priceStr, err)
		}
	case ActionAddLiquidity:
		allowed = append(allowed, "asset_a", "asset_b", "limit")
	case ActionRemoveLiquidity:
		allowed = append(allowed, "asset_a", "asset_b")
	case ActionSell:
		assetKeys = [2]string{"asset_in", "asset_out"}
		allowed = append(allowed, "asset_in", "asset_out", "limit", "discount")
	case ActionBuy:
		assetKeys = [2]string{"asset_out", "asset_in"}
		allowed = append(allowed, "asset_in", "asset_out", "limit", "discount")
	default:
		return Step{}, fmt.Errorf("step %d: unknown action %q", index, step.Action)
	}

	for key := range raw {
		if !contains(allowed, key) {
			return Step{}, fmt.Errorf("step %d: unexpected field %q for %s", index, key, step.Action)
		}
	}

	a, err := cast.ToUint32E(raw[assetKeys[0]])
	if err != nil {
		return Step{}, fmt.Errorf("step %d: %s: %w", index, assetKeys[0], err)
	}
	b, err := cast.ToUint32E(raw[assetKeys[1]])
	if err != nil {
		return Step{}, fmt.Errorf("step %d: %s: %w", index, assetKeys[1], err)
	}
	step.AssetA, step.AssetB = xyktypes.AssetID(a), xyktypes.AssetID(b)

	if step.Amount, err = toInt(raw["amount"]); err != nil {
		return Step{}, fmt.Errorf("step %d: amount: %w", index, err)
	}
	if v, ok := raw["limit"]; ok {
		if step.Limit, err = toInt(v); err != nil {
			return Step{}, fmt.Errorf("step %d: limit: %w", index, err)
		}
	}
	if v, ok := raw["discount"]; ok {
		if step.Discount, err = cast.ToBoolE(v); err != nil {
			return Step{}, fmt.Errorf("step %d: discount: %w", index, err)
		}
	}
	return step, nil
}

// toInt decodes an amount given as a YAML integer or a decimal string.
func toInt(v interface{}) (sdkmath.Int, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return sdkmath.Int{}, err
	}
	amount, ok := sdkmath.NewIntFromString(s)
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("invalid amount %q", s)
	}
	return amount, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
