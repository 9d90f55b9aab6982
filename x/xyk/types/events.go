package types

// Event types for the xyk module
const (
	EventTypePoolCreated      = "pool_created"
	EventTypePoolDestroyed    = "pool_destroyed"
	EventTypeLiquidityAdded   = "liquidity_added"
	EventTypeLiquidityRemoved = "liquidity_removed"
	EventTypeSellExecuted     = "sell_executed"
	EventTypeBuyExecuted      = "buy_executed"
)

// Event attribute keys
const (
	AttributeKeyWho         = "who"
	AttributeKeyAssetA      = "asset_a"
	AttributeKeyAssetB      = "asset_b"
	AttributeKeyAssetIn     = "asset_in"
	AttributeKeyAssetOut    = "asset_out"
	AttributeKeyAmount      = "amount"
	AttributeKeyAmountA     = "amount_a"
	AttributeKeyAmountB     = "amount_b"
	AttributeKeyShares      = "shares"
	AttributeKeySalePrice   = "sale_price"
	AttributeKeyBuyPrice    = "buy_price"
	AttributeKeyDiscountFee = "discount_fee"
	AttributeKeyPoolAccount = "pool_account"
)
