package types

// Event types for the tokens module
const (
	EventTypeTransfer = "tokens_transfer"
	EventTypeDeposit  = "tokens_deposit"
	EventTypeWithdraw = "tokens_withdraw"

	AttributeKeyAsset  = "asset"
	AttributeKeyFrom   = "from"
	AttributeKeyTo     = "to"
	AttributeKeyWho    = "who"
	AttributeKeyAmount = "amount"
)
