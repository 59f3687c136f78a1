// Package domain contains core domain types for the BankBot service.
package domain

// Intent is a discrete user goal governing which slots must be collected
// before its action can execute.
type Intent string

const (
	// IntentNone means no intent is active for the session.
	IntentNone Intent = ""
	// IntentCheckBalance reads an account balance.
	IntentCheckBalance Intent = "check_balance"
	// IntentTransferMoney moves funds between two accounts.
	IntentTransferMoney Intent = "transfer_money"
	// IntentBlockCard blocks the cards attached to an account.
	IntentBlockCard Intent = "block_card"
	// IntentLoanInfo answers loan product questions.
	IntentLoanInfo Intent = "loan_info"
	// IntentFindATM lists nearby ATMs and support contacts.
	IntentFindATM Intent = "find_atm"
	// IntentFallback is the catch-all for unrecognized banking input.
	IntentFallback Intent = "fallback"
)

// Slot names used across the dialogue engine.
const (
	SlotAccountNumber  = "account_number"
	SlotFromAccount    = "from_account"
	SlotToAccount      = "to_account"
	SlotAmount         = "amount"
	SlotTransactionPIN = "transaction_pin"
)

// requiredSlots maps each intent to its required slots in strict order.
var requiredSlots = map[Intent][]string{
	IntentCheckBalance:  {SlotAccountNumber},
	IntentTransferMoney: {SlotFromAccount, SlotToAccount, SlotAmount, SlotTransactionPIN},
	IntentBlockCard:     {SlotAccountNumber},
	IntentLoanInfo:      {},
	IntentFindATM:       {},
	IntentFallback:      {},
}

// ParseIntent maps a classifier label onto a known intent.
// Unknown labels map to IntentFallback.
func ParseIntent(label string) Intent {
	switch Intent(label) {
	case IntentCheckBalance, IntentTransferMoney, IntentBlockCard, IntentLoanInfo, IntentFindATM:
		return Intent(label)
	default:
		return IntentFallback
	}
}

// IsBanking reports whether the intent is one of the supported banking
// actions (as opposed to none or fallback).
func (i Intent) IsBanking() bool {
	switch i {
	case IntentCheckBalance, IntentTransferMoney, IntentBlockCard, IntentLoanInfo, IntentFindATM:
		return true
	default:
		return false
	}
}

// RequiredSlots returns the ordered required slots for the intent.
func (i Intent) RequiredSlots() []string {
	return requiredSlots[i]
}

// Prediction is a single (intent, confidence) pair from the resolver.
type Prediction struct {
	Intent     Intent
	Confidence float64
}
