package dialogue

import (
	"fmt"

	"github.com/rsharan/bankbot/internal/domain"
)

// User-facing strings. Every engine outcome maps to exactly one of these;
// nothing else reaches the user.
const (
	msgEmptyInput = "Please enter your message."

	msgMenu = "I need to know what you'd like to do. You can check a balance, transfer money, block a card, or ask about loans."

	msgNotUnderstood = "Sorry, I didn't understand that. You can check a balance, transfer money, block a card, or ask about loan info."

	msgInvalidAccountFormat = "Invalid account number format. Please provide a 4-6 digit account number."
	msgInvalidAmount        = "Invalid amount. Please enter a positive number."
	msgInvalidPINFormat     = "Invalid PIN format. Please enter a 4-digit PIN."

	msgGreeting = "Hello! I'm your banking assistant. You can check a balance, transfer money, block a card, or ask about loans and ATMs."

	msgSameAccount = "Please provide a different receiver account number (not the same as the sender)."

	msgInvalidPIN = "Invalid transaction PIN. Please enter your transaction PIN again."

	msgAccountNotFound   = "Account not found. Please verify your account number."
	msgRecipientNotFound = "Recipient account not found. Please verify the receiver account number."
	msgInsufficientFunds = "Insufficient balance for this transfer."

	msgInternalError = "Something went wrong on our side. Please try again."

	msgLoanInfo = "Loan products:\n- Home Loan: competitive rates starting at 8.4% p.a.\n- Personal Loan: quick approval, minimal paperwork.\nAsk at any branch for a personalized quote."

	msgFindATM = "Nearby ATMs:\n- SBI ATM - 0.5 km\n- HDFC ATM - 0.8 km\n- ICICI ATM - 1.2 km\n\nCustomer care: 1800-123-4567 (24/7)."

	// msgResponderFallback substitutes for the open-domain responder when it
	// is unreachable.
	msgResponderFallback = "That's an interesting question, but I'm specialized in banking. You can ask me to check a balance, transfer money, block a card, or explain loan options."
)

// slotPrompts are the fixed prompts emitted for each missing slot.
var slotPrompts = map[string]string{
	domain.SlotAccountNumber:  "Please provide your account number.",
	domain.SlotFromAccount:    "Please provide your account number.",
	domain.SlotToAccount:      "Please provide the receiver account number.",
	domain.SlotAmount:         "How much would you like to transfer?",
	domain.SlotTransactionPIN: "Please enter your transaction PIN.",
}

func promptFor(slot string) string {
	if p, ok := slotPrompts[slot]; ok {
		return p
	}
	return "Please provide the required information."
}

func balanceMessage(balance float64) string {
	return fmt.Sprintf("Your current balance is ₹%.2f.", balance)
}

func transferSuccessMessage(amount float64, to, reference string) string {
	return fmt.Sprintf("Transfer successful. ₹%.2f sent to account %s (ref %s).", amount, to, reference)
}

func cardBlockedMessage(account string, count int) string {
	if count == 0 {
		return fmt.Sprintf("No active cards found on account %s.", account)
	}
	return fmt.Sprintf("Blocked %d card(s) on account %s. If this was a mistake, contact support.", count, account)
}
