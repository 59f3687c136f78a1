package domain

import (
	"strconv"
	"testing"
	"time"
)

func TestDialogueContext_MissingSlotOrder(t *testing.T) {
	dc := NewDialogueContext("s1")
	dc.ActiveIntent = IntentTransferMoney

	order := []string{SlotFromAccount, SlotToAccount, SlotAmount, SlotTransactionPIN}
	for _, want := range order {
		if got := dc.MissingSlot(); got != want {
			t.Fatalf("MissingSlot = %q, want %q", got, want)
		}
		dc.SetSlot(want, "1000")
	}
	if got := dc.MissingSlot(); got != "" {
		t.Errorf("MissingSlot after filling all = %q, want empty", got)
	}
}

func TestDialogueContext_PINInvalidation(t *testing.T) {
	dc := NewDialogueContext("s1")
	dc.ActiveIntent = IntentTransferMoney
	dc.SetSlot(SlotFromAccount, "1001")
	dc.SetSlot(SlotToAccount, "1002")
	dc.SetSlot(SlotAmount, "500")
	dc.SetSlot(SlotTransactionPIN, "4321")

	// Changing the receiver revokes the PIN.
	dc.SetSlot(SlotToAccount, "1003")
	if got := dc.Slot(SlotTransactionPIN); got != "" {
		t.Errorf("PIN survived to_account change: %q", got)
	}

	dc.SetSlot(SlotTransactionPIN, "4321")

	// Changing the amount revokes the PIN.
	dc.SetSlot(SlotAmount, "900")
	if got := dc.Slot(SlotTransactionPIN); got != "" {
		t.Errorf("PIN survived amount change: %q", got)
	}

	dc.SetSlot(SlotTransactionPIN, "4321")

	// Re-stating the same receiver and amount keeps the PIN.
	dc.SetSlot(SlotToAccount, "1003")
	dc.SetSlot(SlotAmount, "900")
	if got := dc.Slot(SlotTransactionPIN); got != "4321" {
		t.Errorf("PIN revoked by no-op slot writes: %q", got)
	}

	// Changing the sender does not touch the PIN.
	dc.SetSlot(SlotFromAccount, "1004")
	if got := dc.Slot(SlotTransactionPIN); got != "4321" {
		t.Errorf("PIN revoked by from_account change: %q", got)
	}
}

func TestDialogueContext_ResetIdempotent(t *testing.T) {
	dc := NewDialogueContext("s1")
	dc.ActiveIntent = IntentCheckBalance
	dc.SetSlot(SlotAccountNumber, "1001")
	dc.AppendTurn(Turn{UserText: "check balance", Timestamp: time.Now()})

	dc.Reset()
	dc.Reset()

	if dc.ActiveIntent != IntentNone {
		t.Errorf("ActiveIntent after reset = %v", dc.ActiveIntent)
	}
	if len(dc.Slots) != 0 {
		t.Errorf("Slots after reset = %v", dc.Slots)
	}
	if len(dc.History) != 1 {
		t.Errorf("History must survive reset, got %d turns", len(dc.History))
	}
}

func TestDialogueContext_HistoryCap(t *testing.T) {
	dc := NewDialogueContext("s1")
	for i := 0; i < maxHistory+10; i++ {
		dc.AppendTurn(Turn{UserText: strconv.Itoa(i)})
	}
	if len(dc.History) != maxHistory {
		t.Fatalf("history length = %d, want %d", len(dc.History), maxHistory)
	}
	if dc.History[len(dc.History)-1].UserText != strconv.Itoa(maxHistory+9) {
		t.Errorf("newest turn lost: %q", dc.History[len(dc.History)-1].UserText)
	}
}

func TestParseIntent(t *testing.T) {
	tests := []struct {
		label string
		want  Intent
	}{
		{"check_balance", IntentCheckBalance},
		{"transfer_money", IntentTransferMoney},
		{"block_card", IntentBlockCard},
		{"loan_info", IntentLoanInfo},
		{"find_atm", IntentFindATM},
		{"", IntentFallback},
		{"order_pizza", IntentFallback},
	}
	for _, tt := range tests {
		if got := ParseIntent(tt.label); got != tt.want {
			t.Errorf("ParseIntent(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestIntent_IsBanking(t *testing.T) {
	banking := []Intent{IntentCheckBalance, IntentTransferMoney, IntentBlockCard, IntentLoanInfo, IntentFindATM}
	for _, i := range banking {
		if !i.IsBanking() {
			t.Errorf("%v.IsBanking() = false", i)
		}
	}
	for _, i := range []Intent{IntentNone, IntentFallback} {
		if i.IsBanking() {
			t.Errorf("%v.IsBanking() = true", i)
		}
	}
}
