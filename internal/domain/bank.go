package domain

import (
	"time"
)

// Account represents a bank account row.
type Account struct {
	AccountNumber string    `json:"account_number"`
	HolderName    string    `json:"holder_name"`
	AccountType   string    `json:"account_type"`
	Balance       float64   `json:"balance"`
	CreatedAt     time.Time `json:"created_at"`
}

// Transaction represents a completed funds transfer.
type Transaction struct {
	ID          int64     `json:"id"`
	Reference   string    `json:"reference"`
	FromAccount string    `json:"from_account"`
	ToAccount   string    `json:"to_account"`
	Amount      float64   `json:"amount"`
	Timestamp   time.Time `json:"timestamp"`
}

// Card status values.
const (
	CardStatusActive  = "Active"
	CardStatusBlocked = "Blocked"
)

// Card represents a debit or credit card attached to an account.
type Card struct {
	ID            int64     `json:"card_id"`
	AccountNumber string    `json:"account_number"`
	CardType      string    `json:"card_type"`
	LastFour      string    `json:"last_four"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Loan represents a loan attached to an account.
type Loan struct {
	ID              int64     `json:"loan_id"`
	AccountNumber   string    `json:"account_number"`
	LoanType        string    `json:"loan_type"`
	PrincipalAmount float64   `json:"principal_amount"`
	InterestRate    float64   `json:"interest_rate"`
	TenureMonths    int       `json:"tenure_months"`
	MonthlyEMI      float64   `json:"monthly_emi"`
	RemainingAmount float64   `json:"remaining_amount"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}
