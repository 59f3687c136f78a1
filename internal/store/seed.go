package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rsharan/bankbot/internal/domain"
)

type demoAccount struct {
	number         string
	holder         string
	accountType    string
	balance        float64
	transactionPIN string
}

var demoAccounts = []demoAccount{
	{number: "1001", holder: "Rajesh Kumar", accountType: "Savings", balance: 50000, transactionPIN: "4321"},
	{number: "1002", holder: "Priya Sharma", accountType: "Current", balance: 75000, transactionPIN: "8765"},
	{number: "1003", holder: "Amit Patel", accountType: "Savings", balance: 30000, transactionPIN: "2109"},
}

// SeedDemoData inserts the demo accounts and cards if the database holds no
// accounts yet. Safe to call on every startup.
func SeedDemoData(ctx context.Context, repo Repository) error {
	existing, err := repo.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("list accounts before seed: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, d := range demoAccounts {
		acct := &domain.Account{
			AccountNumber: d.number,
			HolderName:    d.holder,
			AccountType:   d.accountType,
			Balance:       d.balance,
			CreatedAt:     time.Now(),
		}
		if err := repo.CreateAccount(ctx, acct, d.transactionPIN); err != nil {
			if errors.Is(err, ErrAccountExists) {
				continue
			}
			return fmt.Errorf("seed account %s: %w", d.number, err)
		}

		for _, cardType := range []string{"Debit", "Credit"} {
			if err := repo.AddCard(ctx, d.number, cardType, d.number); err != nil {
				return fmt.Errorf("seed %s card for %s: %w", cardType, d.number, err)
			}
		}
	}
	return nil
}
