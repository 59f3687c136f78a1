package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rsharan/bankbot/internal/domain"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "bank.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return repo
}

func mustCreate(t *testing.T, repo Repository, number string, balance float64, pin string) {
	t.Helper()
	err := repo.CreateAccount(context.Background(), &domain.Account{
		AccountNumber: number,
		HolderName:    "Holder " + number,
		AccountType:   "Savings",
		Balance:       balance,
		CreatedAt:     time.Now(),
	}, pin)
	if err != nil {
		t.Fatalf("create account %s: %v", number, err)
	}
}

func TestIsConflictError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"busy", errors.New("SQLITE_BUSY: database is busy (5)"), true},
		{"locked", errors.New("database is locked"), true},
		{"wrapped busy", errors.New("transfer: SQLITE_BUSY"), true},
		{"unrelated", errors.New("constraint failed"), false},
	}
	for _, tt := range tests {
		if got := isConflictError(tt.err); got != tt.want {
			t.Errorf("%s: isConflictError = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCreateAccount_Duplicate(t *testing.T) {
	repo := newTestStore(t)
	mustCreate(t, repo, "1001", 100, "4321")

	err := repo.CreateAccount(context.Background(), &domain.Account{
		AccountNumber: "1001",
		HolderName:    "Someone Else",
		AccountType:   "Current",
	}, "0000")
	if !errors.Is(err, ErrAccountExists) {
		t.Errorf("err = %v, want ErrAccountExists", err)
	}
}

func TestGetAccountAndBalance(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, repo, "1001", 2500.50, "4321")

	acct, err := repo.GetAccount(ctx, "1001")
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if acct.HolderName != "Holder 1001" || acct.Balance != 2500.50 {
		t.Errorf("unexpected account: %+v", acct)
	}

	if _, err := repo.GetAccount(ctx, "9999"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("missing account err = %v, want ErrAccountNotFound", err)
	}

	bal, err := repo.GetBalance(ctx, "1001")
	if err != nil || bal != 2500.50 {
		t.Errorf("GetBalance = (%v, %v)", bal, err)
	}
	if _, err := repo.GetBalance(ctx, "9999"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("missing balance err = %v, want ErrAccountNotFound", err)
	}
}

func TestTransfer_HappyPath(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, repo, "1001", 1000, "4321")
	mustCreate(t, repo, "1002", 50, "8765")

	ref, err := repo.Transfer(ctx, "1001", "1002", 300, "4321")
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if ref == "" {
		t.Error("empty transaction reference")
	}

	from, _ := repo.GetBalance(ctx, "1001")
	to, _ := repo.GetBalance(ctx, "1002")
	if from != 700 || to != 350 {
		t.Errorf("balances after transfer = %v, %v; want 700, 350", from, to)
	}

	txs, err := repo.GetTransactions(ctx, "1001", 10)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Reference != ref || txs[0].Amount != 300 {
		t.Errorf("unexpected transactions: %+v", txs)
	}
}

func TestTransfer_CheckOrder(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, repo, "1001", 1000, "4321")

	// Missing sender wins over everything.
	if _, err := repo.Transfer(ctx, "9999", "1001", 10, "bad"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("missing sender err = %v, want ErrAccountNotFound", err)
	}

	// Missing recipient is reported before the PIN is checked.
	if _, err := repo.Transfer(ctx, "1001", "9999", 10, "wrong"); !errors.Is(err, ErrRecipientNotFound) {
		t.Errorf("missing recipient err = %v, want ErrRecipientNotFound", err)
	}

	mustCreate(t, repo, "1002", 0, "8765")

	// Bad PIN is reported before fund sufficiency.
	if _, err := repo.Transfer(ctx, "1001", "1002", 99999, "wrong"); !errors.Is(err, ErrInvalidPIN) {
		t.Errorf("bad pin err = %v, want ErrInvalidPIN", err)
	}

	if _, err := repo.Transfer(ctx, "1001", "1002", 99999, "4321"); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("overdraft err = %v, want ErrInsufficientFunds", err)
	}

	if _, err := repo.Transfer(ctx, "1001", "1001", 10, "4321"); !errors.Is(err, ErrSameAccount) {
		t.Errorf("self transfer err = %v, want ErrSameAccount", err)
	}

	// None of the failures moved money.
	bal, _ := repo.GetBalance(ctx, "1001")
	if bal != 1000 {
		t.Errorf("sender balance = %v, want 1000", bal)
	}
}

func TestSetTransactionPIN(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, repo, "1001", 1000, "4321")
	mustCreate(t, repo, "1002", 0, "8765")

	if err := repo.SetTransactionPIN(ctx, "1001", "9999"); err != nil {
		t.Fatalf("SetTransactionPIN: %v", err)
	}
	if _, err := repo.Transfer(ctx, "1001", "1002", 10, "4321"); !errors.Is(err, ErrInvalidPIN) {
		t.Errorf("old pin err = %v, want ErrInvalidPIN", err)
	}
	if _, err := repo.Transfer(ctx, "1001", "1002", 10, "9999"); err != nil {
		t.Errorf("new pin err = %v", err)
	}

	if err := repo.SetTransactionPIN(ctx, "9999", "0000"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("missing account err = %v, want ErrAccountNotFound", err)
	}
}

func TestBlockCard(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, repo, "1001", 1000, "4321")

	if err := repo.AddCard(ctx, "1001", "Debit", "1111"); err != nil {
		t.Fatalf("AddCard: %v", err)
	}
	if err := repo.AddCard(ctx, "1001", "Credit", "2222"); err != nil {
		t.Fatalf("AddCard: %v", err)
	}

	n, err := repo.BlockCard(ctx, "1001")
	if err != nil || n != 2 {
		t.Fatalf("BlockCard = (%d, %v), want (2, nil)", n, err)
	}

	cards, err := repo.GetCards(ctx, "1001")
	if err != nil {
		t.Fatalf("GetCards: %v", err)
	}
	for _, c := range cards {
		if c.Status != domain.CardStatusBlocked {
			t.Errorf("card %d status = %q", c.ID, c.Status)
		}
	}

	// Blocking again affects nothing.
	n, err = repo.BlockCard(ctx, "1001")
	if err != nil || n != 0 {
		t.Errorf("second BlockCard = (%d, %v), want (0, nil)", n, err)
	}

	if _, err := repo.BlockCard(ctx, "9999"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("missing account err = %v, want ErrAccountNotFound", err)
	}
}

func TestGetTransactions_Ordering(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, repo, "1001", 1000, "4321")
	mustCreate(t, repo, "1002", 1000, "8765")

	if _, err := repo.Transfer(ctx, "1001", "1002", 100, "4321"); err != nil {
		t.Fatalf("transfer 1: %v", err)
	}
	if _, err := repo.Transfer(ctx, "1002", "1001", 40, "8765"); err != nil {
		t.Fatalf("transfer 2: %v", err)
	}

	txs, err := repo.GetTransactions(ctx, "1001", 10)
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	// Newest first.
	if txs[0].Amount != 40 || txs[1].Amount != 100 {
		t.Errorf("unexpected order: %v, %v", txs[0].Amount, txs[1].Amount)
	}

	limited, err := repo.GetTransactions(ctx, "1001", 1)
	if err != nil || len(limited) != 1 {
		t.Errorf("limited query = (%d, %v), want 1 row", len(limited), err)
	}
}

func TestSeedDemoData(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	if err := SeedDemoData(ctx, repo); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}

	accounts, err := repo.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	if len(accounts) != 3 {
		t.Fatalf("got %d accounts, want 3", len(accounts))
	}

	// The demo transaction PIN works.
	if _, err := repo.Transfer(ctx, "1001", "1002", 10, "4321"); err != nil {
		t.Errorf("demo pin transfer: %v", err)
	}

	cards, err := repo.GetCards(ctx, "1001")
	if err != nil || len(cards) != 2 {
		t.Errorf("demo cards = (%d, %v), want 2", len(cards), err)
	}

	// Seeding again is a no-op.
	if err := SeedDemoData(ctx, repo); err != nil {
		t.Fatalf("second SeedDemoData: %v", err)
	}
	accounts, _ = repo.ListAccounts(ctx)
	if len(accounts) != 3 {
		t.Errorf("after reseed got %d accounts, want 3", len(accounts))
	}
}
