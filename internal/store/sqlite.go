package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rsharan/bankbot/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS accounts (
		account_number TEXT PRIMARY KEY,
		holder_name TEXT NOT NULL,
		account_type TEXT NOT NULL,
		balance REAL NOT NULL DEFAULT 0,
		pin_hash BLOB NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reference TEXT NOT NULL UNIQUE,
		from_account TEXT NOT NULL,
		to_account TEXT NOT NULL,
		amount REAL NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tx_from ON transactions(from_account);
	CREATE INDEX IF NOT EXISTS idx_tx_to ON transactions(to_account);

	CREATE TABLE IF NOT EXISTS cards (
		card_id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_number TEXT NOT NULL,
		card_type TEXT NOT NULL,
		last_four TEXT,
		status TEXT NOT NULL DEFAULT 'Active',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_cards_account ON cards(account_number);

	CREATE TABLE IF NOT EXISTS loans (
		loan_id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_number TEXT NOT NULL,
		loan_type TEXT NOT NULL,
		principal_amount REAL NOT NULL,
		interest_rate REAL NOT NULL DEFAULT 0,
		tenure_months INTEGER NOT NULL DEFAULT 12,
		monthly_emi REAL NOT NULL DEFAULT 0,
		remaining_amount REAL NOT NULL,
		status TEXT NOT NULL DEFAULT 'Active',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_loans_account ON loans(account_number);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateAccount inserts a new account with a hashed transaction PIN.
func (s *SQLiteStore) CreateAccount(ctx context.Context, acct *domain.Account, pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash transaction pin: %w", err)
	}

	createdAt := acct.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO accounts(account_number, holder_name, account_type, balance, pin_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		acct.AccountNumber, acct.HolderName, acct.AccountType, acct.Balance, hash, createdAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrAccountExists
	}
	acct.CreatedAt = createdAt
	return nil
}

// GetAccount retrieves an account by number.
func (s *SQLiteStore) GetAccount(ctx context.Context, accountNumber string) (*domain.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT account_number, holder_name, account_type, balance, created_at
		FROM accounts WHERE account_number = ?`, accountNumber)

	var acct domain.Account
	var createdAt int64
	err := row.Scan(&acct.AccountNumber, &acct.HolderName, &acct.AccountType, &acct.Balance, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account row: %w", err)
	}
	acct.CreatedAt = time.Unix(createdAt, 0)
	return &acct, nil
}

// ListAccounts returns all accounts ordered by account number.
func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT account_number, holder_name, account_type, balance, created_at
		FROM accounts ORDER BY account_number`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var acct domain.Account
		var createdAt int64
		if err := rows.Scan(&acct.AccountNumber, &acct.HolderName, &acct.AccountType, &acct.Balance, &createdAt); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		acct.CreatedAt = time.Unix(createdAt, 0)
		accounts = append(accounts, &acct)
	}
	return accounts, rows.Err()
}

// GetBalance returns the balance for an account.
func (s *SQLiteStore) GetBalance(ctx context.Context, accountNumber string) (float64, error) {
	var balance float64
	err := s.db.QueryRowContext(ctx,
		`SELECT balance FROM accounts WHERE account_number = ?`, accountNumber).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query balance: %w", err)
	}
	return balance, nil
}

// SetTransactionPIN replaces the transaction PIN hash for an account.
func (s *SQLiteStore) SetTransactionPIN(ctx context.Context, accountNumber, pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash transaction pin: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET pin_hash = ? WHERE account_number = ?`, hash, accountNumber)
	if err != nil {
		return fmt.Errorf("update pin: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// transferRetries bounds retries on SQLITE_BUSY during the write transaction.
const transferRetries = 3

// isConflictError matches the two messages modernc.org/sqlite produces for a
// contended database; both warrant a retry. The driver exposes no typed error
// for them.
func isConflictError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// Transfer atomically moves funds between accounts.
//
// Check order is fixed and observable: sender existence, recipient
// existence, PIN verification, fund sufficiency. The PIN is never checked
// for a nonexistent recipient.
func (s *SQLiteStore) Transfer(ctx context.Context, from, to string, amount float64, pin string) (string, error) {
	if from == to {
		return "", ErrSameAccount
	}
	if amount <= 0 {
		return "", fmt.Errorf("invalid transfer amount: %v", amount)
	}

	var ref string
	var err error
	for attempt := 0; attempt < transferRetries; attempt++ {
		ref, err = s.transferOnce(ctx, from, to, amount, pin)
		if err == nil || !isConflictError(err) {
			return ref, err
		}
		// Exponential backoff before retrying a busy database.
		time.Sleep(time.Duration(1<<attempt) * 50 * time.Millisecond)
	}
	return "", err
}

func (s *SQLiteStore) transferOnce(ctx context.Context, from, to string, amount float64, pin string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transfer: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var balance float64
	var pinHash []byte
	err = tx.QueryRowContext(ctx,
		`SELECT balance, pin_hash FROM accounts WHERE account_number = ?`, from).Scan(&balance, &pinHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query sender: %w", err)
	}

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM accounts WHERE account_number = ?`, to).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrRecipientNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query recipient: %w", err)
	}

	if bcrypt.CompareHashAndPassword(pinHash, []byte(pin)) != nil {
		return "", ErrInvalidPIN
	}

	if balance < amount {
		return "", ErrInsufficientFunds
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance - ? WHERE account_number = ?`, amount, from); err != nil {
		return "", fmt.Errorf("debit sender: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + ? WHERE account_number = ?`, amount, to); err != nil {
		return "", fmt.Errorf("credit recipient: %w", err)
	}

	ref := uuid.NewString()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO transactions(reference, from_account, to_account, amount, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		ref, from, to, amount, time.Now().Unix()); err != nil {
		return "", fmt.Errorf("record transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transfer: %w", err)
	}
	return ref, nil
}

// BlockCard marks all cards on the account as blocked.
func (s *SQLiteStore) BlockCard(ctx context.Context, accountNumber string) (int, error) {
	if _, err := s.GetAccount(ctx, accountNumber); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE cards SET status = ? WHERE account_number = ? AND status != ?`,
		domain.CardStatusBlocked, accountNumber, domain.CardStatusBlocked)
	if err != nil {
		return 0, fmt.Errorf("block cards: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// GetTransactions returns recent transactions for the account, newest first.
func (s *SQLiteStore) GetTransactions(ctx context.Context, accountNumber string, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, reference, from_account, to_account, amount, created_at
		FROM transactions
		WHERE from_account = ? OR to_account = ?
		ORDER BY id DESC LIMIT ?`, accountNumber, accountNumber, limit)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []*domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.Reference, &t.FromAccount, &t.ToAccount, &t.Amount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		t.Timestamp = time.Unix(createdAt, 0)
		txs = append(txs, &t)
	}
	return txs, rows.Err()
}

// GetCards returns the cards attached to an account.
func (s *SQLiteStore) GetCards(ctx context.Context, accountNumber string) ([]*domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT card_id, account_number, card_type, last_four, status, created_at
		FROM cards WHERE account_number = ? ORDER BY card_id`, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []*domain.Card
	for rows.Next() {
		var c domain.Card
		var lastFour sql.NullString
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.AccountNumber, &c.CardType, &lastFour, &c.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan card row: %w", err)
		}
		c.LastFour = lastFour.String
		c.CreatedAt = time.Unix(createdAt, 0)
		cards = append(cards, &c)
	}
	return cards, rows.Err()
}

// AddCard attaches a card to an account.
func (s *SQLiteStore) AddCard(ctx context.Context, accountNumber, cardType, lastFour string) error {
	if _, err := s.GetAccount(ctx, accountNumber); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards(account_number, card_type, last_four, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		accountNumber, cardType, lastFour, domain.CardStatusActive, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

// GetLoans returns the loans attached to an account.
func (s *SQLiteStore) GetLoans(ctx context.Context, accountNumber string) ([]*domain.Loan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT loan_id, account_number, loan_type, principal_amount, interest_rate,
		       tenure_months, monthly_emi, remaining_amount, status, created_at
		FROM loans WHERE account_number = ? ORDER BY loan_id`, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var loans []*domain.Loan
	for rows.Next() {
		var l domain.Loan
		var createdAt int64
		if err := rows.Scan(&l.ID, &l.AccountNumber, &l.LoanType, &l.PrincipalAmount, &l.InterestRate,
			&l.TenureMonths, &l.MonthlyEMI, &l.RemainingAmount, &l.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan loan row: %w", err)
		}
		l.CreatedAt = time.Unix(createdAt, 0)
		loans = append(loans, &l)
	}
	return loans, rows.Err()
}
