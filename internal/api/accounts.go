package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rsharan/bankbot/internal/domain"
	"github.com/rsharan/bankbot/internal/nlu"
	"github.com/rsharan/bankbot/internal/store"
)

const defaultTransactionLimit = 20

// AccountHandler handles account management endpoints.
type AccountHandler struct {
	*Handler
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(base *Handler) *AccountHandler {
	return &AccountHandler{Handler: base}
}

// RegisterRoutes registers account routes.
func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/accounts", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Route("/{accountNumber}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Get("/transactions", h.Transactions)
			r.Get("/cards", h.Cards)
			r.Post("/cards", h.AddCard)
			r.Get("/loans", h.Loans)
		})
	})
}

// CreateAccountRequest is the request body for POST /api/accounts.
type CreateAccountRequest struct {
	AccountNumber string  `json:"account_number"`
	HolderName    string  `json:"holder_name"`
	AccountType   string  `json:"account_type"`
	Balance       float64 `json:"balance"`
	PIN           string  `json:"pin"`
}

// Create opens a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !nlu.ValidAccountNumber(req.AccountNumber) {
		Error(w, http.StatusBadRequest, "account_number must be 4-6 digits")
		return
	}
	if !nlu.ValidPIN(req.PIN) {
		Error(w, http.StatusBadRequest, "pin must be exactly 4 digits")
		return
	}
	if req.HolderName == "" {
		Error(w, http.StatusBadRequest, "holder_name is required")
		return
	}
	if req.Balance < 0 {
		Error(w, http.StatusBadRequest, "balance cannot be negative")
		return
	}
	if req.AccountType == "" {
		req.AccountType = "Savings"
	}

	acct := &domain.Account{
		AccountNumber: req.AccountNumber,
		HolderName:    req.HolderName,
		AccountType:   req.AccountType,
		Balance:       req.Balance,
		CreatedAt:     time.Now(),
	}
	if err := h.repo.CreateAccount(r.Context(), acct, req.PIN); err != nil {
		if errors.Is(err, store.ErrAccountExists) {
			Error(w, http.StatusConflict, "account already exists")
			return
		}
		slog.Error("Failed to create account", "error", err, "account", req.AccountNumber)
		Error(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	slog.Info("Account created", "account", acct.AccountNumber)
	JSON(w, http.StatusCreated, acct)
}

// List returns all accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.repo.ListAccounts(r.Context())
	if err != nil {
		slog.Error("Failed to list accounts", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"accounts": accounts})
}

// Get returns a single account.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")

	acct, err := h.repo.GetAccount(r.Context(), accountNumber)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			Error(w, http.StatusNotFound, "account not found")
			return
		}
		slog.Error("Failed to get account", "error", err, "account", accountNumber)
		Error(w, http.StatusInternalServerError, "failed to get account")
		return
	}
	JSON(w, http.StatusOK, acct)
}

// Transactions returns recent transactions for an account, newest first.
func (h *AccountHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")

	txns, err := h.repo.GetTransactions(r.Context(), accountNumber, defaultTransactionLimit)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			Error(w, http.StatusNotFound, "account not found")
			return
		}
		slog.Error("Failed to get transactions", "error", err, "account", accountNumber)
		Error(w, http.StatusInternalServerError, "failed to get transactions")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"transactions": txns})
}

// Cards returns the cards attached to an account.
func (h *AccountHandler) Cards(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")

	cards, err := h.repo.GetCards(r.Context(), accountNumber)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			Error(w, http.StatusNotFound, "account not found")
			return
		}
		slog.Error("Failed to get cards", "error", err, "account", accountNumber)
		Error(w, http.StatusInternalServerError, "failed to get cards")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"cards": cards})
}

// AddCardRequest is the request body for POST /api/accounts/{n}/cards.
type AddCardRequest struct {
	CardType string `json:"card_type"`
	LastFour string `json:"last_four"`
}

// AddCard attaches a card to an account.
func (h *AccountHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")

	var req AddCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CardType == "" {
		req.CardType = "Debit"
	}
	if len(req.LastFour) != 4 {
		Error(w, http.StatusBadRequest, "last_four must be 4 digits")
		return
	}

	if err := h.repo.AddCard(r.Context(), accountNumber, req.CardType, req.LastFour); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			Error(w, http.StatusNotFound, "account not found")
			return
		}
		slog.Error("Failed to add card", "error", err, "account", accountNumber)
		Error(w, http.StatusInternalServerError, "failed to add card")
		return
	}

	JSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// Loans returns the loans attached to an account.
func (h *AccountHandler) Loans(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")

	loans, err := h.repo.GetLoans(r.Context(), accountNumber)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			Error(w, http.StatusNotFound, "account not found")
			return
		}
		slog.Error("Failed to get loans", "error", err, "account", accountNumber)
		Error(w, http.StatusInternalServerError, "failed to get loans")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"loans": loans})
}
