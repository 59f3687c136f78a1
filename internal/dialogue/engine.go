package dialogue

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rsharan/bankbot/internal/domain"
	"github.com/rsharan/bankbot/internal/nlu"
	"github.com/rsharan/bankbot/internal/store"
)

// intentSwitchConfidence is the minimum confidence for a newly resolved
// intent to displace an active one mid-conversation.
const intentSwitchConfidence = 0.8

// Backend is the banking action executor. The engine's terminal actions run
// through it; its sentinel errors drive the outcome mapping.
type Backend interface {
	GetBalance(ctx context.Context, accountNumber string) (float64, error)
	Transfer(ctx context.Context, from, to string, amount float64, pin string) (string, error)
	BlockCard(ctx context.Context, accountNumber string) (int, error)
}

// Resolver produces ranked intent predictions for an utterance.
type Resolver interface {
	Resolve(text string, topN int) []domain.Prediction
}

// Responder generates replies for non-banking utterances.
type Responder interface {
	Generate(ctx context.Context, sessionID, text string) (string, error)
}

// Engine is the dialogue state machine. One engine serves all sessions; all
// per-session state lives in the session store.
type Engine struct {
	sessions  *SessionStore
	resolver  Resolver
	backend   Backend
	responder Responder
	turnLog   *TurnLogger
}

// NewEngine creates a dialogue engine. responder and turnLog may be nil;
// a nil responder means every non-banking turn gets the capability fallback.
func NewEngine(sessions *SessionStore, resolver Resolver, backend Backend, responder Responder, turnLog *TurnLogger) *Engine {
	return &Engine{
		sessions:  sessions,
		resolver:  resolver,
		backend:   backend,
		responder: responder,
		turnLog:   turnLog,
	}
}

// reToReceiver matches an explicit "to <account>" phrase, which marks the
// number as the receiver even when it is the only account in the turn.
var reToReceiver = regexp.MustCompile(`(?i)\bto\s*(\d{4,6})\b`)

// HandleTurn processes one user utterance for a session and returns the
// reply. Turns for the same session serialize; a panic anywhere in the turn
// resets the context and yields a generic error instead of escaping.
func (e *Engine) HandleTurn(ctx context.Context, sessionID, text, selectedAccount string) (reply string) {
	dc, release := e.sessions.Acquire(sessionID)
	defer release()

	var dmn nlu.Domain
	var resolved domain.Prediction

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Turn handler panic", "session_id", sessionID, "panic", r)
			dc.Reset()
			reply = msgInternalError
		}
		dc.AppendTurn(domain.Turn{
			UserText:   text,
			BotText:    reply,
			Intent:     dc.ActiveIntent,
			Confidence: resolved.Confidence,
			Timestamp:  time.Now(),
		})
		e.logTurn(sessionID, text, dmn, resolved, reply)
	}()

	text = strings.TrimSpace(text)
	if text == "" {
		return msgEmptyInput
	}

	dmn = nlu.Classify(text)
	if nlu.ShouldResetContext(dmn, dc.ActiveIntent) {
		dc.Reset()
	}

	if dmn == nlu.DomainNonBanking {
		// A bare greeting gets the fixed welcome; everything else goes to the
		// open-domain responder.
		if nlu.IsGreeting(text) {
			return msgGreeting
		}
		return e.generateOpenResponse(ctx, sessionID, text)
	}

	preds := e.resolver.Resolve(text, 3)
	if len(preds) > 0 {
		resolved = preds[0]
	} else {
		resolved = domain.Prediction{Intent: domain.IntentFallback}
	}
	numericOnly := nlu.IsNumericOnly(text)

	// A confident, different intent mid-conversation restarts the dialogue;
	// anything less keeps the in-progress flow to avoid intent bleed-through.
	if !numericOnly && dc.ActiveIntent != domain.IntentNone &&
		resolved.Intent != dc.ActiveIntent && resolved.Confidence > intentSwitchConfidence {
		dc.Reset()
	}

	if dc.ActiveIntent == domain.IntentNone {
		if numericOnly {
			// A bare number with no intent is noise; ask instead of guessing.
			return msgMenu
		}
		dc.ActiveIntent = resolved.Intent
	}

	e.injectSelectedAccount(dc, selectedAccount)

	if !numericOnly {
		ents := nlu.Extract(text)
		if msg := e.fillSlots(dc, text, ents); msg != "" {
			return msg
		}
	} else if missing := dc.MissingSlot(); missing != "" {
		if msg := e.fillSlotFromNumeric(dc, missing, text); msg != "" {
			return msg
		}
	}

	if missing := dc.MissingSlot(); missing != "" {
		return promptFor(missing)
	}

	return e.execute(ctx, dc)
}

// injectSelectedAccount pre-fills the account slot from the client's account
// selection. Only single-account intents accept it; transfer slots must be
// collected explicitly in strict order.
func (e *Engine) injectSelectedAccount(dc *domain.DialogueContext, selected string) {
	if selected == "" || !nlu.ValidAccountNumber(selected) {
		return
	}
	switch dc.ActiveIntent {
	case domain.IntentCheckBalance, domain.IntentBlockCard:
		if dc.Slot(domain.SlotAccountNumber) == "" {
			dc.SetSlot(domain.SlotAccountNumber, selected)
		}
	}
}

// fillSlots maps extracted entities onto the active intent's slots for a
// mixed-text turn. Returns a non-empty user-facing message only when the
// turn must stop early (same-account rejection).
func (e *Engine) fillSlots(dc *domain.DialogueContext, text string, ents nlu.Entities) string {
	switch dc.ActiveIntent {
	case domain.IntentCheckBalance, domain.IntentBlockCard:
		if len(ents.Accounts) > 0 && dc.Slot(domain.SlotAccountNumber) == "" {
			if nlu.ValidAccountNumber(ents.Accounts[0]) {
				dc.SetSlot(domain.SlotAccountNumber, ents.Accounts[0])
			}
		}
		return ""

	case domain.IntentTransferMoney:
		return e.fillTransferSlots(dc, text, ents)

	default:
		return ""
	}
}

func (e *Engine) fillTransferSlots(dc *domain.DialogueContext, text string, ents nlu.Entities) string {
	accs := ents.Accounts

	switch {
	case len(accs) >= 2:
		// Two accounts: strict positional order, sender first.
		if dc.Slot(domain.SlotFromAccount) == "" && nlu.ValidAccountNumber(accs[0]) {
			dc.SetSlot(domain.SlotFromAccount, accs[0])
		}
		if dc.Slot(domain.SlotToAccount) == "" && nlu.ValidAccountNumber(accs[1]) {
			dc.SetSlot(domain.SlotToAccount, accs[1])
		}
	case len(accs) == 1 && nlu.ValidAccountNumber(accs[0]):
		// A single account preceded by "to" names the receiver; otherwise it
		// can only be the sender — never both.
		if m := reToReceiver.FindStringSubmatch(text); m != nil && m[1] == accs[0] {
			if dc.Slot(domain.SlotToAccount) == "" {
				dc.SetSlot(domain.SlotToAccount, accs[0])
			}
		} else if dc.Slot(domain.SlotFromAccount) == "" {
			dc.SetSlot(domain.SlotFromAccount, accs[0])
		}
	}

	if len(ents.Amounts) > 0 && nlu.ValidAmount(ents.Amounts[0]) {
		dc.SetSlot(domain.SlotAmount, formatAmount(ents.Amounts[0]))
	}

	// Explicit "X to Y": the last mentioned account is the receiver, even if
	// one is already set — but only when it actually changes the value, so a
	// repeated mention cannot spuriously invalidate the PIN.
	if strings.Contains(strings.ToLower(text), " to ") && len(accs) > 0 {
		last := accs[len(accs)-1]
		if nlu.ValidAccountNumber(last) && dc.Slot(domain.SlotToAccount) != last {
			dc.SetSlot(domain.SlotToAccount, last)
		}
	}

	from, to := dc.Slot(domain.SlotFromAccount), dc.Slot(domain.SlotToAccount)
	if from != "" && to != "" && from == to {
		dc.ClearSlot(domain.SlotToAccount)
		dc.ClearSlot(domain.SlotTransactionPIN)
		return msgSameAccount
	}
	return ""
}

// fillSlotFromNumeric assigns a bare-number turn to the next required slot
// in strict order, after format validation. Returns a non-empty message on
// validation failure (no state change) or same-account rejection.
func (e *Engine) fillSlotFromNumeric(dc *domain.DialogueContext, slot, text string) string {
	value := strings.TrimSpace(text)

	switch slot {
	case domain.SlotFromAccount:
		if !nlu.ValidAccountNumber(value) {
			return msgInvalidAccountFormat
		}
		// The receiver may already be set ("transfer 100 to 1002" collects it
		// before the sender), so the sender turn needs the same guard.
		if dc.Slot(domain.SlotToAccount) == value {
			return msgSameAccount
		}
		dc.SetSlot(domain.SlotFromAccount, value)

	case domain.SlotAccountNumber:
		if !nlu.ValidAccountNumber(value) {
			return msgInvalidAccountFormat
		}
		dc.SetSlot(slot, value)

	case domain.SlotToAccount:
		if !nlu.ValidAccountNumber(value) {
			return msgInvalidAccountFormat
		}
		if dc.Slot(domain.SlotFromAccount) == value {
			return msgSameAccount
		}
		dc.SetSlot(domain.SlotToAccount, value)

	case domain.SlotAmount:
		amount, ok := nlu.ParseAmount(value)
		if !ok || !nlu.ValidAmount(amount) {
			return msgInvalidAmount
		}
		dc.SetSlot(domain.SlotAmount, formatAmount(amount))

	case domain.SlotTransactionPIN:
		if !nlu.ValidPIN(value) {
			return msgInvalidPINFormat
		}
		dc.SetSlot(domain.SlotTransactionPIN, value)
	}
	return ""
}

// execute runs the terminal action for a fully-slotted intent and maps the
// backend outcome onto the reply and the post-turn context state. Invalid
// PIN is the one recoverable terminal failure: only the PIN slot clears and
// the flow re-prompts; every other outcome resets the context.
func (e *Engine) execute(ctx context.Context, dc *domain.DialogueContext) string {
	switch dc.ActiveIntent {
	case domain.IntentCheckBalance:
		account := dc.Slot(domain.SlotAccountNumber)
		balance, err := e.backend.GetBalance(ctx, account)
		dc.Reset()
		switch {
		case errors.Is(err, store.ErrAccountNotFound):
			return msgAccountNotFound
		case err != nil:
			slog.Error("Balance lookup failed", "session_id", dc.SessionID, "error", err)
			return msgInternalError
		}
		return balanceMessage(balance)

	case domain.IntentTransferMoney:
		return e.executeTransfer(ctx, dc)

	case domain.IntentBlockCard:
		account := dc.Slot(domain.SlotAccountNumber)
		count, err := e.backend.BlockCard(ctx, account)
		dc.Reset()
		switch {
		case errors.Is(err, store.ErrAccountNotFound):
			return msgAccountNotFound
		case err != nil:
			slog.Error("Card block failed", "session_id", dc.SessionID, "error", err)
			return msgInternalError
		}
		return cardBlockedMessage(account, count)

	case domain.IntentLoanInfo:
		dc.Reset()
		return msgLoanInfo

	case domain.IntentFindATM:
		dc.Reset()
		return msgFindATM

	default:
		dc.Reset()
		return msgNotUnderstood
	}
}

func (e *Engine) executeTransfer(ctx context.Context, dc *domain.DialogueContext) string {
	from := dc.Slot(domain.SlotFromAccount)
	to := dc.Slot(domain.SlotToAccount)
	pin := dc.Slot(domain.SlotTransactionPIN)
	amount, ok := nlu.ParseAmount(dc.Slot(domain.SlotAmount))
	if !ok {
		dc.Reset()
		return msgInternalError
	}

	ref, err := e.backend.Transfer(ctx, from, to, amount, pin)
	switch {
	case errors.Is(err, store.ErrInvalidPIN):
		// Recoverable: keep every other slot, re-ask the PIN.
		dc.ClearSlot(domain.SlotTransactionPIN)
		return msgInvalidPIN
	case errors.Is(err, store.ErrAccountNotFound):
		dc.Reset()
		return msgAccountNotFound
	case errors.Is(err, store.ErrRecipientNotFound):
		dc.Reset()
		return msgRecipientNotFound
	case errors.Is(err, store.ErrInsufficientFunds):
		dc.Reset()
		return msgInsufficientFunds
	case errors.Is(err, store.ErrSameAccount):
		dc.ClearSlot(domain.SlotToAccount)
		dc.ClearSlot(domain.SlotTransactionPIN)
		return msgSameAccount
	case err != nil:
		slog.Error("Transfer failed", "session_id", dc.SessionID, "error", err)
		dc.Reset()
		return msgInternalError
	}

	dc.Reset()
	return transferSuccessMessage(amount, to, ref)
}

// generateOpenResponse delegates a non-banking turn to the external
// responder, substituting the fixed capability description on any failure.
func (e *Engine) generateOpenResponse(ctx context.Context, sessionID, text string) string {
	if e.responder == nil {
		return msgResponderFallback
	}
	resp, err := e.responder.Generate(ctx, sessionID, text)
	if err != nil || strings.TrimSpace(resp) == "" {
		if err != nil {
			slog.Warn("Responder unavailable, using fallback", "session_id", sessionID, "error", err)
		}
		return msgResponderFallback
	}
	return resp
}

func (e *Engine) logTurn(sessionID, text string, dmn nlu.Domain, resolved domain.Prediction, reply string) {
	if e.turnLog == nil {
		return
	}
	e.turnLog.Log(TurnEvent{
		SessionID:  sessionID,
		UserText:   text,
		Domain:     string(dmn),
		Intent:     string(resolved.Intent),
		Confidence: resolved.Confidence,
		Response:   reply,
	})
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
