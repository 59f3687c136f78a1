package domain

import (
	"time"
)

// maxHistory bounds the per-session turn history. The history is diagnostic
// only; no engine decision depends on it.
const maxHistory = 50

// Turn records one user/bot exchange in a session.
type Turn struct {
	UserText   string
	BotText    string
	Intent     Intent
	Confidence float64
	Timestamp  time.Time
}

// DialogueContext holds per-session dialogue state. It is owned exclusively
// by the session store; callers mutate it only while holding the session's
// lock.
type DialogueContext struct {
	SessionID    string
	ActiveIntent Intent
	Slots        map[string]string
	History      []Turn
	LastActive   time.Time
}

// NewDialogueContext returns an empty context for the session.
func NewDialogueContext(sessionID string) *DialogueContext {
	return &DialogueContext{
		SessionID:  sessionID,
		Slots:      make(map[string]string),
		LastActive: time.Now(),
	}
}

// Reset clears the active intent and all slots. History survives a reset so
// a completed action remains visible in the transcript. Resetting twice is
// equivalent to resetting once.
func (c *DialogueContext) Reset() {
	c.ActiveIntent = IntentNone
	c.Slots = make(map[string]string)
}

// Slot returns the slot value, or "" when unset.
func (c *DialogueContext) Slot(name string) string {
	return c.Slots[name]
}

// SetSlot stores a validated slot value. Writing to_account or amount
// invalidates any previously captured transaction PIN: a PIN only authorizes
// the exact (to_account, amount) pair present when it was entered.
func (c *DialogueContext) SetSlot(name, value string) {
	if name == SlotToAccount || name == SlotAmount {
		if c.Slots[name] != value {
			delete(c.Slots, SlotTransactionPIN)
		}
	}
	c.Slots[name] = value
}

// ClearSlot removes a slot value.
func (c *DialogueContext) ClearSlot(name string) {
	delete(c.Slots, name)
}

// MissingSlot returns the first required slot (in strict order) that has no
// value, or "" when the intent is ready to execute.
func (c *DialogueContext) MissingSlot() string {
	for _, s := range c.ActiveIntent.RequiredSlots() {
		if c.Slots[s] == "" {
			return s
		}
	}
	return ""
}

// AppendTurn records a completed exchange, trimming old turns past the cap.
func (c *DialogueContext) AppendTurn(t Turn) {
	c.History = append(c.History, t)
	if len(c.History) > maxHistory {
		c.History = c.History[len(c.History)-maxHistory:]
	}
}
