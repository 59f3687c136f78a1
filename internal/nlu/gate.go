// Package nlu implements the banking NLU pipeline: the domain gate, the
// entity extractor, and the two-stage intent resolver.
package nlu

import (
	"strings"

	"github.com/rsharan/bankbot/internal/domain"
)

// Domain classifies an utterance as in or out of the banking task set.
type Domain string

const (
	// DomainBanking routes to the NLU pipeline and dialogue engine.
	DomainBanking Domain = "banking"
	// DomainNonBanking routes to the open-domain responder.
	DomainNonBanking Domain = "non_banking"
	// DomainUnknown means no classification could be made (blank input).
	DomainUnknown Domain = "unknown"
)

// Banking keywords that must be handled by the dialogue engine.
var bankingKeywords = []string{
	"balance", "check",
	"transfer", "send", "pay", "money",
	"block", "card", "unblock", "debit", "credit",
	"atm", "branch", "nearest", "location", "address",
	"loan", "borrow", "interest", "rate", "mortgage",
	"account", "transaction", "history",
}

// Non-banking keywords that route to the open-domain responder.
var nonBankingKeywords = []string{
	"hi", "hello", "hey", "good morning", "good afternoon",
	"python", "java", "javascript", "c programming", "machine learning",
	"deep learning", "artificial intelligence", "ai", "data scientist",
	"data science", "science", "algorithm", "database", "web", "api",
}

// "transfer X" phrases where X is not money. These must win over the generic
// "transfer" banking keyword.
var nonBankingTransferPhrases = []string{
	"transfer llm", "transfer model", "transfer file", "transfer code",
	"transfer data", "transfer function", "transfer learning",
	"transfer knowledge", "transfer information", "transfer document",
	"transfer project",
}

// General-knowledge question openers. These win over banking keywords so
// that "what is a loan" is answered as open discourse, not as the loan
// action.
var generalKnowledgePatterns = []string{
	"what is", "what are", "how do", "how to", "how does",
	"explain", "tell me about", "who is", "who are",
	"where is", "when is", "why is", "what does",
}

// IsNumericOnly reports whether the text is purely numeric after stripping
// decimal points, thousands separators and dashes. Numeric-only input is a
// slot value, never a topic.
func IsNumericOnly(text string) bool {
	s := strings.TrimSpace(text)
	if s == "" {
		return false
	}
	r := strings.NewReplacer(".", "", ",", "", "-", "")
	s = r.Replace(s)
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// IsGreeting reports whether the text is a bare greeting.
func IsGreeting(text string) bool {
	s := strings.TrimRight(strings.TrimSpace(strings.ToLower(text)), "!?.")
	for _, g := range []string{"hi", "hello", "hey"} {
		if s == g || strings.HasPrefix(s, g+" ") {
			return true
		}
	}
	return false
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// Classify decides whether an utterance belongs to the banking domain.
// The precedence order is load-bearing:
//
//  1. numeric-only input is always banking (it fills a slot)
//  2. non-banking "transfer X" phrases beat the "transfer" keyword
//  3. general-knowledge question openers beat banking keywords
//  4. explicit banking keywords
//  5. explicit non-banking keywords
//  6. ambiguous input defaults to banking to preserve an in-progress
//     conversation
func Classify(text string) Domain {
	if strings.TrimSpace(text) == "" {
		return DomainUnknown
	}

	lower := strings.ToLower(strings.TrimSpace(text))

	if IsNumericOnly(text) {
		return DomainBanking
	}
	if containsAny(lower, nonBankingTransferPhrases) {
		return DomainNonBanking
	}
	if containsAny(lower, generalKnowledgePatterns) {
		return DomainNonBanking
	}
	if containsAny(lower, bankingKeywords) {
		return DomainBanking
	}
	if containsAny(lower, nonBankingKeywords) {
		return DomainNonBanking
	}
	return DomainBanking
}

// ShouldResetContext reports whether a domain switch must invalidate the
// active conversation. Only an active banking intent followed by a
// non-banking turn forces a reset; this keeps half-collected banking slots
// from leaking into an open-domain exchange.
func ShouldResetContext(d Domain, active domain.Intent) bool {
	return d == DomainNonBanking && active.IsBanking()
}
