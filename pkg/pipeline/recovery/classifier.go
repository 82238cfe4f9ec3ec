// Package recovery classifies pipeline failures and recommends what to do
// about them. Errors raised inside this codebase carry an explicit Kind tag;
// substring matching is the fallback for errors coming out of external
// libraries and remote APIs we don't control.
package recovery

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind is the closed set of failure categories attached at the throw site.
type Kind string

const (
	KindTransient Kind = "TRANSIENT" // network / timeout
	KindQuota     Kind = "QUOTA"     // rate limit, resource exhausted
	KindAuth      Kind = "AUTH"      // missing or invalid credentials
	KindSafety    Kind = "SAFETY"    // provider refused the content
	KindMalformed Kind = "MALFORMED" // AI returned unparsable structure
	KindOCR       Kind = "OCR"       // OCR tooling or recognition failure
	KindUnknown   Kind = "UNKNOWN"
)

// Action is the classifier's recommendation for a failure.
type Action string

const (
	ActionRetry          Action = "retry"
	ActionRetryLater     Action = "retry_later"
	ActionFallbackOCR    Action = "fallback_ocr"
	ActionFallbackAI     Action = "fallback_ai"
	ActionSkip           Action = "skip"
	ActionContactSupport Action = "contact_support"
)

// Error is a tagged pipeline error. Wrap foreign errors with Tag at the
// point where the category is still known.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Tag wraps err with an explicit failure kind.
func Tag(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Decision is what the caller acts on: a message safe to show users, a
// recovery recommendation and the raw detail for operator logs.
type Decision struct {
	UserMessage      string
	Action           Action
	TechnicalDetails string
	Backoff          time.Duration
}

// Classify maps an error to a recovery decision. The context string names
// the stage that failed (e.g. "ocr_extraction", "question_generation") and
// participates in the heuristics for untagged errors.
func Classify(err error, context string) Decision {
	if err == nil {
		return Decision{Action: ActionSkip, UserMessage: "No error"}
	}
	detail := fmt.Sprintf("[%s] %v", context, err)

	var tagged *Error
	if errors.As(err, &tagged) {
		return decisionForKind(tagged.Kind, detail)
	}
	return decisionForKind(inferKind(err, context), detail)
}

func decisionForKind(kind Kind, detail string) Decision {
	switch kind {
	case KindQuota:
		return Decision{
			UserMessage:      "The AI service is busy right now. Your session will resume automatically in a few minutes.",
			Action:           ActionRetryLater,
			TechnicalDetails: detail,
			Backoff:          60 * time.Second,
		}
	case KindAuth:
		return Decision{
			UserMessage:      "The service is misconfigured. Please contact support.",
			Action:           ActionContactSupport,
			TechnicalDetails: detail,
		}
	case KindSafety:
		return Decision{
			UserMessage:      "Part of the document was skipped by the content filter. Processing continues with the remaining content.",
			Action:           ActionSkip,
			TechnicalDetails: detail,
		}
	case KindTransient:
		return Decision{
			UserMessage:      "A network hiccup interrupted processing. Retrying.",
			Action:           ActionRetry,
			TechnicalDetails: detail,
			Backoff:          5 * time.Second,
		}
	case KindOCR:
		// Repeated OCR failures on the same malformed input never
		// self-resolve, so route around OCR instead of retrying it.
		return Decision{
			UserMessage:      "Text recognition struggled with this document. Switching to AI-based reading.",
			Action:           ActionFallbackAI,
			TechnicalDetails: detail,
		}
	case KindMalformed:
		return Decision{
			UserMessage:      "The AI response needed cleanup. Retrying with stricter instructions.",
			Action:           ActionRetry,
			TechnicalDetails: detail,
		}
	default:
		return Decision{
			UserMessage:      "Something went wrong while processing. Retrying.",
			Action:           ActionRetry,
			TechnicalDetails: detail,
			Backoff:          5 * time.Second,
		}
	}
}

// inferKind applies substring heuristics to errors that were never tagged.
func inferKind(err error, context string) Kind {
	msg := strings.ToLower(err.Error())

	if strings.Contains(context, "ocr") {
		return KindOCR
	}
	switch {
	case containsAny(msg, "rate limit", "quota", "429", "resource exhausted", "too many requests"):
		return KindQuota
	case containsAny(msg, "401", "403", "unauthorized", "permission denied", "api key", "credential", "forbidden"):
		return KindAuth
	case containsAny(msg, "safety", "blocked", "prohibited content", "harm"):
		return KindSafety
	case containsAny(msg, "timeout", "deadline exceeded", "connection refused", "connection reset", "no such host", "network", "eof", "broken pipe", "503", "502"):
		return KindTransient
	default:
		return KindUnknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ShouldRetry centralizes the attempt-count policy so call sites never
// hand-roll their own loop bounds. Fatal and skip actions never retry.
func ShouldRetry(action Action, attempt, maxAttempts int) bool {
	switch action {
	case ActionRetry, ActionRetryLater:
		return attempt < maxAttempts
	default:
		return false
	}
}
