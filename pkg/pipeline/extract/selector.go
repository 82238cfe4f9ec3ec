package extract

import "context"

// Preference names the non-direct route tried first when the embedded text
// layer comes up short.
type Preference int

const (
	PreferOCR Preference = iota
	PreferAIVision
)

// ParsePreference maps a configured mode name to a Preference. Anything
// other than "ai" means OCR-first.
func ParsePreference(mode string) Preference {
	if mode == "ai" {
		return PreferAIVision
	}
	return PreferOCR
}

// Selection is the selector's verdict for one page range, together with
// the direct-text probe so the dispatcher never extracts the same text
// twice.
type Selection struct {
	Decision  Decision
	ProbeText string
}

// Selector decides which route a page range takes: accept the embedded
// text layer when it yields enough characters, otherwise take the
// configured non-direct route, with the other one as the reserve.
type Selector struct {
	direct    *DirectStrategy
	hasOCR    bool
	hasVision bool
	prefer    Preference
}

func NewSelector(direct *DirectStrategy, hasOCR, hasVision bool, prefer Preference) *Selector {
	return &Selector{direct: direct, hasOCR: hasOCR, hasVision: hasVision, prefer: prefer}
}

func (s *Selector) Select(ctx context.Context, req Request) Selection {
	text, err := s.direct.Extract(ctx, req)
	if err == nil && len(text) >= minDirectChars {
		return Selection{Decision: DecisionDirect, ProbeText: text}
	}

	if s.prefer == PreferAIVision && s.hasVision {
		return Selection{Decision: DecisionAIVision}
	}
	if s.hasOCR {
		return Selection{Decision: DecisionOCR}
	}
	if s.hasVision {
		return Selection{Decision: DecisionAIVision}
	}
	return Selection{Decision: DecisionFail}
}
