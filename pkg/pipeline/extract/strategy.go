package extract

import "context"

// Decision names the extraction route chosen for a batch. The selector
// produces one and the extractor's dispatch switch consumes it; no other
// code path starts an extraction.
type Decision int

const (
	DecisionDirect Decision = iota
	DecisionOCR
	DecisionAIVision
	DecisionFail
)

func (d Decision) String() string {
	switch d {
	case DecisionDirect:
		return "DIRECT"
	case DecisionOCR:
		return "OCR"
	case DecisionAIVision:
		return "AI_VISION"
	default:
		return "FAIL"
	}
}

// Request identifies the page range of an uploaded document to extract.
type Request struct {
	SessionId string
	PDFPath   string
	StartPage int
	EndPage   int
}

// Strategy turns a page range of a document into plain text.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, req Request) (string, error)
}

// minDirectChars is the smallest embedded-text yield accepted from the
// direct route. Anything shorter means the document is scanned or the text
// layer is junk, so the page range goes to OCR instead.
const minDirectChars = 100
