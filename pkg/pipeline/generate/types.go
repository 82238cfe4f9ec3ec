package generate

// DocumentType classifies what the uploaded material already contains,
// decided once per session from the first non-empty batch.
type DocumentType string

const (
	DocTypeContainsQuestions DocumentType = "CONTAINS_QUESTIONS"
	DocTypeStudyNotes        DocumentType = "STUDY_NOTES"
	DocTypeMixed             DocumentType = "MIXED"
)

// Question source markers.
const (
	SourceExtracted = "extracted"
	SourceGenerated = "generated"
	SourceFallback  = "fallback"
)

// Question is the canonical multiple-choice representation: an ordered
// option slice plus the index of the correct one. Letter-keyed maps and
// list-of-dict shapes from model output are normalized into this at the
// generation boundary and never travel further.
type Question struct {
	Text         string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
	Difficulty   string   `json:"difficulty"`
	Topic        string   `json:"topic"`
	Source       string   `json:"source"`
}

type Mnemonic struct {
	Topic       string   `json:"topic"`
	Text        string   `json:"mnemonic"`
	Explanation string   `json:"explanation"`
	KeyTerms    []string `json:"key_terms"`
}

// BatchContent is the per-batch generation result, consumed exactly once
// by the aggregator.
type BatchContent struct {
	BatchId     string
	Questions   []Question
	Mnemonics   []Mnemonic
	CheatPoints []string
	KeyConcepts []string
}
