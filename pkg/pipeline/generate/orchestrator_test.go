package generate

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-studyprep-be/pkg/llm"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// fakeProvider answers by matching distinctive prompt fragments, recording
// every prompt it saw.
type fakeProvider struct {
	responses map[string]string
	fallback  string
	prompts   []string
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", nil
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	for fragment, response := range f.responses {
		if strings.Contains(prompt, fragment) {
			return response, nil
		}
	}
	return f.fallback, nil
}

const questionArray = `[
  {"question": "What is the powerhouse of the cell?",
   "options": ["Nucleus", "Mitochondria", "Ribosome", "Golgi body"],
   "correct_index": 1, "explanation": "ATP synthesis happens there.",
   "difficulty": "easy", "topic": "Cell biology"}
]`

func newTestOrchestrator(p llm.LLMProvider) *Orchestrator {
	return NewOrchestrator(p, nopLogger{})
}

func TestClassifyDocumentVerdicts(t *testing.T) {
	cases := map[string]DocumentType{
		"CONTAINS_QUESTIONS":      DocTypeContainsQuestions,
		"STUDY_NOTES":             DocTypeStudyNotes,
		"MIXED":                   DocTypeMixed,
		"The category is: MIXED.": DocTypeMixed,
		"something else entirely": DocTypeStudyNotes,
	}
	for verdict, want := range cases {
		p := &fakeProvider{fallback: verdict}
		got, err := newTestOrchestrator(p).ClassifyDocument(context.Background(), "sample text")
		require.NoError(t, err)
		assert.Equal(t, want, got, "verdict %q", verdict)
	}
}

func TestClassifyDocumentTruncatesSample(t *testing.T) {
	p := &fakeProvider{fallback: "STUDY_NOTES"}
	long := strings.Repeat("x", classifySampleChars*3)

	_, err := newTestOrchestrator(p).ClassifyDocument(context.Background(), long)
	require.NoError(t, err)
	require.Len(t, p.prompts, 1)
	assert.Less(t, len(p.prompts[0]), classifySampleChars+1000)
}

func TestGenerateStudyNotesBatch(t *testing.T) {
	p := &fakeProvider{responses: map[string]string{
		"Mix difficulties":        "```json\n" + questionArray + "\n```",
		"memorable mnemonics":     `[{"topic": "Krebs cycle", "mnemonic": "Citrate Is Krebs' Starting Substrate", "explanation": "First letters track the intermediates.", "key_terms": ["citrate", "isocitrate"]}]`,
		"cheat-sheet key points":  `["Mitochondria. Site of ATP synthesis.", "Nucleus. Holds the genome."]`,
		"most important concepts": `["mitochondria", "oxidative phosphorylation"]`,
	}}

	content := newTestOrchestrator(p).Generate(context.Background(), "batch-1", "lecture text", DocTypeStudyNotes)

	require.Len(t, content.Questions, 1)
	assert.Equal(t, "What is the powerhouse of the cell?", content.Questions[0].Text)
	assert.Equal(t, 1, content.Questions[0].CorrectIndex)
	assert.Equal(t, SourceGenerated, content.Questions[0].Source)
	require.Len(t, content.Mnemonics, 1)
	assert.Equal(t, "Krebs cycle", content.Mnemonics[0].Topic)
	assert.Len(t, content.CheatPoints, 2)
	assert.Len(t, content.KeyConcepts, 2)
	assert.Equal(t, "batch-1", content.BatchId)
}

func TestGenerateContainsQuestionsUsesExtraction(t *testing.T) {
	p := &fakeProvider{responses: map[string]string{
		"Extract every": questionArray,
	}, fallback: "[]"}

	content := newTestOrchestrator(p).Generate(context.Background(), "batch-1", "1. What is...?", DocTypeContainsQuestions)

	require.Len(t, content.Questions, 1)
	assert.Equal(t, SourceExtracted, content.Questions[0].Source)
}

func TestGenerateMixedSupplementsShortExtraction(t *testing.T) {
	p := &fakeProvider{responses: map[string]string{
		"Extract every":    questionArray,
		"Mix difficulties": questionArray,
	}, fallback: "[]"}

	content := newTestOrchestrator(p).Generate(context.Background(), "batch-1", "mixed material", DocTypeMixed)

	require.Len(t, content.Questions, 2)
	assert.Equal(t, SourceExtracted, content.Questions[0].Source)
	assert.Equal(t, SourceGenerated, content.Questions[1].Source)
}

func TestGenerateEmitsPlaceholderOnGarbage(t *testing.T) {
	p := &fakeProvider{fallback: "I'm sorry, I cannot produce that."}

	content := newTestOrchestrator(p).Generate(context.Background(), "batch-1", "text", DocTypeStudyNotes)

	require.Len(t, content.Questions, 1)
	assert.Equal(t, SourceFallback, content.Questions[0].Source)
	assert.Empty(t, content.Mnemonics)
	assert.Empty(t, content.CheatPoints)
}

func TestArrayCallRetriesOnceWithStrictInstruction(t *testing.T) {
	p := &fakeProvider{fallback: "not json at all"}
	o := newTestOrchestrator(p)

	var out []string
	err := o.arrayCall(context.Background(), "list things", "items", &out)
	require.Error(t, err)
	require.Len(t, p.prompts, 2)
	assert.Contains(t, p.prompts[1], "Return ONLY the JSON array")
}

func TestNormalizeLetterKeyedOptions(t *testing.T) {
	raw := map[string]interface{}{
		"question":       "Which organ filters blood?",
		"options":        map[string]interface{}{"A": "Liver", "B": "Kidney", "C": "Spleen", "D": "Heart"},
		"correct_answer": "B",
		"difficulty":     "extreme",
	}

	q, ok := normalizeQuestion(raw, SourceExtracted)
	require.True(t, ok)
	assert.Equal(t, []string{"Liver", "Kidney", "Spleen", "Heart"}, q.Options)
	assert.Equal(t, 1, q.CorrectIndex)
	assert.Equal(t, "medium", q.Difficulty)
}

func TestNormalizeCorrectByOptionText(t *testing.T) {
	raw := map[string]interface{}{
		"question": "Pick one.",
		"options":  []interface{}{"Alpha", "Beta", "Gamma", "Delta"},
		"answer":   "gamma",
	}

	q, ok := normalizeQuestion(raw, SourceGenerated)
	require.True(t, ok)
	assert.Equal(t, 2, q.CorrectIndex)
}

func TestNormalizeDropsUnresolvableQuestions(t *testing.T) {
	_, ok := normalizeQuestion(map[string]interface{}{
		"question": "Too few options.",
		"options":  []interface{}{"Yes", "No"},
		"answer":   "Yes",
	}, SourceGenerated)
	assert.False(t, ok)

	_, ok = normalizeQuestion(map[string]interface{}{
		"options": []interface{}{"A", "B", "C", "D"},
		"answer":  "A",
	}, SourceGenerated)
	assert.False(t, ok)
}
