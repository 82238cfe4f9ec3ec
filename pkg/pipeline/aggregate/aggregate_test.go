package aggregate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-studyprep-be/pkg/pipeline/generate"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func question(text, difficulty string) generate.Question {
	return generate.Question{
		Text:         text,
		Options:      []string{"A", "B", "C", "D"},
		CorrectIndex: 0,
		Difficulty:   difficulty,
		Source:       generate.SourceGenerated,
	}
}

func TestAggregateDeduplicatesQuestionsByNormalizedText(t *testing.T) {
	contents := []generate.BatchContent{
		{BatchId: "b1", Questions: []generate.Question{question("What is osmosis?", "easy")}},
		{BatchId: "b2", Questions: []generate.Question{question("  what is OSMOSIS?  ", "hard")}},
	}

	result := NewAggregator(nopLogger{}).Aggregate("Biology", contents)

	require.Len(t, result.Questions, 1)
	// first occurrence wins
	assert.Equal(t, "easy", result.Questions[0].Difficulty)
	assert.NotEmpty(t, result.Questions[0].Id)
}

func TestAggregateDeduplicatesMnemonicsByTopic(t *testing.T) {
	contents := []generate.BatchContent{
		{Mnemonics: []generate.Mnemonic{{Topic: "Krebs Cycle", Text: "first"}}},
		{Mnemonics: []generate.Mnemonic{{Topic: "krebs cycle", Text: "second"}, {Topic: "Glycolysis", Text: "third"}}},
	}

	result := NewAggregator(nopLogger{}).Aggregate("Biology", contents)

	require.Len(t, result.Mnemonics, 2)
	assert.Equal(t, "first", result.Mnemonics[0].Text)
}

func TestAggregateGroupsCheatPointsByConcept(t *testing.T) {
	contents := []generate.BatchContent{
		{CheatPoints: []string{
			"Mitochondria. Site of ATP synthesis.",
			"Mitochondria. Contains its own DNA.",
			"Nucleus. Holds the genome.",
		}},
	}

	result := NewAggregator(nopLogger{}).Aggregate("Biology", contents)

	require.Len(t, result.CheatSheets, 2)
	assert.Equal(t, "Mitochondria", result.CheatSheets[0].Title)
	assert.Len(t, result.CheatSheets[0].KeyPoints, 2)
	assert.Equal(t, "Nucleus", result.CheatSheets[1].Title)
}

func TestAggregateCapsSheetPointsAndFacts(t *testing.T) {
	var points []string
	for i := 0; i < 14; i++ {
		points = append(points, fmt.Sprintf("Anatomy. Fact number %d.", i))
	}

	result := NewAggregator(nopLogger{}).Aggregate("Med", []generate.BatchContent{{CheatPoints: points}})

	require.Len(t, result.CheatSheets, 1)
	assert.Len(t, result.CheatSheets[0].KeyPoints, sheetKeyPointCap)
	assert.Len(t, result.CheatSheets[0].HighYieldFacts, sheetFactCap)
}

func TestNoteSelectsImportantQuestionsAndFacts(t *testing.T) {
	var questions []generate.Question
	for i := 0; i < 8; i++ {
		questions = append(questions, question(fmt.Sprintf("Easy %d?", i), "easy"))
	}
	for i := 0; i < 14; i++ {
		questions = append(questions, question(fmt.Sprintf("Hard %d?", i), "hard"))
	}

	contents := []generate.BatchContent{{
		Questions:   questions,
		Mnemonics:   []generate.Mnemonic{{Topic: "T", Text: "M"}},
		CheatPoints: []string{"Physiology. The heart has four chambers."},
	}}

	result := NewAggregator(nopLogger{}).Aggregate("Med", contents)

	assert.Len(t, result.Note.ImportantQuestionIds, noteQuestionCap)
	assert.Len(t, result.Note.MnemonicIds, 1)
	assert.NotEmpty(t, result.Note.SummaryPoints)
	assert.Contains(t, result.Note.Content, "Med")
}

func TestMockTestBalancesDifficulties(t *testing.T) {
	var questions []generate.Question
	for i := 0; i < 30; i++ {
		questions = append(questions, question(fmt.Sprintf("Easy %d?", i), "easy"))
	}
	for i := 0; i < 5; i++ {
		questions = append(questions, question(fmt.Sprintf("Hard %d?", i), "hard"))
	}

	result := NewAggregator(nopLogger{}).Aggregate("Med", []generate.BatchContent{{Questions: questions}})

	require.NotNil(t, result.MockTest)
	assert.Len(t, result.MockTest.QuestionIds, mockTestQuestionCap)
	assert.Equal(t, mockTestQuestionCap*mockTestMinutesPerQn, result.MockTest.DurationMinutes)

	// all 5 hard questions drawn despite the easy surplus
	hardIds := map[string]bool{}
	for _, q := range result.Questions {
		if q.Difficulty == "hard" {
			hardIds[q.Id] = true
		}
	}
	drawn := 0
	for _, id := range result.MockTest.QuestionIds {
		if hardIds[id] {
			drawn++
		}
	}
	assert.Equal(t, 5, drawn)
}

func TestAggregateEmptyInputYieldsValidNote(t *testing.T) {
	result := NewAggregator(nopLogger{}).Aggregate("Empty", nil)

	assert.Empty(t, result.Questions)
	assert.Empty(t, result.Mnemonics)
	assert.Empty(t, result.CheatSheets)
	assert.Nil(t, result.MockTest)
	assert.NotEmpty(t, result.Note.Id)
	assert.NotEmpty(t, result.Note.Content)
}

func TestAggregateSkipsMalformedEntries(t *testing.T) {
	contents := []generate.BatchContent{
		{Questions: []generate.Question{{Text: "   "}, {Text: "No options"}}},
		{Mnemonics: []generate.Mnemonic{{Topic: "", Text: "orphan"}}},
		{CheatPoints: []string{"", "  "}},
		{Questions: []generate.Question{question("Valid?", "medium")}},
	}

	result := NewAggregator(nopLogger{}).Aggregate("S", contents)

	require.Len(t, result.Questions, 1)
	assert.Equal(t, "Valid?", result.Questions[0].Text)
	assert.Empty(t, result.Mnemonics)
	assert.Empty(t, result.CheatSheets)
}
