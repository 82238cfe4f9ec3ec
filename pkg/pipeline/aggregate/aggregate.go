// Package aggregate merges per-batch generation output into deduplicated
// session-level collections and compiles the final note and mock test.
package aggregate

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ai-studyprep-be/internal/pkg/logger"
	"ai-studyprep-be/pkg/pipeline/generate"
)

const (
	conceptKeyMaxChars   = 50
	sheetKeyPointCap     = 10
	sheetFactCap         = 5
	noteQuestionCap      = 10
	noteFactsPerSheet    = 3
	noteFactTotal        = 15
	mockTestQuestionCap  = 20
	mockTestMinutesPerQn = 2
)

// Question is a session-scoped question with its assigned identifier.
type Question struct {
	Id string
	generate.Question
}

type Mnemonic struct {
	Id string
	generate.Mnemonic
}

type CheatSheet struct {
	Id             string
	Title          string
	KeyPoints      []string
	HighYieldFacts []string
	QuickReference map[string]string
}

// Note is a cross-reference document over the other artifacts, not
// independently generated content.
type Note struct {
	Id                   string
	Title                string
	Content              string
	ImportantQuestionIds []string
	MnemonicIds          []string
	SummaryPoints        []string
}

type MockTest struct {
	Id              string
	Title           string
	QuestionIds     []string
	DurationMinutes int
	TotalMarks      int
}

// Result is everything a finished session persists.
type Result struct {
	Questions   []Question
	Mnemonics   []Mnemonic
	CheatSheets []CheatSheet
	Note        Note
	MockTest    *MockTest
}

type Aggregator struct {
	log logger.ILogger
}

func NewAggregator(log logger.ILogger) *Aggregator {
	return &Aggregator{log: log}
}

// Aggregate merges the batch contents of one session. It never fails:
// malformed entries are skipped, and an empty input still yields an
// empty-but-valid Note.
func (a *Aggregator) Aggregate(sessionName string, contents []generate.BatchContent) Result {
	questions := a.dedupQuestions(contents)
	mnemonics := a.dedupMnemonics(contents)
	sheets := a.compileCheatSheets(contents)

	result := Result{
		Questions:   questions,
		Mnemonics:   mnemonics,
		CheatSheets: sheets,
		Note:        compileNote(sessionName, questions, mnemonics, sheets),
	}
	if len(questions) > 0 {
		result.MockTest = assembleMockTest(sessionName, questions)
	}

	a.log.Info("Aggregator", "Session content aggregated", map[string]interface{}{
		"questions":    len(questions),
		"mnemonics":    len(mnemonics),
		"cheat_sheets": len(sheets),
	})
	return result
}

// dedupQuestions keeps the first occurrence per normalized question text.
func (a *Aggregator) dedupQuestions(contents []generate.BatchContent) []Question {
	seen := make(map[string]bool)
	var out []Question
	for _, content := range contents {
		for _, q := range content.Questions {
			if strings.TrimSpace(q.Text) == "" || len(q.Options) == 0 {
				continue
			}
			key := normalizeKey(q.Text)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Question{Id: uuid.NewString(), Question: q})
		}
	}
	return out
}

// dedupMnemonics keeps the first occurrence per normalized topic.
func (a *Aggregator) dedupMnemonics(contents []generate.BatchContent) []Mnemonic {
	seen := make(map[string]bool)
	var out []Mnemonic
	for _, content := range contents {
		for _, m := range content.Mnemonics {
			if strings.TrimSpace(m.Topic) == "" || strings.TrimSpace(m.Text) == "" {
				continue
			}
			key := normalizeKey(m.Topic)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Mnemonic{Id: uuid.NewString(), Mnemonic: m})
		}
	}
	return out
}

// compileCheatSheets groups raw key-point strings by their derived concept
// key, one sheet per concept.
func (a *Aggregator) compileCheatSheets(contents []generate.BatchContent) []CheatSheet {
	grouped := make(map[string][]string)
	var order []string
	concepts := dedupStrings(contents)

	for _, content := range contents {
		for _, point := range content.CheatPoints {
			point = strings.TrimSpace(point)
			if point == "" {
				continue
			}
			key := conceptKey(point)
			if _, ok := grouped[key]; !ok {
				order = append(order, key)
			}
			grouped[key] = append(grouped[key], point)
		}
	}

	sheets := make([]CheatSheet, 0, len(order))
	for _, key := range order {
		points := grouped[key]
		if len(points) > sheetKeyPointCap {
			points = points[:sheetKeyPointCap]
		}
		facts := points
		if len(facts) > sheetFactCap {
			facts = facts[:sheetFactCap]
		}
		sheets = append(sheets, CheatSheet{
			Id:             uuid.NewString(),
			Title:          key,
			KeyPoints:      points,
			HighYieldFacts: facts,
			QuickReference: quickReference(key, points, concepts),
		})
	}
	return sheets
}

// conceptKey derives the grouping key for a cheat point: the text up to the
// first period, or the first 50 characters.
func conceptKey(point string) string {
	if idx := strings.Index(point, "."); idx > 0 {
		return strings.TrimSpace(point[:idx])
	}
	if len(point) > conceptKeyMaxChars {
		return strings.TrimSpace(point[:conceptKeyMaxChars])
	}
	return point
}

// quickReference maps each key-concept term mentioned in the sheet's points
// to the first point that mentions it.
func quickReference(title string, points, concepts []string) map[string]string {
	ref := make(map[string]string)
	for _, concept := range concepts {
		for _, point := range points {
			if strings.Contains(strings.ToLower(point), strings.ToLower(concept)) {
				ref[concept] = point
				break
			}
		}
	}
	if len(ref) == 0 && len(points) > 0 {
		ref[title] = points[0]
	}
	return ref
}

func dedupStrings(contents []generate.BatchContent) []string {
	seen := make(map[string]bool)
	var out []string
	for _, content := range contents {
		for _, s := range content.KeyConcepts {
			s = strings.TrimSpace(s)
			if s == "" || seen[normalizeKey(s)] {
				continue
			}
			seen[normalizeKey(s)] = true
			out = append(out, s)
		}
	}
	return out
}

// normalizeKey is the dedup key: trimmed, case-folded, whitespace collapsed.
func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// compileNote cross-references the other artifacts: medium and hard
// questions, top high-yield facts per sheet, and every mnemonic.
func compileNote(sessionName string, questions []Question, mnemonics []Mnemonic, sheets []CheatSheet) Note {
	note := Note{
		Id:    uuid.NewString(),
		Title: sessionName + " - Compiled Notes",
	}

	for _, q := range questions {
		if q.Difficulty != "medium" && q.Difficulty != "hard" {
			continue
		}
		note.ImportantQuestionIds = append(note.ImportantQuestionIds, q.Id)
		if len(note.ImportantQuestionIds) >= noteQuestionCap {
			break
		}
	}

	for _, sheet := range sheets {
		facts := sheet.HighYieldFacts
		if len(facts) > noteFactsPerSheet {
			facts = facts[:noteFactsPerSheet]
		}
		for _, fact := range facts {
			if len(note.SummaryPoints) >= noteFactTotal {
				break
			}
			note.SummaryPoints = append(note.SummaryPoints, fact)
		}
	}

	for _, m := range mnemonics {
		note.MnemonicIds = append(note.MnemonicIds, m.Id)
	}

	note.Content = noteBody(sessionName, len(questions), len(note.ImportantQuestionIds), mnemonics, note.SummaryPoints)
	return note
}

func noteBody(sessionName string, totalQuestions, important int, mnemonics []Mnemonic, summary []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", sessionName)
	fmt.Fprintf(&b, "Question bank: %d questions (%d marked important for revision).\n\n", totalQuestions, important)

	if len(summary) > 0 {
		b.WriteString("## Key facts\n")
		for _, fact := range summary {
			fmt.Fprintf(&b, "- %s\n", fact)
		}
		b.WriteString("\n")
	}

	if len(mnemonics) > 0 {
		b.WriteString("## Mnemonics\n")
		for _, m := range mnemonics {
			fmt.Fprintf(&b, "- %s: %s\n", m.Topic, m.Text)
		}
	}
	return b.String()
}

// assembleMockTest picks up to 20 questions, balanced across difficulties
// by round-robin draw.
func assembleMockTest(sessionName string, questions []Question) *MockTest {
	byDifficulty := map[string][]Question{}
	for _, q := range questions {
		byDifficulty[q.Difficulty] = append(byDifficulty[q.Difficulty], q)
	}

	var ids []string
	buckets := [][]Question{byDifficulty["easy"], byDifficulty["medium"], byDifficulty["hard"]}
	for len(ids) < mockTestQuestionCap {
		drew := false
		for i, bucket := range buckets {
			if len(bucket) == 0 || len(ids) >= mockTestQuestionCap {
				continue
			}
			ids = append(ids, bucket[0].Id)
			buckets[i] = bucket[1:]
			drew = true
		}
		if !drew {
			break
		}
	}

	return &MockTest{
		Id:              uuid.NewString(),
		Title:           sessionName + " - Mock Test",
		QuestionIds:     ids,
		DurationMinutes: len(ids) * mockTestMinutesPerQn,
		TotalMarks:      len(ids),
	}
}
