package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-studyprep-be/internal/constant"
	"ai-studyprep-be/internal/pkg/logger"
	"ai-studyprep-be/pkg/llm"
	"ai-studyprep-be/pkg/pipeline/jsonx"
	"ai-studyprep-be/pkg/pipeline/recovery"
)

// Truncation limits, one constant per model-context concern. Applied here
// and nowhere else so call sites never invent their own cutoffs.
const (
	classifySampleChars = 2000
	generateInputChars  = 12000
)

const (
	defaultQuestionTarget = 5
	mnemonicTarget        = 3
	cheatPointMin         = 5
	cheatPointMax         = 7
	keyConceptMin         = 5
	keyConceptMax         = 10
)

// Orchestrator drives the model to turn one batch of extracted text into
// structured study content.
type Orchestrator struct {
	provider       llm.LLMProvider
	log            logger.ILogger
	questionTarget int
}

func NewOrchestrator(provider llm.LLMProvider, log logger.ILogger) *Orchestrator {
	return &Orchestrator{
		provider:       provider,
		log:            log,
		questionTarget: defaultQuestionTarget,
	}
}

// ClassifyDocument decides the document type from a sample of the first
// non-empty batch. Called once per session; the result routes every batch.
func (o *Orchestrator) ClassifyDocument(ctx context.Context, sample string) (DocumentType, error) {
	prompt := fmt.Sprintf(constant.DocumentTypeClassifyPrompt, truncate(sample, classifySampleChars))

	response, err := o.provider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		return DocTypeStudyNotes, err
	}

	verdict := strings.ToUpper(response)
	switch {
	case strings.Contains(verdict, string(DocTypeMixed)):
		return DocTypeMixed, nil
	case strings.Contains(verdict, string(DocTypeContainsQuestions)):
		return DocTypeContainsQuestions, nil
	case strings.Contains(verdict, string(DocTypeStudyNotes)):
		return DocTypeStudyNotes, nil
	default:
		o.log.Warn("Orchestrator", "Unrecognized document type verdict, defaulting to study notes", map[string]interface{}{
			"verdict": truncate(response, 120),
		})
		return DocTypeStudyNotes, nil
	}
}

// Generate produces the full per-batch content set. Question generation
// failures degrade to a labeled placeholder; mnemonic, cheat-point and
// key-concept failures degrade to empty lists. The returned BatchContent
// is always usable by the aggregator.
func (o *Orchestrator) Generate(ctx context.Context, batchId, batchText string, docType DocumentType) BatchContent {
	text := truncate(batchText, generateInputChars)

	content := BatchContent{BatchId: batchId}
	content.Questions = o.questions(ctx, text, docType)

	if mnemonics, err := o.mnemonics(ctx, text); err != nil {
		o.logPartFailure(batchId, "mnemonics", err)
	} else {
		content.Mnemonics = mnemonics
	}

	if points, err := o.stringArray(ctx,
		fmt.Sprintf(constant.CheatSheetPointsPrompt, cheatPointMin, cheatPointMax, text), "key_points"); err != nil {
		o.logPartFailure(batchId, "cheat_points", err)
	} else {
		content.CheatPoints = points
	}

	if concepts, err := o.stringArray(ctx,
		fmt.Sprintf(constant.KeyConceptsPrompt, keyConceptMin, keyConceptMax, text), "concepts"); err != nil {
		o.logPartFailure(batchId, "key_concepts", err)
	} else {
		content.KeyConcepts = concepts
	}

	return content
}

func (o *Orchestrator) questions(ctx context.Context, text string, docType DocumentType) []Question {
	var questions []Question
	var err error

	switch docType {
	case DocTypeContainsQuestions:
		questions, err = o.questionCall(ctx, fmt.Sprintf(constant.ExtractQuestionsPrompt, text), SourceExtracted)

	case DocTypeMixed:
		questions, err = o.questionCall(ctx, fmt.Sprintf(constant.ExtractQuestionsPrompt, text), SourceExtracted)
		if err == nil && len(questions) < o.questionTarget {
			extra, genErr := o.questionCall(ctx,
				fmt.Sprintf(constant.GenerateQuestionsPrompt, o.questionTarget-len(questions), text), SourceGenerated)
			if genErr == nil {
				questions = append(questions, extra...)
			} else {
				o.logPartFailure("", "supplemental_questions", genErr)
			}
		}

	default:
		questions, err = o.questionCall(ctx, fmt.Sprintf(constant.GenerateQuestionsPrompt, o.questionTarget, text), SourceGenerated)
	}

	if err != nil || len(questions) == 0 {
		if err == nil {
			err = fmt.Errorf("model returned no usable questions")
		}
		// Partial content must never silently become zero content: surface
		// a placeholder the user can see instead of an empty bank.
		decision := recovery.Classify(err, "question_generation")
		o.log.Error("Orchestrator", "Question generation failed, emitting placeholder", map[string]interface{}{
			"error":  decision.TechnicalDetails,
			"action": string(decision.Action),
		})
		return []Question{fallbackQuestion(decision)}
	}
	return questions
}

func (o *Orchestrator) questionCall(ctx context.Context, prompt, source string) ([]Question, error) {
	var rawItems []map[string]interface{}
	if err := o.arrayCall(ctx, prompt, "questions", &rawItems); err != nil {
		return nil, err
	}

	questions := make([]Question, 0, len(rawItems))
	for _, item := range rawItems {
		if q, ok := normalizeQuestion(item, source); ok {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

func (o *Orchestrator) mnemonics(ctx context.Context, text string) ([]Mnemonic, error) {
	var items []Mnemonic
	err := o.arrayCall(ctx, fmt.Sprintf(constant.MnemonicsPrompt, mnemonicTarget, text), "mnemonics", &items)
	return items, err
}

func (o *Orchestrator) stringArray(ctx context.Context, prompt, field string) ([]string, error) {
	var items []string
	err := o.arrayCall(ctx, prompt, field, &items)
	return items, err
}

// arrayCall runs one model call expecting a JSON array, walking the
// recovery ladder on the response. An unparsable response earns exactly
// one stricter retry before the call fails.
func (o *Orchestrator) arrayCall(ctx context.Context, prompt, field string, out interface{}) error {
	response, err := o.provider.Generate(ctx, prompt, llm.WithTemperature(0.4))
	if err != nil {
		return err
	}
	if err := decodeArray(response, field, out); err == nil {
		return nil
	}

	response, err = o.provider.Generate(ctx, prompt+constant.StrictArrayRetrySuffix, llm.WithTemperature(0.1))
	if err != nil {
		return err
	}
	if err := decodeArray(response, field, out); err != nil {
		return recovery.Tag(recovery.KindMalformed, "generate_"+field,
			fmt.Errorf("unparsable model response after strict retry: %w", err))
	}
	return nil
}

func decodeArray(response, field string, out interface{}) error {
	value, err := jsonx.ExtractArray(response)
	if err != nil {
		value, err = jsonx.ExtractNamedArray(response, field)
		if err != nil {
			return err
		}
	}
	return json.Unmarshal(value, out)
}

func fallbackQuestion(decision recovery.Decision) Question {
	return Question{
		Text:         "Content generation was unavailable for part of this document. " + decision.UserMessage,
		Options:      []string{"Retry processing this session", "Check the service configuration", "Contact support", "Upload a different document"},
		CorrectIndex: 0,
		Explanation:  "This entry marks a section where the AI service did not return usable content.",
		Difficulty:   "medium",
		Topic:        "Service Notice",
		Source:       SourceFallback,
	}
}

func (o *Orchestrator) logPartFailure(batchId, part string, err error) {
	o.log.Warn("Orchestrator", "Batch content part failed, continuing without it", map[string]interface{}{
		"batch_id": batchId,
		"part":     part,
		"error":    err.Error(),
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
