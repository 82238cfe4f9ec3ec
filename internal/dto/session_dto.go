package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateDocumentSessionRequest carries the form fields that accompany the
// uploaded PDF. The file itself is read from the multipart body.
type CreateDocumentSessionRequest struct {
	Name        string `form:"name" validate:"required,max=200"`
	NotifyEmail bool   `form:"notify_email"`
	Email       string `form:"email" validate:"omitempty,email"`
}

type CreateTopicSessionRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Topic       string `json:"topic" validate:"required,max=500"`
	NotifyEmail bool   `json:"notify_email"`
	Email       string `json:"email" validate:"omitempty,email"`
}

type CreateSessionResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type GetAllSessionResponse struct {
	Id          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	SourceKind  string     `json:"source_kind"`
	Status      string     `json:"status"`
	OverallPct  int        `json:"overall_pct"`
	PageCount   int        `json:"page_count"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type ShowSessionResponse struct {
	Id               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	SourceKind       string     `json:"source_kind"`
	Topic            string     `json:"topic,omitempty"`
	OriginalFilename string     `json:"original_filename,omitempty"`
	PageCount        int        `json:"page_count"`
	ProcessingMode   string     `json:"processing_mode"`
	Status           string     `json:"status"`
	QuestionCount    int        `json:"question_count"`
	MnemonicCount    int        `json:"mnemonic_count"`
	CheatSheetCount  int        `json:"cheat_sheet_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

type SessionProgressResponse struct {
	SessionId  uuid.UUID `json:"session_id"`
	Status     string    `json:"status"`
	Step       string    `json:"step"`
	StepPct    int       `json:"step_pct"`
	OverallPct int       `json:"overall_pct"`
	EtaSeconds int       `json:"eta_seconds"`
	Message    string    `json:"message"`
}

type QuestionResponse struct {
	Id           uuid.UUID `json:"id"`
	Text         string    `json:"text"`
	Options      []string  `json:"options"`
	CorrectIndex int       `json:"correct_index"`
	Explanation  string    `json:"explanation"`
	Difficulty   string    `json:"difficulty"`
	Topic        string    `json:"topic"`
	Source       string    `json:"source"`
}

type MnemonicResponse struct {
	Id          uuid.UUID `json:"id"`
	Topic       string    `json:"topic"`
	Text        string    `json:"text"`
	Explanation string    `json:"explanation"`
	KeyTerms    []string  `json:"key_terms"`
}

type CheatSheetResponse struct {
	Id             uuid.UUID         `json:"id"`
	Title          string            `json:"title"`
	KeyPoints      []string          `json:"key_points"`
	HighYieldFacts []string          `json:"high_yield_facts"`
	QuickReference map[string]string `json:"quick_reference"`
}

type NoteResponse struct {
	Id                   uuid.UUID   `json:"id"`
	Title                string      `json:"title"`
	Content              string      `json:"content"`
	ImportantQuestionIds []uuid.UUID `json:"important_question_ids"`
	MnemonicIds          []uuid.UUID `json:"mnemonic_ids"`
	SummaryPoints        []string    `json:"summary_points"`
}

type MockTestResponse struct {
	Id              uuid.UUID   `json:"id"`
	Title           string      `json:"title"`
	QuestionIds     []uuid.UUID `json:"question_ids"`
	DurationMinutes int         `json:"duration_minutes"`
	TotalMarks      int         `json:"total_marks"`
}

// PublishProcessSessionMessage is the queue payload that triggers the
// processing pipeline for a freshly created session.
type PublishProcessSessionMessage struct {
	SessionId uuid.UUID `json:"session_id"`
}
