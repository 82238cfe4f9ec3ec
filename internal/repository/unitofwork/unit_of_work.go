package unitofwork

import (
	"context"

	"ai-studyprep-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	StudySessionRepository() contract.StudySessionRepository
	QuestionRepository() contract.QuestionRepository
	MnemonicRepository() contract.MnemonicRepository
	CheatSheetRepository() contract.CheatSheetRepository
	NoteRepository() contract.NoteRepository
	MockTestRepository() contract.MockTestRepository
}
