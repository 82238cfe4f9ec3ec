package contract

import (
	"context"

	"ai-studyprep-be/internal/entity"
	"ai-studyprep-be/internal/repository/specification"
)

type MnemonicRepository interface {
	CreateBatch(ctx context.Context, mnemonics []*entity.Mnemonic) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Mnemonic, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type CheatSheetRepository interface {
	CreateBatch(ctx context.Context, sheets []*entity.CheatSheet) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CheatSheet, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
}

type MockTestRepository interface {
	Create(ctx context.Context, test *entity.MockTest) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MockTest, error)
}
