package implementation

import (
	"context"
	"errors"

	"ai-studyprep-be/internal/entity"
	"ai-studyprep-be/internal/mapper"
	"ai-studyprep-be/internal/model"
	"ai-studyprep-be/internal/repository/contract"
	"ai-studyprep-be/internal/repository/specification"

	"gorm.io/gorm"
)

func applySpecs(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Mnemonic

type MnemonicRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ArtifactMapper
}

func NewMnemonicRepository(db *gorm.DB) contract.MnemonicRepository {
	return &MnemonicRepositoryImpl{db: db, mapper: mapper.NewArtifactMapper()}
}

func (r *MnemonicRepositoryImpl) CreateBatch(ctx context.Context, mnemonics []*entity.Mnemonic) error {
	if len(mnemonics) == 0 {
		return nil
	}
	models := make([]*model.Mnemonic, len(mnemonics))
	for i, mn := range mnemonics {
		models[i] = r.mapper.MnemonicToModel(mn)
	}
	return r.db.WithContext(ctx).CreateInBatches(models, 50).Error
}

func (r *MnemonicRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Mnemonic, error) {
	var models []*model.Mnemonic
	if err := applySpecs(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.MnemonicsToEntities(models), nil
}

func (r *MnemonicRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecs(r.db.WithContext(ctx).Model(&model.Mnemonic{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CheatSheet

type CheatSheetRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ArtifactMapper
}

func NewCheatSheetRepository(db *gorm.DB) contract.CheatSheetRepository {
	return &CheatSheetRepositoryImpl{db: db, mapper: mapper.NewArtifactMapper()}
}

func (r *CheatSheetRepositoryImpl) CreateBatch(ctx context.Context, sheets []*entity.CheatSheet) error {
	if len(sheets) == 0 {
		return nil
	}
	models := make([]*model.CheatSheet, len(sheets))
	for i, cs := range sheets {
		models[i] = r.mapper.CheatSheetToModel(cs)
	}
	return r.db.WithContext(ctx).CreateInBatches(models, 50).Error
}

func (r *CheatSheetRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CheatSheet, error) {
	var models []*model.CheatSheet
	if err := applySpecs(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.CheatSheetsToEntities(models), nil
}

func (r *CheatSheetRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecs(r.db.WithContext(ctx).Model(&model.CheatSheet{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Note

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ArtifactMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{db: db, mapper: mapper.NewArtifactMapper()}
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *entity.Note) error {
	m := r.mapper.NoteToModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.NoteToEntity(m)
	return nil
}

func (r *NoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	var m model.Note
	if err := applySpecs(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.NoteToEntity(&m), nil
}

// MockTest

type MockTestRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ArtifactMapper
}

func NewMockTestRepository(db *gorm.DB) contract.MockTestRepository {
	return &MockTestRepositoryImpl{db: db, mapper: mapper.NewArtifactMapper()}
}

func (r *MockTestRepositoryImpl) Create(ctx context.Context, test *entity.MockTest) error {
	m := r.mapper.MockTestToModel(test)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*test = *r.mapper.MockTestToEntity(m)
	return nil
}

func (r *MockTestRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MockTest, error) {
	var m model.MockTest
	if err := applySpecs(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MockTestToEntity(&m), nil
}
