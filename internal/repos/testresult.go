package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/okvitka/mindhaven-backend/internal/domain"
	"github.com/okvitka/mindhaven-backend/internal/platform/logger"
)

type TestResultRepo interface {
	Create(ctx context.Context, tx *gorm.DB, record *domain.TestResultRecord) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.TestResultRecord, error)
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*domain.TestResultRecord, error)
}

type testResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTestResultRepo(db *gorm.DB, baseLog *logger.Logger) TestResultRepo {
	return &testResultRepo{db: db, log: baseLog.With("repo", "TestResultRepo")}
}

func (r *testResultRepo) Create(ctx context.Context, tx *gorm.DB, record *domain.TestResultRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(record).Error
}

func (r *testResultRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.TestResultRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var record domain.TestResultRecord
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *testResultRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*domain.TestResultRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	var records []*domain.TestResultRecord
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
