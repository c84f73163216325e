package medication

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

type MedicationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, meds []*types.Medication) ([]*types.Medication, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, activeOnly bool) ([]*types.Medication, error)
}

type medicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMedicationRepo(db *gorm.DB, baseLog *logger.Logger) MedicationRepo {
	repoLog := baseLog.With("repo", "MedicationRepo")
	return &medicationRepo{db: db, log: repoLog}
}

func (r *medicationRepo) Create(ctx context.Context, tx *gorm.DB, meds []*types.Medication) ([]*types.Medication, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(meds) == 0 {
		return []*types.Medication{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&meds).Error; err != nil {
		return nil, err
	}
	return meds, nil
}

func (r *medicationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, activeOnly bool) ([]*types.Medication, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var results []*types.Medication
	if err := query.Order("name ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
