package media

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

type MediaFileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, files []*types.MediaFile) ([]*types.MediaFile, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MediaFile, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.MediaFile, error)
}

type mediaFileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMediaFileRepo(db *gorm.DB, baseLog *logger.Logger) MediaFileRepo {
	repoLog := baseLog.With("repo", "MediaFileRepo")
	return &mediaFileRepo{db: db, log: repoLog}
}

func (r *mediaFileRepo) Create(ctx context.Context, tx *gorm.DB, files []*types.MediaFile) ([]*types.MediaFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(files) == 0 {
		return []*types.MediaFile{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *mediaFileRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MediaFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.MediaFile
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *mediaFileRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.MediaFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var results []*types.MediaFile
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
