package health

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

const insertChunkSize = 500

type ObservationQuery struct {
	UserID   uuid.UUID
	MetricID int64
	From     *time.Time
	To       *time.Time
	Limit    int
}

type ObservationRepo interface {
	// Create inserts rows in chunks. Callers own the transaction so a batch is
	// all or nothing.
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Observation) ([]*types.Observation, error)
	List(ctx context.Context, tx *gorm.DB, q ObservationQuery) ([]*types.Observation, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type observationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewObservationRepo(db *gorm.DB, baseLog *logger.Logger) ObservationRepo {
	repoLog := baseLog.With("repo", "ObservationRepo")
	return &observationRepo{db: db, log: repoLog}
}

func (r *observationRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Observation) ([]*types.Observation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.Observation{}, nil
	}
	if err := transaction.WithContext(ctx).CreateInBatches(&rows, insertChunkSize).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *observationRepo) List(ctx context.Context, tx *gorm.DB, q ObservationQuery) ([]*types.Observation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).
		Where("user_id = ? AND metric_id = ?", q.UserID, q.MetricID)
	if q.From != nil {
		query = query.Where("recorded_at >= ?", q.From.UTC())
	}
	if q.To != nil {
		query = query.Where("recorded_at <= ?", q.To.UTC())
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	var results []*types.Observation
	if err := query.Order("recorded_at DESC, id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *observationRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(ctx).
		Model(&types.Observation{}).
		Where("user_id = ?", userID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
