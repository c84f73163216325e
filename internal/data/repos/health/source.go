package health

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

type DataSourceRepo interface {
	// EnsureByName inserts an untrusted source when name is new and returns the
	// stored row either way. Concurrent callers converge on one row.
	EnsureByName(ctx context.Context, tx *gorm.DB, name string) (*types.DataSource, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.DataSource, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*types.DataSource, error)
	UpdateTrust(ctx context.Context, tx *gorm.DB, id int64, isTrusted bool, apiKeyHash *string) error
}

type dataSourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDataSourceRepo(db *gorm.DB, baseLog *logger.Logger) DataSourceRepo {
	repoLog := baseLog.With("repo", "DataSourceRepo")
	return &dataSourceRepo{db: db, log: repoLog}
}

func (r *dataSourceRepo) EnsureByName(ctx context.Context, tx *gorm.DB, name string) (*types.DataSource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	src := &types.DataSource{Name: name, CreatedAt: time.Now().UTC()}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(src).Error; err != nil {
		return nil, err
	}
	return r.GetByName(ctx, transaction, name)
}

func (r *dataSourceRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.DataSource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.DataSource
	if err := transaction.WithContext(ctx).
		Where("name = ?", name).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *dataSourceRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*types.DataSource, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.DataSource
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

// UpdateTrust sets the trust flag. A nil apiKeyHash leaves the stored hash as is.
func (r *dataSourceRepo) UpdateTrust(ctx context.Context, tx *gorm.DB, id int64, isTrusted bool, apiKeyHash *string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	updates := map[string]interface{}{"is_trusted": isTrusted}
	if apiKeyHash != nil {
		updates["api_key_hash"] = *apiKeyHash
	}
	return transaction.WithContext(ctx).
		Model(&types.DataSource{}).
		Where("id = ?", id).
		Updates(updates).Error
}
