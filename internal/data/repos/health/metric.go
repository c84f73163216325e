package health

import (
	"context"
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

type MetricDefinitionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, defs []*types.MetricDefinition) ([]*types.MetricDefinition, error)
	GetByCodes(ctx context.Context, tx *gorm.DB, codes []string) ([]*types.MetricDefinition, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.MetricDefinition, error)
	UpdateDescriptive(ctx context.Context, tx *gorm.DB, def *types.MetricDefinition) error
}

type metricDefinitionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMetricDefinitionRepo(db *gorm.DB, baseLog *logger.Logger) MetricDefinitionRepo {
	repoLog := baseLog.With("repo", "MetricDefinitionRepo")
	return &metricDefinitionRepo{db: db, log: repoLog}
}

func (r *metricDefinitionRepo) Create(ctx context.Context, tx *gorm.DB, defs []*types.MetricDefinition) ([]*types.MetricDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(defs) == 0 {
		return []*types.MetricDefinition{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&defs).Error; err != nil {
		return nil, err
	}
	return defs, nil
}

// GetByCodes resolves every code in one query. Unknown codes are simply absent
// from the result.
func (r *metricDefinitionRepo) GetByCodes(ctx context.Context, tx *gorm.DB, codes []string) ([]*types.MetricDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.MetricDefinition
	if len(codes) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("code IN ?", codes).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *metricDefinitionRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.MetricDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.MetricDefinition
	if err := transaction.WithContext(ctx).
		Order("category ASC, code ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateDescriptive rewrites the fields that do not change the meaning of
// stored values: display name, description and reference range.
func (r *metricDefinitionRepo) UpdateDescriptive(ctx context.Context, tx *gorm.DB, def *types.MetricDefinition) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if def == nil || strings.TrimSpace(def.Code) == "" {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.MetricDefinition{}).
		Where("code = ?", def.Code).
		Updates(map[string]interface{}{
			"display_name": def.DisplayName,
			"description":  def.Description,
			"ref_min":      def.RefMin,
			"ref_max":      def.RefMax,
		}).Error
}
