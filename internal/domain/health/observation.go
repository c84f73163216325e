package health

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/yungbote/healx-backend/internal/domain/user"
)

// Observation rows are insert-only. Corrections are new rows.
type Observation struct {
	ID     int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index:idx_obs_user_metric_time,priority:1" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`

	MetricID int64             `gorm:"not null;index:idx_obs_user_metric_time,priority:2" json:"metric_id"`
	Metric   *MetricDefinition `gorm:"constraint:OnDelete:RESTRICT;foreignKey:MetricID;references:ID" json:"-"`

	SourceID *int64      `gorm:"index" json:"source_id,omitempty"`
	Source   *DataSource `gorm:"constraint:OnDelete:SET NULL;foreignKey:SourceID;references:ID" json:"-"`

	RecordedAt time.Time `gorm:"not null;index:idx_obs_user_metric_time,priority:3,sort:desc" json:"recorded_at"`
	IngestedAt time.Time `gorm:"not null" json:"ingested_at"`

	ValueNumeric decimal.NullDecimal `gorm:"column:value_numeric;type:numeric(18,6);check:check_has_value,value_numeric IS NOT NULL OR value_text IS NOT NULL" json:"value_numeric"`
	ValueText    *string             `gorm:"column:value_text;type:text" json:"value_text,omitempty"`
	RawMetadata  datatypes.JSON      `gorm:"column:raw_metadata" json:"raw_metadata,omitempty"`
}

func (Observation) TableName() string { return "health_observations" }
