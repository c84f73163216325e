package health

import (
	"strings"

	"github.com/shopspring/decimal"
)

type MetricCategory string

const (
	CategoryBlood      MetricCategory = "Blood"
	CategoryDNA        MetricCategory = "DNA"
	CategoryVitals     MetricCategory = "Vitals"
	CategoryFunctional MetricCategory = "Functional"
	CategoryFitness    MetricCategory = "Fitness"
	CategoryMicrobiome MetricCategory = "Microbiome"
)

func (c MetricCategory) Valid() bool {
	switch c {
	case CategoryBlood, CategoryDNA, CategoryVitals, CategoryFunctional, CategoryFitness, CategoryMicrobiome:
		return true
	default:
		return false
	}
}

// MetricDefinition is keyed externally by Code. Once observations reference a
// code, its category and unit are frozen.
type MetricDefinition struct {
	ID          int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string              `gorm:"column:code;type:varchar(50);uniqueIndex;not null" json:"code"`
	DisplayName string              `gorm:"column:display_name;type:varchar(100);not null" json:"display_name"`
	Category    MetricCategory      `gorm:"column:category;type:varchar(20);not null;check:chk_metric_category,category IN ('Blood','DNA','Vitals','Functional','Fitness','Microbiome')" json:"category"`
	Unit        string              `gorm:"column:unit;type:varchar(20)" json:"unit"`
	Description string              `gorm:"column:description;type:text" json:"description,omitempty"`
	RefMin      decimal.NullDecimal `gorm:"column:ref_min;type:numeric(10,4)" json:"ref_min"`
	RefMax      decimal.NullDecimal `gorm:"column:ref_max;type:numeric(10,4)" json:"ref_max"`
}

func (MetricDefinition) TableName() string { return "metric_definitions" }

// Problem returns a human readable reason the definition is malformed, or "".
func (m *MetricDefinition) Problem() string {
	code := strings.TrimSpace(m.Code)
	switch {
	case code == "":
		return "code is required"
	case len(code) > 50:
		return "code must be at most 50 characters"
	case strings.TrimSpace(m.DisplayName) == "":
		return "display_name is required"
	case !m.Category.Valid():
		return "unknown category " + string(m.Category)
	case m.RefMin.Valid && m.RefMax.Valid && m.RefMin.Decimal.GreaterThan(m.RefMax.Decimal):
		return "ref_min must not exceed ref_max"
	}
	return ""
}

// InRange reports whether v sits inside the inclusive reference range. A
// missing bound is open.
func (m *MetricDefinition) InRange(v decimal.Decimal) bool {
	if m.RefMin.Valid && v.LessThan(m.RefMin.Decimal) {
		return false
	}
	if m.RefMax.Valid && v.GreaterThan(m.RefMax.Decimal) {
		return false
	}
	return true
}

// SameShape reports whether other may replace m without a migration.
func (m *MetricDefinition) SameShape(other *MetricDefinition) bool {
	return m.Category == other.Category && m.Unit == other.Unit
}
