package medication

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/healx-backend/internal/domain/user"
)

type Type string

const (
	TypePrescription Type = "Prescription"
	TypeSupplement   Type = "Supplement"
	TypeNootropic    Type = "Nootropic"
	TypePeptide      Type = "Peptide"
)

func (t Type) Valid() bool {
	switch t {
	case TypePrescription, TypeSupplement, TypeNootropic, TypePeptide:
		return true
	default:
		return false
	}
}

type Medication struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`

	Name      string          `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Type      Type            `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Dosage    string          `gorm:"column:dosage;type:varchar(100)" json:"dosage"`
	Frequency string          `gorm:"column:frequency;type:varchar(100)" json:"frequency"`
	IsActive  bool            `gorm:"column:is_active;not null" json:"is_active"`
	StartDate *datatypes.Date `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate   *datatypes.Date `gorm:"column:end_date" json:"end_date,omitempty"`
}

func (Medication) TableName() string { return "medications" }
