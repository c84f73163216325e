package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Role string

const (
	RolePatient   Role = "patient"
	RoleClinician Role = "clinician"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleClinician, RoleAdmin:
		return true
	default:
		return false
	}
}

// User rows are provisioned by the identity provider integration; the vault
// only reads them and relies on their cascade to clean up owned data.
type User struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string          `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	AuthSubject *string         `gorm:"column:auth0_sub;type:varchar(255);uniqueIndex" json:"-"`
	Role        Role            `gorm:"column:role;type:varchar(16);not null;default:'patient'" json:"role"`
	FirstName   string          `gorm:"column:first_name;type:varchar(100)" json:"first_name"`
	LastName    string          `gorm:"column:last_name;type:varchar(100)" json:"last_name"`
	DOB         *datatypes.Date `gorm:"column:dob" json:"dob,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }
