package journal

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/yungbote/healx-backend/internal/domain/user"
)

const (
	MinMood = 1
	MaxMood = 10
)

// Entry is unique per (user, calendar day); a later write replaces the earlier one.
type Entry struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uidx_journal_user_date,priority:1" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`

	EntryDate       datatypes.Date `gorm:"column:entry_date;not null;uniqueIndex:uidx_journal_user_date,priority:2" json:"entry_date"`
	ContentMarkdown string         `gorm:"column:content_markdown;type:text" json:"content"`
	MoodScore       *int           `gorm:"column:mood_score;check:check_mood_score,mood_score BETWEEN 1 AND 10" json:"mood_score,omitempty"`
	Tags            Tags           `gorm:"column:tags" json:"tags"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Entry) TableName() string { return "journal_entries" }

// Tags is a text[] on Postgres and an encoded array literal elsewhere.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return pq.StringArray{}.Value()
	}
	return pq.StringArray(t).Value()
}

func (t *Tags) Scan(src interface{}) error {
	return (*pq.StringArray)(t).Scan(src)
}

func (Tags) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
