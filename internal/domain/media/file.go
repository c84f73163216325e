package media

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/healx-backend/internal/domain/user"
)

type FileCategory string

const (
	CategoryLabReport           FileCategory = "LabReport"
	CategoryScan                FileCategory = "Scan"
	CategoryUserUpload          FileCategory = "UserUpload"
	CategoryFunctionalTestVideo FileCategory = "FunctionalTestVideo"
	CategoryAudioNote           FileCategory = "AudioNote"
)

func (c FileCategory) Valid() bool {
	switch c {
	case CategoryLabReport, CategoryScan, CategoryUserUpload, CategoryFunctionalTestVideo, CategoryAudioNote:
		return true
	default:
		return false
	}
}

// File records an upload intent. IsProcessed flips only after a separate
// confirmation that the bytes landed in the bucket.
type File struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`

	Category      FileCategory `gorm:"column:category;type:varchar(32);not null" json:"category"`
	StorageBucket string       `gorm:"column:storage_bucket;type:varchar(100);not null" json:"storage_bucket"`
	StorageKey    string       `gorm:"column:storage_key;type:varchar(500);not null;index" json:"storage_key"`
	Filename      string       `gorm:"column:filename;type:varchar(255)" json:"filename"`
	MimeType      string       `gorm:"column:mime_type;type:varchar(100)" json:"mime_type"`
	SizeBytes     *int64       `gorm:"column:size_bytes" json:"size_bytes,omitempty"`
	IsProcessed   bool         `gorm:"column:is_processed;not null;default:false" json:"is_processed"`
	UploadedAt    time.Time    `gorm:"column:uploaded_at;not null" json:"uploaded_at"`
}

func (File) TableName() string { return "media_files" }
