package health

import "time"

type DataSource struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"column:name;type:varchar(100);uniqueIndex;not null" json:"name"`
	APIKeyHash *string   `gorm:"column:api_key_hash;type:varchar(255)" json:"-"`
	IsTrusted  bool      `gorm:"column:is_trusted;not null;default:false" json:"is_trusted"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (DataSource) TableName() string { return "data_sources" }
