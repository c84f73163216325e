package domain

import (
	"github.com/yungbote/healx-backend/internal/domain/health"
	"github.com/yungbote/healx-backend/internal/domain/journal"
	"github.com/yungbote/healx-backend/internal/domain/media"
	"github.com/yungbote/healx-backend/internal/domain/medication"
	"github.com/yungbote/healx-backend/internal/domain/user"
)

type (
	User = user.User
	Role = user.Role

	MetricDefinition = health.MetricDefinition
	MetricCategory   = health.MetricCategory
	DataSource       = health.DataSource
	Observation      = health.Observation

	JournalEntry = journal.Entry
	JournalTags  = journal.Tags

	MediaFile    = media.File
	FileCategory = media.FileCategory

	Medication     = medication.Medication
	MedicationType = medication.Type
)

const (
	RolePatient   = user.RolePatient
	RoleClinician = user.RoleClinician
	RoleAdmin     = user.RoleAdmin
)

// Models lists every persisted type in dependency order.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&health.MetricDefinition{},
		&health.DataSource{},
		&health.Observation{},
		&journal.Entry{},
		&media.File{},
		&medication.Medication{},
	}
}
