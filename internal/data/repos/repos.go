package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/healx-backend/internal/data/repos/health"
	"github.com/yungbote/healx-backend/internal/data/repos/journal"
	"github.com/yungbote/healx-backend/internal/data/repos/media"
	"github.com/yungbote/healx-backend/internal/data/repos/medication"
	"github.com/yungbote/healx-backend/internal/data/repos/user"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type MetricDefinitionRepo = health.MetricDefinitionRepo
type DataSourceRepo = health.DataSourceRepo
type ObservationRepo = health.ObservationRepo
type ObservationQuery = health.ObservationQuery

type JournalEntryRepo = journal.JournalEntryRepo

type MediaFileRepo = media.MediaFileRepo

type MedicationRepo = medication.MedicationRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewMetricDefinitionRepo(db *gorm.DB, baseLog *logger.Logger) MetricDefinitionRepo {
	return health.NewMetricDefinitionRepo(db, baseLog)
}

func NewDataSourceRepo(db *gorm.DB, baseLog *logger.Logger) DataSourceRepo {
	return health.NewDataSourceRepo(db, baseLog)
}

func NewObservationRepo(db *gorm.DB, baseLog *logger.Logger) ObservationRepo {
	return health.NewObservationRepo(db, baseLog)
}

func NewJournalEntryRepo(db *gorm.DB, baseLog *logger.Logger) JournalEntryRepo {
	return journal.NewJournalEntryRepo(db, baseLog)
}

func NewMediaFileRepo(db *gorm.DB, baseLog *logger.Logger) MediaFileRepo {
	return media.NewMediaFileRepo(db, baseLog)
}

func NewMedicationRepo(db *gorm.DB, baseLog *logger.Logger) MedicationRepo {
	return medication.NewMedicationRepo(db, baseLog)
}
