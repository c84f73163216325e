package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/healx-backend/internal/data/repos"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

type Repos struct {
	TxRunner         repos.TxRunner
	User             repos.UserRepo
	MetricDefinition repos.MetricDefinitionRepo
	DataSource       repos.DataSourceRepo
	Observation      repos.ObservationRepo
	JournalEntry     repos.JournalEntryRepo
	MediaFile        repos.MediaFileRepo
	Medication       repos.MedicationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		TxRunner:         repos.NewGormTxRunner(db),
		User:             repos.NewUserRepo(db, log),
		MetricDefinition: repos.NewMetricDefinitionRepo(db, log),
		DataSource:       repos.NewDataSourceRepo(db, log),
		Observation:      repos.NewObservationRepo(db, log),
		JournalEntry:     repos.NewJournalEntryRepo(db, log),
		MediaFile:        repos.NewMediaFileRepo(db, log),
		Medication:       repos.NewMedicationRepo(db, log),
	}
}
