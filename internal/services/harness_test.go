package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/healx-backend/internal/data/repos"
	"github.com/yungbote/healx-backend/internal/data/repos/testutil"
	types "github.com/yungbote/healx-backend/internal/domain"
)

type harness struct {
	db        *gorm.DB
	registry  MetricRegistry
	sources   SourceService
	ingestion IngestionService
	obsRepo   repos.ObservationRepo
}

// newHarness wires the ingestion path against a private database. Services
// open their own transactions, so the shared rollback-per-test db is not used.
func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.FreshDB(t)
	log := testutil.Logger(t)

	registry := NewMetricRegistry(log, nil, repos.NewMetricDefinitionRepo(db, log), nil, time.Minute)
	sources := NewSourceService(log, repos.NewDataSourceRepo(db, log))
	obsRepo := repos.NewObservationRepo(db, log)
	return &harness{
		db:        db,
		registry:  registry,
		sources:   sources,
		obsRepo:   obsRepo,
		ingestion: NewIngestionService(log, nil, repos.NewGormTxRunner(db), registry, sources, obsRepo, 0),
	}
}

func (h *harness) observationCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := h.db.Model(&types.Observation{}).Count(&n).Error; err != nil {
		t.Fatalf("count observations: %v", err)
	}
	return n
}

func num(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func text(v string) *string { return &v }
