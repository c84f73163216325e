package health

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yungbote/healx-backend/internal/data/repos/testutil"
	types "github.com/yungbote/healx-backend/internal/domain"
	domainhealth "github.com/yungbote/healx-backend/internal/domain/health"
)

func TestMetricDefinitionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewMetricDefinitionRepo(db, testutil.Logger(t))
	created, err := repo.Create(ctx, tx, []*types.MetricDefinition{
		{Code: "REPO_HR", DisplayName: "HR", Category: domainhealth.CategoryVitals, Unit: "bpm"},
		{Code: "REPO_VITD", DisplayName: "Vit D", Category: domainhealth.CategoryBlood, Unit: "ng/mL"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created[0].ID == 0 || created[1].ID == 0 {
		t.Fatalf("Create: ids not assigned: %+v", created)
	}

	got, err := repo.GetByCodes(ctx, tx, []string{"REPO_HR", "REPO_VITD", "REPO_NOPE"})
	if err != nil {
		t.Fatalf("GetByCodes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetByCodes: expected 2, got %d", len(got))
	}

	created[0].DisplayName = "Resting heart rate"
	created[0].RefMin = decimal.NewNullDecimal(decimal.NewFromInt(40))
	if err := repo.UpdateDescriptive(ctx, tx, created[0]); err != nil {
		t.Fatalf("UpdateDescriptive: %v", err)
	}
	got, err = repo.GetByCodes(ctx, tx, []string{"REPO_HR"})
	if err != nil {
		t.Fatalf("GetByCodes: %v", err)
	}
	if got[0].DisplayName != "Resting heart rate" || !got[0].RefMin.Valid || !got[0].RefMin.Decimal.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("UpdateDescriptive: unexpected row: %+v", got[0])
	}

	if _, err := repo.Create(ctx, tx.SavePoint("dup"), []*types.MetricDefinition{
		{Code: "REPO_HR", DisplayName: "dup", Category: domainhealth.CategoryVitals, Unit: "bpm"},
	}); err == nil {
		t.Fatalf("Create: expected unique violation for duplicate code")
	}
	tx.RollbackTo("dup")
}

func TestDataSourceRepoEnsureByName(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewDataSourceRepo(db, testutil.Logger(t))
	first, err := repo.EnsureByName(ctx, tx, "Repo Watch")
	if err != nil {
		t.Fatalf("EnsureByName: %v", err)
	}
	if first.IsTrusted {
		t.Fatalf("EnsureByName: new sources must be untrusted")
	}
	second, err := repo.EnsureByName(ctx, tx, "Repo Watch")
	if err != nil {
		t.Fatalf("EnsureByName (again): %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("EnsureByName: ids differ %d vs %d", first.ID, second.ID)
	}

	hash := "bcrypt-hash"
	if err := repo.UpdateTrust(ctx, tx, first.ID, true, &hash); err != nil {
		t.Fatalf("UpdateTrust: %v", err)
	}
	got, err := repo.GetByName(ctx, tx, "Repo Watch")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if !got.IsTrusted || got.APIKeyHash == nil || *got.APIKeyHash != hash {
		t.Fatalf("UpdateTrust: unexpected row: %+v", got)
	}
}

func TestObservationRepoCreateAndList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx)
	m := testutil.SeedMetric(t, ctx, tx, "REPO_OBS_HR", domainhealth.CategoryVitals, "bpm")
	src := testutil.SeedSource(t, ctx, tx, "Repo Obs Source", false)

	repo := NewObservationRepo(db, testutil.Logger(t))
	base := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	rows := []*types.Observation{}
	for i := 0; i < 3; i++ {
		rows = append(rows, &types.Observation{
			UserID:       u.ID,
			MetricID:     m.ID,
			SourceID:     &src.ID,
			RecordedAt:   base.Add(time.Duration(i) * time.Hour),
			IngestedAt:   time.Now().UTC(),
			ValueNumeric: decimal.NewNullDecimal(decimal.NewFromInt(int64(60 + i))),
		})
	}
	if _, err := repo.Create(ctx, tx, rows); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.List(ctx, tx, ObservationQuery{UserID: u.ID, MetricID: m.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List: expected 3, got %d", len(got))
	}
	if !got[0].RecordedAt.After(got[1].RecordedAt) || !got[1].RecordedAt.After(got[2].RecordedAt) {
		t.Fatalf("List: expected newest first")
	}

	from := base.Add(90 * time.Minute)
	got, err = repo.List(ctx, tx, ObservationQuery{UserID: u.ID, MetricID: m.ID, From: &from, Limit: 10})
	if err != nil {
		t.Fatalf("List (from): %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("List (from): expected 1, got %d", len(got))
	}

	n, err := repo.CountByUser(ctx, tx, u.ID)
	if err != nil {
		t.Fatalf("CountByUser: %v", err)
	}
	if n != 3 {
		t.Fatalf("CountByUser: expected 3, got %d", n)
	}
}

func TestObservationRepoRejectsRowWithoutValue(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx)
	m := testutil.SeedMetric(t, ctx, tx, "REPO_OBS_EMPTY", domainhealth.CategoryVitals, "bpm")

	repo := NewObservationRepo(db, testutil.Logger(t))
	_, err := repo.Create(ctx, tx, []*types.Observation{{
		UserID:     u.ID,
		MetricID:   m.ID,
		RecordedAt: time.Now().UTC(),
		IngestedAt: time.Now().UTC(),
	}})
	if err == nil {
		t.Fatalf("Create: expected check_has_value violation")
	}
}
