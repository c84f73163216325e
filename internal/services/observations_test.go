package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/healx-backend/internal/data/repos/testutil"
	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/domain/errs"
)

func TestObservationListReturnsSeriesNewestFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, h.db)
	testutil.SeedMetric(t, ctx, h.db, "HK_HR_RESTING", types.MetricCategory("Vitals"), "bpm")

	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	var records []ObservationRecord
	for i := 0; i < 5; i++ {
		records = append(records, ObservationRecord{MetricCode: "HK_HR_RESTING", RecordedAt: base.Add(time.Duration(i) * time.Hour), ValueNumeric: num("60")})
	}
	_, err := h.ingestion.Ingest(ctx, IngestRequest{UserID: user.ID, SourceName: "Apple Health", Records: records})
	require.NoError(t, err)

	svc := NewObservationService(testutil.Logger(t), h.registry, h.obsRepo)
	rows, err := svc.List(ctx, ObservationListInput{UserID: user.ID, MetricCode: "HK_HR_RESTING", Limit: 3})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.True(t, rows[0].RecordedAt.After(rows[1].RecordedAt))

	from := base.Add(time.Hour)
	to := base.Add(2 * time.Hour)
	rows, err = svc.List(ctx, ObservationListInput{UserID: user.ID, MetricCode: "HK_HR_RESTING", From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	_, err = svc.List(ctx, ObservationListInput{UserID: user.ID, MetricCode: "NOPE"})
	require.True(t, errs.IsCode(err, errs.CodeNotFound), "got %v", err)

	_, err = svc.List(ctx, ObservationListInput{UserID: user.ID, MetricCode: "HK_HR_RESTING", From: &to, To: &from})
	require.True(t, errs.IsCode(err, errs.CodeInvalidDateRange), "got %v", err)
}
