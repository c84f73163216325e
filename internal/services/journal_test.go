package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/healx-backend/internal/data/repos"
	"github.com/yungbote/healx-backend/internal/data/repos/testutil"
	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/domain/errs"
)

func newJournalService(t *testing.T) (JournalService, *types.User, func() int64) {
	t.Helper()
	db := testutil.FreshDB(t)
	log := testutil.Logger(t)
	user := testutil.SeedUser(t, context.Background(), db)
	count := func() int64 {
		var n int64
		if err := db.Model(&types.JournalEntry{}).Where("user_id = ?", user.ID).Count(&n).Error; err != nil {
			t.Fatalf("count entries: %v", err)
		}
		return n
	}
	return NewJournalService(log, nil, repos.NewJournalEntryRepo(db, log)), user, count
}

func TestJournalUpsertKeepsOneEntryPerDay(t *testing.T) {
	svc, user, count := newJournalService(t)
	ctx := context.Background()

	first, err := svc.Upsert(ctx, JournalUpsertInput{
		UserID: user.ID, EntryDate: "2026-03-01", Content: "slept badly", MoodScore: testutil.PtrInt(4), Tags: []string{"sleep"},
	})
	require.NoError(t, err)

	second, err := svc.Upsert(ctx, JournalUpsertInput{
		UserID: user.ID, EntryDate: "2026-03-01", Content: "better after a walk", MoodScore: testutil.PtrInt(7), Tags: []string{"walk", "walk", " sleep "},
	})
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.EqualValues(t, 1, count())

	entries, err := svc.List(ctx, user.ID, "2026-03-01", "2026-03-01")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "better after a walk", entries[0].ContentMarkdown)
	require.Equal(t, 7, *entries[0].MoodScore)
	require.ElementsMatch(t, []string{"walk", "sleep"}, []string(entries[0].Tags))
}

func TestJournalMoodBounds(t *testing.T) {
	svc, user, count := newJournalService(t)
	ctx := context.Background()

	for _, mood := range []int{0, 11, -3} {
		_, err := svc.Upsert(ctx, JournalUpsertInput{UserID: user.ID, EntryDate: "2026-03-02", MoodScore: testutil.PtrInt(mood)})
		require.True(t, errs.IsCode(err, errs.CodeInvalidMood), "mood %d: got %v", mood, err)
	}
	require.EqualValues(t, 0, count())

	_, err := svc.Upsert(ctx, JournalUpsertInput{UserID: user.ID, EntryDate: "2026-03-02", MoodScore: testutil.PtrInt(1)})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, JournalUpsertInput{UserID: user.ID, EntryDate: "2026-03-03", MoodScore: testutil.PtrInt(10)})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, JournalUpsertInput{UserID: user.ID, EntryDate: "2026-03-04"})
	require.NoError(t, err)
	require.EqualValues(t, 3, count())
}

func TestJournalDateValidation(t *testing.T) {
	svc, user, _ := newJournalService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, JournalUpsertInput{UserID: user.ID, EntryDate: "03/01/2026"})
	require.True(t, errs.IsCode(err, errs.CodeValidation), "got %v", err)

	future := time.Now().UTC().AddDate(0, 0, 5).Format(DateLayout)
	_, err = svc.Upsert(ctx, JournalUpsertInput{UserID: user.ID, EntryDate: future})
	require.True(t, errs.IsCode(err, errs.CodeInvalidDateRange), "got %v", err)

	_, err = svc.List(ctx, user.ID, "2026-03-05", "2026-03-01")
	require.True(t, errs.IsCode(err, errs.CodeInvalidDateRange), "got %v", err)

	_, err = svc.List(ctx, user.ID, "2024-01-01", "2026-01-01")
	require.True(t, errs.IsCode(err, errs.CodeInvalidDateRange), "got %v", err)
}

func TestJournalUnknownUser(t *testing.T) {
	svc, _, _ := newJournalService(t)
	_, err := svc.Upsert(context.Background(), JournalUpsertInput{UserID: uuid.New(), EntryDate: "2026-03-01"})
	require.True(t, errs.IsCode(err, errs.CodePreconditionFailed), "got %v", err)
}
