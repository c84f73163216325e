package journal

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/healx-backend/internal/data/repos/testutil"
	types "github.com/yungbote/healx-backend/internal/domain"
)

func day(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestJournalEntryRepoUpsertReplacesSameDay(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx)
	repo := NewJournalEntryRepo(db, testutil.Logger(t))

	firstID, err := repo.Upsert(ctx, tx, &types.JournalEntry{
		UserID:          u.ID,
		EntryDate:       day(2024, 1, 10),
		ContentMarkdown: "A",
		MoodScore:       testutil.PtrInt(7),
		Tags:            types.JournalTags{"sleep"},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	secondID, err := repo.Upsert(ctx, tx, &types.JournalEntry{
		UserID:          u.ID,
		EntryDate:       day(2024, 1, 10),
		ContentMarkdown: "B",
		MoodScore:       testutil.PtrInt(3),
		Tags:            types.JournalTags{"stress", "travel"},
	})
	if err != nil {
		t.Fatalf("Upsert (again): %v", err)
	}
	if firstID != secondID {
		t.Fatalf("Upsert: expected same id, got %s vs %s", firstID, secondID)
	}

	got, err := repo.GetByUserDate(ctx, tx, u.ID, day(2024, 1, 10))
	if err != nil {
		t.Fatalf("GetByUserDate: %v", err)
	}
	if got.ContentMarkdown != "B" || got.MoodScore == nil || *got.MoodScore != 3 {
		t.Fatalf("GetByUserDate: unexpected row: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "stress" || got.Tags[1] != "travel" {
		t.Fatalf("GetByUserDate: unexpected tags: %v", got.Tags)
	}

	if _, err := repo.Upsert(ctx, tx, &types.JournalEntry{
		UserID:          u.ID,
		EntryDate:       day(2024, 1, 11),
		ContentMarkdown: "C",
	}); err != nil {
		t.Fatalf("Upsert (next day): %v", err)
	}

	entries, err := repo.ListByUserRange(ctx, tx, u.ID, day(2024, 1, 1), day(2024, 1, 31))
	if err != nil {
		t.Fatalf("ListByUserRange: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListByUserRange: expected 2, got %d", len(entries))
	}
	if entries[0].ContentMarkdown != "C" {
		t.Fatalf("ListByUserRange: expected newest first, got %q", entries[0].ContentMarkdown)
	}
}
