package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/healx-backend/internal/data/repos"
	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/domain/errs"
	"github.com/yungbote/healx-backend/internal/domain/journal"
	"github.com/yungbote/healx-backend/internal/observability"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

const (
	DateLayout = "2006-01-02"

	journalClockSkew = 24 * time.Hour
	maxJournalRange  = 366 * 24 * time.Hour
)

type JournalUpsertInput struct {
	UserID    uuid.UUID
	EntryDate string
	Content   string
	MoodScore *int
	Tags      []string
}

type JournalService interface {
	// Upsert returns the id of the single entry stored for (user, date).
	Upsert(ctx context.Context, in JournalUpsertInput) (uuid.UUID, error)
	List(ctx context.Context, userID uuid.UUID, from, to string) ([]*types.JournalEntry, error)
}

type journalService struct {
	log     *logger.Logger
	metrics *observability.Metrics
	repo    repos.JournalEntryRepo
	now     func() time.Time
}

func NewJournalService(log *logger.Logger, metrics *observability.Metrics, repo repos.JournalEntryRepo) JournalService {
	return &journalService{
		log:     log.With("service", "JournalService"),
		metrics: metrics,
		repo:    repo,
		now:     time.Now,
	}
}

func (s *journalService) Upsert(ctx context.Context, in JournalUpsertInput) (uuid.UUID, error) {
	const op = "journal.upsert"
	if in.UserID == uuid.Nil {
		return uuid.Nil, errs.Validation(op, "user id is required")
	}
	if in.MoodScore != nil && (*in.MoodScore < journal.MinMood || *in.MoodScore > journal.MaxMood) {
		s.metrics.IncJournalUpsert("rejected")
		return uuid.Nil, errs.New(errs.CodeInvalidMood, op, "mood_score must be between 1 and 10")
	}
	day, err := ParseDate(op, in.EntryDate)
	if err != nil {
		s.metrics.IncJournalUpsert("rejected")
		return uuid.Nil, err
	}
	if day.After(s.now().UTC().Add(journalClockSkew)) {
		s.metrics.IncJournalUpsert("rejected")
		return uuid.Nil, errs.New(errs.CodeInvalidDateRange, op, "entry_date is in the future")
	}

	entry := func() *types.JournalEntry {
		return &types.JournalEntry{
			UserID:          in.UserID,
			EntryDate:       datatypes.Date(day),
			ContentMarkdown: in.Content,
			MoodScore:       in.MoodScore,
			Tags:            cleanTags(in.Tags),
		}
	}
	id, err := s.repo.Upsert(ctx, nil, entry())
	if err != nil && errs.IsCode(repos.MapError(op, err), errs.CodeConflict) {
		// Two first-writes for the same day raced; the retry takes the update path.
		id, err = s.repo.Upsert(ctx, nil, entry())
	}
	if err != nil {
		s.metrics.IncJournalUpsert("error")
		return uuid.Nil, repos.MapError(op, err)
	}
	s.metrics.IncJournalUpsert("ok")
	return id, nil
}

func (s *journalService) List(ctx context.Context, userID uuid.UUID, from, to string) ([]*types.JournalEntry, error) {
	const op = "journal.list"
	fromDay, err := ParseDate(op, from)
	if err != nil {
		return nil, err
	}
	toDay, err := ParseDate(op, to)
	if err != nil {
		return nil, err
	}
	if fromDay.After(toDay) {
		return nil, errs.New(errs.CodeInvalidDateRange, op, "from must not be after to")
	}
	if toDay.Sub(fromDay) > maxJournalRange {
		return nil, errs.New(errs.CodeInvalidDateRange, op, "range must not exceed one year")
	}
	entries, err := s.repo.ListByUserRange(ctx, nil, userID, datatypes.Date(fromDay), datatypes.Date(toDay))
	if err != nil {
		return nil, repos.MapError(op, err)
	}
	return entries, nil
}

// ParseDate reads a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(op, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errs.Validation(op, "date is required")
	}
	t, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, errs.Validation(op, "date must be YYYY-MM-DD: %s", raw)
	}
	return t, nil
}

func cleanTags(tags []string) journal.Tags {
	out := journal.Tags{}
	seen := map[string]struct{}{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
