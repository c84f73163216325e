package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

type JournalEntryRepo interface {
	// Upsert writes the entry for (user, entry_date). An existing row keeps its
	// id and has its content, mood, tags and updated_at replaced.
	Upsert(ctx context.Context, tx *gorm.DB, entry *types.JournalEntry) (uuid.UUID, error)
	GetByUserDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date datatypes.Date) (*types.JournalEntry, error)
	ListByUserRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to datatypes.Date) ([]*types.JournalEntry, error)
}

type journalEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJournalEntryRepo(db *gorm.DB, baseLog *logger.Logger) JournalEntryRepo {
	repoLog := baseLog.With("repo", "JournalEntryRepo")
	return &journalEntryRepo{db: db, log: repoLog}
}

func (r *journalEntryRepo) Upsert(ctx context.Context, tx *gorm.DB, entry *types.JournalEntry) (uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "entry_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"content_markdown", "mood_score", "tags", "updated_at"}),
		}).
		Create(entry).Error; err != nil {
		return uuid.Nil, err
	}

	// On conflict the surviving row keeps its original id.
	stored, err := r.GetByUserDate(ctx, transaction, entry.UserID, entry.EntryDate)
	if err != nil {
		return uuid.Nil, err
	}
	return stored.ID, nil
}

func (r *journalEntryRepo) GetByUserDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date datatypes.Date) (*types.JournalEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.JournalEntry
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND entry_date = ?", userID, date).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *journalEntryRepo) ListByUserRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to datatypes.Date) ([]*types.JournalEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.JournalEntry
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND entry_date >= ? AND entry_date <= ?", userID, from, to).
		Order("entry_date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
