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
	"github.com/yungbote/healx-backend/internal/domain/medication"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

type MedicationInput struct {
	UserID    uuid.UUID
	Name      string
	Type      string
	Dosage    string
	Frequency string
	IsActive  *bool
	StartDate string
	EndDate   string
}

type MedicationService interface {
	Create(ctx context.Context, in MedicationInput) (*types.Medication, error)
	List(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*types.Medication, error)
}

type medicationService struct {
	log  *logger.Logger
	repo repos.MedicationRepo
}

func NewMedicationService(log *logger.Logger, repo repos.MedicationRepo) MedicationService {
	return &medicationService{
		log:  log.With("service", "MedicationService"),
		repo: repo,
	}
}

func (s *medicationService) Create(ctx context.Context, in MedicationInput) (*types.Medication, error) {
	const op = "medications.create"
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errs.Validation(op, "name is required")
	}
	if len(name) > 200 {
		return nil, errs.Validation(op, "name must be at most 200 characters")
	}
	medType := medication.TypeSupplement
	if raw := strings.TrimSpace(in.Type); raw != "" {
		medType = medication.Type(raw)
		if !medType.Valid() {
			return nil, errs.Validation(op, "unknown medication type %q", raw)
		}
	}

	med := &types.Medication{
		ID:        uuid.New(),
		UserID:    in.UserID,
		Name:      name,
		Type:      medType,
		Dosage:    strings.TrimSpace(in.Dosage),
		Frequency: strings.TrimSpace(in.Frequency),
		IsActive:  in.IsActive == nil || *in.IsActive,
	}
	var start, end time.Time
	if strings.TrimSpace(in.StartDate) != "" {
		d, err := ParseDate(op, in.StartDate)
		if err != nil {
			return nil, err
		}
		start = d
		sd := datatypes.Date(d)
		med.StartDate = &sd
	}
	if strings.TrimSpace(in.EndDate) != "" {
		d, err := ParseDate(op, in.EndDate)
		if err != nil {
			return nil, err
		}
		end = d
		ed := datatypes.Date(d)
		med.EndDate = &ed
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return nil, errs.New(errs.CodeInvalidDateRange, op, "start_date must not be after end_date")
	}

	if _, err := s.repo.Create(ctx, nil, []*types.Medication{med}); err != nil {
		return nil, repos.MapError(op, err)
	}
	s.log.Info("medication recorded", "user_id", in.UserID.String(), "medication_id", med.ID, "type", med.Type)
	return med, nil
}

func (s *medicationService) List(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*types.Medication, error) {
	meds, err := s.repo.ListByUser(ctx, nil, userID, activeOnly)
	if err != nil {
		return nil, repos.MapError("medications.list", err)
	}
	return meds, nil
}
