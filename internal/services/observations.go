package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/healx-backend/internal/data/repos"
	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/domain/errs"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

const (
	DefaultObservationLimit = 100
	MaxObservationLimit     = 1000
)

type ObservationListInput struct {
	UserID     uuid.UUID
	MetricCode string
	From       *time.Time
	To         *time.Time
	Limit      int
}

type ObservationService interface {
	// List returns one user's series for one metric, newest first.
	List(ctx context.Context, in ObservationListInput) ([]*types.Observation, error)
}

type observationService struct {
	log      *logger.Logger
	registry MetricRegistry
	repo     repos.ObservationRepo
}

func NewObservationService(log *logger.Logger, registry MetricRegistry, repo repos.ObservationRepo) ObservationService {
	return &observationService{
		log:      log.With("service", "ObservationService"),
		registry: registry,
		repo:     repo,
	}
}

func (s *observationService) List(ctx context.Context, in ObservationListInput) ([]*types.Observation, error) {
	const op = "observations.list"
	code := strings.TrimSpace(in.MetricCode)
	if code == "" {
		return nil, errs.Validation(op, "metric_code is required")
	}
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return nil, errs.New(errs.CodeInvalidDateRange, op, "from must not be after to")
	}
	limit := in.Limit
	switch {
	case limit <= 0:
		limit = DefaultObservationLimit
	case limit > MaxObservationLimit:
		limit = MaxObservationLimit
	}

	resolved, _, err := s.registry.Resolve(ctx, []string{code})
	if err != nil {
		return nil, err
	}
	def, ok := resolved[code]
	if !ok {
		return nil, errs.New(errs.CodeNotFound, op, "unknown metric "+code)
	}

	rows, err := s.repo.List(ctx, nil, repos.ObservationQuery{
		UserID:   in.UserID,
		MetricID: def.ID,
		From:     in.From,
		To:       in.To,
		Limit:    limit,
	})
	if err != nil {
		return nil, repos.MapError(op, err)
	}
	return rows, nil
}
