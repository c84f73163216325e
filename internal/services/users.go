package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/healx-backend/internal/data/repos"
	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/domain/errs"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error)
}

type userService struct {
	log  *logger.Logger
	repo repos.UserRepo
}

func NewUserService(log *logger.Logger, repo repos.UserRepo) UserService {
	return &userService{
		log:  log.With("service", "UserService"),
		repo: repo,
	}
}

func (s *userService) GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	const op = "users.me"
	users, err := s.repo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, repos.MapError(op, err)
	}
	if len(users) == 0 {
		return nil, errs.New(errs.CodeNotFound, op, "user not found")
	}
	return users[0], nil
}
