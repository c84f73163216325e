package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/healx-backend/internal/data/repos"
	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/domain/errs"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

const minSourceAPIKeyLen = 16

type ProvisionSourceInput struct {
	Name      string
	IsTrusted bool
	// APIKey is hashed with bcrypt before it is stored. Nil keeps the
	// current hash.
	APIKey *string
}

type SourceService interface {
	// Resolve returns the source named name, creating it untrusted if needed.
	Resolve(ctx context.Context, name string) (*types.DataSource, error)
	Provision(ctx context.Context, in ProvisionSourceInput) (*types.DataSource, error)
	VerifyAPIKey(ctx context.Context, name, apiKey string) (bool, error)
}

type sourceService struct {
	log  *logger.Logger
	repo repos.DataSourceRepo
	cost int
}

func NewSourceService(log *logger.Logger, repo repos.DataSourceRepo) SourceService {
	return &sourceService{
		log:  log.With("service", "SourceService"),
		repo: repo,
		cost: bcrypt.DefaultCost,
	}
}

func (s *sourceService) Resolve(ctx context.Context, name string) (*types.DataSource, error) {
	const op = "sources.resolve"
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Validation(op, "source_name is required")
	}

	src, err := s.repo.EnsureByName(ctx, nil, name)
	if err == nil {
		return src, nil
	}
	mapped := repos.MapError(op, err)
	if !errs.IsCode(mapped, errs.CodeConflict) {
		return nil, mapped
	}
	// A concurrent insert won; its row is now visible.
	src, err = s.repo.GetByName(ctx, nil, name)
	if err != nil {
		return nil, repos.MapError(op, err)
	}
	return src, nil
}

func (s *sourceService) Provision(ctx context.Context, in ProvisionSourceInput) (*types.DataSource, error) {
	const op = "sources.provision"
	var hash *string
	if in.APIKey != nil {
		key := strings.TrimSpace(*in.APIKey)
		if len(key) < minSourceAPIKeyLen {
			return nil, errs.Validation(op, "api_key must be at least %d characters", minSourceAPIKeyLen)
		}
		raw, err := bcrypt.GenerateFromPassword([]byte(key), s.cost)
		if err != nil {
			return nil, errs.Wrap(errs.CodeInternal, op, err)
		}
		h := string(raw)
		hash = &h
	}

	src, err := s.Resolve(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTrust(ctx, nil, src.ID, in.IsTrusted, hash); err != nil {
		return nil, repos.MapError(op, err)
	}
	src.IsTrusted = in.IsTrusted
	if hash != nil {
		src.APIKeyHash = hash
	}
	s.log.Info("source provisioned", "source_id", src.ID, "is_trusted", src.IsTrusted, "has_api_key", src.APIKeyHash != nil)
	return src, nil
}

func (s *sourceService) VerifyAPIKey(ctx context.Context, name, apiKey string) (bool, error) {
	const op = "sources.verify_key"
	src, err := s.repo.GetByName(ctx, nil, strings.TrimSpace(name))
	if err != nil {
		mapped := repos.MapError(op, err)
		if errs.IsCode(mapped, errs.CodeNotFound) {
			return false, nil
		}
		return false, mapped
	}
	if src.APIKeyHash == nil {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(*src.APIKeyHash), []byte(apiKey)) == nil, nil
}
