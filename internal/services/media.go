package services

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/healx-backend/internal/data/repos"
	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/domain/errs"
	"github.com/yungbote/healx-backend/internal/domain/media"
	"github.com/yungbote/healx-backend/internal/observability"
	"github.com/yungbote/healx-backend/internal/platform/gcp"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

const maxMediaFilenameLen = 255

type MediaAuthorizeInput struct {
	UserID      uuid.UUID
	Filename    string
	Category    string
	ContentType string
	SizeBytes   *int64
}

type MediaUploadGrant struct {
	UploadURL   string    `json:"upload_url"`
	FilePath    string    `json:"file_path"`
	Method      string    `json:"method"`
	ExpiresAt   time.Time `json:"expires_at"`
	MediaFileID uuid.UUID `json:"media_file_id"`
}

type MediaService interface {
	// Authorize records an upload intent and returns a write grant scoped to
	// users/{user_id}/uploads/{filename}. A later grant for the same key
	// replaces the object the earlier one would have written.
	Authorize(ctx context.Context, in MediaAuthorizeInput) (*MediaUploadGrant, error)
}

type mediaService struct {
	log     *logger.Logger
	metrics *observability.Metrics
	signer  gcp.UploadSigner
	repo    repos.MediaFileRepo
	now     func() time.Time
}

func NewMediaService(log *logger.Logger, metrics *observability.Metrics, signer gcp.UploadSigner, repo repos.MediaFileRepo) MediaService {
	return &mediaService{
		log:     log.With("service", "MediaService"),
		metrics: metrics,
		signer:  signer,
		repo:    repo,
		now:     time.Now,
	}
}

func (s *mediaService) Authorize(ctx context.Context, in MediaAuthorizeInput) (*MediaUploadGrant, error) {
	const op = "media.authorize"
	if in.UserID == uuid.Nil {
		return nil, errs.Validation(op, "user id is required")
	}
	filename, err := cleanFilename(op, in.Filename)
	if err != nil {
		return nil, err
	}
	category := media.FileCategory(strings.TrimSpace(in.Category))
	if !category.Valid() {
		return nil, errs.Validation(op, "unknown file category %q", in.Category)
	}
	contentType := strings.TrimSpace(in.ContentType)
	if _, _, err := mime.ParseMediaType(contentType); err != nil {
		return nil, errs.Validation(op, "content_type %q is not a media type", in.ContentType)
	}
	if in.SizeBytes != nil && *in.SizeBytes < 0 {
		return nil, errs.Validation(op, "size_bytes must not be negative")
	}
	if s.signer == nil {
		return nil, errs.New(errs.CodeStorageUnavailable, op, "object storage is not configured")
	}

	key := MediaObjectKey(in.UserID, filename)
	grant, err := s.signer.SignUpload(ctx, key, contentType)
	if err != nil {
		return nil, errs.Wrap(errs.CodeStorageUnavailable, op, err)
	}

	file := &types.MediaFile{
		ID:            uuid.New(),
		UserID:        in.UserID,
		Category:      category,
		StorageBucket: grant.Bucket,
		StorageKey:    key,
		Filename:      filename,
		MimeType:      contentType,
		SizeBytes:     in.SizeBytes,
		IsProcessed:   false,
		UploadedAt:    s.now().UTC(),
	}
	if _, err := s.repo.Create(ctx, nil, []*types.MediaFile{file}); err != nil {
		return nil, repos.MapError(op, err)
	}

	s.metrics.IncMediaGrant(string(category))
	s.log.Info("upload url issued", "user_id", in.UserID.String(), "media_file_id", file.ID, "category", category)
	return &MediaUploadGrant{
		UploadURL:   grant.URL,
		FilePath:    key,
		Method:      grant.Method,
		ExpiresAt:   grant.ExpiresAt,
		MediaFileID: file.ID,
	}, nil
}

func MediaObjectKey(userID uuid.UUID, filename string) string {
	return fmt.Sprintf("users/%s/uploads/%s", userID, filename)
}

// cleanFilename accepts a bare file name only, so a grant can never reach
// outside the caller's upload prefix.
func cleanFilename(op, raw string) (string, error) {
	name := strings.TrimSpace(raw)
	switch {
	case name == "":
		return "", errs.Validation(op, "filename is required")
	case len(name) > maxMediaFilenameLen:
		return "", errs.Validation(op, "filename must be at most %d characters", maxMediaFilenameLen)
	case name == "." || name == "..":
		return "", errs.Validation(op, "filename %q is not allowed", raw)
	case strings.ContainsAny(name, `/\`):
		return "", errs.Validation(op, "filename must not contain path separators")
	case strings.ContainsFunc(name, func(r rune) bool { return r < 0x20 || r == 0x7f }):
		return "", errs.Validation(op, "filename must not contain control characters")
	}
	return name, nil
}
