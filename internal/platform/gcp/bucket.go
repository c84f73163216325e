package gcp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/api/option"

	"github.com/yungbote/healx-backend/internal/platform/logger"
)

const uploadTokenAudience = "healx-upload"

// UploadGrant is a write capability for exactly one object.
type UploadGrant struct {
	URL       string
	Bucket    string
	Key       string
	Method    string
	ExpiresAt time.Time
}

// UploadSigner mints upload grants. It never touches object bytes.
type UploadSigner interface {
	SignUpload(ctx context.Context, key, contentType string) (*UploadGrant, error)
	Bucket() string
	Close() error
}

type uploadSigner struct {
	log           *logger.Logger
	cfg           ObjectStorageConfig
	storageClient *storage.Client
	emulatorHost  string
	now           func() time.Time
}

func NewUploadSigner(ctx context.Context, log *logger.Logger, cfg ObjectStorageConfig) (UploadSigner, error) {
	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	serviceLog := log.With("service", "UploadSigner")

	s := &uploadSigner{
		log:          serviceLog,
		cfg:          cfg,
		emulatorHost: strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/"),
		now:          time.Now,
	}

	// An explicit signer key signs locally and needs no client.
	if !cfg.IsEmulatorMode() && len(cfg.SignerPrivateKey) == 0 {
		opts := ClientOptionsFromEnv()
		opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
		client, err := storage.NewClient(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		s.storageClient = client
	}

	serviceLog.Info(
		"Object storage initialized",
		"mode", cfg.Mode,
		"mode_source", cfg.ModeSource(),
		"emulator_host", s.emulatorHost,
		"bucket", cfg.Bucket,
		"upload_ttl", cfg.ttl().String(),
	)
	return s, nil
}

func (s *uploadSigner) Bucket() string { return s.cfg.Bucket }

func (s *uploadSigner) Close() error {
	if s.storageClient == nil {
		return nil
	}
	return s.storageClient.Close()
}

func (s *uploadSigner) SignUpload(ctx context.Context, key, contentType string) (*UploadGrant, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("object key is required")
	}
	expires := s.now().UTC().Add(s.cfg.ttl())

	var (
		signed string
		err    error
	)
	if s.cfg.IsEmulatorMode() {
		signed, err = s.emulatorUploadURL(key, contentType, expires)
	} else {
		signed, err = s.gcsSignedURL(key, contentType, expires)
	}
	if err != nil {
		return nil, err
	}
	return &UploadGrant{
		URL:       signed,
		Bucket:    s.cfg.Bucket,
		Key:       key,
		Method:    "PUT",
		ExpiresAt: expires,
	}, nil
}

func (s *uploadSigner) gcsSignedURL(key, contentType string, expires time.Time) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      "PUT",
		ContentType: contentType,
		Expires:     expires,
	}
	if len(s.cfg.SignerPrivateKey) > 0 {
		opts.GoogleAccessID = s.cfg.SignerEmail
		opts.PrivateKey = s.cfg.SignerPrivateKey
		u, err := storage.SignedURL(s.cfg.Bucket, key, opts)
		if err != nil {
			return "", fmt.Errorf("sign upload url: %w", err)
		}
		return u, nil
	}
	u, err := s.storageClient.Bucket(s.cfg.Bucket).SignedURL(key, opts)
	if err != nil {
		return "", fmt.Errorf("sign upload url: %w", err)
	}
	return u, nil
}

// UploadTokenClaims scope an emulator upload to one object until expiry.
type UploadTokenClaims struct {
	Bucket      string `json:"bucket"`
	ContentType string `json:"ct,omitempty"`
	jwt.RegisteredClaims
}

func (s *uploadSigner) emulatorUploadURL(key, contentType string, expires time.Time) (string, error) {
	claims := UploadTokenClaims{
		Bucket:      s.cfg.Bucket,
		ContentType: contentType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   key,
			Audience:  jwt.ClaimStrings{uploadTokenAudience},
			IssuedAt:  jwt.NewNumericDate(s.now().UTC()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.UploadTokenSecret)
	if err != nil {
		return "", fmt.Errorf("sign upload token: %w", err)
	}
	q := url.Values{}
	q.Set("uploadType", "media")
	q.Set("name", key)
	q.Set("upload_token", token)
	return fmt.Sprintf("%s/upload/storage/v1/b/%s/o?%s", s.emulatorHost, url.PathEscape(s.cfg.Bucket), q.Encode()), nil
}

// VerifyUploadToken checks an emulator upload token and returns the object key
// it grants.
func VerifyUploadToken(secret []byte, token string) (*UploadTokenClaims, error) {
	claims := &UploadTokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(uploadTokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid upload token")
	}
	return claims, nil
}
