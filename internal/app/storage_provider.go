package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/healx-backend/internal/platform/gcp"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

var newUploadSigner = gcp.NewUploadSigner

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorInvalidSigner       StorageProviderBootstrapErrorCode = "invalid_signer"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func resolveStorageMode(rawMode, emulatorHost string) (string, bool, error) {
	mode, fallback, err := gcp.ResolveObjectStorageMode(rawMode, emulatorHost)
	if err != nil {
		return "", false, classifyStorageProviderBootstrapError(gcp.ObjectStorageConfig{Mode: gcp.ObjectStorageMode(rawMode)}, err)
	}
	return string(mode), fallback, nil
}

func objectStorageConfig(cfg Config) gcp.ObjectStorageConfig {
	return gcp.ObjectStorageConfig{
		Mode:                  gcp.ObjectStorageMode(strings.TrimSpace(cfg.ObjectStorageMode)),
		Bucket:                strings.TrimSpace(cfg.MediaBucket),
		EmulatorHost:          strings.TrimSpace(cfg.StorageEmulatorHost),
		SignerEmail:           strings.TrimSpace(cfg.GCSSignerEmail),
		SignerPrivateKey:      gcp.NormalizePrivateKey(cfg.GCSSignerPrivateKey),
		UploadTokenSecret:     []byte(cfg.UploadTokenSecret),
		UploadURLTTL:          cfg.MediaUploadURLTTL,
		CompatibilityFallback: cfg.StorageModeCompatFallback,
	}
}

// resolveUploadSigner returns a nil signer when no media bucket is configured;
// upload grants then fail with storage_unavailable.
func resolveUploadSigner(ctx context.Context, log *logger.Logger, cfg Config) (gcp.UploadSigner, error) {
	storageCfg := objectStorageConfig(cfg)
	modeSource := storageCfg.ModeSource()

	if storageCfg.Bucket == "" {
		log.Warn("MEDIA_BUCKET not set; media upload authorization disabled")
		return nil, nil
	}

	log.Info(
		"Selecting object storage provider",
		"mode", storageCfg.Mode,
		"mode_source", modeSource,
		"compatibility_fallback", storageCfg.CompatibilityFallback,
		"emulator_host", storageCfg.EmulatorHost,
	)

	signer, err := newUploadSigner(ctx, log, storageCfg)
	if err != nil {
		classified := classifyStorageProviderBootstrapError(storageCfg, err)
		log.Error(
			"Object storage provider bootstrap failed",
			"mode", storageCfg.Mode,
			"mode_source", modeSource,
			"compatibility_fallback", storageCfg.CompatibilityFallback,
			"emulator_host", storageCfg.EmulatorHost,
			"error_code", storageProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}
	return signer, nil
}

func classifyStorageProviderBootstrapError(storageCfg gcp.ObjectStorageConfig, err error) error {
	code := StorageProviderBootstrapErrorConnectFailed
	var cfgErr *gcp.ObjectStorageConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Code {
		case gcp.ObjectStorageConfigErrorInvalidMode, gcp.ObjectStorageConfigErrorMissingBucket:
			code = StorageProviderBootstrapErrorInvalidMode
		case gcp.ObjectStorageConfigErrorMissingEmulatorHost:
			code = StorageProviderBootstrapErrorMissingEmulatorHost
		case gcp.ObjectStorageConfigErrorInvalidEmulatorHost:
			code = StorageProviderBootstrapErrorInvalidEmulatorHost
		case gcp.ObjectStorageConfigErrorMissingTokenSecret, gcp.ObjectStorageConfigErrorPartialSigner:
			code = StorageProviderBootstrapErrorInvalidSigner
		}
	}
	return &StorageProviderBootstrapError{
		Code:         code,
		Mode:         string(storageCfg.Mode),
		EmulatorHost: storageCfg.EmulatorHost,
		Cause:        err,
	}
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) {
		if bootstrapErr.Code != "" {
			return bootstrapErr.Code
		}
	}
	return StorageProviderBootstrapErrorConnectFailed
}
