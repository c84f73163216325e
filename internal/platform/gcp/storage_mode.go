package gcp

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

const DefaultUploadURLTTL = 15 * time.Minute

// ObjectStorageConfig selects how upload URLs are minted. SignerEmail and
// SignerPrivateKey are optional in gcs mode; without them the client signs
// with ambient credentials.
type ObjectStorageConfig struct {
	Mode                  ObjectStorageMode
	Bucket                string
	EmulatorHost          string
	SignerEmail           string
	SignerPrivateKey      []byte
	UploadTokenSecret     []byte
	UploadURLTTL          time.Duration
	CompatibilityFallback bool
}

func IsSupportedObjectStorageMode(mode ObjectStorageMode) bool {
	switch mode {
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
		return true
	default:
		return false
	}
}

func (cfg ObjectStorageConfig) IsEmulatorMode() bool {
	return cfg.Mode == ObjectStorageModeGCSEmulator
}

func (cfg ObjectStorageConfig) ModeSource() string {
	if cfg.CompatibilityFallback {
		return "compatibility_fallback"
	}
	return "explicit_or_default"
}

func (cfg ObjectStorageConfig) ttl() time.Duration {
	if cfg.UploadURLTTL <= 0 {
		return DefaultUploadURLTTL
	}
	return cfg.UploadURLTTL
}

type ObjectStorageConfigErrorCode string

const (
	ObjectStorageConfigErrorInvalidMode         ObjectStorageConfigErrorCode = "invalid_mode"
	ObjectStorageConfigErrorMissingBucket       ObjectStorageConfigErrorCode = "missing_bucket"
	ObjectStorageConfigErrorMissingEmulatorHost ObjectStorageConfigErrorCode = "missing_emulator_host"
	ObjectStorageConfigErrorInvalidEmulatorHost ObjectStorageConfigErrorCode = "invalid_emulator_host"
	ObjectStorageConfigErrorMissingTokenSecret  ObjectStorageConfigErrorCode = "missing_upload_token_secret"
	ObjectStorageConfigErrorPartialSigner       ObjectStorageConfigErrorCode = "partial_signer"
)

type ObjectStorageConfigError struct {
	Code         ObjectStorageConfigErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *ObjectStorageConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	switch e.Code {
	case ObjectStorageConfigErrorInvalidMode:
		return fmt.Sprintf(
			"invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)",
			e.Mode,
			ObjectStorageModeGCS,
			ObjectStorageModeGCSEmulator,
		)
	case ObjectStorageConfigErrorMissingBucket:
		return "MEDIA_BUCKET must be set"
	case ObjectStorageConfigErrorMissingEmulatorHost:
		return fmt.Sprintf(
			"OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set",
			ObjectStorageModeGCSEmulator,
		)
	case ObjectStorageConfigErrorInvalidEmulatorHost:
		return fmt.Sprintf(
			"invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443",
			e.EmulatorHost,
		)
	case ObjectStorageConfigErrorMissingTokenSecret:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires JWT_SECRET_KEY for upload tokens", ObjectStorageModeGCSEmulator)
	case ObjectStorageConfigErrorPartialSigner:
		return "GCS_SIGNER_EMAIL and GCS_SIGNER_PRIVATE_KEY must be set together"
	default:
		return "invalid object storage config"
	}
}

func (e *ObjectStorageConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ResolveObjectStorageMode picks the mode from the raw env values. An empty
// mode with an emulator host set selects the emulator.
func ResolveObjectStorageMode(rawMode, emulatorHost string) (ObjectStorageMode, bool, error) {
	mode := ObjectStorageMode(strings.ToLower(strings.TrimSpace(rawMode)))
	switch mode {
	case "":
		if strings.TrimSpace(emulatorHost) != "" {
			return ObjectStorageModeGCSEmulator, true, nil
		}
		return ObjectStorageModeGCS, false, nil
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
		return mode, false, nil
	default:
		return "", false, &ObjectStorageConfigError{
			Code: ObjectStorageConfigErrorInvalidMode,
			Mode: rawMode,
		}
	}
}

func ValidateObjectStorageConfig(cfg ObjectStorageConfig) error {
	if !IsSupportedObjectStorageMode(cfg.Mode) {
		return &ObjectStorageConfigError{
			Code: ObjectStorageConfigErrorInvalidMode,
			Mode: string(cfg.Mode),
		}
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingBucket, Mode: string(cfg.Mode)}
	}
	if !cfg.IsEmulatorMode() {
		if (cfg.SignerEmail == "") != (len(cfg.SignerPrivateKey) == 0) {
			return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorPartialSigner, Mode: string(cfg.Mode)}
		}
		return nil
	}

	if cfg.EmulatorHost == "" {
		return &ObjectStorageConfigError{
			Code: ObjectStorageConfigErrorMissingEmulatorHost,
			Mode: string(cfg.Mode),
		}
	}
	u, err := url.Parse(cfg.EmulatorHost)
	if err != nil || strings.TrimSpace(u.Scheme) == "" || strings.TrimSpace(u.Host) == "" {
		return &ObjectStorageConfigError{
			Code:         ObjectStorageConfigErrorInvalidEmulatorHost,
			Mode:         string(cfg.Mode),
			EmulatorHost: cfg.EmulatorHost,
			Cause:        err,
		}
	}
	if len(cfg.UploadTokenSecret) == 0 {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingTokenSecret, Mode: string(cfg.Mode)}
	}
	return nil
}
