package app

import (
	"testing"
	"time"

	"github.com/yungbote/healx-backend/internal/platform/authz"
	"github.com/yungbote/healx-backend/internal/services"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("AUTH_MODE", "dev")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("OBJECT_STORAGE_MODE", "")
	t.Setenv("STORAGE_EMULATOR_HOST", "")
	t.Setenv("MEDIA_UPLOAD_URL_TTL", "")
	t.Setenv("AUTHZ_MODE", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AuthMode != services.AuthModeDev || cfg.AuthzMode != authz.ModeEnforce {
		t.Fatalf("modes: auth=%s authz=%s", cfg.AuthMode, cfg.AuthzMode)
	}
	if cfg.MediaUploadURLTTL != 15*time.Minute {
		t.Fatalf("upload ttl: %s", cfg.MediaUploadURLTTL)
	}
	if cfg.ObjectStorageMode != "gcs" || cfg.StorageModeCompatFallback {
		t.Fatalf("storage mode: %s fallback=%v", cfg.ObjectStorageMode, cfg.StorageModeCompatFallback)
	}
	if cfg.ListenAddress() != ":8080" {
		t.Fatalf("listen address: %s", cfg.ListenAddress())
	}
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("JWT_SECRET_KEY", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected missing secret to fail")
	}
}

func TestLoadConfigEmulatorFallback(t *testing.T) {
	t.Setenv("AUTH_MODE", "dev")
	t.Setenv("OBJECT_STORAGE_MODE", "")
	t.Setenv("STORAGE_EMULATOR_HOST", "http://fake-gcs:4443")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ObjectStorageMode != "gcs_emulator" || !cfg.StorageModeCompatFallback {
		t.Fatalf("storage mode: %s fallback=%v", cfg.ObjectStorageMode, cfg.StorageModeCompatFallback)
	}
}

func TestLoadConfigRejectsUnknownModes(t *testing.T) {
	t.Setenv("AUTH_MODE", "magic")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected bad AUTH_MODE to fail")
	}
	t.Setenv("AUTH_MODE", "dev")
	t.Setenv("AUTHZ_MODE", "sometimes")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected bad AUTHZ_MODE to fail")
	}
}
