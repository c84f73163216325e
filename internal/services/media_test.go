package services

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/healx-backend/internal/data/repos"
	"github.com/yungbote/healx-backend/internal/data/repos/testutil"
	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/domain/errs"
	"github.com/yungbote/healx-backend/internal/platform/gcp"
)

var testUploadSecret = []byte("media-test-secret")

func newMediaService(t *testing.T) (MediaService, *types.User, repos.MediaFileRepo) {
	t.Helper()
	db := testutil.FreshDB(t)
	log := testutil.Logger(t)
	signer, err := gcp.NewUploadSigner(context.Background(), log, gcp.ObjectStorageConfig{
		Mode:              gcp.ObjectStorageModeGCSEmulator,
		Bucket:            "healx-media",
		EmulatorHost:      "http://localhost:4443",
		UploadTokenSecret: testUploadSecret,
	})
	require.NoError(t, err)
	repo := repos.NewMediaFileRepo(db, log)
	return NewMediaService(log, nil, signer, repo), testutil.SeedUser(t, context.Background(), db), repo
}

func TestMediaAuthorizeScopesGrantToUserPrefix(t *testing.T) {
	svc, user, repo := newMediaService(t)
	ctx := context.Background()

	before := time.Now().UTC()
	grant, err := svc.Authorize(ctx, MediaAuthorizeInput{
		UserID: user.ID, Filename: "blood_panel.pdf", Category: "LabReport", ContentType: "application/pdf",
	})
	require.NoError(t, err)
	require.Equal(t, "users/"+user.ID.String()+"/uploads/blood_panel.pdf", grant.FilePath)
	require.Equal(t, "PUT", grant.Method)
	require.WithinDuration(t, before.Add(15*time.Minute), grant.ExpiresAt, time.Minute)

	u, err := url.Parse(grant.UploadURL)
	require.NoError(t, err)
	claims, err := gcp.VerifyUploadToken(testUploadSecret, u.Query().Get("upload_token"))
	require.NoError(t, err)
	require.Equal(t, grant.FilePath, claims.Subject)

	files, err := repo.GetByIDs(ctx, nil, []uuid.UUID{grant.MediaFileID})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.False(t, files[0].IsProcessed)
	require.Equal(t, "healx-media", files[0].StorageBucket)
	require.Equal(t, grant.FilePath, files[0].StorageKey)
}

func TestMediaAuthorizeRejectsUnsafeInput(t *testing.T) {
	svc, user, _ := newMediaService(t)
	ctx := context.Background()

	bad := []MediaAuthorizeInput{
		{UserID: user.ID, Filename: "../x", Category: "Scan", ContentType: "image/png"},
		{UserID: user.ID, Filename: "a/b.png", Category: "Scan", ContentType: "image/png"},
		{UserID: user.ID, Filename: `a\b.png`, Category: "Scan", ContentType: "image/png"},
		{UserID: user.ID, Filename: "..", Category: "Scan", ContentType: "image/png"},
		{UserID: user.ID, Filename: "bad\nname", Category: "Scan", ContentType: "image/png"},
		{UserID: user.ID, Filename: strings.Repeat("a", 256), Category: "Scan", ContentType: "image/png"},
		{UserID: user.ID, Filename: "scan.png", Category: "Selfie", ContentType: "image/png"},
		{UserID: user.ID, Filename: "scan.png", Category: "Scan", ContentType: "not a type"},
	}
	for i, in := range bad {
		_, err := svc.Authorize(ctx, in)
		require.True(t, errs.IsCode(err, errs.CodeValidation), "case %d: got %v", i, err)
	}
}
