package http

import (
	"bytes"
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/healx-backend/internal/data/repos"
	"github.com/yungbote/healx-backend/internal/data/repos/testutil"
	types "github.com/yungbote/healx-backend/internal/domain"
	httpH "github.com/yungbote/healx-backend/internal/http/handlers"
	httpMW "github.com/yungbote/healx-backend/internal/http/middleware"
	"github.com/yungbote/healx-backend/internal/platform/authz"
	"github.com/yungbote/healx-backend/internal/platform/gcp"
	"github.com/yungbote/healx-backend/internal/services"
)

type testAPI struct {
	engine *gin.Engine
	auth   services.AuthService
	user   *types.User
	token  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	db := testutil.FreshDB(t)
	log := testutil.Logger(t)

	metricRepo := repos.NewMetricDefinitionRepo(db, log)
	sourceRepo := repos.NewDataSourceRepo(db, log)
	obsRepo := repos.NewObservationRepo(db, log)

	registry := services.NewMetricRegistry(log, nil, metricRepo, nil, time.Minute)
	sources := services.NewSourceService(log, sourceRepo)
	ingestion := services.NewIngestionService(log, nil, repos.NewGormTxRunner(db), registry, sources, obsRepo, 0)
	signer, err := gcp.NewUploadSigner(ctx, log, gcp.ObjectStorageConfig{
		Mode:              gcp.ObjectStorageModeGCSEmulator,
		Bucket:            "healx-media",
		EmulatorHost:      "http://localhost:4443",
		UploadTokenSecret: []byte("router-test"),
	})
	require.NoError(t, err)
	auth := services.NewAuthService(log, "router-secret", services.AuthModeDev)
	authorizer, err := authz.NewDefaultAuthorizer(authz.ModeEnforce)
	require.NoError(t, err)

	engine := NewRouter(RouterConfig{
		Log:                log,
		AuthMiddleware:     httpMW.NewAuthMiddleware(log, auth),
		Authz:              httpMW.NewAuthz(log, authorizer),
		HealthHandler:      httpH.NewHealthHandler(),
		ObservationHandler: httpH.NewObservationHandler(ingestion, services.NewObservationService(log, registry, obsRepo)),
		JournalHandler:     httpH.NewJournalHandler(services.NewJournalService(log, nil, repos.NewJournalEntryRepo(db, log))),
		MediaHandler:       httpH.NewMediaHandler(services.NewMediaService(log, nil, signer, repos.NewMediaFileRepo(db, log))),
		MetricHandler:      httpH.NewMetricHandler(registry),
		SourceHandler:      httpH.NewSourceHandler(sources),
		UserHandler:        httpH.NewUserHandler(services.NewUserService(log, repos.NewUserRepo(db, log))),
		MedicationHandler:  httpH.NewMedicationHandler(services.NewMedicationService(log, repos.NewMedicationRepo(db, log))),
	})

	_, _, err = registry.Register(ctx, &types.MetricDefinition{Code: "HK_HR_RESTING", DisplayName: "Resting HR", Category: "Vitals", Unit: "bpm"})
	require.NoError(t, err)

	user := testutil.SeedUser(t, ctx, db)
	return &testAPI{engine: engine, auth: auth, user: user, token: user.ID.String()}
}

func (a *testAPI) call(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	out := map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestBatchIngestOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	naive := time.Now().UTC().Format("2006-01-02T15:04:05.000000")

	rec, body := api.call(t, nethttp.MethodPost, "/api/observations/batch", api.token, map[string]any{
		"source_name": "Apple Health",
		"data": []map[string]any{
			{"metric_code": "HK_HR_RESTING", "recorded_at": naive, "value_numeric": 55, "raw_metadata": map[string]any{"device": "watch"}},
			{"metric_code": "FAKE_METRIC", "recorded_at": naive, "value_numeric": 1},
			{"metric_code": "HK_HR_RESTING", "recorded_at": naive, "value_numeric": nil, "value_text": nil},
		},
	})
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, "success", body["status"])
	details := body["details"].(map[string]any)
	require.EqualValues(t, 1, details["processed"])
	skipped := details["skipped"].([]any)
	require.Len(t, skipped, 2)
	require.Equal(t, "unknown_metric", skipped[0].(map[string]any)["reason"])
	require.Equal(t, "missing_value", skipped[1].(map[string]any)["reason"])
	require.Equal(t, []any{"FAKE_METRIC"}, details["skipped_unknown_metrics"])

	rec, body = api.call(t, nethttp.MethodGet, "/api/observations?metric_code=HK_HR_RESTING", api.token, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, body["observations"].([]any), 1)
}

func TestBatchIngestErrors(t *testing.T) {
	api := newTestAPI(t)

	rec, _ := api.call(t, nethttp.MethodPost, "/api/observations/batch", "", map[string]any{"source_name": "x"})
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)

	rec, body := api.call(t, nethttp.MethodPost, "/api/observations/batch", api.token, map[string]any{
		"source_name": "x",
		"data":        []map[string]any{{"metric_code": "HK_HR_RESTING", "value_numeric": 1}},
	})
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)
	require.Equal(t, "validation", errorCode(body))

	// A well-formed token for a user the vault has never seen.
	rec, body = api.call(t, nethttp.MethodPost, "/api/observations/batch", uuid.NewString(), map[string]any{
		"source_name": "x",
		"data":        []map[string]any{{"metric_code": "HK_HR_RESTING", "recorded_at": "2026-01-01T00:00:00Z", "value_numeric": 1}},
	})
	require.Equal(t, nethttp.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "precondition_failed", errorCode(body))
}

func TestJournalOverHTTP(t *testing.T) {
	api := newTestAPI(t)

	rec, body := api.call(t, nethttp.MethodPost, "/api/journal", api.token, map[string]any{
		"entry_date": "2026-03-01", "content": "# good day", "mood_score": 8, "tags": []string{"run"},
	})
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	firstID := body["id"]

	rec, body = api.call(t, nethttp.MethodPost, "/api/journal", api.token, map[string]any{
		"entry_date": "2026-03-01", "content": "# edited", "mood_score": 6,
	})
	require.Equal(t, nethttp.StatusCreated, rec.Code)
	require.Equal(t, firstID, body["id"])

	rec, body = api.call(t, nethttp.MethodPost, "/api/journal", api.token, map[string]any{
		"entry_date": "2026-03-02", "mood_score": 11,
	})
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_mood", errorCode(body))

	rec, body = api.call(t, nethttp.MethodGet, "/api/journal?from=2026-03-01&to=2026-03-31", api.token, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Len(t, body["entries"].([]any), 1)
}

func TestMediaUploadURLOverHTTP(t *testing.T) {
	api := newTestAPI(t)

	rec, body := api.call(t, nethttp.MethodPost, "/api/media/upload-url", api.token, map[string]any{
		"filename": "scan.pdf", "file_type": "LabReport", "content_type": "application/pdf",
	})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "users/"+api.user.ID.String()+"/uploads/scan.pdf", body["file_path"])
	require.NotEmpty(t, body["upload_url"])
	require.NotEmpty(t, body["media_file_id"])

	rec, body = api.call(t, nethttp.MethodPost, "/api/media/upload-url", api.token, map[string]any{
		"filename": "mri.png", "category": "Scan", "file_type": "LabReport", "content_type": "image/png",
	})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "users/"+api.user.ID.String()+"/uploads/mri.png", body["file_path"])

	rec, body = api.call(t, nethttp.MethodPost, "/api/media/upload-url", api.token, map[string]any{
		"filename": "../x", "file_type": "LabReport", "content_type": "application/pdf",
	})
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)
	require.Equal(t, "validation", errorCode(body))
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	api := newTestAPI(t)
	metric := map[string]any{"code": "HK_VO2_MAX", "display_name": "VO2 Max", "category": "Fitness", "unit": "mL/kg/min"}

	rec, _ := api.call(t, nethttp.MethodPost, "/api/admin/metrics", api.token, metric)
	require.Equal(t, nethttp.StatusForbidden, rec.Code)

	admin, err := api.auth.IssueToken(api.user.ID, types.RoleAdmin, time.Hour)
	require.NoError(t, err)
	rec, body := api.call(t, nethttp.MethodPost, "/api/admin/metrics", admin, metric)
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, true, body["created"])

	metric["unit"] = "L/min"
	rec, body = api.call(t, nethttp.MethodPost, "/api/admin/metrics", admin, metric)
	require.Equal(t, nethttp.StatusConflict, rec.Code)
	require.Equal(t, "conflict", errorCode(body))

	rec, _ = api.call(t, nethttp.MethodPost, "/api/admin/registry/invalidate", admin, nil)
	require.Equal(t, nethttp.StatusAccepted, rec.Code)

	rec, body = api.call(t, nethttp.MethodPost, "/api/admin/sources", admin, map[string]any{"name": "LabCorp", "is_trusted": true})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, true, body["source"].(map[string]any)["is_trusted"])

	rec, body = api.call(t, nethttp.MethodGet, "/api/metrics/definitions", api.token, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Len(t, body["metrics"].([]any), 2)
}

func TestMeAndMedicationsOverHTTP(t *testing.T) {
	api := newTestAPI(t)

	rec, body := api.call(t, nethttp.MethodGet, "/api/me", api.token, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Equal(t, api.user.ID.String(), body["me"].(map[string]any)["id"])

	rec, _ = api.call(t, nethttp.MethodPost, "/api/medications", api.token, map[string]any{"name": "Creatine", "dosage": "5g"})
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())

	rec, body = api.call(t, nethttp.MethodGet, "/api/medications?active=true", api.token, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Len(t, body["medications"].([]any), 1)

	rec, _ = api.call(t, nethttp.MethodGet, "/api/me", uuid.NewString(), nil)
	require.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	api := newTestAPI(t)
	rec, _ := api.call(t, nethttp.MethodGet, "/healthcheck", "", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	rec, body := api.call(t, nethttp.MethodGet, "/health", "", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Equal(t, "healthy", body["status"])
}
