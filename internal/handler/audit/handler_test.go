package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medaudit/audit-trail-api/internal/model"
	"github.com/medaudit/audit-trail-api/internal/repository"
	auditService "github.com/medaudit/audit-trail-api/internal/service/audit"
	"github.com/medaudit/audit-trail-api/pkg/metrics"
)

type stubLogRepo struct {
	logs       map[string]*model.AuditLog
	lastFilter model.LogFilters
}

func (s *stubLogRepo) Create(_ context.Context, log *model.AuditLog) error {
	s.logs[log.ID] = log
	return nil
}

func (s *stubLogRepo) CreateBatch(ctx context.Context, logs []*model.AuditLog) error {
	for _, log := range logs {
		if err := s.Create(ctx, log); err != nil {
			return err
		}
	}
	return nil
}

func (s *stubLogRepo) Get(_ context.Context, id string) (*model.AuditLog, error) {
	if log, ok := s.logs[id]; ok {
		return log, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubLogRepo) List(_ context.Context, filters model.LogFilters) ([]*model.AuditLog, error) {
	s.lastFilter = filters
	out := make([]*model.AuditLog, 0, len(s.logs))
	for _, log := range s.logs {
		out = append(out, log)
	}
	return out, nil
}

func (s *stubLogRepo) Count(context.Context, string, time.Time) (int64, error) {
	return int64(len(s.logs)), nil
}

func (s *stubLogRepo) CountByEventType(context.Context, string, time.Time) ([]model.TypeCount, error) {
	return nil, nil
}

func (s *stubLogRepo) CountByLevel(context.Context, string, time.Time) ([]model.LevelCount, error) {
	return []model.LevelCount{{Level: "INFO", Count: 90}, {Level: "ERROR", Count: 10}}, nil
}

func (s *stubLogRepo) HourlyActivity(context.Context, string, time.Time) ([]model.HourlyCount, error) {
	return nil, nil
}

func (s *stubLogRepo) DailyActivity(context.Context, string, time.Time) ([]model.DailyCount, error) {
	return nil, nil
}

func (s *stubLogRepo) TopUsers(context.Context, string, time.Time, int) ([]model.UserActivityCount, error) {
	return nil, nil
}

func (s *stubLogRepo) SecurityCounts(context.Context, string, time.Time) (*model.SecurityReport, error) {
	return &model.SecurityReport{TotalEvents: 3}, nil
}

func (s *stubLogRepo) DeleteBefore(context.Context, time.Time) (int64, error) { return 0, nil }

type stubCountRepo struct{ active int64 }

func (s *stubCountRepo) Create(context.Context, *model.User) error { return nil }
func (s *stubCountRepo) Get(context.Context, string) (*model.User, error) {
	return nil, repository.ErrNotFound
}
func (s *stubCountRepo) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, repository.ErrNotFound
}
func (s *stubCountRepo) List(context.Context, string) ([]*model.User, error) { return nil, nil }
func (s *stubCountRepo) Search(context.Context, string, string, int) ([]*model.User, error) {
	return nil, nil
}
func (s *stubCountRepo) CountActive(context.Context, string) (int64, error) { return s.active, nil }
func (s *stubCountRepo) UpdateLastLogin(context.Context, string, time.Time) error { return nil }

type stubDeviceRepo struct{ active int64 }

func (s *stubDeviceRepo) Create(context.Context, *model.Device) error { return nil }
func (s *stubDeviceRepo) Get(context.Context, string) (*model.Device, error) {
	return nil, repository.ErrNotFound
}
func (s *stubDeviceRepo) List(context.Context, string) ([]*model.Device, error) { return nil, nil }
func (s *stubDeviceRepo) Search(context.Context, string, string, int) ([]*model.Device, error) {
	return nil, nil
}
func (s *stubDeviceRepo) CountActive(context.Context, string) (int64, error) { return s.active, nil }
func (s *stubDeviceRepo) TouchLastSeen(context.Context, string, time.Time) error { return nil }

type stubPatientRepo struct{ count int64 }

func (s *stubPatientRepo) Create(context.Context, *model.Patient) error { return nil }
func (s *stubPatientRepo) Get(context.Context, string) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}
func (s *stubPatientRepo) List(context.Context, string) ([]*model.Patient, error) { return nil, nil }
func (s *stubPatientRepo) Search(context.Context, string, string, int) ([]*model.Patient, error) {
	return nil, nil
}
func (s *stubPatientRepo) Count(context.Context, string) (int64, error) { return s.count, nil }

// promauto registers on the default registry; one instance per test binary.
var testMetrics = metrics.New("audit_handler_test")

func newTestRouter(t *testing.T) (*gin.Engine, *stubLogRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubLogRepo{logs: map[string]*model.AuditLog{}}
	svc := auditService.NewService(
		repo,
		&stubCountRepo{active: 24},
		&stubDeviceRepo{active: 14},
		&stubPatientRepo{count: 100},
		nil,
		testMetrics,
		cache.New(time.Minute, time.Minute),
		zerolog.Nop(),
	)

	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router, repo
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestListLogs(t *testing.T) {
	router, repo := newTestRouter(t)
	repo.logs["e1"] = &model.AuditLog{ID: "e1", EventType: model.EventUserLogin, Level: model.LevelInfo}

	w := doRequest(router, http.MethodGet, "/api/v1/logs?level=ERROR&limit=50")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string            `json:"status"`
		Data   []*model.AuditLog `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Len(t, resp.Data, 1)

	assert.Equal(t, "ERROR", repo.lastFilter.Level)
	assert.Equal(t, 50, repo.lastFilter.Limit)
}

func TestListLogsRejectsBadLevel(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/logs?level=VERBOSE")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListLogsRejectsBadLimit(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, limit := range []string{"-5", "5001", "abc"} {
		w := doRequest(router, http.MethodGet, "/api/v1/logs?limit="+limit)
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", limit)
	}
}

func TestListLogsRejectsBadDates(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/logs?start_date=yesterday")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/logs?end_date=2024-13-99")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListLogsParsesDates(t *testing.T) {
	router, repo := newTestRouter(t)

	w := doRequest(router, http.MethodGet,
		"/api/v1/logs?start_date=2024-03-15T00:00:00Z&end_date=2024-03-16T00:00:00Z")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.lastFilter.StartDate)
	require.NotNil(t, repo.lastFilter.EndDate)
	assert.Equal(t, 15, repo.lastFilter.StartDate.Day())
}

func TestGetLog(t *testing.T) {
	router, repo := newTestRouter(t)
	repo.logs["e1"] = &model.AuditLog{ID: "e1", EventType: model.EventUserLogin, Level: model.LevelInfo}

	w := doRequest(router, http.MethodGet, "/api/v1/logs/e1")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/logs/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardStats(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/stats/dashboard?hospital_id=H01")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.DashboardStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(24), resp.Data.ActiveUsers)
	assert.Equal(t, int64(14), resp.Data.ActiveDevices)
	assert.Equal(t, int64(100), resp.Data.PatientCount)
	assert.Equal(t, int64(3), resp.Data.SecurityEvents)
	// 10% errors in the window caps the penalty.
	assert.InDelta(t, 80, resp.Data.SystemHealth, 0.001)
}
