package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/course_funnel/funnel"
	"github.com/BerniceZTT/course_funnel/middleware"
	"github.com/BerniceZTT/course_funnel/models"
	"github.com/BerniceZTT/course_funnel/repository"
	"github.com/BerniceZTT/course_funnel/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := repository.NewMemoryStore(repository.SeedStudents(), nil)
	clock := funnel.ClockFunc(func() time.Time { return time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC) })
	svc := service.NewFunnelService(store, clock)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.OperationLogger())
	RegisterRoutes(router, svc)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestHealth(t *testing.T) {
	router := newTestRouter()
	w, _ := doRequest(t, router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestStageLifecycle(t *testing.T) {
	router := newTestRouter()

	w, env := doRequest(t, router, http.MethodGet, "/api/student/S001/stage", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "RESOURCE_NOT_FOUND", env.Code)

	w, env = doRequest(t, router, http.MethodPost, "/api/student/S001/stage", map[string]interface{}{
		"stage":            "5. 成交",
		"mainCourse":       "美甲",
		"conversionCourse": "美甲全科",
		"conversionAmount": 28000,
		"notes":            "刷卡",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)

	var rec models.FunnelRecord
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, "張三", rec.Name)
	assert.True(t, rec.VisitStatus)
	assert.Equal(t, "2024-03-20", rec.ConversionDate)
	assert.Equal(t, "刷卡", rec.ConversionNotes)

	w, env = doRequest(t, router, http.MethodGet, "/api/student/S001/stage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, "5. 成交", rec.CurrentStage)
}

func TestStageValidation(t *testing.T) {
	router := newTestRouter()

	w, env := doRequest(t, router, http.MethodPost, "/api/student/S001/stage", map[string]string{"stage": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", env.Code)

	w, env = doRequest(t, router, http.MethodPost, "/api/student/S001/stage", map[string]string{"notes": "缺少阶段"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", env.Code)

	// 校验失败时不会写入记录
	w, _ = doRequest(t, router, http.MethodGet, "/api/student/S001/stage", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = doRequest(t, router, http.MethodPost, "/api/student/S999/stage", map[string]string{"stage": "2.1 聯繫成功"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RESOURCE_NOT_FOUND", env.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/student/S001/stage", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFunnelAnalyticsEndpoint(t *testing.T) {
	router := newTestRouter()

	w, env := doRequest(t, router, http.MethodPost, "/api/funnel/sync", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sync struct {
		Created int `json:"created"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sync))
	assert.Equal(t, 5, sync.Created)

	w, env = doRequest(t, router, http.MethodGet, "/api/funnel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result models.FunnelAnalytics
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 5, result.TotalStudents)
	assert.Len(t, result.Stages, 8)
	assert.NotNil(t, result.ByConversionCourse)

	// 仅 S001、S002 的洽询日期落在区间内
	w, env = doRequest(t, router, http.MethodGet, "/api/funnel?from=2024-03-01&to=2024-03-05", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 2, result.TotalStudents)

	w, env = doRequest(t, router, http.MethodGet, "/api/analytics/consultant", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var perf []models.ConsultantPerformance
	require.NoError(t, json.Unmarshal(env.Data, &perf))
	require.Len(t, perf, 2)
	assert.Equal(t, 2, perf[0].Total)
}

func TestSalesEndpoints(t *testing.T) {
	router := newTestRouter()

	w, env := doRequest(t, router, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products []models.Product
	require.NoError(t, json.Unmarshal(env.Data, &products))
	assert.Len(t, products, 5)

	w, env = doRequest(t, router, http.MethodGet, "/api/students", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var students []models.Student
	require.NoError(t, json.Unmarshal(env.Data, &students))
	assert.Len(t, students, 5)

	w, _ = doRequest(t, router, http.MethodPost, "/api/sales", map[string]interface{}{"studentId": "S003", "productId": "紋繡全科"})
	require.Equal(t, http.StatusCreated, w.Code)

	invalid := []map[string]interface{}{
		{"studentId": "S003"},
		{"studentId": "S003", "productId": ""},
		{"productId": "紋繡全科"},
		{"studentId": "S003", "productId": "紋繡全科", "quantity": -1},
	}
	for _, body := range invalid {
		w, env = doRequest(t, router, http.MethodPost, "/api/sales", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "BAD_REQUEST", env.Code, body)
	}

	w, env = doRequest(t, router, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash models.SalesDashboard
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	require.Len(t, dash.Students, 5)
	assert.True(t, dash.Students[2].IsConverted)
	assert.Equal(t, 1, dash.Students[2].Sales["紋繡全科"])
	assert.Equal(t, "官網", dash.Students[2].Source)
}
