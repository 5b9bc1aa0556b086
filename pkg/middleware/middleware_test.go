package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/inkwell/blog/backend/go-services/pkg/logger"
	"github.com/inkwell/blog/backend/go-services/pkg/metrics"
)

func TestHandlePanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.Use(gin.CustomRecovery(HandlePanics()))
	g.GET("/boom", func(c *gin.Context) { panic("boom") })

	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rw.Code)
	require.JSONEq(t, `{"success":false,"statusCode":500,"message":"Internal server error"}`, rw.Body.String())
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.Use(CORS("http://localhost:5173"))
	g.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodOptions, "/x", nil))
	require.Equal(t, http.StatusNoContent, rw.Code)
	require.Equal(t, "http://localhost:5173", rw.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rw.Header().Get("Access-Control-Allow-Credentials"))

	rw = httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusOK, rw.Code)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.Output()
	logger.SetOutput(&buf)
	defer logger.SetOutput(prev)
	logger.Init("info")

	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.Use(RequestLogger())
	g.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	before := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "/items/:id", "404"))
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	require.Equal(t, http.StatusNotFound, rw.Code)
	require.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "/items/:id", "404")))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	require.Equal(t, "warn", line["level"])
	require.Equal(t, "/items/42", line["path"])
	require.Equal(t, float64(404), line["status"])
	require.Equal(t, "http", line["component"])
}
