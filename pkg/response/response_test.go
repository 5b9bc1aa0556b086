package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestEnvelopes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ok", func(c *gin.Context) { OK(c, http.StatusCreated, gin.H{"id": "1"}, "created") })
	r.GET("/err", func(c *gin.Context) { Error(c, http.StatusNotFound, "Post not found") })
	r.GET("/abort", func(c *gin.Context) { Abort(c, http.StatusForbidden, "nope") }, func(c *gin.Context) { c.Status(http.StatusOK) })

	rw := httptest.NewRecorder()
	r.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.Equal(t, http.StatusCreated, rw.Code)
	var ok map[string]interface{}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &ok))
	require.Equal(t, true, ok["success"])
	require.Equal(t, float64(201), ok["statusCode"])
	require.Equal(t, "created", ok["message"])
	require.Equal(t, map[string]interface{}{"id": "1"}, ok["data"])

	rw = httptest.NewRecorder()
	r.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/err", nil))
	require.Equal(t, http.StatusNotFound, rw.Code)
	require.JSONEq(t, `{"success":false,"statusCode":404,"message":"Post not found"}`, rw.Body.String())

	rw = httptest.NewRecorder()
	r.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/abort", nil))
	require.Equal(t, http.StatusForbidden, rw.Code)
	require.JSONEq(t, `{"success":false,"statusCode":403,"message":"nope"}`, rw.Body.String())
}
