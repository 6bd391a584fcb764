package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func corsEngine(origin string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.Use(CORS(origin))
	g.POST("/api/create-font-group", func(c *gin.Context) { c.Status(http.StatusCreated) })
	return g
}

func TestCORS_SetsHeaders(t *testing.T) {
	g := corsEngine("http://localhost:3000")
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/create-font-group", nil))

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	require.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
	require.Equal(t, "Origin", w.Header().Get("Vary"))
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	g := corsEngine("")

	// no OPTIONS route is registered; the global middleware still answers
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/create-font-group", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Body.String())
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, w.Header().Get("Vary"))
}
