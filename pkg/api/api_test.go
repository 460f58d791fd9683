package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aricom-studios/notification-server/pkg/config"
)

func testServer(services func() HealthServices) *Server {
	gin.SetMode(gin.TestMode)
	if services == nil {
		services = func() HealthServices { return HealthServices{} }
	}
	return NewServer(zap.NewNop(), config.Config{}, false, services)
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestGetHealth(t *testing.T) {
	s := testServer(func() HealthServices {
		return HealthServices{Email: true, Firebase: true, Database: false}
	})

	w := get(s, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
		Services  struct {
			Email    bool `json:"email"`
			Firebase bool `json:"firebase"`
			Database bool `json:"database"`
		} `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.NotEmpty(t, body.Timestamp)
	assert.True(t, body.Services.Email)
	assert.True(t, body.Services.Firebase)
	assert.False(t, body.Services.Database)
}

func TestGetRoot(t *testing.T) {
	s := testServer(nil)

	w := get(s, "/")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Message   string   `json:"message"`
		Version   string   `json:"version"`
		Endpoints []string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Aricom Notification Server is running!", body.Message)
	assert.NotEmpty(t, body.Version)
	assert.Contains(t, body.Endpoints, "/notify/contact")
	assert.Contains(t, body.Endpoints, "/notify/order")
	assert.Contains(t, body.Endpoints, "/health")
}

func TestGetMetrics(t *testing.T) {
	s := testServer(nil)

	w := get(s, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

type stubController struct {
	registered bool
}

func (c *stubController) BasePath() string            { return "stub" }
func (c *stubController) Handlers() []gin.HandlerFunc { return nil }
func (c *stubController) Register(rg *gin.RouterGroup) error {
	c.registered = true
	rg.GET("/ping", func(ctx *gin.Context) { ctx.String(http.StatusOK, "pong") })
	return nil
}

func TestRegisterAllMountsControllers(t *testing.T) {
	s := testServer(nil)
	controller := &stubController{}
	require.NoError(t, s.RegisterAll([]APIController{controller}))
	assert.True(t, controller.registered)

	w := get(s, "/stub/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}
