package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aricom-studios/notification-server/pkg/config"
	"github.com/aricom-studios/notification-server/pkg/metrics"
	"github.com/aricom-studios/notification-server/pkg/version"
)

// APIController is implemented by packages that expose HTTP routes.
type APIController interface {
	BasePath() string
	Register(rg *gin.RouterGroup) error
	Handlers() []gin.HandlerFunc
}

// HealthServices reports the readiness of the external collaborators.
type HealthServices struct {
	Email    bool `json:"email"`
	Firebase bool `json:"firebase"`
	Database bool `json:"database"`
}

type Server struct {
	gin      *gin.Engine
	config   config.Config
	services func() HealthServices
}

// NewServer builds the gin engine with access logging, panic recovery and
// permissive CORS, and mounts the health, root and metrics endpoints.
func NewServer(log *zap.Logger, cfg config.Config, debug bool, services func() HealthServices) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(log, time.RFC3339, true),
		ginzap.RecoveryWithZap(log, true),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}),
	)

	s := &Server{
		gin:      engine,
		config:   cfg,
		services: services,
	}

	engine.GET("/health", s.getHealth)
	engine.GET("/", s.getRoot)
	engine.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	return s
}

func (s *Server) RegisterAll(controllers []APIController) error {
	for _, c := range controllers {
		if err := c.Register(s.gin.Group(c.BasePath(), c.Handlers()...)); err != nil {
			return err
		}
	}
	return nil
}

// Engine exposes the underlying gin engine for tests.
func (s *Server) Engine() *gin.Engine {
	return s.gin
}

func (s *Server) Listen() error {
	if s.config.Server.TLSCertFile != "" && s.config.Server.TLSKeyFile != "" {
		return s.gin.RunTLS(s.config.Server.ListenAddress, s.config.Server.TLSCertFile, s.config.Server.TLSKeyFile)
	}
	return s.gin.Run(s.config.Server.ListenAddress)
}

type healthStatus struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Services  HealthServices `json:"services"`
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  s.services(),
	})
}

type rootInfo struct {
	Message   string   `json:"message"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

func (s *Server) getRoot(c *gin.Context) {
	c.JSON(http.StatusOK, rootInfo{
		Message: "Aricom Notification Server is running!",
		Version: version.Version,
		Endpoints: []string{
			"/notify/contact",
			"/notify/modification",
			"/notify/order",
			"/health",
		},
	})
}
