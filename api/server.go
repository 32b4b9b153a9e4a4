package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/frvega/conversor-go/api/controllers"
	"github.com/frvega/conversor-go/api/middlewares"
	"github.com/frvega/conversor-go/api/models"
	"github.com/frvega/conversor-go/tool"
	"github.com/frvega/conversor-go/types"
)

// Server is the conversion API: login, the two upload endpoints, the
// progress event stream and the processing log.
type Server struct {
	cfg       types.ServeConfig
	extractor types.Extractor
	logs      *models.LogStore
	server    *http.Server
}

// NewServer wires the server from config. A nil extractor falls back to the
// configured extractor command.
func NewServer(cfg types.ServeConfig, extractor types.Extractor) *Server {
	if extractor == nil {
		extractor = &CommandExtractor{Command: cfg.ExtractorCommand}
	}
	return &Server{
		cfg:       cfg,
		extractor: extractor,
		logs:      models.NewLogStore(cfg.LogFile),
	}
}

// SetupRoutes builds the gin engine. Exposed so tests can drive the full
// route table through httptest.
func (s *Server) SetupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middlewares.AllowAllCORS())
	engine.Use(middlewares.Metrics())

	authCtrl := controllers.NewAuthController(
		&controllers.StaticAuthenticator{Users: s.cfg.Users},
		s.cfg.Secret,
		time.Duration(s.cfg.TokenTTLHours)*time.Hour,
	)
	progressCtrl := controllers.NewProgressController()
	convertCtrl := controllers.NewConvertController(s.extractor, s.cfg.MaxUploadSize, s.logs)
	mergeCtrl := controllers.NewMergeController(s.cfg.MaxUploadSize)
	logsCtrl := controllers.NewLogsController(s.logs)

	api := engine.Group("/api")
	{
		api.POST("/login", authCtrl.HandleLogin)
		protected := api.Group("", middlewares.RequireToken(s.cfg.Secret))
		{
			protected.GET("/progress", progressCtrl.HandleProgress)
			protected.POST("/convert", convertCtrl.HandleConvert)
			protected.POST("/unificar", mergeCtrl.HandleMerge)
			protected.GET("/logs", logsCtrl.HandleLogs)
		}
	}
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return engine
}

// Start runs the server until it fails or the process dies.
func (s *Server) Start() error {
	engine := s.SetupRoutes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: engine,
	}
	tool.DefaultLogger.Infof("Starting API server on http://0.0.0.0:%d", s.cfg.Port)
	return s.server.ListenAndServe()
}
