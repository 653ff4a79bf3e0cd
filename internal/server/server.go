package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"finledger/internal/config"
	"finledger/internal/handler"
	"finledger/internal/middleware"
	"finledger/internal/repository"
	"finledger/internal/service"
	"finledger/internal/token"
)

type Server struct {
	router *gin.Engine
	log    *zap.Logger
}

// NewServer wires the request pipeline from explicitly injected
// dependencies: config, the two repositories, the application logger and
// the access logger. There are no lazy singletons; everything is built here
// once.
func NewServer(cfg *config.Config, users repository.UserRepository, records repository.RecordRepository, logger *zap.Logger, accessLog *logrus.Logger) *Server {
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(accessLog), gin.Recovery())

	s := &Server{
		router: router,
		log:    logger,
	}

	s.setupRoutes(cfg, users, records, accessLog)
	return s
}

func (s *Server) setupRoutes(cfg *config.Config, users repository.UserRepository, records repository.RecordRepository, accessLog *logrus.Logger) {
	tokens := token.NewManager([]byte(cfg.Auth.JWTSecret), cfg.TokenTTL())

	authService := service.NewAuthService(users, tokens, s.log)
	recordService := service.NewRecordService(records, s.log)

	authHandler := handler.NewAuthHandler(authService, cfg.TokenTTL(), cfg.Production(), accessLog)
	recordHandler := handler.NewRecordHandler(recordService, accessLog)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)

	// Authenticated routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthRequired(tokens, s.log))
	{
		authRequired.GET("/auth/me", authHandler.Me)
		authRequired.POST("/finance", recordHandler.Create)
		authRequired.GET("/finance", recordHandler.List)
		authRequired.GET("/finance/summary", recordHandler.Summary)
	}
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(addr string) {
	s.log.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.log.Fatal("Server failed to start", zap.Error(err))
	}
}
