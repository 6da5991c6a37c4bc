package server

import (
	"context"

	"github.com/antigravity/answer-gateway/internal/config"
	"github.com/antigravity/answer-gateway/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Answerer handles a decoded answer request.
type Answerer interface {
	HandleAnswer(ctx context.Context, req *models.AnswerRequest) models.Envelope
}

// Server represents the API server
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	router  *gin.Engine
	answers Answerer
}

// New creates a new server instance
func New(cfg *config.Config, logger *zap.Logger, answers Answerer) (*Server, error) {
	// 设置Gin模式
	gin.SetMode(cfg.Server.Mode)

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		router:  gin.New(),
		answers: answers,
	}

	// 设置中间件
	s.setupMiddleware()

	// 设置路由
	s.setupRoutes()

	return s, nil
}

// Router returns the gin engine
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.router.Use(gin.Recovery())

	s.router.Use(s.requestIDMiddleware())

	// Logger middleware
	s.router.Use(s.loggerMiddleware())

	// CORS middleware
	if s.cfg.Security.EnableCORS {
		s.router.Use(s.corsMiddleware())
	}

	if limit := s.cfg.Server.MaxRequestBytes(); limit > 0 {
		s.router.Use(s.bodyLimitMiddleware(limit))
	}
}

func (s *Server) setupRoutes() {
	// 健康检查
	s.router.GET("/ping", s.ping)

	s.router.POST("/answer", s.answer)
}
