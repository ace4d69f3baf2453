package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"whiteboard-backend/internal/board"
	"whiteboard-backend/internal/bus"
	"whiteboard-backend/internal/config"
	"whiteboard-backend/internal/handler"
)

// Server Fiber 서버 래퍼
type Server struct {
	app           *fiber.App
	cfg           *config.Config
	hub           *handler.BoardHub
	wsHandler     *handler.BoardWSHandler
	apiHandler    *handler.BoardAPIHandler
	healthHandler *handler.HealthHandler
	relay         *bus.RedisBus // nil when REDIS_ADDR is unset
	cancelRelay   context.CancelFunc
}

// New 새 서버 인스턴스 생성. relay may be nil (single-instance mode).
func New(cfg *config.Config, relay *bus.RedisBus) *Server {
	app := fiber.New(fiber.Config{
		AppName:         "Collaborative Whiteboard",
		ServerHeader:    "Fiber",
		StrictRouting:   true,
		CaseSensitive:   true,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		Prefork:         false, // WebSocket과 호환성 문제로 비활성화
		ReadBufferSize:  16384,
		WriteBufferSize: 16384,
		BodyLimit:       10 * 1024 * 1024, // 10MB, background payloads
	})

	registry := board.NewRegistry(cfg.Board.DefaultRoom, cfg.Board.MaxStrokes)
	hub := handler.NewBoardHub(cfg, registry)

	var pinger handler.Pinger
	if relay != nil {
		hub.SetRelay(relay)
		pinger = relay
	}

	return &Server{
		app:           app,
		cfg:           cfg,
		hub:           hub,
		wsHandler:     handler.NewBoardWSHandler(hub, cfg),
		apiHandler:    handler.NewBoardAPIHandler(registry),
		healthHandler: handler.NewHealthHandler(hub, pinger),
		relay:         relay,
	}
}

// Hub exposes the board hub (tests and diagnostics).
func (s *Server) Hub() *handler.BoardHub {
	return s.hub
}

// App exposes the fiber app (tests use app.Test).
func (s *Server) App() *fiber.App {
	return s.app
}

// SetupMiddleware 미들웨어 설정
func (s *Server) SetupMiddleware() {
	// 패닉 복구
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// 로깅
	s.app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	// CORS
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: s.cfg.CORS.AllowOrigins,
		AllowHeaders: s.cfg.CORS.AllowHeaders,
		AllowMethods: "GET, POST, OPTIONS",
	}))
}

// SetupRoutes 라우트 설정
func (s *Server) SetupRoutes() {
	// 헬스체크 엔드포인트
	s.app.Get("/health", s.healthHandler.Check)

	// Rate Limiter (방 생성 남용 방지)
	createLimiter := limiter.New(limiter.Config{
		Max:        20,              // 최대 20회
		Expiration: 1 * time.Minute, // 1분당
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() // IP 기반 제한
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests, please try again later",
			})
		},
	})

	// Board 스냅샷/방 생성 REST
	s.app.Get("/api/board", s.apiHandler.GetBoard)
	s.app.Post("/api/rooms", createLimiter, s.apiHandler.CreateRoom)

	// WebSocket 업그레이드 체크 미들웨어
	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket 화이트보드 엔드포인트
	s.app.Get("/ws/board", websocket.New(s.wsHandler.HandleWebSocket, websocket.Config{
		ReadBufferSize:  s.cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: s.cfg.WebSocket.WriteBufferSize,
	}))
}

// Start 서버 시작 (Graceful Shutdown 지원)
func (s *Server) Start() error {
	// 릴레이 버스 구동
	if s.relay != nil {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancelRelay = cancel
		go s.relay.Run(ctx, s.hub.ApplyRemote)
	}

	// Graceful Shutdown 설정
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("🛑 Shutting down server...")
		if s.cancelRelay != nil {
			s.cancelRelay()
		}
		if err := s.app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Fatalf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("🚀 Collaborative whiteboard starting on %s", s.cfg.Server.Port)
	log.Printf("📡 WebSocket endpoint: ws://localhost%s/ws/board", s.cfg.Server.Port)

	return s.app.Listen(s.cfg.Server.Port)
}

// Shutdown 서버 종료
func (s *Server) Shutdown() error {
	if s.cancelRelay != nil {
		s.cancelRelay()
	}
	return s.app.ShutdownWithTimeout(30 * time.Second)
}
