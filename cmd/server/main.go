package main

import (
	"log"

	"whiteboard-backend/internal/bus"
	"whiteboard-backend/internal/config"
	"whiteboard-backend/internal/server"
)

func main() {
	// 설정 로드
	cfg := config.Load()

	// Redis 릴레이 버스 (선택적)
	var relay *bus.RedisBus
	if cfg.Redis.Addr != "" {
		var err error
		relay, err = bus.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("⚠️ Redis relay initialization failed: %v (running single-instance)", err)
			relay = nil
		} else {
			log.Printf("✅ Redis relay enabled (instance %s)", relay.Origin())
		}
	} else {
		log.Println("ℹ️ Redis relay not configured (running single-instance)")
	}

	// 서버 생성 및 설정
	srv := server.New(cfg, relay)
	srv.SetupMiddleware()
	srv.SetupRoutes()

	// 서버 시작
	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
