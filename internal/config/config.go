package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 애플리케이션 전체 설정
type Config struct {
	Server    ServerConfig
	WebSocket WebSocketConfig
	Board     BoardConfig
	CORS      CORSConfig
	Redis     RedisConfig
}

// ServerConfig HTTP 서버 설정
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// WebSocketConfig WebSocket 관련 설정
type WebSocketConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	WriteTimeout    time.Duration
}

// JoinMode selects how the join event treats unknown room ids.
type JoinMode string

const (
	// JoinModeCreate auto-creates unknown rooms on join.
	JoinModeCreate JoinMode = "create"
	// JoinModeStrict rejects joins against unknown PINs with roomError.
	JoinModeStrict JoinMode = "strict"
)

// BoardConfig 화이트보드/방 설정
type BoardConfig struct {
	DefaultRoom   string   // well-known room id, joined by default
	MaxStrokes    int      // per-room stroke log cap (FIFO eviction)
	ChatMaxLength int      // chat message byte cap; longer messages are dropped
	JoinMode      JoinMode // create | strict
	SendBuffer    int      // per-session outbound queue length
	EventRate     float64  // inbound WS events per second per connection
	EventBurst    int      // limiter burst
}

// CORSConfig CORS 설정
type CORSConfig struct {
	AllowOrigins string
	AllowHeaders string
}

// RedisConfig Redis 설정 (relay bus; disabled when Addr is empty)
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load 환경 변수에서 설정 로드
func Load() *Config {
	// .env 파일 로드 (없어도 에러 무시)
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ No .env file found, using environment variables")
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":3000"),
			ReadTimeout:  getDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("IDLE_TIMEOUT", 120*time.Second),
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  getInt("WS_READ_BUFFER_SIZE", 4*1024),
			WriteBufferSize: getInt("WS_WRITE_BUFFER_SIZE", 4*1024),
			WriteTimeout:    getDuration("WS_WRITE_TIMEOUT", 5*time.Second),
		},
		Board: BoardConfig{
			DefaultRoom:   getEnv("BOARD_DEFAULT_ROOM", "public"),
			MaxStrokes:    getInt("BOARD_MAX_STROKES", 1000),
			ChatMaxLength: getInt("CHAT_MAX_LENGTH", 200),
			JoinMode:      getJoinMode("JOIN_MODE", JoinModeCreate),
			SendBuffer:    getInt("SESSION_SEND_BUFFER", 256),
			EventRate:     float64(getInt("WS_EVENT_RATE", 200)),
			EventBurst:    getInt("WS_EVENT_BURST", 400),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
			AllowHeaders: getEnv("CORS_ALLOW_HEADERS", "Origin, Content-Type, Accept"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
	}
}

// getEnv 환경 변수 조회 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt 정수형 환경 변수 조회
func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getDuration 시간 환경 변수 조회
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		// 숫자만 있으면 초로 간주
		if !strings.ContainsAny(value, "smh") {
			if secs, err := strconv.Atoi(value); err == nil {
				return time.Duration(secs) * time.Second
			}
		}
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getJoinMode join 모드 환경 변수 조회. Unknown values fall back to the
// default so a typo never silently mixes the two join semantics.
func getJoinMode(key string, defaultValue JoinMode) JoinMode {
	switch JoinMode(os.Getenv(key)) {
	case JoinModeCreate:
		return JoinModeCreate
	case JoinModeStrict:
		return JoinModeStrict
	case "":
		return defaultValue
	default:
		log.Printf("⚠️ Unknown %s value %q, falling back to %q", key, os.Getenv(key), defaultValue)
		return defaultValue
	}
}
