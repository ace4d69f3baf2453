package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// State WebSocket 연결 상태
type State int

const (
	StateUnbound State = iota // 연결됨, 방 미입장
	StateBound                // 방 입장 완료
	StateClosed               // 연결 종료
)

// String 상태를 문자열로 반환
func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateBound:
		return "bound"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session 클라이언트 세션 (Thread-Safe). A session binds one live
// connection to at most one room at a time; it references the room by
// id only and owns nothing of the room's state. Created on connect,
// rebound on each join, destroyed on disconnect.
type Session struct {
	ID          string
	ConnectedAt time.Time

	// 동시성 제어
	mu     sync.RWMutex
	state  State
	name   string
	roomID string // "" while unbound

	// 송신 큐: the writer pump drains this in FIFO order, which is what
	// preserves per-sender delivery order on the wire.
	outbound chan []byte
	dropped  uint64

	// 수신 이벤트 레이트 리미터
	limiter *rate.Limiter
}

// New 새 세션 생성
func New(sendBuffer int, eventRate float64, eventBurst int) *Session {
	return &Session{
		ID:          uuid.New().String(),
		ConnectedAt: time.Now(),
		state:       StateUnbound,
		outbound:    make(chan []byte, sendBuffer),
		limiter:     rate.NewLimiter(rate.Limit(eventRate), eventBurst),
	}
}

// Allow reports whether another inbound event fits the rate budget.
func (s *Session) Allow() bool {
	return s.limiter.Allow()
}

// Bind 방 입장 상태 전환. Replaces any prior binding.
func (s *Session) Bind(roomID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}
	s.roomID = roomID
	s.name = name
	s.state = StateBound
}

// Unbind 방 퇴장 상태 전환
func (s *Session) Unbind() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}
	s.roomID = ""
	s.state = StateUnbound
}

// RoomID 현재 방 조회 ("" = unbound)
func (s *Session) RoomID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.roomID
}

// Name 표시 이름 조회
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.name
}

// State 현재 상태 조회
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// Send enqueues a frame for delivery. Non-blocking: when the queue is
// full the frame is dropped (at-most-effort fanout for slow consumers).
// Returns false when dropped or the session is closed.
func (s *Session) Send(data []byte) bool {
	if data == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return false
	}
	select {
	case s.outbound <- data:
		return true
	default:
		s.dropped++
		return false
	}
}

// Outbound returns the frame queue drained by the writer pump. The
// channel is closed when the session closes.
func (s *Session) Outbound() <-chan []byte {
	return s.outbound
}

// Dropped 송신 큐 포화로 버려진 프레임 수
func (s *Session) Dropped() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.dropped
}

// Duration 연결 유지 시간
func (s *Session) Duration() time.Duration {
	return time.Since(s.ConnectedAt)
}

// Close 세션 정리. Idempotent; closes the outbound queue so the writer
// pump exits.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}
	s.state = StateClosed
	s.roomID = ""
	close(s.outbound)
}

// IsClosed 세션 종료 여부 확인
func (s *Session) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state == StateClosed
}
