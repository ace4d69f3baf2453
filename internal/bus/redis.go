package bus

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Message is one relayed board event. Data carries the event payload
// JSON; presence never travels the bus because each instance owns its
// own member table.
type Message struct {
	Origin string          `json:"origin"` // instance id, used to skip own echoes
	RoomID string          `json:"roomId"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// RedisBus relays board-content events between server instances over
// redis pub/sub. Pure fanout: nothing is persisted, so a restart still
// starts from empty rooms.
type RedisBus struct {
	client *redis.Client
	origin string
	out    chan Message
}

// New connects to redis and verifies connectivity.
func New(addr, password string, db int) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Printf("[Bus] Connected to redis at %s", addr)
	return &RedisBus{
		client: client,
		origin: uuid.New().String(),
		out:    make(chan Message, 256),
	}, nil
}

// Origin 인스턴스 식별자
func (b *RedisBus) Origin() string {
	return b.origin
}

// Publish queues a frame for relay. Non-blocking so the hub never
// stalls on redis; a full queue drops the frame.
func (b *RedisBus) Publish(roomID, event string, payload []byte) {
	select {
	case b.out <- Message{Origin: b.origin, RoomID: roomID, Event: event, Data: payload}:
	default:
		log.Printf("[Bus] Publish queue full, dropping %s for room %s", event, roomID)
	}
}

// Run drives the bus until ctx is cancelled: it drains the publish
// queue and feeds remote messages to apply. Messages from this instance
// are filtered out before apply runs.
func (b *RedisBus) Run(ctx context.Context, apply func(roomID, event string, data []byte)) {
	pubsub := b.client.PSubscribe(ctx, channel("*"))
	defer pubsub.Close()
	incoming := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return

		case m := <-b.out:
			raw, err := json.Marshal(m)
			if err != nil {
				continue
			}
			if err := b.client.Publish(ctx, channel(m.RoomID), raw).Err(); err != nil {
				log.Printf("[Bus] Publish failed: %v", err)
			}

		case msg, ok := <-incoming:
			if !ok {
				return
			}
			var m Message
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				continue
			}
			if m.Origin == b.origin || m.RoomID == "" {
				continue
			}
			apply(m.RoomID, m.Event, m.Data)
		}
	}
}

// Ping 연결 상태 확인 (health check)
func (b *RedisBus) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close shuts down the redis connection.
func (b *RedisBus) Close() {
	_ = b.client.Close()
}

// channel 방 단위 pub/sub 채널 이름
func channel(roomID string) string {
	return "board:" + roomID
}
