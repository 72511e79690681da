package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	client *redis.Client
}

func NewStore(addr, password string, db int) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func npiKey(userID, number string) string {
	return fmt.Sprintf("npi:%s:%s", userID, number)
}

// SetNPIResult caches a registry lookup for the requesting user; ttl bounds
// the validity window (24h by default).
func (s *Store) SetNPIResult(ctx context.Context, userID, number string, payload []byte, ttl time.Duration) error {
	return s.client.Set(ctx, npiKey(userID, number), payload, ttl).Err()
}

// GetNPIResult returns redis.Nil when no cached result exists.
func (s *Store) GetNPIResult(ctx context.Context, userID, number string) ([]byte, error) {
	return s.client.Get(ctx, npiKey(userID, number)).Bytes()
}

func notificationChannel(userID string) string {
	return "notifications:" + userID
}

// PublishNotification pushes a serialized notification row onto the
// recipient's live channel.
func (s *Store) PublishNotification(ctx context.Context, userID string, payload []byte) error {
	return s.client.Publish(ctx, notificationChannel(userID), payload).Err()
}

// SubscribeNotifications opens a pub/sub subscription scoped to one user.
// The returned channel closes when ctx is cancelled.
func (s *Store) SubscribeNotifications(ctx context.Context, userID string) (<-chan []byte, error) {
	ps := s.client.Subscribe(ctx, notificationChannel(userID))
	// force the SUBSCRIBE round trip so errors surface here, not mid-stream
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		defer ps.Close()
		in := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
