// Package mirror republishes relayed chat traffic to Redis pub/sub channels
// named after their room, so sibling services can observe the stream without
// holding a websocket connection. The relay itself never consumes these
// channels.
package mirror

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type RedisMirror struct {
	client *redis.Client
}

func NewRedisMirror(addr, password string) *RedisMirror {
	return &RedisMirror{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       0,
		}),
	}
}

func (m *RedisMirror) Publish(room string, payload any) error {
	if room == "" {
		return fmt.Errorf("mirror publish: room required")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("mirror publish: marshal payload: %w", err)
	}

	if err := m.client.Publish(context.Background(), room, string(data)).Err(); err != nil {
		return fmt.Errorf("mirror publish: redis publish: %w", err)
	}
	return nil
}

func (m *RedisMirror) Close() error {
	return m.client.Close()
}
