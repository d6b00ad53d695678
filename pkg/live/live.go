package live

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	listMaxLen = 99
	listTTL    = 30 * 24 * time.Hour
)

// Publisher pushes notification payloads into a per-user Redis list and
// pub/sub channel so connected frontends receive them in real time.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(addr, password string) *Publisher {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &Publisher{client: client}
}

// Publish stores the payload in the user's recent-notifications list and
// publishes it on the user's channel. Best effort: the list trim and TTL
// errors are ignored.
func (p *Publisher) Publish(ctx context.Context, userID string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal live payload: %w", err)
	}

	key := fmt.Sprintf("notifications:%s", userID)
	if err := p.client.LPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to push live payload: %w", err)
	}
	p.client.LTrim(ctx, key, 0, listMaxLen)
	p.client.Expire(ctx, key, listTTL)

	if err := p.client.Publish(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to publish live payload: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.client.Close()
}
