// Package blocklist publishes suspicious client addresses to Redis so
// downstream responders (proxies, firewalls) can act on them.
package blocklist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/telhawk-systems/loglens/internal/analytics"
)

// DefaultKey is the Redis set the publisher writes to.
const DefaultKey = "loglens:blocklist"

// Publisher writes suspicious IPs into a Redis set, optionally with a TTL
// on the whole set so stale blocklists expire on their own.
type Publisher struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewPublisher creates a publisher for the given client and set key.
func NewPublisher(client *redis.Client, key string, ttl time.Duration) *Publisher {
	if key == "" {
		key = DefaultKey
	}
	return &Publisher{client: client, key: key, ttl: ttl}
}

// Publish adds every suspicious IP to the set and returns how many were
// newly added. Publishing nothing is a no-op.
func (p *Publisher) Publish(ctx context.Context, suspicious []analytics.SuspiciousIP) (int, error) {
	if len(suspicious) == 0 {
		return 0, nil
	}

	members := make([]any, 0, len(suspicious))
	for _, s := range suspicious {
		members = append(members, s.IP)
	}

	added, err := p.client.SAdd(ctx, p.key, members...).Result()
	if err != nil {
		return 0, fmt.Errorf("add to blocklist set: %w", err)
	}

	if p.ttl > 0 {
		if err := p.client.Expire(ctx, p.key, p.ttl).Err(); err != nil {
			return int(added), fmt.Errorf("set blocklist ttl: %w", err)
		}
	}

	return int(added), nil
}
