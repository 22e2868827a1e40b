package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds configuration for the invalidation publisher.
type Config struct {
	// Addr is the redis host:port. Empty disables notifications.
	Addr string `mapstructure:"addr" default:""`
	// Password is the redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the redis database index.
	DB int `mapstructure:"db" default:"0"`
	// Channel is the pub/sub channel invalidation events are published on.
	Channel string `mapstructure:"channel" default:"patch-updates"`
}

// Enabled reports whether a publisher should be created at all.
func (c Config) Enabled() bool {
	return c.Addr != ""
}

// Event is the payload published after a crawl run that wrote new patches.
// Downstream caches subscribe and drop their views for the affected game.
type Event struct {
	Game       string    `json:"game"`
	NewPatches int       `json:"new_patches"`
	At         time.Time `json:"at"`
}

// Publisher publishes cache-invalidation events.
type Publisher interface {
	Invalidate(ctx context.Context, event Event) error
}

type redisPublisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher creates a redis-backed publisher and verifies the connection.
func NewPublisher(cfg Config) (Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &redisPublisher{client: client, channel: cfg.Channel}, nil
}

func (p *redisPublisher) Invalidate(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.client.Publish(ctx, p.channel, data).Err()
}
