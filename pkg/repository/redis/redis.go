package redis

import (
	"context"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = interfaces.ErrNotFound

const defaultKeyPrefix = "agenda:"

// Redis is a Repository backed by a Redis server
type Redis struct {
	client   *redis.Client
	activity *activityRepository
}

var _ interfaces.Repository = &Redis{}

type Option func(*Redis)

// WithKeyPrefix namespaces every key, e.g. to share a database between tests
func WithKeyPrefix(prefix string) Option {
	return func(r *Redis) {
		r.activity.prefix = prefix
	}
}

// New connects to the server at redisURL (redis://host:port/db)
func New(ctx context.Context, redisURL string, opts ...Option) (*Redis, error) {
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse redis url")
	}

	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, goerr.Wrap(err, "failed to connect to redis", goerr.V("addr", redisOpts.Addr))
	}

	return NewWithClient(client, opts...), nil
}

// NewWithClient creates a repository from an existing client
func NewWithClient(client *redis.Client, opts ...Option) *Redis {
	r := &Redis{
		client:   client,
		activity: newActivityRepository(client),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) Activity() interfaces.ActivityRepository {
	return r.activity
}

func (r *Redis) Close() error {
	return r.client.Close()
}
