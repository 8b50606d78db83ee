// Package publish hands QTO messages to the message bus consumed by
// downstream cost systems.
//
// Messages are JSON-encoded [pipeline.Message] values. [RedisStream]
// appends them to a Redis stream; [Null] is used when no bus is configured
// and reports itself unavailable so callers can degrade instead of failing.
package publish

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/ifcqto/pkg/cache"
	"github.com/matzehuels/ifcqto/pkg/observability"
	"github.com/matzehuels/ifcqto/pkg/pipeline"
)

// DefaultTopic is the stream QTO messages are published to.
const DefaultTopic = "ifc-qto"

// DefaultMaxLen caps the stream length (approximately).
const DefaultMaxLen = 10000

// ErrUnavailable is returned when the message bus cannot be reached.
var ErrUnavailable = stderrors.New("publisher unavailable")

// Publisher publishes QTO messages.
type Publisher interface {
	// Publish sends msg and returns the id assigned by the bus.
	Publish(ctx context.Context, msg pipeline.Message) (string, error)

	// Ping reports whether the bus is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// RedisStream publishes to a Redis stream with XADD. Each entry carries the
// message under the "message" field plus the file id for consumers that
// filter without decoding.
type RedisStream struct {
	client redis.UniversalClient
	topic  string
	maxLen int64
}

// NewRedisStream connects to addr and verifies the connection.
func NewRedisStream(ctx context.Context, addr, password string, db int, topic string) (*RedisStream, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis %s: %v", ErrUnavailable, addr, err)
	}
	return NewRedisStreamFromClient(client, topic), nil
}

// NewRedisStreamFromClient wraps an existing client, which the stream then
// owns. An empty topic selects DefaultTopic.
func NewRedisStreamFromClient(client redis.UniversalClient, topic string) *RedisStream {
	if topic == "" {
		topic = DefaultTopic
	}
	return &RedisStream{client: client, topic: topic, maxLen: DefaultMaxLen}
}

// Topic returns the stream name.
func (s *RedisStream) Topic() string { return s.topic }

// Publish appends msg to the stream, retrying transient failures.
func (s *RedisStream) Publish(ctx context.Context, msg pipeline.Message) (id string, err error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("encode message: %w", err)
	}
	defer func() { observability.Publish().OnPublish(ctx, s.topic, len(data), err) }()

	err = cache.RetryWithBackoff(ctx, func() error {
		var xerr error
		id, xerr = s.client.XAdd(ctx, &redis.XAddArgs{
			Stream: s.topic,
			MaxLen: s.maxLen,
			Approx: true,
			Values: map[string]any{
				"file_id": msg.FileID,
				"message": data,
			},
		}).Result()
		if xerr != nil {
			return cache.Retryable(xerr)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: publish to %s: %v", ErrUnavailable, s.topic, err)
	}
	return id, nil
}

func (s *RedisStream) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

func (s *RedisStream) Close() error {
	return s.client.Close()
}

// Null never publishes.
type Null struct{}

func (Null) Publish(context.Context, pipeline.Message) (string, error) { return "", ErrUnavailable }

func (Null) Ping(context.Context) error { return ErrUnavailable }

func (Null) Close() error { return nil }

var (
	_ Publisher = (*RedisStream)(nil)
	_ Publisher = Null{}
)
