// File: sessionstore/redis.go
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"car-showcase/models"
)

const sessionKeyPrefix = "session:"

var _ Store = (*Redis)(nil)

// Redis stores each session under its own key with a native expiry. Sweep only
// catches keys whose recorded expiry passed before Redis dropped them.
type Redis struct {
	client *redis.Client
	opts   options
}

func NewRedis(client *redis.Client, opts ...Option) *Redis {
	return &Redis{client: client, opts: buildOptions(opts)}
}

// NewRedisFromURL parses a redis:// URL and verifies the connection.
func NewRedisFromURL(ctx context.Context, url string, opts ...Option) (*Redis, error) {
	ropts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(ropts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedis(client, opts...), nil
}

func (r *Redis) Create(ctx context.Context, userID int64) (models.Session, error) {
	sess := r.opts.newSession(userID)
	raw, err := json.Marshal(sess)
	if err != nil {
		return models.Session{}, err
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+sess.ID, raw, r.opts.ttl).Err(); err != nil {
		return models.Session{}, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

func (r *Redis) Get(ctx context.Context, id string) (models.Session, bool, error) {
	raw, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Session{}, false, nil
	}
	if err != nil {
		return models.Session{}, false, err
	}
	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return models.Session{}, false, fmt.Errorf("decode session: %w", err)
	}
	if sess.Expired(r.opts.now()) {
		return models.Session{}, false, r.Destroy(ctx, id)
	}
	return sess, true, nil
}

func (r *Redis) Destroy(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKeyPrefix+id).Err()
}

func (r *Redis) Sweep(ctx context.Context) (int, error) {
	now := r.opts.now()
	removed := 0
	iter := r.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return removed, err
		}
		var sess models.Session
		if err := json.Unmarshal(raw, &sess); err != nil || sess.Expired(now) {
			if err := r.client.Del(ctx, key).Err(); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, iter.Err()
}

func (r *Redis) Close() error { return r.client.Close() }
