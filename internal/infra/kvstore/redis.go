package kvstore

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const scanBatch = 100

var globEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg RedisConfig) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// NewRedisStoreFromClient reaproveita um client já configurado.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "redis encode %s", key)
	}
	return errors.Wrapf(r.client.Set(ctx, key, raw, 0).Err(), "redis set %s", key)
}

func (r *RedisStore) Get(ctx context.Context, key string, dest any) error {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "redis get %s", key)
	}
	return errors.Wrapf(json.Unmarshal(raw, dest), "redis decode %s", key)
}

func (r *RedisStore) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	values := make([][]byte, 0)
	iter := r.client.Scan(ctx, 0, globEscaper.Replace(prefix)+"*", scanBatch).Iterator()

	for iter.Next(ctx) {
		raw, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			// removida entre o SCAN e o GET
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "redis get %s", iter.Val())
		}
		values = append(values, raw)
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(err, "redis scan")
	}
	return values, nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(r.client.Del(ctx, key).Err(), "redis del %s", key)
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
