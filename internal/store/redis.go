package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pass.share/internal/models"
)

var _ Store = (*RedisStore)(nil)

const consumeRetries = 3

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(options *redis.Options) (*RedisStore, error) {
	client := redis.NewClient(options)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Save stores the secret with a key TTL matching its expiry, so redis drops
// expired records on its own.
func (r *RedisStore) Save(ctx context.Context, secret *models.StoredSecret) error {
	ttl := time.Until(secret.ExpireAt)
	if ttl <= 0 {
		return ErrExpired
	}

	data, err := encode(secret)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, secretKey(secret.ID), data, ttl).Err()
}

func (r *RedisStore) Consume(ctx context.Context, id string) (*models.StoredSecret, error) {
	key := secretKey(id)
	var consumed *models.StoredSecret

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		secret, err := decode(data)
		if err != nil {
			return err
		}
		if !time.Now().Before(secret.ExpireAt) {
			return ErrExpired
		}
		if secret.ViewsLeft <= 0 {
			return ErrNoViewsLeft
		}

		secret.ViewsLeft--
		newData, err := encode(secret)
		if err != nil {
			return err
		}

		ttl := tx.PTTL(ctx, key).Val()
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if secret.ViewsLeft == 0 || ttl <= 0 {
				pipe.Del(ctx, key)
			} else {
				pipe.Set(ctx, key, newData, ttl)
			}
			return nil
		})
		if err != nil {
			return err
		}
		consumed = secret
		return nil
	}

	for i := 0; i < consumeRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			return consumed, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, ErrExpired), errors.Is(err, ErrNoViewsLeft):
			_ = r.Delete(ctx, id)
			return nil, err
		default:
			return nil, err
		}
	}

	return nil, redis.TxFailedErr
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, secretKey(id)).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Helpers

func secretKey(id string) string {
	return "secret:" + id
}

func encode(secret *models.StoredSecret) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(secret); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (*models.StoredSecret, error) {
	var secret models.StoredSecret
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&secret); err != nil {
		return nil, err
	}
	return &secret, nil
}
