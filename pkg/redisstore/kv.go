package redisstore

import (
	"context"
	"time"
)

// Get returns ErrKeyNotFound when key is absent or expired.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		res   []byte
		found bool
	)

	err := retry(ctx, 2, func() error {
		var err error
		res, err = c.rdb.Get(ctx, key).Bytes()
		switch err {
		case nil:
			found = true
			return nil
		case ErrKeyNotFound:
			// a miss is an answer, not a failure worth retrying
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrKeyNotFound
	}
	return res, nil
}

func (c *Client) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return retry(ctx, 2, func() error {
		return c.rdb.Set(ctx, key, data, ttl).Err()
	})
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return retry(ctx, 2, func() error {
		return c.rdb.Del(ctx, keys...).Err()
	})
}
