package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/redis/go-redis/v9"
)

type redisCartRepoImpl struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCartRepository keeps each cart in a hash keyed by book id. Every write refreshes the TTL.
func NewRedisCartRepository(rdb *redis.Client, ttl time.Duration) CartRepository {
	return &redisCartRepoImpl{
		rdb: rdb,
		ttl: ttl,
	}
}

func cartKey(buyerID string) string {
	return "cart:" + buyerID
}

func (r *redisCartRepoImpl) Get(ctx context.Context, buyerID string) ([]*model.CartItem, error) {
	fields, err := r.rdb.HGetAll(ctx, cartKey(buyerID)).Result()
	if err != nil {
		return nil, &model.InfrastructureError{Op: "get cart", Err: err}
	}

	items := make([]*model.CartItem, 0, len(fields))
	for bookID, raw := range fields {
		item, err := decodeCartItem(buyerID, bookID, raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].BookID < items[j].BookID
		}
		return items[i].AddedAt.Before(items[j].AddedAt)
	})

	return items, nil
}

func (r *redisCartRepoImpl) Find(ctx context.Context, buyerID, bookID string) (*model.CartItem, error) {
	raw, err := r.rdb.HGet(ctx, cartKey(buyerID), bookID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("find cart item %s: %w", bookID, model.ErrNotFound)
	}
	if err != nil {
		return nil, &model.InfrastructureError{Op: "find cart item", Err: err}
	}

	return decodeCartItem(buyerID, bookID, raw)
}

func (r *redisCartRepoImpl) Upsert(ctx context.Context, item *model.CartItem) error {
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode cart item: %w", err)
	}

	key := cartKey(item.BuyerID)
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, item.BookID, raw)
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return &model.InfrastructureError{Op: "upsert cart item", Err: err}
	}

	return nil
}

func (r *redisCartRepoImpl) Remove(ctx context.Context, buyerID, bookID string) error {
	n, err := r.rdb.HDel(ctx, cartKey(buyerID), bookID).Result()
	if err != nil {
		return &model.InfrastructureError{Op: "remove cart item", Err: err}
	}
	if n == 0 {
		return fmt.Errorf("remove cart item %s: %w", bookID, model.ErrNotFound)
	}

	return nil
}

func (r *redisCartRepoImpl) Clear(ctx context.Context, buyerID string) error {
	if err := r.rdb.Del(ctx, cartKey(buyerID)).Err(); err != nil {
		return &model.InfrastructureError{Op: "clear cart", Err: err}
	}
	return nil
}

func decodeCartItem(buyerID, bookID, raw string) (*model.CartItem, error) {
	var item model.CartItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, &model.InfrastructureError{Op: "decode cart item " + bookID, Err: err}
	}
	item.BuyerID = buyerID
	item.BookID = bookID

	return &item, nil
}
