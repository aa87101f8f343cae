package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/alphaowl/premium_go_server/internal/model"
)

var ErrSessionNotFound = errors.New("checkout session not found or expired")

const sessionKeyPrefix = "checkout:session:"

// CheckoutSessionRepository 向导会话存储。
// 会话只存在 Redis 里并带 TTL：用户关闭向导或超时后自然消失，账本不会留下任何痕迹。
type CheckoutSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCheckoutSessionRepository(client *redis.Client, ttl time.Duration) *CheckoutSessionRepository {
	return &CheckoutSessionRepository{
		client: client,
		ttl:    ttl,
	}
}

// Save 写入会话并刷新 TTL
func (r *CheckoutSessionRepository) Save(ctx context.Context, session *model.CheckoutSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return r.client.Set(ctx, sessionKeyPrefix+session.ID, data, r.ttl).Err()
}

// Get 读取会话
func (r *CheckoutSessionRepository) Get(ctx context.Context, id string) (*model.CheckoutSession, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var session model.CheckoutSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Delete 删除会话（用户主动放弃向导）
func (r *CheckoutSessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKeyPrefix+id).Err()
}

// TTL 会话 TTL 配置值
func (r *CheckoutSessionRepository) TTL() time.Duration {
	return r.ttl
}
