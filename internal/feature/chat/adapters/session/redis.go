// Package session はチャットセッションの会話履歴ストアを提供します。
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"comps_backend/internal/feature/chat/domain/entity"
	"comps_backend/internal/feature/chat/usecase"
)

// DefaultTTL はセッション履歴の有効期限です。期限切れの履歴はRedisが自動削除します。
const DefaultTTL = 24 * time.Hour

// RedisConversationStore はusecase.ConversationStoreをRedisで実装します。
type RedisConversationStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisConversationStoreがConversationStoreを実装していることをコンパイル時に検証します。
var _ usecase.ConversationStore = (*RedisConversationStore)(nil)

// NewRedisConversationStore はRedisConversationStoreの新しいインスタンスを生成します。
func NewRedisConversationStore(client *redis.Client, prefix string) *RedisConversationStore {
	return &RedisConversationStore{client: client, prefix: prefix, ttl: DefaultTTL}
}

// historyKey はセッションの履歴を格納するRedisキーを返します。
func (s *RedisConversationStore) historyKey(sessionID string) string {
	return fmt.Sprintf("%s:history:%s", s.prefix, sessionID)
}

// History はセッションの会話履歴を古い順で返します。履歴がなければ空スライスを返します。
func (s *RedisConversationStore) History(ctx context.Context, sessionID string) ([]entity.ConversationTurn, error) {
	data, err := s.client.Get(ctx, s.historyKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return []entity.ConversationTurn{}, nil
		}
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}

	var turns []entity.ConversationTurn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation history: %w", err)
	}
	return turns, nil
}

// Append は会話1往復を履歴に追加します。
// 履歴は直近usecase.MaxHistoryTurns件に切り詰められます。
func (s *RedisConversationStore) Append(ctx context.Context, sessionID string, turn entity.ConversationTurn) error {
	turns, err := s.History(ctx, sessionID)
	if err != nil {
		return err
	}

	turns = append(turns, turn)
	if len(turns) > usecase.MaxHistoryTurns {
		turns = turns[len(turns)-usecase.MaxHistoryTurns:]
	}

	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation history: %w", err)
	}
	return s.client.Set(ctx, s.historyKey(sessionID), data, s.ttl).Err()
}

// Clear はセッションの会話履歴を削除します。
func (s *RedisConversationStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.historyKey(sessionID)).Err()
}
