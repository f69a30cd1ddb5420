package session

import (
	"context"
	"sync"

	"comps_backend/internal/feature/chat/domain/entity"
	"comps_backend/internal/feature/chat/usecase"
)

// MemoryConversationStore はusecase.ConversationStoreのインメモリ実装です。
// Redisが利用できない環境でのフォールバックとして使用します（プロセス再起動で消えます）。
type MemoryConversationStore struct {
	mu    sync.RWMutex
	turns map[string][]entity.ConversationTurn
}

// MemoryConversationStoreがConversationStoreを実装していることをコンパイル時に検証します。
var _ usecase.ConversationStore = (*MemoryConversationStore)(nil)

// NewMemoryConversationStore はMemoryConversationStoreの新しいインスタンスを生成します。
func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{turns: make(map[string][]entity.ConversationTurn)}
}

// History はセッションの会話履歴を古い順で返します。
func (s *MemoryConversationStore) History(_ context.Context, sessionID string) ([]entity.ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.turns[sessionID]
	out := make([]entity.ConversationTurn, len(stored))
	copy(out, stored)
	return out, nil
}

// Append は会話1往復を履歴に追加し、直近usecase.MaxHistoryTurns件に切り詰めます。
func (s *MemoryConversationStore) Append(_ context.Context, sessionID string, turn entity.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.turns[sessionID], turn)
	if len(turns) > usecase.MaxHistoryTurns {
		turns = turns[len(turns)-usecase.MaxHistoryTurns:]
	}
	s.turns[sessionID] = turns
	return nil
}

// Clear はセッションの会話履歴を削除します。
func (s *MemoryConversationStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.turns, sessionID)
	return nil
}
