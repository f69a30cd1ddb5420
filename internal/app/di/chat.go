package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"comps_backend/internal/feature/chat/adapters/gemini"
	"comps_backend/internal/feature/chat/adapters/memindex"
	"comps_backend/internal/feature/chat/adapters/session"
	chatusecase "comps_backend/internal/feature/chat/usecase"
)

// NewConversationStore はConversationStoreの実装を生成します。
// Redisが利用可能ならRedis実装、そうでなければインメモリ実装にフォールバックします。
func NewConversationStore(rdb *redis.Client) chatusecase.ConversationStore {
	if rdb != nil {
		return session.NewRedisConversationStore(rdb, "chat")
	}
	return session.NewMemoryConversationStore()
}

// NewChatUsecase はRAGチャットアシスタントを生成します。
// Gemini埋め込みクライアントの初期化に失敗した場合は、
// キーワード検索のみの縮退モードで動作します。
func NewChatUsecase(ctx context.Context, rdb *redis.Client) *chatusecase.ChatUsecase {
	var embedder chatusecase.Embedder
	if e, err := gemini.NewEmbedder(ctx); err != nil {
		slog.Warn("gemini embedder unavailable, chat will use keyword search only", "error", err)
	} else {
		embedder = e
	}

	store := NewConversationStore(rdb)
	newIndex := func() chatusecase.FragmentIndex { return memindex.NewIndex() }
	return chatusecase.NewChatUsecase(embedder, store, newIndex)
}
