// Package usecase はchatフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	analysisentity "comps_backend/internal/feature/analysis/domain/entity"
	"comps_backend/internal/feature/chat/domain/entity"
)

const (
	// MaxHistoryTurns は1セッションあたりに保持する会話往復数の上限です。
	MaxHistoryTurns = 10
	// RetrievalTopK は類似検索で取得する断片数です。
	RetrievalTopK = 3
)

// ErrSessionBusy は同一セッションで別のメッセージを処理中であることを示します。
var ErrSessionBusy = errors.New("another message is already being processed for this session")

// Embedder はテキストをベクトル化する埋め込みクライアントです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// FragmentIndex は断片の全置換再構築と類似検索を提供するインデックスです。
type FragmentIndex interface {
	Rebuild(entries []entity.IndexEntry)
	Search(query []float32, k int) []entity.SearchHit
	Fragments() []entity.Fragment
	Size() int
	HasVectors() bool
}

// ConversationStore はセッションごとの会話履歴を永続化するストアです。
type ConversationStore interface {
	History(ctx context.Context, sessionID string) ([]entity.ConversationTurn, error)
	Append(ctx context.Context, sessionID string, turn entity.ConversationTurn) error
	Clear(ctx context.Context, sessionID string) error
}

// sessionContext は1セッション分のインデックス済みコンテキストです。
type sessionContext struct {
	index  FragmentIndex
	result *analysisentity.ComparisonResult
}

// ChatUsecase は比較結果に基づくRAGチャットアシスタントを提供します。
// embedderがnilの場合、検索はキーワードマッチにフォールバックします。
type ChatUsecase struct {
	embedder Embedder
	store    ConversationStore
	newIndex func() FragmentIndex

	mu       sync.Mutex
	contexts map[string]*sessionContext
	inflight map[string]struct{}

	now func() time.Time
}

// NewChatUsecase はChatUsecaseの新しいインスタンスを生成します。
func NewChatUsecase(embedder Embedder, store ConversationStore, newIndex func() FragmentIndex) *ChatUsecase {
	return &ChatUsecase{
		embedder: embedder,
		store:    store,
		newIndex: newIndex,
		contexts: make(map[string]*sessionContext),
		inflight: make(map[string]struct{}),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ContextInfo は指定セッションのコンテキスト状態の要約を返します。
func (u *ChatUsecase) ContextInfo(ctx context.Context, sessionID string) (entity.ContextInfo, error) {
	history, err := u.store.History(ctx, sessionID)
	if err != nil {
		return entity.ContextInfo{}, err
	}
	return u.buildContextInfo(sessionID, len(history)), nil
}

// History は指定セッションの会話履歴を返します。
func (u *ChatUsecase) History(ctx context.Context, sessionID string) ([]entity.ConversationTurn, error) {
	return u.store.History(ctx, sessionID)
}

// ClearConversation は会話履歴を削除します。インデックス済みコンテキストは維持されます。
func (u *ChatUsecase) ClearConversation(ctx context.Context, sessionID string) error {
	return u.store.Clear(ctx, sessionID)
}

// buildContextInfo はセッションのコンテキスト情報を組み立てます。
func (u *ChatUsecase) buildContextInfo(sessionID string, turns int) entity.ContextInfo {
	info := entity.ContextInfo{TargetCompany: "None", ConversationTurns: turns}

	u.mu.Lock()
	sc := u.contexts[sessionID]
	u.mu.Unlock()

	if sc == nil {
		return info
	}
	info.HasContext = true
	info.TargetCompany = sc.result.TargetCompany.Name
	info.ComparableCount = len(sc.result.ComparableCompanies)
	info.HasFinancialData = sc.result.FinancialDataIncluded
	return info
}

// sessionContextFor はセッションのコンテキストを返します。未設定ならnilです。
func (u *ChatUsecase) sessionContextFor(sessionID string) *sessionContext {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.contexts[sessionID]
}

// acquireSession はセッションの処理中フラグを立てます。既に処理中ならfalseを返します。
func (u *ChatUsecase) acquireSession(sessionID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, busy := u.inflight[sessionID]; busy {
		return false
	}
	u.inflight[sessionID] = struct{}{}
	return true
}

// releaseSession はセッションの処理中フラグを下ろします。
func (u *ChatUsecase) releaseSession(sessionID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.inflight, sessionID)
}

// ensureSessionID は空のセッションIDに新しいUUIDを割り当てます。
func ensureSessionID(sessionID string) string {
	if s := strings.TrimSpace(sessionID); s != "" {
		return s
	}
	return uuid.NewString()
}
