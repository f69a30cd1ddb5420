package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	analysisentity "comps_backend/internal/feature/analysis/domain/entity"
	"comps_backend/internal/feature/chat/domain/entity"
	"comps_backend/internal/feature/chat/usecase"
)

// mockChatUsecase はChatUsecaseインターフェースのモック実装です。
type mockChatUsecase struct {
	UpdateContextFunc     func(ctx context.Context, sessionID string, result *analysisentity.ComparisonResult) (string, entity.ContextInfo, error)
	ChatFunc              func(ctx context.Context, sessionID, message string) (*usecase.ChatResult, error)
	ContextInfoFunc       func(ctx context.Context, sessionID string) (entity.ContextInfo, error)
	HistoryFunc           func(ctx context.Context, sessionID string) ([]entity.ConversationTurn, error)
	ClearConversationFunc func(ctx context.Context, sessionID string) error
}

func (m *mockChatUsecase) UpdateContext(ctx context.Context, sessionID string, result *analysisentity.ComparisonResult) (string, entity.ContextInfo, error) {
	if m.UpdateContextFunc != nil {
		return m.UpdateContextFunc(ctx, sessionID, result)
	}
	return "session-1", entity.ContextInfo{HasContext: true}, nil
}

func (m *mockChatUsecase) Chat(ctx context.Context, sessionID, message string) (*usecase.ChatResult, error) {
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, sessionID, message)
	}
	return &usecase.ChatResult{SessionID: sessionID, Response: "ok"}, nil
}

func (m *mockChatUsecase) ContextInfo(ctx context.Context, sessionID string) (entity.ContextInfo, error) {
	if m.ContextInfoFunc != nil {
		return m.ContextInfoFunc(ctx, sessionID)
	}
	return entity.ContextInfo{TargetCompany: "None"}, nil
}

func (m *mockChatUsecase) History(ctx context.Context, sessionID string) ([]entity.ConversationTurn, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, sessionID)
	}
	return []entity.ConversationTurn{}, nil
}

func (m *mockChatUsecase) ClearConversation(ctx context.Context, sessionID string) error {
	if m.ClearConversationFunc != nil {
		return m.ClearConversationFunc(ctx, sessionID)
	}
	return nil
}

func newRAGRouter(uc ChatUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewRAGHandler(uc)

	router := gin.New()
	router.POST("/api/rag/update-context", handler.UpdateContext)
	router.POST("/api/rag/chat", handler.Chat)
	router.GET("/api/rag/context-info", handler.GetContextInfo)
	router.GET("/api/rag/conversation-history", handler.GetConversationHistory)
	router.POST("/api/rag/clear-conversation", handler.ClearConversation)
	return router
}

// TestRAGHandler_UpdateContext はUpdateContextハンドラーの成功とバリデーションを検証します。
func TestRAGHandler_UpdateContext(t *testing.T) {
	t.Run("success: returns assigned session id", func(t *testing.T) {
		var gotTarget string
		router := newRAGRouter(&mockChatUsecase{
			UpdateContextFunc: func(ctx context.Context, sessionID string, result *analysisentity.ComparisonResult) (string, entity.ContextInfo, error) {
				gotTarget = result.TargetCompany.Name
				return "generated-id", entity.ContextInfo{HasContext: true, TargetCompany: result.TargetCompany.Name}, nil
			},
		})

		body := `{"comparison_data":{"target_company":{"name":"Stripe","description":"Payments"},"comparable_companies":[]}}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/rag/update-context", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Stripe", gotTarget)
		assert.Contains(t, w.Body.String(), `"session_id":"generated-id"`)
		assert.Contains(t, w.Body.String(), "RAG context updated successfully")
	})

	t.Run("failure: missing comparison data", func(t *testing.T) {
		router := newRAGRouter(&mockChatUsecase{})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/rag/update-context", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestRAGHandler_Chat はChatハンドラーの各種シナリオをテーブル駆動テストで検証します。
func TestRAGHandler_Chat(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		chatFunc       func(ctx context.Context, sessionID, message string) (*usecase.ChatResult, error)
		expectedStatus int
		expectedInBody string
	}{
		{
			name: "success: returns response with history",
			body: `{"message":"give me a summary","session_id":"s1"}`,
			chatFunc: func(ctx context.Context, sessionID, message string) (*usecase.ChatResult, error) {
				return &usecase.ChatResult{
					SessionID: sessionID,
					Response:  "Current analysis: Stripe",
					History:   []entity.ConversationTurn{{User: message, Assistant: "Current analysis: Stripe"}},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedInBody: `"response":"Current analysis: Stripe"`,
		},
		{
			name:           "failure: missing message",
			body:           `{"session_id":"s1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedInBody: `"error"`,
		},
		{
			name: "failure: busy session returns 409",
			body: `{"message":"hello","session_id":"s1"}`,
			chatFunc: func(ctx context.Context, sessionID, message string) (*usecase.ChatResult, error) {
				return nil, usecase.ErrSessionBusy
			},
			expectedStatus: http.StatusConflict,
			expectedInBody: `"error"`,
		},
		{
			name: "failure: internal error returns 500",
			body: `{"message":"hello"}`,
			chatFunc: func(ctx context.Context, sessionID, message string) (*usecase.ChatResult, error) {
				return nil, errors.New("store unavailable")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedInBody: "failed to process chat message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRAGRouter(&mockChatUsecase{ChatFunc: tt.chatFunc})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/api/rag/chat", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedInBody)
		})
	}
}

// TestRAGHandler_GetContextInfo はGetContextInfoハンドラーがセッションIDを引き渡すことを検証します。
func TestRAGHandler_GetContextInfo(t *testing.T) {
	var gotSessionID string
	router := newRAGRouter(&mockChatUsecase{
		ContextInfoFunc: func(ctx context.Context, sessionID string) (entity.ContextInfo, error) {
			gotSessionID = sessionID
			return entity.ContextInfo{HasContext: true, TargetCompany: "Stripe", ComparableCount: 3}, nil
		},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/rag/context-info?session_id=s1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s1", gotSessionID)
	assert.Contains(t, w.Body.String(), `"target_company":"Stripe"`)
}

// TestRAGHandler_ClearConversation はClearConversationハンドラーのセッションID解決を検証します。
func TestRAGHandler_ClearConversation(t *testing.T) {
	t.Run("success: session id from query", func(t *testing.T) {
		var gotSessionID string
		router := newRAGRouter(&mockChatUsecase{
			ClearConversationFunc: func(ctx context.Context, sessionID string) error {
				gotSessionID = sessionID
				return nil
			},
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/rag/clear-conversation?session_id=s1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "s1", gotSessionID)
		assert.JSONEq(t, `{"success":true,"message":"Conversation history cleared"}`, w.Body.String())
	})

	t.Run("failure: store error returns 500", func(t *testing.T) {
		router := newRAGRouter(&mockChatUsecase{
			ClearConversationFunc: func(ctx context.Context, sessionID string) error {
				return errors.New("store unavailable")
			},
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/rag/clear-conversation?session_id=s1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
