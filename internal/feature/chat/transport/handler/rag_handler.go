// Package handler はchatフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"comps_backend/internal/api"
	analysisentity "comps_backend/internal/feature/analysis/domain/entity"
	"comps_backend/internal/feature/chat/domain/entity"
	"comps_backend/internal/feature/chat/transport/http/dto"
	"comps_backend/internal/feature/chat/usecase"
)

// ChatUsecase はRAGチャットアシスタントのユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ChatUsecase interface {
	UpdateContext(ctx context.Context, sessionID string, result *analysisentity.ComparisonResult) (string, entity.ContextInfo, error)
	Chat(ctx context.Context, sessionID, message string) (*usecase.ChatResult, error)
	ContextInfo(ctx context.Context, sessionID string) (entity.ContextInfo, error)
	History(ctx context.Context, sessionID string) ([]entity.ConversationTurn, error)
	ClearConversation(ctx context.Context, sessionID string) error
}

// RAGHandler はRAGチャットに関するHTTPリクエストを処理します。
type RAGHandler struct {
	uc ChatUsecase
}

// NewRAGHandler はRAGHandlerの新しいインスタンスを生成します。
func NewRAGHandler(uc ChatUsecase) *RAGHandler {
	return &RAGHandler{uc: uc}
}

// UpdateContext は比較結果をセッションのチャットコンテキストとして登録します。
//
// エンドポイント: POST /api/rag/update-context
func (h *RAGHandler) UpdateContext(c *gin.Context) {
	var req dto.UpdateContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if req.ComparisonData == nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "comparison_data is required"})
		return
	}

	sessionID, info, err := h.uc.UpdateContext(c.Request.Context(), req.SessionID, req.ComparisonData)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to update context"})
		return
	}

	c.JSON(http.StatusOK, dto.UpdateContextResponse{
		Success:     true,
		Message:     "RAG context updated successfully",
		SessionID:   sessionID,
		ContextInfo: info,
	})
}

// Chat はユーザーのメッセージに応答します。
// 同一セッションで処理中のメッセージがある場合は409を返します。
//
// エンドポイント: POST /api/rag/chat
func (h *RAGHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.uc.Chat(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, usecase.ErrSessionBusy) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to process chat message"})
		return
	}

	c.JSON(http.StatusOK, dto.ChatResponse{
		Response:            result.Response,
		SessionID:           result.SessionID,
		ConversationHistory: result.History,
		ContextInfo:         result.ContextInfo,
	})
}

// GetContextInfo は現在のコンテキスト状態の要約を返します。
//
// エンドポイント: GET /api/rag/context-info
func (h *RAGHandler) GetContextInfo(c *gin.Context) {
	info, err := h.uc.ContextInfo(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to get context info"})
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetConversationHistory はセッションの会話履歴を返します。
//
// エンドポイント: GET /api/rag/conversation-history
func (h *RAGHandler) GetConversationHistory(c *gin.Context) {
	sessionID := c.Query("session_id")
	history, err := h.uc.History(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to get conversation history"})
		return
	}
	c.JSON(http.StatusOK, dto.ConversationHistoryResponse{
		SessionID:           sessionID,
		ConversationHistory: history,
	})
}

// ClearConversation は会話履歴を削除します。インデックス済みコンテキストは維持されます。
//
// エンドポイント: POST /api/rag/clear-conversation
func (h *RAGHandler) ClearConversation(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = c.PostForm("session_id")
	}
	if err := h.uc.ClearConversation(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to clear conversation"})
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "Conversation history cleared"})
}
