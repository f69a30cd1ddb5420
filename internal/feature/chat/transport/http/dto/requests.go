// Package dto はchatフィーチャーのHTTPリクエスト/レスポンス型を定義します。
package dto

import (
	analysisentity "comps_backend/internal/feature/analysis/domain/entity"
	"comps_backend/internal/feature/chat/domain/entity"
)

// UpdateContextRequest はRAGコンテキスト更新リクエストです。
type UpdateContextRequest struct {
	// ポインタでないstructにbinding:"required"を付けても欠落を検出できないため、
	// ポインタにしてハンドラー側でnilを拒否します。
	ComparisonData *analysisentity.ComparisonResult `json:"comparison_data"`
	SessionID      string                           `json:"session_id"`
}

// UpdateContextResponse はRAGコンテキスト更新レスポンスです。
type UpdateContextResponse struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message"`
	SessionID   string             `json:"session_id"`
	ContextInfo entity.ContextInfo `json:"context_info"`
}

// ChatRequest はチャットリクエストです。
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

// ChatResponse はチャットレスポンスです。
type ChatResponse struct {
	Response            string                    `json:"response"`
	SessionID           string                    `json:"session_id"`
	ConversationHistory []entity.ConversationTurn `json:"conversation_history"`
	ContextInfo         entity.ContextInfo        `json:"context_info"`
}

// ConversationHistoryResponse は会話履歴レスポンスです。
type ConversationHistoryResponse struct {
	SessionID           string                    `json:"session_id"`
	ConversationHistory []entity.ConversationTurn `json:"conversation_history"`
}
