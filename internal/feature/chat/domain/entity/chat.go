// Package entity はchatフィーチャーのドメインモデルを定義します。
package entity

import "time"

// FragmentKind はインデックスされるテキスト断片の種別です。
type FragmentKind string

const (
	FragmentTarget     FragmentKind = "target_company"
	FragmentCompany    FragmentKind = "comparable_company"
	FragmentFinancials FragmentKind = "financial_metrics"
	FragmentBusiness   FragmentKind = "business_profile"
)

// Fragment は比較結果から抽出された検索対象のテキスト断片です。
type Fragment struct {
	Kind    FragmentKind `json:"kind"`
	Company string       `json:"company"`
	Ticker  string       `json:"ticker,omitempty"`
	Text    string       `json:"text"`
}

// IndexEntry はベクトル付きの断片です。埋め込みに失敗した断片は
// Vectorがnilのまま保持され、キーワード検索のみの対象になります。
type IndexEntry struct {
	Fragment Fragment
	Vector   []float32
}

// SearchHit は類似検索の結果1件です。
type SearchHit struct {
	Fragment Fragment
	Score    float64
}

// ConversationTurn は1往復の会話です。
type ConversationTurn struct {
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
}

// ContextInfo は現在のセッションのコンテキスト状態の要約です。
type ContextInfo struct {
	HasContext        bool   `json:"has_context"`
	TargetCompany     string `json:"target_company"`
	ComparableCount   int    `json:"comparable_count"`
	HasFinancialData  bool   `json:"has_financial_data"`
	ConversationTurns int    `json:"conversation_turns"`
}
