// Package api はトランスポート層で共有されるレスポンス型を定義します。
package api

// ErrorResponse はエラー時のJSONレスポンスボディです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse は成功メッセージのみを返すJSONレスポンスボディです。
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
