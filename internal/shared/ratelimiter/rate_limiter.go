package ratelimiter

import (
	"log/slog"
	"time"
)

// RateLimiterInterface は、外部API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiterは、外部API呼び出しの頻度を制限します。
// FMPの無料プランはリクエスト数に上限があるため、金融データの一括取得で使用します。
type RateLimiter struct {
	limit     int           // interval あたりの上限
	interval  time.Duration // どの単位でリセットするか
	count     int
	lastReset time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
	}
}

// WaitIfNeededはレートリミットの上限に達しているかを確認し、必要であれば待機します。
func (rl *RateLimiter) WaitIfNeeded() {
	now := time.Now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		sleep := rl.interval - now.Sub(rl.lastReset)
		if sleep > 0 {
			slog.Warn("rate limit hit, sleeping", "limit", rl.limit, "sleep", sleep)
			time.Sleep(sleep)
		}
		// リセット
		rl.count = 1
		rl.lastReset = time.Now()
	}
}
