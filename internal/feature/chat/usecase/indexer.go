package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	analysisentity "comps_backend/internal/feature/analysis/domain/entity"
	"comps_backend/internal/feature/chat/domain/entity"
)

// UpdateContext は比較結果をセッションのコンテキストとして再インデックスします。
// インデックスは毎回全置換され、以前の内容は破棄されます。
// 個別断片の埋め込み失敗は許容され、その断片はキーワード検索のみの対象になります。
// 割り当てられたセッションID（空指定時は新規発行）とコンテキスト情報を返します。
func (u *ChatUsecase) UpdateContext(ctx context.Context, sessionID string, result *analysisentity.ComparisonResult) (string, entity.ContextInfo, error) {
	sessionID = ensureSessionID(sessionID)

	fragments := BuildFragments(result)
	entries := make([]entity.IndexEntry, 0, len(fragments))
	for _, f := range fragments {
		entry := entity.IndexEntry{Fragment: f}
		if u.embedder != nil {
			vector, err := u.embedder.Embed(ctx, f.Text)
			if err != nil {
				slog.Warn("failed to embed fragment, keeping raw text only",
					"kind", f.Kind, "company", f.Company, "error", err)
			} else {
				entry.Vector = vector
			}
		}
		entries = append(entries, entry)
	}

	index := u.newIndex()
	index.Rebuild(entries)

	u.mu.Lock()
	u.contexts[sessionID] = &sessionContext{index: index, result: result}
	u.mu.Unlock()

	info, err := u.ContextInfo(ctx, sessionID)
	if err != nil {
		return sessionID, entity.ContextInfo{}, err
	}
	return sessionID, info, nil
}

// BuildFragments は比較結果を検索対象の断片に分解します。
// 断片の順序は決定的です: 対象企業、続いて各比較企業ごとに
// 概要・金融指標（存在時のみ）・ビジネスプロフィールの順になります。
func BuildFragments(result *analysisentity.ComparisonResult) []entity.Fragment {
	var fragments []entity.Fragment

	target := result.TargetCompany
	if target.Name != "" || target.Description != "" {
		fragments = append(fragments, entity.Fragment{
			Kind:    entity.FragmentTarget,
			Company: target.Name,
			Text:    fmt.Sprintf("Target company: %s - %s", target.Name, target.Description),
		})
	}

	for _, company := range result.ComparableCompanies {
		fragments = append(fragments, entity.Fragment{
			Kind:    entity.FragmentCompany,
			Company: company.Name,
			Ticker:  company.Ticker,
			Text:    fmt.Sprintf("Company: %s (%s) - %s", company.Name, company.Ticker, company.Rationale),
		})

		if company.Metrics != nil {
			m := company.Metrics
			text := fmt.Sprintf("Financial metrics for %s: Market cap: %s, P/E ratio: %s, ROE: %s, Net margin: %s",
				company.Name, formatMetric(m.MarketCap), formatMetric(m.PERatio),
				formatMetric(m.ROE), formatMetric(m.NetMargin))
			fragments = append(fragments, entity.Fragment{
				Kind:    entity.FragmentFinancials,
				Company: company.Name,
				Ticker:  company.Ticker,
				Text:    text,
			})
		}

		if company.Sector != "" || company.Region != "" {
			var sb strings.Builder
			fmt.Fprintf(&sb, "Business profile for %s: ", company.Name)
			if company.Sector != "" {
				fmt.Fprintf(&sb, "Industry: %s, ", company.Sector)
			}
			if company.Region != "" {
				fmt.Fprintf(&sb, "Geography: %s", company.Region)
			}
			fragments = append(fragments, entity.Fragment{
				Kind:    entity.FragmentBusiness,
				Company: company.Name,
				Ticker:  company.Ticker,
				Text:    strings.TrimSuffix(sb.String(), ", "),
			})
		}
	}

	return fragments
}

// formatMetric はnil許容の指標値を表示用文字列に変換します。
func formatMetric(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
