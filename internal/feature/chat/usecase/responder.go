package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	analysisentity "comps_backend/internal/feature/analysis/domain/entity"
	"comps_backend/internal/feature/chat/domain/entity"
)

// noContextResponse はコンテキスト未設定時の固定応答です。
const noContextResponse = "I don't have any company comparison data to work with. Please run a comparison first."

// ChatResult は1回のチャット処理の結果です。
type ChatResult struct {
	SessionID   string
	Response    string
	History     []entity.ConversationTurn
	ContextInfo entity.ContextInfo
}

// Chat はユーザーのメッセージを処理し、応答と更新後の履歴を返します。
// 同一セッションで処理中のメッセージがある場合はErrSessionBusyを返します。
// コンテキスト未設定の場合は案内メッセージを返し、履歴には追加しません。
func (u *ChatUsecase) Chat(ctx context.Context, sessionID, message string) (*ChatResult, error) {
	sessionID = ensureSessionID(sessionID)

	if !u.acquireSession(sessionID) {
		return nil, ErrSessionBusy
	}
	defer u.releaseSession(sessionID)

	sc := u.sessionContextFor(sessionID)
	if sc == nil {
		history, err := u.store.History(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return &ChatResult{
			SessionID:   sessionID,
			Response:    noContextResponse,
			History:     history,
			ContextInfo: u.buildContextInfo(sessionID, len(history)),
		}, nil
	}

	hits := u.retrieve(ctx, sc, message)
	response := u.respond(message, hits, sc.result)

	turn := entity.ConversationTurn{Timestamp: u.now(), User: message, Assistant: response}
	if err := u.store.Append(ctx, sessionID, turn); err != nil {
		return nil, err
	}

	history, err := u.store.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &ChatResult{
		SessionID:   sessionID,
		Response:    response,
		History:     history,
		ContextInfo: u.buildContextInfo(sessionID, len(history)),
	}, nil
}

// retrieve はクエリに関連する断片を検索します。
// 埋め込みが利用できない場合はキーワードマッチにフォールバックします。
func (u *ChatUsecase) retrieve(ctx context.Context, sc *sessionContext, message string) []entity.SearchHit {
	if u.embedder != nil && sc.index.HasVectors() {
		vector, err := u.embedder.Embed(ctx, message)
		if err == nil {
			return sc.index.Search(vector, RetrievalTopK)
		}
		slog.Warn("failed to embed query, falling back to keyword search", "error", err)
	}
	return keywordSearch(sc.index.Fragments(), message, RetrievalTopK)
}

// keywordSearch は断片テキストに対する単純なキーワード一致スコアで検索します。
func keywordSearch(fragments []entity.Fragment, query string, k int) []entity.SearchHit {
	words := make([]string, 0, 8)
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) >= 3 {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return nil
	}

	hits := make([]entity.SearchHit, 0, len(fragments))
	for _, f := range fragments {
		text := strings.ToLower(f.Text)
		score := 0.0
		for _, w := range words {
			if strings.Contains(text, w) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, entity.SearchHit{Fragment: f, Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// respond はクエリの意図に応じたテンプレートで応答を生成します。
// "summary" を含むクエリは検索ヒットの有無に関わらずサマリー応答になります。
func (u *ChatUsecase) respond(message string, hits []entity.SearchHit, result *analysisentity.ComparisonResult) string {
	lower := strings.ToLower(message)
	summary := contextSummary(result)
	patterns := buildComparisonPatterns(result)

	switch {
	case strings.Contains(lower, "summary"):
		return summaryResponse(summary, patterns)
	case len(hits) > 0:
		return enhancedResponse(message, hits, summary, patterns)
	case containsAny(lower, "overview", "what", "tell me"):
		return summaryResponse(summary, patterns)
	case containsAny(lower, "financial", "metrics", "ratios", "valuation"):
		return financialResponse(result)
	case containsAny(lower, "industry", "sector", "business"):
		return industryResponse(patterns)
	case containsAny(lower, "compare", "difference", "similar"):
		return comparisonResponse(result)
	case containsAny(lower, "recommend", "suggest", "best"):
		return recommendationResponse(result)
	default:
		return generalResponse(message, summary)
	}
}

// comparisonPatterns は比較企業群の分布の集計です。
type comparisonPatterns struct {
	industries           map[string]int
	geographies          map[string]int
	large, medium, small int
	total                int
}

// buildComparisonPatterns は比較企業群の業種・規模・地域の分布を集計します。
func buildComparisonPatterns(result *analysisentity.ComparisonResult) comparisonPatterns {
	p := comparisonPatterns{
		industries:  make(map[string]int),
		geographies: make(map[string]int),
		total:       len(result.ComparableCompanies),
	}

	for _, c := range result.ComparableCompanies {
		if c.Sector != "" {
			p.industries[c.Sector]++
		}
		if c.Region != "" {
			p.geographies[c.Region]++
		}
		if c.Metrics != nil && c.Metrics.MarketCap != nil {
			switch mc := *c.Metrics.MarketCap; {
			case mc > 10_000_000_000:
				p.large++
			case mc > 2_000_000_000:
				p.medium++
			default:
				p.small++
			}
		}
	}
	return p
}

// financialInsights は1社分の金融指標から読み取れる特徴を抽出します。
func financialInsights(c analysisentity.ComparableCompany) []string {
	if c.Metrics == nil {
		return nil
	}
	m := c.Metrics
	var insights []string

	if m.MarketCap != nil {
		switch {
		case *m.MarketCap > 10_000_000_000:
			insights = append(insights, "Large-cap company (>$10B market cap)")
		case *m.MarketCap > 2_000_000_000:
			insights = append(insights, "Mid-cap company ($2B-$10B market cap)")
		default:
			insights = append(insights, "Small-cap company (<$2B market cap)")
		}
	}
	if m.PERatio != nil {
		if *m.PERatio < 15 {
			insights = append(insights, "Low P/E ratio (<15) - potentially undervalued")
		} else if *m.PERatio > 25 {
			insights = append(insights, "High P/E ratio (>25) - growth expectations")
		}
	}
	if m.PBRatio != nil {
		if *m.PBRatio < 1 {
			insights = append(insights, "Trading below book value (P/B < 1)")
		} else if *m.PBRatio > 3 {
			insights = append(insights, "High P/B ratio (>3) - premium valuation")
		}
	}
	if m.ROE != nil {
		if *m.ROE > 15 {
			insights = append(insights, "Strong ROE (>15%) - efficient use of equity")
		} else if *m.ROE < 5 {
			insights = append(insights, "Low ROE (<5%) - efficiency concerns")
		}
	}
	if m.NetMargin != nil {
		if *m.NetMargin > 20 {
			insights = append(insights, "High net margin (>20%) - strong profitability")
		} else if *m.NetMargin < 5 {
			insights = append(insights, "Low net margin (<5%) - thin margins")
		}
	}
	return insights
}

// contextSummary は現在の比較コンテキストの要約文を生成します。
func contextSummary(result *analysisentity.ComparisonResult) string {
	var sb strings.Builder

	name := result.TargetCompany.Name
	if name == "" {
		name = "Unknown company"
	}
	fmt.Fprintf(&sb, "Current analysis: %s\n", name)
	fmt.Fprintf(&sb, "Found %d comparable companies\n\n", len(result.ComparableCompanies))

	if desc := result.TargetCompany.Description; desc != "" {
		fmt.Fprintf(&sb, "Target company description: %s\n\n", clip(desc, 200))
	}

	for i, company := range result.ComparableCompanies {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&sb, "%s (%s): ", company.Name, company.Ticker)
		if insights := financialInsights(company); len(insights) > 0 {
			sb.WriteString(insights[0] + "\n")
		} else {
			sb.WriteString("Financial data available\n")
		}
	}

	return sb.String()
}

// enhancedResponse は検索ヒットを組み込んだ応答を生成します。
func enhancedResponse(query string, hits []entity.SearchHit, summary string, patterns comparisonPatterns) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Based on your query: '%s'\n\n", query)
	sb.WriteString("**Relevant Information Found:**\n")
	for i, hit := range hits {
		fmt.Fprintf(&sb, "%d. %s for %s:\n", i+1, kindTitle(hit.Fragment.Kind), hit.Fragment.Company)
		fmt.Fprintf(&sb, "   %s\n\n", clip(hit.Fragment.Text, 200))
	}

	sb.WriteString("**Context Summary:**\n")
	sb.WriteString(summary + "\n\n")

	writePatterns(&sb, "**Key Patterns:**\n", patterns)

	sb.WriteString("\n**You can ask me about:**\n")
	sb.WriteString("- Specific companies and their metrics\n")
	sb.WriteString("- Financial comparisons between companies\n")
	sb.WriteString("- Industry trends and patterns\n")
	sb.WriteString("- Investment insights and recommendations\n")

	return sb.String()
}

// summaryResponse はサマリー系クエリへの応答を生成します。
func summaryResponse(summary string, patterns comparisonPatterns) string {
	var sb strings.Builder
	sb.WriteString(summary + "\n\n")
	writePatterns(&sb, "Key patterns:\n", patterns)
	if len(patterns.geographies) > 0 {
		fmt.Fprintf(&sb, "- Geographic presence: %s\n", strings.Join(sortedKeys(patterns.geographies), ", "))
	}
	return sb.String()
}

// writePatterns は分布の集計を応答に書き出します。
func writePatterns(sb *strings.Builder, header string, patterns comparisonPatterns) {
	if len(patterns.industries) == 0 && patterns.large+patterns.medium+patterns.small == 0 {
		return
	}
	sb.WriteString(header)
	if len(patterns.industries) > 0 {
		fmt.Fprintf(sb, "- Industry focus: %s\n", strings.Join(sortedKeys(patterns.industries), ", "))
	}
	if patterns.large+patterns.medium+patterns.small > 0 {
		fmt.Fprintf(sb, "- Company sizes: %d large, %d medium, %d small\n",
			patterns.large, patterns.medium, patterns.small)
	}
}

// financialResponse は金融指標系クエリへの応答を生成します。
func financialResponse(result *analysisentity.ComparisonResult) string {
	companies := result.ComparableCompanies
	if len(companies) == 0 {
		return "No comparable companies available for financial analysis."
	}

	var sb strings.Builder
	sb.WriteString("Financial analysis of comparable companies:\n\n")

	for i, company := range companies {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&sb, "**%s (%s)**\n", company.Name, company.Ticker)
		if company.Metrics != nil {
			if insights := financialInsights(company); len(insights) > 0 {
				fmt.Fprintf(&sb, "- %s\n", insights[0])
			} else {
				sb.WriteString("- Financial data available\n")
			}
		} else {
			sb.WriteString("- No financial data available\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// industryResponse は業種系クエリへの応答を生成します。
func industryResponse(patterns comparisonPatterns) string {
	if len(patterns.industries) == 0 {
		return "No industry data available for analysis."
	}

	var sb strings.Builder
	sb.WriteString("Industry and business model analysis:\n\n")

	sb.WriteString("**Industry Distribution:**\n")
	for _, industry := range sortedKeys(patterns.industries) {
		fmt.Fprintf(&sb, "- %s: %d companies\n", industry, patterns.industries[industry])
	}

	if len(patterns.geographies) > 0 {
		sb.WriteString("\n**Geographic Presence:**\n")
		for _, geo := range sortedKeys(patterns.geographies) {
			fmt.Fprintf(&sb, "- %s: %d companies\n", geo, patterns.geographies[geo])
		}
	}

	return sb.String()
}

// comparisonResponse は比較系クエリへの応答を生成します。
func comparisonResponse(result *analysisentity.ComparisonResult) string {
	companies := result.ComparableCompanies
	if len(companies) < 2 {
		return "Need at least 2 companies for comparison analysis."
	}

	var sb strings.Builder
	sb.WriteString("Company comparison analysis:\n\n")

	for i, company := range companies {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&sb, "**%s (%s)**\n", company.Name, company.Ticker)
		fmt.Fprintf(&sb, "Rationale: %s\n", clip(company.Rationale, 150))
		if insights := financialInsights(company); len(insights) > 0 {
			fmt.Fprintf(&sb, "Key insight: %s\n", insights[0])
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// recommendationResponse は推奨系クエリへの応答を生成します。
func recommendationResponse(result *analysisentity.ComparisonResult) string {
	companies := result.ComparableCompanies
	if len(companies) == 0 {
		return "No companies available for recommendations."
	}

	var sb strings.Builder
	sb.WriteString("Based on the current comparison data:\n\n")

	withFinancials := make([]analysisentity.ComparableCompany, 0, len(companies))
	for _, c := range companies {
		if c.Metrics != nil {
			withFinancials = append(withFinancials, c)
		}
	}

	if len(withFinancials) > 0 {
		sb.WriteString("**Companies with comprehensive financial data:**\n")
		for i, company := range withFinancials {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&sb, "- %s (%s)\n", company.Name, company.Ticker)
		}
		sb.WriteString("\n**Recommendations:**\n")
		sb.WriteString("1. Focus on companies with complete financial metrics for detailed analysis\n")
		sb.WriteString("2. Consider industry alignment with your target company\n")
		sb.WriteString("3. Evaluate geographic presence for market expansion insights\n")
	} else {
		sb.WriteString("**Recommendations:**\n")
		sb.WriteString("1. Run comparison with financial data enabled for deeper insights\n")
		sb.WriteString("2. Use filters to narrow down to specific industries or company sizes\n")
		sb.WriteString("3. Consider refining your search criteria for better matches\n")
	}

	return sb.String()
}

// generalResponse は分類できないクエリへの応答を生成します。
func generalResponse(query, summary string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "I understand you're asking about: %s\n\n", query)
	sb.WriteString("Here's what I can tell you about the current comparison:\n\n")
	sb.WriteString(summary)

	sb.WriteString("\n\nYou can ask me about:\n")
	sb.WriteString("- Summary and overview of the comparison\n")
	sb.WriteString("- Financial metrics and ratios\n")
	sb.WriteString("- Industry and business model analysis\n")
	sb.WriteString("- Company comparisons and differences\n")
	sb.WriteString("- Recommendations and suggestions\n")

	return sb.String()
}

// kindTitle は断片種別を表示用のタイトルに変換します。
func kindTitle(kind entity.FragmentKind) string {
	words := strings.Split(string(kind), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// containsAny はいずれかのキーワードが含まれるかどうかを返します。
func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// sortedKeys はマップのキーを昇順で返します。出力順を決定的にするために使用します。
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// clip は文字列を指定文字数に切り詰めます。切り詰めた場合は末尾に...を付けます。
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
