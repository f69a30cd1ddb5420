package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	analysisentity "comps_backend/internal/feature/analysis/domain/entity"
	"comps_backend/internal/feature/chat/domain/entity"
)

// --- モック実装 ---

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) ([]float32, error)
	calls   int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls++
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return []float32{1, 0, 0}, nil
}

type mockIndex struct {
	entries   []entity.IndexEntry
	searchFn  func(query []float32, k int) []entity.SearchHit
	searching int
}

func (m *mockIndex) Rebuild(entries []entity.IndexEntry) { m.entries = entries }

func (m *mockIndex) Search(query []float32, k int) []entity.SearchHit {
	m.searching++
	if m.searchFn != nil {
		return m.searchFn(query, k)
	}
	return nil
}

func (m *mockIndex) Fragments() []entity.Fragment {
	out := make([]entity.Fragment, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Fragment
	}
	return out
}

func (m *mockIndex) Size() int { return len(m.entries) }

func (m *mockIndex) HasVectors() bool {
	for _, e := range m.entries {
		if len(e.Vector) > 0 {
			return true
		}
	}
	return false
}

type memStore struct {
	mu    sync.Mutex
	turns map[string][]entity.ConversationTurn
}

func newMemStore() *memStore {
	return &memStore{turns: make(map[string][]entity.ConversationTurn)}
}

func (s *memStore) History(_ context.Context, sessionID string) ([]entity.ConversationTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.ConversationTurn, len(s.turns[sessionID]))
	copy(out, s.turns[sessionID])
	return out, nil
}

func (s *memStore) Append(_ context.Context, sessionID string, turn entity.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[sessionID] = append(s.turns[sessionID], turn)
	return nil
}

func (s *memStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.turns, sessionID)
	return nil
}

// --- テストデータ ---

func f64(v float64) *float64 { return &v }

func sampleResult() *analysisentity.ComparisonResult {
	return &analysisentity.ComparisonResult{
		TargetCompany: analysisentity.TargetCompany{
			Name:        "Stripe",
			Description: "Online payment processing platform for internet businesses",
		},
		ComparableCompanies: []analysisentity.ComparableCompany{
			{
				Name:      "Adyen",
				Ticker:    "ADYEY",
				Rationale: "Global payment platform serving enterprise merchants",
				Region:    "europe",
				Sector:    "technology",
				Metrics: &analysisentity.FinancialMetrics{
					Ticker:    "ADYEY",
					MarketCap: f64(45_000_000_000),
					PERatio:   f64(48),
					ROE:       f64(22),
				},
			},
			{
				Name:      "PayPal",
				Ticker:    "PYPL",
				Rationale: "Consumer and merchant payment services",
				Region:    "us",
				Sector:    "technology",
			},
		},
		FinancialDataIncluded: true,
	}
}

func newTestUsecase(embedder Embedder, index *mockIndex) (*ChatUsecase, *memStore) {
	store := newMemStore()
	u := NewChatUsecase(embedder, store, func() FragmentIndex { return index })
	return u, store
}

// --- BuildFragments ---

func TestBuildFragments_DeterministicOrder(t *testing.T) {
	fragments := BuildFragments(sampleResult())

	wantKinds := []entity.FragmentKind{
		entity.FragmentTarget,
		entity.FragmentCompany,
		entity.FragmentFinancials,
		entity.FragmentBusiness,
		entity.FragmentCompany,
		entity.FragmentBusiness,
	}
	if len(fragments) != len(wantKinds) {
		t.Fatalf("expected %d fragments, got %d", len(wantKinds), len(fragments))
	}
	for i, kind := range wantKinds {
		if fragments[i].Kind != kind {
			t.Errorf("fragment %d: expected kind %q, got %q", i, kind, fragments[i].Kind)
		}
	}

	if fragments[0].Text != "Target company: Stripe - Online payment processing platform for internet businesses" {
		t.Errorf("unexpected target fragment: %q", fragments[0].Text)
	}
	if fragments[1].Text != "Company: Adyen (ADYEY) - Global payment platform serving enterprise merchants" {
		t.Errorf("unexpected company fragment: %q", fragments[1].Text)
	}
}

func TestBuildFragments_FinancialsOnlyWhenMetricsPresent(t *testing.T) {
	fragments := BuildFragments(sampleResult())

	for _, f := range fragments {
		if f.Kind == entity.FragmentFinancials && f.Company == "PayPal" {
			t.Error("PayPal has no metrics and should not have a financials fragment")
		}
	}

	var adyenFinancials string
	for _, f := range fragments {
		if f.Kind == entity.FragmentFinancials && f.Company == "Adyen" {
			adyenFinancials = f.Text
		}
	}
	want := "Financial metrics for Adyen: Market cap: 45000000000, P/E ratio: 48, ROE: 22, Net margin: N/A"
	if adyenFinancials != want {
		t.Errorf("expected %q, got %q", want, adyenFinancials)
	}
}

func TestBuildFragments_BusinessProfile(t *testing.T) {
	result := &analysisentity.ComparisonResult{
		ComparableCompanies: []analysisentity.ComparableCompany{
			{Name: "SectorOnly", Ticker: "A", Sector: "technology"},
			{Name: "Bare", Ticker: "B"},
		},
	}

	fragments := BuildFragments(result)
	var texts []string
	for _, f := range fragments {
		if f.Kind == entity.FragmentBusiness {
			texts = append(texts, f.Text)
		}
	}
	if len(texts) != 1 {
		t.Fatalf("expected 1 business fragment, got %d", len(texts))
	}
	// Region欠損時は末尾の区切りが除去されること
	if texts[0] != "Business profile for SectorOnly: Industry: technology" {
		t.Errorf("unexpected business fragment: %q", texts[0])
	}
}

// --- UpdateContext ---

func TestUpdateContext_AssignsSessionID(t *testing.T) {
	index := &mockIndex{}
	u, _ := newTestUsecase(&mockEmbedder{}, index)

	sessionID, info, err := u.UpdateContext(context.Background(), "", sampleResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessionID == "" {
		t.Fatal("expected a generated session id")
	}
	if !info.HasContext {
		t.Error("expected HasContext true")
	}
	if info.TargetCompany != "Stripe" {
		t.Errorf("expected target company Stripe, got %q", info.TargetCompany)
	}
	if info.ComparableCount != 2 {
		t.Errorf("expected 2 comparables, got %d", info.ComparableCount)
	}
	if !info.HasFinancialData {
		t.Error("expected HasFinancialData true")
	}
	if index.Size() == 0 {
		t.Error("expected index to be rebuilt with fragments")
	}
}

func TestUpdateContext_PreservesExplicitSessionID(t *testing.T) {
	u, _ := newTestUsecase(&mockEmbedder{}, &mockIndex{})

	sessionID, _, err := u.UpdateContext(context.Background(), "my-session", sampleResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessionID != "my-session" {
		t.Errorf("expected session id preserved, got %q", sessionID)
	}
}

func TestUpdateContext_EmbedFailureKeepsFragment(t *testing.T) {
	embedder := &mockEmbedder{
		embedFn: func(ctx context.Context, text string) ([]float32, error) {
			if strings.Contains(text, "PayPal") {
				return nil, errors.New("quota exceeded")
			}
			return []float32{1, 0}, nil
		},
	}
	index := &mockIndex{}
	u, _ := newTestUsecase(embedder, index)

	if _, _, err := u.UpdateContext(context.Background(), "s1", sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total := len(BuildFragments(sampleResult()))
	if index.Size() != total {
		t.Fatalf("expected all %d fragments indexed, got %d", total, index.Size())
	}
	for _, e := range index.entries {
		if strings.Contains(e.Fragment.Text, "PayPal") && e.Vector != nil {
			t.Error("failed fragment should have no vector")
		}
	}
}

func TestUpdateContext_NilEmbedderSkipsEmbedding(t *testing.T) {
	index := &mockIndex{}
	u, _ := newTestUsecase(nil, index)

	if _, _, err := u.UpdateContext(context.Background(), "s1", sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index.HasVectors() {
		t.Error("expected no vectors without an embedder")
	}
}

// --- Chat ---

func TestChat_NoContextReturnsGuidanceWithoutAppending(t *testing.T) {
	u, store := newTestUsecase(&mockEmbedder{}, &mockIndex{})

	result, err := u.Chat(context.Background(), "s1", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Response != noContextResponse {
		t.Errorf("unexpected response: %q", result.Response)
	}
	if len(store.turns["s1"]) != 0 {
		t.Error("guidance response must not be appended to history")
	}
	if result.ContextInfo.HasContext {
		t.Error("expected HasContext false")
	}
}

func TestChat_SummaryKeywordOverridesRetrievalHits(t *testing.T) {
	index := &mockIndex{
		searchFn: func(query []float32, k int) []entity.SearchHit {
			return []entity.SearchHit{{
				Fragment: entity.Fragment{Kind: entity.FragmentCompany, Company: "Adyen", Text: "hit"},
				Score:    0.9,
			}}
		},
	}
	u, _ := newTestUsecase(&mockEmbedder{}, index)
	if _, _, err := u.UpdateContext(context.Background(), "s1", sampleResult()); err != nil {
		t.Fatal(err)
	}

	result, err := u.Chat(context.Background(), "s1", "give me a summary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(result.Response, "Relevant Information Found") {
		t.Error("summary query must not produce the retrieval-enhanced response")
	}
	if !strings.Contains(result.Response, "Current analysis: Stripe") {
		t.Errorf("expected summary content, got: %q", result.Response)
	}
}

func TestChat_HitsProduceEnhancedResponse(t *testing.T) {
	index := &mockIndex{
		searchFn: func(query []float32, k int) []entity.SearchHit {
			return []entity.SearchHit{{
				Fragment: entity.Fragment{Kind: entity.FragmentFinancials, Company: "Adyen", Text: "metrics text"},
				Score:    0.8,
			}}
		},
	}
	u, _ := newTestUsecase(&mockEmbedder{}, index)
	if _, _, err := u.UpdateContext(context.Background(), "s1", sampleResult()); err != nil {
		t.Fatal(err)
	}

	result, err := u.Chat(context.Background(), "s1", "how profitable is Adyen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Response, "Relevant Information Found") {
		t.Errorf("expected enhanced response, got: %q", result.Response)
	}
	if !strings.Contains(result.Response, "Financial Metrics for Adyen") {
		t.Errorf("expected titled fragment kind in response, got: %q", result.Response)
	}
}

func TestChat_NilEmbedderFallsBackToKeywordSearch(t *testing.T) {
	index := &mockIndex{}
	u, _ := newTestUsecase(nil, index)
	if _, _, err := u.UpdateContext(context.Background(), "s1", sampleResult()); err != nil {
		t.Fatal(err)
	}

	result, err := u.Chat(context.Background(), "s1", "Adyen payment platform details")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index.searching != 0 {
		t.Error("vector search must not run without an embedder")
	}
	if !strings.Contains(result.Response, "Relevant Information Found") {
		t.Errorf("expected keyword hits to produce enhanced response, got: %q", result.Response)
	}
}

func TestChat_EmbedFailureFallsBackToKeywordSearch(t *testing.T) {
	embedCount := 0
	embedder := &mockEmbedder{
		embedFn: func(ctx context.Context, text string) ([]float32, error) {
			embedCount++
			if embedCount <= len(BuildFragments(sampleResult())) {
				return []float32{1, 0}, nil
			}
			return nil, errors.New("quota exceeded")
		},
	}
	index := &mockIndex{}
	u, _ := newTestUsecase(embedder, index)
	if _, _, err := u.UpdateContext(context.Background(), "s1", sampleResult()); err != nil {
		t.Fatal(err)
	}

	result, err := u.Chat(context.Background(), "s1", "Adyen payment platform")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index.searching != 0 {
		t.Error("failed query embedding must fall back to keyword search")
	}
	if result.Response == "" {
		t.Error("expected a response from keyword fallback")
	}
}

func TestChat_AppendsHistory(t *testing.T) {
	u, store := newTestUsecase(nil, &mockIndex{})
	if _, _, err := u.UpdateContext(context.Background(), "s1", sampleResult()); err != nil {
		t.Fatal(err)
	}

	result, err := u.Chat(context.Background(), "s1", "overview please")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.History) != 1 {
		t.Fatalf("expected 1 history turn, got %d", len(result.History))
	}
	if result.History[0].User != "overview please" {
		t.Errorf("unexpected user message in history: %q", result.History[0].User)
	}
	if result.History[0].Assistant != result.Response {
		t.Error("history turn must carry the assistant response")
	}
	if len(store.turns["s1"]) != 1 {
		t.Errorf("expected turn persisted in store, got %d", len(store.turns["s1"]))
	}
}

func TestChat_ConcurrentSendReturnsSessionBusy(t *testing.T) {
	u, _ := newTestUsecase(nil, &mockIndex{})
	if _, _, err := u.UpdateContext(context.Background(), "s1", sampleResult()); err != nil {
		t.Fatal(err)
	}

	if !u.acquireSession("s1") {
		t.Fatal("could not acquire session for setup")
	}
	defer u.releaseSession("s1")

	if _, err := u.Chat(context.Background(), "s1", "hello"); !errors.Is(err, ErrSessionBusy) {
		t.Errorf("expected ErrSessionBusy, got %v", err)
	}

	// 別セッションは影響を受けないこと
	if _, err := u.Chat(context.Background(), "s2", "hello"); err != nil {
		t.Errorf("unexpected error on other session: %v", err)
	}
}

// --- ClearConversation / ContextInfo ---

func TestClearConversation_KeepsIndexedContext(t *testing.T) {
	u, _ := newTestUsecase(nil, &mockIndex{})
	if _, _, err := u.UpdateContext(context.Background(), "s1", sampleResult()); err != nil {
		t.Fatal(err)
	}
	if _, err := u.Chat(context.Background(), "s1", "overview"); err != nil {
		t.Fatal(err)
	}

	if err := u.ClearConversation(context.Background(), "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := u.ContextInfo(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.ConversationTurns != 0 {
		t.Errorf("expected history cleared, got %d turns", info.ConversationTurns)
	}
	if !info.HasContext {
		t.Error("indexed context must survive a conversation clear")
	}
}

func TestContextInfo_WithoutContext(t *testing.T) {
	u, _ := newTestUsecase(nil, &mockIndex{})

	info, err := u.ContextInfo(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.HasContext {
		t.Error("expected HasContext false")
	}
	if info.TargetCompany != "None" {
		t.Errorf("expected target company None, got %q", info.TargetCompany)
	}
}

// --- キーワード検索とヘルパ ---

func TestKeywordSearch(t *testing.T) {
	fragments := []entity.Fragment{
		{Text: "Company: Adyen (ADYEY) - Global payment platform"},
		{Text: "Company: PayPal (PYPL) - Consumer payment services"},
		{Text: "Target company: Stripe - payment processing"},
	}

	hits := keywordSearch(fragments, "adyen payment", 2)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if !strings.Contains(hits[0].Fragment.Text, "Adyen") {
		t.Errorf("expected Adyen fragment ranked first, got %q", hits[0].Fragment.Text)
	}
	if hits[0].Score != 2 {
		t.Errorf("expected score 2, got %f", hits[0].Score)
	}

	// 2文字以下の単語は無視されること
	if hits := keywordSearch(fragments, "of to a", 3); hits != nil {
		t.Errorf("expected no hits for short words, got %v", hits)
	}
}

func TestFinancialInsights(t *testing.T) {
	company := analysisentity.ComparableCompany{
		Metrics: &analysisentity.FinancialMetrics{
			MarketCap: f64(50_000_000_000),
			PERatio:   f64(10),
			PBRatio:   f64(0.8),
			ROE:       f64(20),
			NetMargin: f64(25),
		},
	}

	insights := financialInsights(company)
	want := []string{
		"Large-cap company (>$10B market cap)",
		"Low P/E ratio (<15) - potentially undervalued",
		"Trading below book value (P/B < 1)",
		"Strong ROE (>15%) - efficient use of equity",
		"High net margin (>20%) - strong profitability",
	}
	if len(insights) != len(want) {
		t.Fatalf("expected %d insights, got %d: %v", len(want), len(insights), insights)
	}
	for i, w := range want {
		if insights[i] != w {
			t.Errorf("insight %d: expected %q, got %q", i, w, insights[i])
		}
	}

	if got := financialInsights(analysisentity.ComparableCompany{}); got != nil {
		t.Errorf("expected nil insights without metrics, got %v", got)
	}
}

func TestKindTitle(t *testing.T) {
	tests := []struct {
		in   entity.FragmentKind
		want string
	}{
		{entity.FragmentFinancials, "Financial Metrics"},
		{entity.FragmentBusiness, "Business Profile"},
		{entity.FragmentCompany, "Comparable Company"},
	}
	for _, tt := range tests {
		if got := kindTitle(tt.in); got != tt.want {
			t.Errorf("kindTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClip(t *testing.T) {
	if got := clip("short", 10); got != "short" {
		t.Errorf("expected unchanged string, got %q", got)
	}
	if got := clip("abcdefghij", 5); got != "abcde..." {
		t.Errorf("expected clipped string, got %q", got)
	}
}
