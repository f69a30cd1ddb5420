// Package memindex はチャット用のインメモリベクトルインデックスを提供します。
// 断片数はたかだか数十件なので、コサイン類似度の線形走査で十分です。
package memindex

import (
	"math"
	"sort"
	"sync"

	"comps_backend/internal/feature/chat/domain/entity"
)

// Index はベクトル付き断片を保持するインメモリインデックスです。
// 再構築は全置換で行い、部分更新はサポートしません。
type Index struct {
	mu      sync.RWMutex
	entries []entity.IndexEntry
}

// NewIndex は空のIndexを生成します。
func NewIndex() *Index {
	return &Index{}
}

// Rebuild はインデックスの内容を与えられたエントリで全置換します。
func (idx *Index) Rebuild(entries []entity.IndexEntry) {
	copied := make([]entity.IndexEntry, len(entries))
	copy(copied, entries)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = copied
}

// Search はクエリベクトルとのコサイン類似度が高い上位k件を返します。
// ベクトルを持たないエントリは対象外です。
func (idx *Index) Search(query []float32, k int) []entity.SearchHit {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(query) == 0 || k <= 0 {
		return nil
	}

	hits := make([]entity.SearchHit, 0, len(idx.entries))
	for _, e := range idx.entries {
		if len(e.Vector) != len(query) {
			continue
		}
		score := cosineSimilarity(query, e.Vector)
		if score <= 0 {
			continue
		}
		hits = append(hits, entity.SearchHit{Fragment: e.Fragment, Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// Fragments は保持しているすべての断片を登録順で返します。
func (idx *Index) Fragments() []entity.Fragment {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]entity.Fragment, len(idx.entries))
	for i, e := range idx.entries {
		out[i] = e.Fragment
	}
	return out
}

// Size は保持している断片数を返します。
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// HasVectors はベクトル付きのエントリが1件以上あるかどうかを返します。
func (idx *Index) HasVectors() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, e := range idx.entries {
		if len(e.Vector) > 0 {
			return true
		}
	}
	return false
}

// cosineSimilarity は2つのベクトルのコサイン類似度を計算します。
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
