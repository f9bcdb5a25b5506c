// Package engine 实现推荐引擎：多信号融合打分、排序与冷启动兜底。
//
// 引擎在构造时从快照一次性建好只读索引，此后是纯内存纯计算的不可变值，
// Recommend 可被任意多请求并发调用，无锁。目录变更走 rebuild-and-swap（见 Holder）。
package engine

import (
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/index"
	"github.com/rushteam/bookrec/pkg/utils"
)

// 候选数低于此阈值时并发没有收益，直接串行。
const minParallelCandidates = 256

// Engine 是不可变的推荐引擎实例。
type Engine struct {
	idx *index.Index
	cfg Config
}

// New 从目录快照构造引擎。
// 切片顺序即目录遍历顺序：排序并列与 similar_to 裁决都以它为准，调用方应保证稳定。
func New(books []*core.Book, students []*core.Student, loans []*core.Loan, opts ...Option) *Engine {
	return NewFromIndex(index.Build(books, students, loans), opts...)
}

// NewFromIndex 用已建好的索引构造引擎（loader 先建索引再发布热度榜时用）。
func NewFromIndex(idx *index.Index, opts ...Option) *Engine {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{idx: idx, cfg: cfg}
}

// Index 返回底层只读索引，供快照层发布热度榜等旁路消费。
func (e *Engine) Index() *index.Index { return e.idx }

// Recommend 为读者生成 top-k 推荐。
//
// 两条路径：
//   - 冷启动（无任何索引内借阅）：整体委托热度兜底
//   - 暖路径：对每个未读候选，累加与每本已读书的 combined 相似度 × 借阅权重，
//     再补画像分、热度分与可借性惩罚，稳定排序取 top-k，不足时用热度兜底补齐
//
// 未知读者不是错误（按冷启动处理）；k 大于候选池时结果可短于 k。
// 相同引擎实例、相同入参的两次调用逐字节一致。
func (e *Engine) Recommend(studentID string, k int) []*core.Recommendation {
	if k <= 0 {
		return nil
	}

	seenOrder := e.idx.SeenBooks(studentID)
	if len(seenOrder) == 0 {
		return e.trending(k, nil, studentID)
	}

	seen := make(map[string]struct{}, len(seenOrder))
	for _, id := range seenOrder {
		seen[id] = struct{}{}
	}

	candidates := make([]string, 0, len(e.idx.BookOrder)-len(seen))
	for _, id := range e.idx.BookOrder {
		if _, ok := seen[id]; !ok {
			candidates = append(candidates, id)
		}
	}

	ranked := e.scoreCandidates(studentID, candidates, seenOrder)

	// 稳定排序：分数持平时保持目录遍历顺序，这是对外承诺的顺序保证。
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	for _, rec := range ranked {
		rec.PutLabel("source", utils.Label{Value: "engine", Source: "engine"})
	}

	if len(ranked) < k {
		exclude := make(map[string]struct{}, len(seen)+len(ranked))
		for id := range seen {
			exclude[id] = struct{}{}
		}
		for _, rec := range ranked {
			exclude[rec.BookID] = struct{}{}
		}
		ranked = append(ranked, e.trending(k-len(ranked), exclude, studentID)...)
	}

	return ranked
}

// scoreCandidates 按目录顺序给候选打分，过滤掉无正贡献的候选。
// Parallelism > 1 时分块并发，各块写回各自的固定下标，合并顺序与串行完全一致。
func (e *Engine) scoreCandidates(studentID string, candidates []string, seenOrder []string) []*core.Recommendation {
	scored := make([]*core.Recommendation, len(candidates))

	workers := e.cfg.Parallelism
	if workers <= 1 || len(candidates) < minParallelCandidates {
		for i, id := range candidates {
			scored[i] = e.scoreCandidate(studentID, id, seenOrder)
		}
	} else {
		var eg errgroup.Group
		chunk := (len(candidates) + workers - 1) / workers
		for lo := 0; lo < len(candidates); lo += chunk {
			lo, hi := lo, lo+chunk
			if hi > len(candidates) {
				hi = len(candidates)
			}
			eg.Go(func() error {
				for i := lo; i < hi; i++ {
					scored[i] = e.scoreCandidate(studentID, candidates[i], seenOrder)
				}
				return nil
			})
		}
		// worker 不产生错误，Wait 只做汇合
		_ = eg.Wait()
	}

	out := make([]*core.Recommendation, 0, len(scored))
	for _, rec := range scored {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out
}

// scoreCandidate 计算单个候选的总分与信号分解；没有任何正相似贡献时返回 nil。
func (e *Engine) scoreCandidate(studentID, candidateID string, seenOrder []string) *core.Recommendation {
	var sig core.Signals
	score := 0.0
	best := 0.0
	similarTo := ""

	// seenOrder 是首见顺序：similar_to 的并列裁决要求严格大于才换主，先写者保持。
	for _, readID := range seenOrder {
		collab, content, combined := e.SimilarityParts(readID, candidateID)
		if combined <= 0 {
			continue
		}
		contribution := combined * e.idx.LoanWeight(studentID, readID)
		score += contribution
		sig.HistorySimilarity += contribution
		sig.CollaborativeSimilarity += collab
		sig.ContentSimilarity += content
		if contribution > best {
			best = contribution
			similarTo = readID
		}
	}

	if score <= 0 {
		return nil
	}

	if fit := e.ProfileFit(studentID, candidateID); fit != 0 {
		score += fit
		sig.ProfileFit += fit
	}
	if pop := e.cfg.PopularityWeight * math.Log(1+float64(e.idx.BookCounts[candidateID])); pop != 0 {
		score += pop
		sig.Popularity += pop
	}
	if book := e.idx.Books[candidateID]; book != nil && !book.Available() {
		before := score
		score *= e.cfg.AvailabilityPenalty
		sig.AvailabilityPenalty += score - before
	}

	return &core.Recommendation{
		BookID:    candidateID,
		Score:     score,
		SimilarTo: similarTo,
		Signals:   sig,
		Driver:    sig.Driver(),
	}
}
