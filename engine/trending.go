package engine

import (
	"sort"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/utils"
)

// Trending 返回热度榜 top-k：原始借阅次数 + 读者已知时的画像分。
// 冷启动读者的 Recommend 与这里的结果逐条一致。
func (e *Engine) Trending(studentID string, k int) []*core.Recommendation {
	return e.trending(k, nil, studentID)
}

// trending 是热度兜底路径。
//
// 候选为目录中不在排除集内的全部书目（零借阅的书也参与，画像分仍可把它顶上来）；
// popularity 信号记原始次数。不可借书目乘 TrendingAvailabilityPenalty（0.9，
// 与暖路径的 0.85 历史上就不一致，按字面保留）。
// 排序与暖路径同一纪律：稳定排序，持平保持目录遍历顺序。
func (e *Engine) trending(k int, exclude map[string]struct{}, studentID string) []*core.Recommendation {
	if k <= 0 {
		return nil
	}

	ranked := make([]*core.Recommendation, 0, len(e.idx.BookOrder))
	for _, bookID := range e.idx.BookOrder {
		if _, ok := exclude[bookID]; ok {
			continue
		}

		var sig core.Signals
		score := float64(e.idx.BookCounts[bookID])
		sig.Popularity += score

		if studentID != "" {
			fit := e.ProfileFit(studentID, bookID)
			score += fit
			sig.ProfileFit += fit
		}

		if book := e.idx.Books[bookID]; book != nil && !book.Available() {
			before := score
			score *= e.cfg.TrendingAvailabilityPenalty
			sig.AvailabilityPenalty += score - before
		}

		rec := &core.Recommendation{
			BookID:  bookID,
			Score:   score,
			Signals: sig,
			Driver:  sig.Driver(),
		}
		rec.PutLabel("source", utils.Label{Value: "trending", Source: "trending"})
		ranked = append(ranked, rec)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
