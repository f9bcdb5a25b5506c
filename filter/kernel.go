package filter

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/match"
)

// KernelFilter 用 match 内核的硬过滤语义做筛选：
// availability / language / genre 精确不匹配即移除。
type KernelFilter struct {
	Filters match.Filters
}

func (f *KernelFilter) Name() string {
	return "filter.kernel"
}

func (f *KernelFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	book *core.Book,
) (bool, error) {
	opts := match.DefaultOptions()
	opts.TokenWeight = 0 // 只做硬过滤，不打分
	_, ok := match.Score(book, nil, f.Filters, opts)
	return !ok, nil
}
