// Package filter 是外层检索/过滤层：在推荐引擎之外对书目列表做约束筛选与搜索排序。
// 引擎本体不依赖本包。
package filter

import (
	"context"

	"github.com/rushteam/bookrec/core"
)

// Filter 判断一本书是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 book 是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, book *core.Book) (bool, error)
}

// Apply 依次应用多个过滤器：任何一个命中即移除该书。
// 单个过滤器出错时跳过该过滤器、保留流程，不中断整体筛选。
func Apply(ctx context.Context, rctx *core.RecommendContext, books []*core.Book, filters ...Filter) []*core.Book {
	if len(filters) == 0 || len(books) == 0 {
		return books
	}

	out := make([]*core.Book, 0, len(books))
	for _, book := range books {
		if book == nil {
			continue
		}
		keep := true
		for _, f := range filters {
			ok, err := f.ShouldFilter(ctx, rctx, book)
			if err != nil {
				continue
			}
			if ok {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, book)
		}
	}
	return out
}
