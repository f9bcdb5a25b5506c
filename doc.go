// Package bookrec 是一个馆藏书目推荐引擎（Book Recommender Kit）。
//
// 设计要点：
// - Snapshot-first: 目录/读者/借阅在构造时一次性建成不可变索引，刷新走 rebuild-and-swap
// - Signals-first: 每条推荐携带强类型信号分解（历史相似 / 协同 / 内容 / 画像 / 热度 / 可借性）
// - 引擎纯内存纯计算：不做 I/O，外层（snapshot / filter / feature）负责取数与接线
package bookrec

import (
	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/engine"
)

// 轻量 facade：便于用户直接 import "bookrec" 使用核心抽象。
type Engine = engine.Engine
type Holder = engine.Holder
type Recommendation = core.Recommendation
type Signals = core.Signals

// New 等价于 engine.New。
var New = engine.New
