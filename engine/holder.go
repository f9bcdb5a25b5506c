package engine

import "sync/atomic"

// Holder 持有当前生效的引擎实例，支持目录刷新时的原子替换。
//
// 引擎实例本身不可变，刷新流程是：后台重建新实例 → Swap 发布。
// 读者要么看到旧索引要么看到新索引，绝不会看到半建状态。
type Holder struct {
	cur atomic.Pointer[Engine]
}

// NewHolder 创建并发布初始实例。
func NewHolder(e *Engine) *Holder {
	h := &Holder{}
	h.cur.Store(e)
	return h
}

// Load 返回当前生效的引擎实例。
func (h *Holder) Load() *Engine {
	return h.cur.Load()
}

// Swap 发布新实例，返回被替换的旧实例。
func (h *Holder) Swap(e *Engine) *Engine {
	return h.cur.Swap(e)
}
