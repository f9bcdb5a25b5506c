// Package snapshot 负责从 Store 装载目录快照并构建引擎，属于引擎外层的取数接线。
//
// 流程：馆藏同步任务把 books/students/loans 的 JSON 载荷写入 Store →
// Loader 取数、套用流通状态覆盖、构建不可变引擎 → Holder 原子发布。
// 热度榜以 zset 旁路发布，供不走引擎的外层直接消费。
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/engine"
)

// 默认存储 key。目录三件套是有序 JSON 数组：数组顺序即目录遍历顺序，
// 装载方不得重排（排序并列裁决依赖它）。
const (
	DefaultBooksKey        = "catalog:books"
	DefaultStudentsKey     = "catalog:students"
	DefaultLoansKey        = "catalog:loans"
	DefaultAvailabilityKey = "catalog:availability"
	DefaultTrendingKey     = "trending:books"
)

// ErrSnapshotMissing 表示 Store 中没有目录载荷。
var ErrSnapshotMissing = core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeNotFound, "snapshot: catalog payload not found")

// Snapshot 是一次装载得到的目录快照。
type Snapshot struct {
	Books    []*core.Book
	Students []*core.Student
	Loans    []*core.Loan
}

// Loader 从 core.Store 装载目录快照。
type Loader struct {
	Store core.Store

	// 各 key 为空时使用默认值。
	BooksKey        string
	StudentsKey     string
	LoansKey        string
	AvailabilityKey string
}

func (l *Loader) keys() (books, students, loans, availability string) {
	books, students, loans, availability =
		l.BooksKey, l.StudentsKey, l.LoansKey, l.AvailabilityKey
	if books == "" {
		books = DefaultBooksKey
	}
	if students == "" {
		students = DefaultStudentsKey
	}
	if loans == "" {
		loans = DefaultLoansKey
	}
	if availability == "" {
		availability = DefaultAvailabilityKey
	}
	return books, students, loans, availability
}

// Load 装载目录快照。
// books key 缺失视为快照不存在；students/loans 缺失按空集处理（目录可以先于借阅数据上线）。
// 若 Store 支持 Hash，套用流通状态覆盖（目录静态、可借性高频变动，分开存）。
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	booksKey, studentsKey, loansKey, availabilityKey := l.keys()

	payloads, err := l.Store.BatchGet(ctx, []string{booksKey, studentsKey, loansKey})
	if err != nil {
		return nil, fmt.Errorf("snapshot: batch get: %w", err)
	}

	raw, ok := payloads[booksKey]
	if !ok {
		return nil, ErrSnapshotMissing
	}

	snap := &Snapshot{}
	if err := json.Unmarshal(raw, &snap.Books); err != nil {
		return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeBadPayload,
			fmt.Sprintf("snapshot: parse books: %v", err))
	}
	if raw, ok := payloads[studentsKey]; ok {
		if err := json.Unmarshal(raw, &snap.Students); err != nil {
			return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeBadPayload,
				fmt.Sprintf("snapshot: parse students: %v", err))
		}
	}
	if raw, ok := payloads[loansKey]; ok {
		if err := json.Unmarshal(raw, &snap.Loans); err != nil {
			return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeBadPayload,
				fmt.Sprintf("snapshot: parse loans: %v", err))
		}
	}

	if kv, ok := l.Store.(core.KeyValueStore); ok {
		l.applyAvailability(ctx, kv, availabilityKey, snap.Books)
	}

	return snap, nil
}

// applyAvailability 套用流通状态覆盖；覆盖缺失或读取失败时保留载荷里的状态。
func (l *Loader) applyAvailability(ctx context.Context, kv core.KeyValueStore, key string, books []*core.Book) {
	overrides, err := kv.HGetAll(ctx, key)
	if err != nil || len(overrides) == 0 {
		return
	}
	for _, b := range books {
		if status, ok := overrides[b.ID]; ok && len(status) > 0 {
			b.Availability = string(status)
		}
	}
}

// BuildEngine 装载快照并构建引擎实例。
func (l *Loader) BuildEngine(ctx context.Context, opts ...engine.Option) (*engine.Engine, error) {
	snap, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return engine.New(snap.Books, snap.Students, snap.Loans, opts...), nil
}

// Refresh 重建引擎并原子发布到 Holder，返回被替换的旧实例。
// 装载失败时保留旧实例不动。
func (l *Loader) Refresh(ctx context.Context, h *engine.Holder, opts ...engine.Option) (*engine.Engine, error) {
	e, err := l.BuildEngine(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return h.Swap(e), nil
}

// PublishTrending 把借阅热度以 zset 发布，member=书目 ID、score=借阅次数。
// 零借阅的书也写入（score 0），消费方拿到的是完整目录的热度视图。
func PublishTrending(ctx context.Context, kv core.KeyValueStore, e *engine.Engine, key string) error {
	if key == "" {
		key = DefaultTrendingKey
	}
	idx := e.Index()
	for _, bookID := range idx.BookOrder {
		if err := kv.ZAdd(ctx, key, float64(idx.BookCounts[bookID]), bookID); err != nil {
			return fmt.Errorf("snapshot: publish trending: %w", err)
		}
	}
	return nil
}
