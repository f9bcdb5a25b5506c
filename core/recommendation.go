package core

import "github.com/rushteam/bookrec/pkg/utils"

// 信号名常量：驱动归因与外层序列化共用同一组字面值。
const (
	SignalHistorySimilarity       = "history_similarity"
	SignalCollaborativeSimilarity = "collaborative_similarity"
	SignalContentSimilarity       = "content_similarity"
	SignalProfileFit              = "profile_fit"
	SignalPopularity              = "popularity"
	SignalAvailabilityPenalty     = "availability_penalty"
)

// Signals 是单条推荐的信号分解。
// 刻意用具名字段而不是 map[string]float64：归因阶段要求类型安全，
// 枚举齐全与否由编译器而不是运行时约定保证。
type Signals struct {
	HistorySimilarity       float64 `json:"history_similarity"`
	CollaborativeSimilarity float64 `json:"collaborative_similarity"`
	ContentSimilarity       float64 `json:"content_similarity"`
	ProfileFit              float64 `json:"profile_fit"`
	Popularity              float64 `json:"popularity"`
	AvailabilityPenalty     float64 `json:"availability_penalty"`
}

// driverOrder 是归因遍历顺序：严格大于才换主，顺序即并列时的先写者。
var driverOrder = [...]string{
	SignalHistorySimilarity,
	SignalProfileFit,
	SignalPopularity,
	SignalAvailabilityPenalty,
	SignalCollaborativeSimilarity,
	SignalContentSimilarity,
}

func (s Signals) value(name string) float64 {
	switch name {
	case SignalHistorySimilarity:
		return s.HistorySimilarity
	case SignalCollaborativeSimilarity:
		return s.CollaborativeSimilarity
	case SignalContentSimilarity:
		return s.ContentSimilarity
	case SignalProfileFit:
		return s.ProfileFit
	case SignalPopularity:
		return s.Popularity
	case SignalAvailabilityPenalty:
		return s.AvailabilityPenalty
	}
	return 0
}

// Driver 返回贡献最大的正信号名；没有正信号时退回 "popularity"。
func (s Signals) Driver() string {
	driver := SignalPopularity
	best := 0.0
	for _, name := range driverOrder {
		if v := s.value(name); v > best {
			best = v
			driver = name
		}
	}
	return driver
}

// Map 以 map 形式导出信号，供外层序列化 / DSL 取值使用。
func (s Signals) Map() map[string]float64 {
	return map[string]float64{
		SignalHistorySimilarity:       s.HistorySimilarity,
		SignalCollaborativeSimilarity: s.CollaborativeSimilarity,
		SignalContentSimilarity:       s.ContentSimilarity,
		SignalProfileFit:              s.ProfileFit,
		SignalPopularity:              s.Popularity,
		SignalAvailabilityPenalty:     s.AvailabilityPenalty,
	}
}

// Recommendation 是推荐结果的不可变值对象。
// 外层应把它当作黑盒序列化；Labels 用于 explain / 观测，不参与排序。
type Recommendation struct {
	BookID    string                 `json:"book_id"`
	Score     float64                `json:"score"`
	SimilarTo string                 `json:"similar_to,omitempty"` // 空串表示无来源书目
	Signals   Signals                `json:"signals"`
	Driver    string                 `json:"driver"`
	Labels    map[string]utils.Label `json:"labels,omitempty"`
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (r *Recommendation) PutLabel(key string, lbl utils.Label) {
	if r.Labels == nil {
		r.Labels = make(map[string]utils.Label)
	}
	if old, ok := r.Labels[key]; ok {
		r.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	r.Labels[key] = lbl
}
