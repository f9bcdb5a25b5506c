package engine

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 是引擎的打分参数（支持 YAML/JSON）。
// 默认值即线上值；配置文件只用于离线调参实验，缺省字段保持默认。
type Config struct {
	// CollabWeight / ContentWeight 融合相似度：combined = collab*w1 + content*w2。
	CollabWeight  float64 `yaml:"collab_weight" json:"collab_weight"`
	ContentWeight float64 `yaml:"content_weight" json:"content_weight"`

	// TokenWeight / LevelWeight 内容相似度内部：token 重合 vs 水平邻近。
	TokenWeight float64 `yaml:"token_weight" json:"token_weight"`
	LevelWeight float64 `yaml:"level_weight" json:"level_weight"`

	// PopularityWeight 热度信号系数：w * ln(1 + count)。
	PopularityWeight float64 `yaml:"popularity_weight" json:"popularity_weight"`

	// AvailabilityPenalty 暖路径不可借乘性惩罚。
	// TrendingAvailabilityPenalty 热度兜底路径的同类惩罚。
	// 两个值历史上就不一致（0.85 vs 0.9），按字面保留，不做归一。
	AvailabilityPenalty         float64 `yaml:"availability_penalty" json:"availability_penalty"`
	TrendingAvailabilityPenalty float64 `yaml:"trending_availability_penalty" json:"trending_availability_penalty"`

	// Parallelism 候选打分的并发度；<=1 为串行。
	// 结果按固定目录顺序合并，并发与否不改变任何排序。
	Parallelism int `yaml:"parallelism" json:"parallelism"`
}

// DefaultConfig 返回线上默认参数。
func DefaultConfig() Config {
	return Config{
		CollabWeight:                0.6,
		ContentWeight:               0.4,
		TokenWeight:                 0.7,
		LevelWeight:                 0.3,
		PopularityWeight:            0.05,
		AvailabilityPenalty:         0.85,
		TrendingAvailabilityPenalty: 0.9,
		Parallelism:                 1,
	}
}

// LoadConfigFromYAML 从 YAML 文件加载配置，缺省字段回落到默认值。
func LoadConfigFromYAML(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// LoadConfigFromJSON 从 JSON 文件加载配置，缺省字段回落到默认值。
func LoadConfigFromJSON(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse json: %w", err)
	}
	return cfg, nil
}

// Option 在构造引擎时调整配置。
type Option func(*Config)

// WithConfig 整体替换配置（通常来自 LoadConfigFromYAML）。
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}

// WithParallelism 设置候选打分并发度。
func WithParallelism(n int) Option {
	return func(c *Config) { c.Parallelism = n }
}
