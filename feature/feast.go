// Package feature 提供学生画像补全。
//
// 馆藏快照里的学生档案常缺兴趣/阅读水平字段（新生、未填问卷），
// 快照构建前从 Feast 在线特征库取补全值，再交给引擎构建画像契合度。
package feature

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	feastsdk "github.com/feast-dev/feast/sdk/go"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/textutil"
)

// 默认特征名。特征视图 student_profile 由离线任务物化（问卷 + 历史借阅聚合）。
const (
	DefaultEntityKey        = "student_id"
	DefaultInterestsFeature = "student_profile:interests"
	DefaultGenresFeature    = "student_profile:preferred_genres"
	DefaultLevelFeature     = "student_profile:reading_level"
)

// EnricherConfig 是 Feast 补全器配置。
type EnricherConfig struct {
	Host    string        `yaml:"host" json:"host"`
	Port    int           `yaml:"port" json:"port"`
	Project string        `yaml:"project" json:"project"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// 为空时使用默认特征名。
	EntityKey        string `yaml:"entity_key" json:"entity_key"`
	InterestsFeature string `yaml:"interests_feature" json:"interests_feature"`
	GenresFeature    string `yaml:"genres_feature" json:"genres_feature"`
	LevelFeature     string `yaml:"level_feature" json:"level_feature"`
}

func (c *EnricherConfig) withDefaults() {
	if c.Port == 0 {
		c.Port = 6565
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.EntityKey == "" {
		c.EntityKey = DefaultEntityKey
	}
	if c.InterestsFeature == "" {
		c.InterestsFeature = DefaultInterestsFeature
	}
	if c.GenresFeature == "" {
		c.GenresFeature = DefaultGenresFeature
	}
	if c.LevelFeature == "" {
		c.LevelFeature = DefaultLevelFeature
	}
}

// FeastEnricher 基于官方 Feast Go SDK 的 gRPC 客户端做画像补全。
type FeastEnricher struct {
	client *feastsdk.GrpcClient
	cfg    EnricherConfig
}

// NewFeastEnricher 创建 Feast 画像补全器。
func NewFeastEnricher(cfg EnricherConfig) (*FeastEnricher, error) {
	cfg.withDefaults()

	client, err := feastsdk.NewGrpcClient(cfg.Host, cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("feature: create feast client: %w", err)
	}
	return &FeastEnricher{client: client, cfg: cfg}, nil
}

// Enrich 批量补全学生画像，原地写回。
//
// 补全是"填空不覆盖"：快照里已有的兴趣/阅读水平保留，只对空字段写入特征值。
// 兴趣和偏好体裁特征是分号/逗号分隔的串，与书目关键词同一解析口径。
func (f *FeastEnricher) Enrich(ctx context.Context, students []*core.Student) error {
	if len(students) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	entities := make([]feastsdk.Row, len(students))
	for i, s := range students {
		row := make(feastsdk.Row)
		row[f.cfg.EntityKey] = feastsdk.StrVal(s.ID)
		entities[i] = row
	}

	req := &feastsdk.OnlineFeaturesRequest{
		Features: []string{f.cfg.InterestsFeature, f.cfg.GenresFeature, f.cfg.LevelFeature},
		Entities: entities,
		Project:  f.cfg.Project,
	}

	resp, err := f.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return fmt.Errorf("feature: get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) != len(students) {
		return fmt.Errorf("feature: response row count mismatch: expected %d, got %d", len(students), len(rows))
	}

	for i, s := range students {
		row := rows[i]
		if s.Interests == "" {
			s.Interests = normalizeFeatureList(stringFeature(row, f.cfg.InterestsFeature))
		}
		if s.PreferredGenres == "" {
			s.PreferredGenres = normalizeFeatureList(stringFeature(row, f.cfg.GenresFeature))
		}
		if s.ReadingLevel == "" {
			s.ReadingLevel = stringFeature(row, f.cfg.LevelFeature)
		}
	}
	return nil
}

// Close 释放客户端。官方 SDK 没有显式 Close，连接由 gRPC 库管理。
func (f *FeastEnricher) Close() error {
	f.client = nil
	return nil
}

func stringFeature(row feastsdk.Row, name string) string {
	val, ok := row[name]
	if !ok || val == nil {
		return ""
	}
	return strings.TrimSpace(val.GetStringVal())
}

// normalizeFeatureList 把特征串重整为逗号分隔的小写 token 串。
// Tokenize 返回集合无序，按字典序定序，补全结果可复现。
func normalizeFeatureList(raw string) string {
	if raw == "" {
		return ""
	}
	tokens := make([]string, 0, 4)
	for tok := range textutil.Tokenize(raw) {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return strings.Join(tokens, ", ")
}
