package core

// RecommendContext 承载一次请求的读者/场景信息，供外层过滤与搜索调用点透传。
// 引擎本体只消费 StudentID；其余字段服务于 filter / dsl 层。
type RecommendContext struct {
	StudentID string
	Scene     string // 例如 "chat" / "browse" / "onboarding"

	// Params 请求级上下文参数：query、期望语言、过滤开关等。
	Params map[string]any
}
