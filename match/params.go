package match

import (
	"github.com/rushteam/bookrec/pkg/conv"
)

// 请求 Params 中的过滤条件 key。
const (
	ParamAvailability = "availability"
	ParamLanguage     = "language"
	ParamGenres       = "genres"
	ParamReadingLevel = "reading_level"
)

// FiltersFromParams 从请求级 Params（rctx.Params / 外层 JSON 载荷）提取过滤条件。
// 缺失或类型不符的 key 按零值处理；genres 同时接受 []string 与 []any。
func FiltersFromParams(params map[string]any) Filters {
	f := Filters{
		Availability: conv.ConfigGet(params, ParamAvailability, ""),
		Language:     conv.ConfigGet(params, ParamLanguage, ""),
		ReadingLevel: conv.ConfigGet(params, ParamReadingLevel, ""),
	}

	if genres := conv.ConfigGet[[]string](params, ParamGenres, nil); genres != nil {
		f.Genres = genres
	} else if raw := conv.ConfigGet[[]any](params, ParamGenres, nil); raw != nil {
		// JSON 反序列化得到的是 []any
		f.Genres = conv.ConvertSlice(raw, conv.ToString)
	}
	return f
}
