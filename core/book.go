package core

// Availability 是书目的流通状态（三态）。
// 数据源给出的是展示用的英文字面值，引擎内按原样比较。
type Availability = string

const (
	AvailabilityAvailable  Availability = "Available"
	AvailabilityOnHold     Availability = "On Hold"
	AvailabilityCheckedOut Availability = "Checked Out"
)

// Book 是馆藏书目记录：元数据 + 流通状态。
// 一旦装载进快照即视为不可变；流通状态的变化通过重建快照体现。
type Book struct {
	ID           string `json:"book_id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Genre        string `json:"genre"`
	ReadingLevel string `json:"reading_level"` // 区间串，例如 "3-5"，解析失败视为无信号
	Keywords     string `json:"keywords"`      // 自由文本，分隔符混用（, / | &）
	SubjectTags  string `json:"subject_tags"`
	Series       string `json:"series"`
	Language     string `json:"language"`
	Audience     string `json:"audience"` // 例如 "Upper Elementary" / "Middle School"
	Format       string `json:"format"`
	Availability string `json:"availability"`
}

// Available 返回书目当前是否可借。
// 空状态按可借处理：惩罚只对明确的非 Available 状态生效。
func (b *Book) Available() bool {
	return b.Availability == "" || b.Availability == AvailabilityAvailable
}

// Student 是读者档案：申报的兴趣、偏好与阅读水平。
// 同样在快照内不可变。
type Student struct {
	ID              string `json:"student_id"`
	Grade           string `json:"grade"` // 整数样式的字符串，解析失败只关闭年龄段加成
	Interests       string `json:"interests"`
	PreferredGenres string `json:"preferred_genres"`
	ReadingLevel    string `json:"reading_level"`
}

// Loan 是一次借阅交互：读者 × 书目，附带可选的行为信号。
// student/book 任一引用悬空时该行在建索引阶段被静默丢弃。
type Loan struct {
	StudentID    string `json:"student_id"`
	BookID       string `json:"book_id"`
	CheckoutDate string `json:"checkout_date"` // YYYY-MM-DD，解析失败视为缺失
	Renewals     int    `json:"renewals"`
	Feedback     string `json:"student_feedback"`
}
