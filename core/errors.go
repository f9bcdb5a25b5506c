package core

// DomainError 是领域层的统一错误类型。
//
// 引擎本体没有致命错误路径（退化输入一律降级为中性贡献），
// DomainError 服务于快照装载 / 存储边界：key 不存在、载荷损坏等。
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "BAD_PAYLOAD"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "snapshot"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeNotFound   = "NOT_FOUND"   // 资源不存在
	ErrorCodeBadPayload = "BAD_PAYLOAD" // 载荷无法解析
)

// 模块名称常量
const (
	ModuleStore    = "store"
	ModuleSnapshot = "snapshot"
)

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
