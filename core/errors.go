package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
//   - Catalog 错误：EMPTY_INPUT（重建相似度索引时商品为空）
//   - Segment 错误：UNAVAILABLE（聚类模型未加载）、INVALID_INPUT
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UNAVAILABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "catalog", "segment"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound     = "NOT_FOUND"     // 资源不存在
	ErrorCodeNotSupported = "NOT_SUPPORTED" // 操作不支持
	ErrorCodeUnavailable  = "UNAVAILABLE"   // 模型/服务不可用
	ErrorCodeInvalidInput = "INVALID_INPUT" // 输入无效
	ErrorCodeEmptyInput   = "EMPTY_INPUT"   // 输入集合为空（nothing to do）
)

// 模块名称常量
const (
	ModuleStore   = "store"   // 存储模块
	ModuleCatalog = "catalog" // 商品目录模块
	ModuleSegment = "segment" // 客群分层模块
	ModuleRecall  = "recall"  // 召回模块
)

// 预定义领域错误
var (
	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

	// ErrStoreNotSupported 表示操作不支持
	ErrStoreNotSupported = NewDomainError(ModuleStore, ErrorCodeNotSupported, "store: operation not supported")

	// ErrProductNotFound 表示商品不存在
	ErrProductNotFound = NewDomainError(ModuleCatalog, ErrorCodeNotFound, "catalog: product not found")

	// ErrEmptyCatalog 表示商品集合为空：相似度索引重建无事可做，原索引保持不变
	ErrEmptyCatalog = NewDomainError(ModuleCatalog, ErrorCodeEmptyInput, "catalog: no active products")

	// ErrModelUnavailable 表示聚类模型未加载：预测必须显式失败，而不是返回错误的簇
	ErrModelUnavailable = NewDomainError(ModuleSegment, ErrorCodeUnavailable, "segment: cluster model unavailable")

	// ErrInvalidDemographics 表示人口统计输入无效（NaN/Inf 等）
	ErrInvalidDemographics = NewDomainError(ModuleSegment, ErrorCodeInvalidInput, "segment: invalid demographic input")
)

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Module == ModuleStore && domainErr.Code == ErrorCodeNotFound
}

// IsStoreNotSupported 检查错误是否为操作不支持
func IsStoreNotSupported(err error) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Module == ModuleStore && domainErr.Code == ErrorCodeNotSupported
}

// IsEmptyCatalog 检查错误是否为空商品集合
func IsEmptyCatalog(err error) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Module == ModuleCatalog && domainErr.Code == ErrorCodeEmptyInput
}

// IsModelUnavailable 检查错误是否为聚类模型不可用
func IsModelUnavailable(err error) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Module == ModuleSegment && domainErr.Code == ErrorCodeUnavailable
}

// IsInvalidInput 检查错误是否为无效输入
func IsInvalidInput(err error) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Code == ErrorCodeInvalidInput
}
