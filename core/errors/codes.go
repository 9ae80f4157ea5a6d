package errors

// ErrCode 业务错误码类型
type ErrCode int

const (
	// 通用错误 1000-1999
	ErrInvalidParameter ErrCode = 1001 // 参数错误
	ErrInternalError    ErrCode = 1002 // 内部错误
	ErrNotFound         ErrCode = 1003 // 资源未找到
	ErrOperationFailed  ErrCode = 1004 // 操作失败

	// 模型相关 2000-2999
	ErrModelNotConfigured ErrCode = 2001 // 模型未配置
	ErrEmbeddingFailed    ErrCode = 2002 // Embedding失败
	ErrLLMCallFailed      ErrCode = 2003 // LLM调用失败

	// 知识库相关 3000-3999
	ErrIngestionFailed ErrCode = 3001 // 文档入库失败
	ErrRetrievalFailed ErrCode = 3002 // 检索失败

	// 向量数据库 4000-4999
	ErrVectorStoreInit ErrCode = 4001 // 向量库初始化失败
	ErrVectorInsert    ErrCode = 4002 // 向量插入失败
	ErrVectorSearch    ErrCode = 4003 // 向量搜索失败

	// 会话相关 5000-5999
	ErrSessionNotFound ErrCode = 5001 // 会话未找到
	ErrSessionExists   ErrCode = 5002 // 会话已存在

	// 导出相关 6000-6999
	ErrExportFailed ErrCode = 6001 // 会话导出失败
)

// HTTPStatusCode 返回错误码对应的HTTP状态码
func (e ErrCode) HTTPStatusCode() int {
	switch e {
	case ErrInvalidParameter:
		return 400
	case ErrNotFound, ErrSessionNotFound:
		return 404
	case ErrSessionExists:
		return 409
	default:
		return 500
	}
}
