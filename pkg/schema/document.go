package schema

// Document 表示知识库中的一个文档片段
type Document struct {
	// ID 片段唯一标识（入库时生成）
	ID string `json:"id,omitempty"`
	// Content 片段内容
	Content string `json:"content"`
	// MetaData 片段元数据（source、type 以及调用方自定义字段）
	MetaData map[string]interface{} `json:"metadata,omitempty"`
	// Score 相关性得分（检索时使用）- 使用float32以直接与向量库兼容
	Score float32 `json:"score"`
}

// 元数据保留字段
const (
	MetaSource     = "source"      // 文档来源标签（如 WHO / APA）
	MetaDocType    = "doc_type"    // 文档类型：condition/treatment/resource/technique/prevention
	MetaDocumentID = "document_id" // 所属文档ID
)

// Source 返回文档的来源标签，未设置时返回空字符串
func (d *Document) Source() string {
	if d.MetaData == nil {
		return ""
	}
	if s, ok := d.MetaData[MetaSource].(string); ok {
		return s
	}
	return ""
}

// DocType 返回文档类型，未设置时返回空字符串
func (d *Document) DocType() string {
	if d.MetaData == nil {
		return ""
	}
	if s, ok := d.MetaData[MetaDocType].(string); ok {
		return s
	}
	return ""
}
