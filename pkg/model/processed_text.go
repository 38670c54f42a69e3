package model

import "time"

// ProcessedTextRecord 表示一次成功处理后写入存储的记录
type ProcessedTextRecord struct {
	ID          string    `gorm:"primaryKey;type:varchar(26)" json:"id"`  // ULID
	TextContent string    `gorm:"type:text" json:"textContent"`           // 归一化文本，超长时截断并追加 "..."
	WordCount   int       `gorm:"column:word_count" json:"wordCount"`     // 词数
	LineCount   int       `gorm:"column:line_count" json:"lineCount"`     // 非空行数
	ProcessedAt time.Time `gorm:"column:processed_at" json:"processedAt"` // 处理完成时间（UTC）
}

// DefaultTableName 未配置时的表名
const DefaultTableName = "processed_text"

// TableName 指定表名
func (ProcessedTextRecord) TableName() string {
	return DefaultTableName
}

// Attributes 以 put-item 风格的扁平字段返回记录，供 KV 类存储使用
func (r *ProcessedTextRecord) Attributes() map[string]interface{} {
	return map[string]interface{}{
		"id":          r.ID,
		"textContent": r.TextContent,
		"wordCount":   r.WordCount,
		"lineCount":   r.LineCount,
		"processedAt": r.ProcessedAt.UTC().Format(time.RFC3339Nano),
	}
}
