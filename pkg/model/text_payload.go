package model

// TextPayload 是一次上传请求中与校验相关的部分
type TextPayload struct {
	Body          []byte // 原始请求体
	Base64Encoded bool   // 请求体是否为 base64 文本安全编码
	ContentType   string // 声明的 Content-Type
}

// TextAnalysis 是校验通过后的分析结果，ID 与时间由调用方补齐
type TextAnalysis struct {
	Text           string `json:"textContent"`    // 归一化（可能已截断）的文本
	Truncated      bool   `json:"truncated"`      // 是否发生截断
	OriginalLength int    `json:"originalLength"` // 截断前的字符数
	DecodedBytes   int    `json:"decodedBytes"`   // 解码后的字节数
	WordCount      int    `json:"wordCount"`
	LineCount      int    `json:"lineCount"`
}
