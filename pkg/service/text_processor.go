package service

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"text-ingest/pkg/model"
)

const (
	// MaxPayloadBytes 解码后允许的最大字节数（1 MiB）
	MaxPayloadBytes = 1 << 20
	// MaxStoredChars 存储时保留的最大字符数
	MaxStoredChars = 1000
	// TruncationMarker 截断后追加的标记
	TruncationMarker = "..."

	plainTextType = "text/plain"
)

type TextProcessor struct{}

func NewTextProcessor() *TextProcessor {
	return &TextProcessor{}
}

// Process 校验并分析上传文本
// 按固定顺序检查，遇到第一个不满足的条件即返回 *ValidationError
// 无副作用，持久化由调用方负责
func (p *TextProcessor) Process(payload model.TextPayload) (*model.TextAnalysis, error) {
	if len(payload.Body) == 0 {
		return nil, newValidationError(ReasonMissingPayload, "No file uploaded.")
	}

	if !IsPlainText(payload.ContentType) {
		return nil, invalidContentTypeError()
	}

	data, err := p.decode(payload)
	if err != nil {
		return nil, newValidationError(ReasonInvalidEncoding, "Invalid file encoding.")
	}

	if len(data) == 0 {
		return nil, newValidationError(ReasonEmptyPayload, "Uploaded file is empty.")
	}
	if len(data) > MaxPayloadBytes {
		return nil, NewPayloadTooLargeError(int64(len(data)))
	}

	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}
	if strings.TrimSpace(text) == "" {
		return nil, newValidationError(ReasonNoMeaningfulText, "File contains no meaningful text.")
	}

	normalized := NormalizeText(text)
	words := CountWords(normalized)
	lines := CountLines(normalized)
	if words == 0 && lines == 0 {
		return nil, newValidationError(ReasonNoCountableContent, "File contains no countable words or lines.")
	}

	stored, truncated := TruncateText(normalized, MaxStoredChars)
	return &model.TextAnalysis{
		Text:           stored,
		Truncated:      truncated,
		OriginalLength: utf8.RuneCountInString(normalized),
		DecodedBytes:   len(data),
		WordCount:      words,
		LineCount:      lines,
	}, nil
}

// decode 处理 base64 文本安全编码，原始字节直接返回
func (p *TextProcessor) decode(payload model.TextPayload) ([]byte, error) {
	if !payload.Base64Encoded {
		return payload.Body, nil
	}
	return base64.StdEncoding.DecodeString(string(payload.Body))
}

func invalidContentTypeError() *ValidationError {
	return newValidationError(ReasonInvalidContentType, "Invalid file type. Only text/plain files are accepted.")
}

// RejectOversized 请求体超出读取上限时使用，仍先做类型检查再报超限
func RejectOversized(contentType string, size int64) *ValidationError {
	if !IsPlainText(contentType) {
		return invalidContentTypeError()
	}
	return NewPayloadTooLargeError(size)
}

// IsPlainText Content-Type 中包含 text/plain（不区分大小写）
func IsPlainText(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), plainTextType)
}

// NormalizeText 统一换行符为 \n 并去掉首尾空白
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text)
}

// CountWords 按空白切分后统计非空词数
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CountLines 统计去空白后非空的行数
func CountLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

// TruncateText 超过 limit 个字符时截断并追加 TruncationMarker
func TruncateText(text string, limit int) (string, bool) {
	if utf8.RuneCountInString(text) <= limit {
		return text, false
	}
	runes := []rune(text)
	return string(runes[:limit]) + TruncationMarker, true
}
