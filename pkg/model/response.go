package model

// SuccessResponse 200 响应体
type SuccessResponse struct {
	Message      string `json:"message"`
	ProcessingID string `json:"processingId"`
	WordCount    int    `json:"wordCount"`
	LineCount    int    `json:"lineCount"`
}

// ValidationResponse 400 响应体
type ValidationResponse struct {
	Message string `json:"message"`
}

// InternalErrorResponse 500 响应体
type InternalErrorResponse struct {
	Message   string `json:"message"`
	Error     string `json:"error"`
	RequestID string `json:"requestId"`
}
