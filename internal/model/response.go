package model

// APIResponse is the envelope every endpoint answers with. Failures carry
// the human-readable text in Message and a short string in Error; Code and
// Details are machine-oriented extras.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// APIError is a classified failure before it is rendered.
type APIError struct {
	Code    string
	Message string
	Details string
}

// ErrorResponse renders a failure. Error holds the diagnostic details when
// there are any, else the code.
func ErrorResponse(e APIError) APIResponse {
	errText := e.Details
	if errText == "" {
		errText = e.Code
	}

	return APIResponse{
		Success: false,
		Message: e.Message,
		Error:   errText,
		Code:    e.Code,
		Details: e.Details,
	}
}

type Meta struct {
	Page       int `json:"page,omitempty"`
	Limit      int `json:"limit"`
	Offset     int `json:"offset,omitempty"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages,omitempty"`
}

func PageMeta(page int, limit int, total int) Meta {
	totalPages := 0
	if total > 0 && limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
