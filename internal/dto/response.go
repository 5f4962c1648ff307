package dto

// APIResponse is the envelope returned by every mobile endpoint.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps data in a successful envelope.
func OK(data any) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// OKMessage wraps data with a user-facing message.
func OKMessage(message string, data any) APIResponse {
	return APIResponse{Success: true, Message: message, Data: data}
}

// Fail builds a failed envelope with a user-facing message and machine code.
func Fail(message, code string) APIResponse {
	return APIResponse{Success: false, Message: message, Error: code}
}

// Pagination describes an offset-paginated result set.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
}

// NewPagination derives page counts from a total.
func NewPagination(page, perPage int, total int64) Pagination {
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return Pagination{Page: page, PerPage: perPage, Total: total, Pages: pages}
}
