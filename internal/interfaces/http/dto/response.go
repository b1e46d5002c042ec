package dto

import "time"

// Response is the envelope of every API response. Success responses carry
// data or a message; failures carry a message and an optional error block.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      *ErrorInfo  `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string             `json:"code"`
	Detail    string             `json:"detail,omitempty"`
	RequestID string             `json:"requestId,omitempty"`
	Fields    []ValidationDetail `json:"fields,omitempty"`
}

// ValidationDetail names one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Pagination describes the page returned by a list endpoint
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// NewPagination derives the page count as ceil(total/limit)
func NewPagination(total int64, page, limit int) *Pagination {
	pages := 0
	if limit > 0 {
		pages = int(total) / limit
		if int(total)%limit > 0 {
			pages++
		}
	}
	return &Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewMessageResponse creates a success response that only carries a message
func NewMessageResponse(message string) Response {
	return Response{
		Success: true,
		Message: message,
	}
}

// NewPaginatedResponse creates a success response with pagination
func NewPaginatedResponse(data interface{}, total int64, page, limit int) Response {
	return Response{
		Success:    true,
		Data:       data,
		Pagination: NewPagination(total, page, limit),
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Message: message,
		Error:   &ErrorInfo{Code: code},
	}
}

// WithDetail attaches the raw error text. Callers only do this outside production.
func (r Response) WithDetail(detail string) Response {
	if r.Error != nil {
		r.Error.Detail = detail
	}
	return r
}

// WithRequestID stamps the request id on the error block
func (r Response) WithRequestID(requestID string) Response {
	if r.Error != nil && requestID != "" {
		r.Error.RequestID = requestID
	}
	return r
}

// NewValidationErrorResponse creates a VALIDATION_FAILED response listing the fields
func NewValidationErrorResponse(message string, fields []ValidationDetail) Response {
	resp := NewErrorResponse(ErrCodeValidationFailed, message)
	resp.Error.Fields = fields
	return resp
}

// ListRequest represents common list/pagination query parameters
type ListRequest struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
	Search    string `form:"search"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// Normalize fills the defaults of page 1 and 20 rows
func (r *ListRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 20
	}
	if r.Limit > MaxPageLimit {
		r.Limit = MaxPageLimit
	}
}

// MaxPageLimit caps the page size of every listing
const MaxPageLimit = 100

// IDRequest represents a request with an ID path parameter
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// TimestampResponse represents timestamps in response
type TimestampResponse struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
