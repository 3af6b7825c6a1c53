package dto

// ErrorResponse is the uniform error body. Model and Fields carry structured
// context for machine-readable client handling when available.
type ErrorResponse struct {
	Error  string         `json:"error"`
	Model  string         `json:"model,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// PageRequest is bound from query parameters on paginated listings.
type PageRequest struct {
	Page int `form:"page,default=1" binding:"omitempty,min=1"`
	Size int `form:"size,default=50" binding:"omitempty,min=1,max=200"`
}

type PagedResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}
