package models

// Content is the link-preview metadata of one page. Every field is optional
// and omitted when the page does not provide it.
type Content struct {
	Title *string `json:"title,omitempty"`
	Image *string `json:"image,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

// ErrorResponse wraps an ErrorDetail for failed API calls.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
