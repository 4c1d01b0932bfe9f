package models

// ContentRequest is the payload for GetContent.
type ContentRequest struct {
	// URL is the page to read metadata from. Required.
	URL string `json:"url" form:"url" binding:"required"`
}
