package entities

// Common response envelope
type Response struct {
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message"`
}

// AlertRequest is the body of the operator alert endpoint.
type AlertRequest struct {
	Message string `json:"message" binding:"required"`
}
