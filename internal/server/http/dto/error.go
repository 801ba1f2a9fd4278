package dto

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	ProductID string `json:"productId,omitempty"`
}
