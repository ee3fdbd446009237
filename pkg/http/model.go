package http

import "encoding/json"

// APIResponse represents standard API response.
type APIResponse struct {
	Status  int         `json:"status" example:"200"`
	Message string      `json:"message" example:"OK"`
	Data    interface{} `json:"data,omitempty"`
}

// RawAPIResponse is APIResponse with pre-encoded data, used to replay cached
// payloads without decoding them.
type RawAPIResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"assets"`
	Message string                 `json:"message,omitempty" example:"assets is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
