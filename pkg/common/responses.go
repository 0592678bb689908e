package common

import (
	"encoding/json"
	"net/http"

	pkgerrors "gardend/pkg/errors"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondError sends an error response derived from an application error
func RespondError(w http.ResponseWriter, err error) {
	info := &ErrorInfo{
		Type:    string(pkgerrors.ErrorTypeInternal),
		Message: "internal error",
	}
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		info.Type = string(appErr.Type)
		info.Message = appErr.Message
		info.Details = appErr.Details
	}

	response := APIResponse{Success: false, Error: info}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(pkgerrors.HTTPStatus(err))
	json.NewEncoder(w).Encode(response)
}

// RespondErrorMessage sends an error response with an explicit status and message
func RespondErrorMessage(w http.ResponseWriter, status int, errorType, message string) {
	response := APIResponse{
		Success: false,
		Error:   &ErrorInfo{Type: errorType, Message: message},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
