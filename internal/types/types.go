// Package types defines shared service-level types.
package types

import "fmt"

// ServiceError represents a typed error surfaced by the service layer.
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common service error codes
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeAssetNotFound = "ASSET_NOT_FOUND"
	CodeUserNotFound  = "USER_NOT_FOUND"
	CodeUnauthorized  = "UNAUTHORIZED"
)

// NewInvalidInputError creates a validation error for a malformed field
func NewInvalidInputError(message string) *ServiceError {
	return &ServiceError{
		Code:    CodeInvalidInput,
		Message: message,
	}
}

// NewAssetNotFoundError creates a not-found error for an asset id
func NewAssetNotFoundError(assetID string) *ServiceError {
	return &ServiceError{
		Code:    CodeAssetNotFound,
		Message: fmt.Sprintf("asset not found: %s", assetID),
		Details: map[string]interface{}{
			"assetId": assetID,
		},
	}
}

// NewUserNotFoundError creates a not-found error for a user id
func NewUserNotFoundError(userID string) *ServiceError {
	return &ServiceError{
		Code:    CodeUserNotFound,
		Message: fmt.Sprintf("user not found: %s", userID),
		Details: map[string]interface{}{
			"userId": userID,
		},
	}
}

// NewUnauthorizedError creates an authorization error
func NewUnauthorizedError(message string) *ServiceError {
	return &ServiceError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}
