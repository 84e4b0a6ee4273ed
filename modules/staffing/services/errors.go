package services

import (
	"fmt"
	"net/http"
)

// ServiceError carries the HTTP status and stable code the API layer maps
// service failures with.
type ServiceError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(code, message string) *ServiceError {
	return &ServiceError{Status: http.StatusBadRequest, Code: code, Message: message}
}

func NewNotFoundError(code, message string) *ServiceError {
	return &ServiceError{Status: http.StatusNotFound, Code: code, Message: message}
}

func NewConflictError(code, message string) *ServiceError {
	return &ServiceError{Status: http.StatusConflict, Code: code, Message: message}
}

func NewPersistenceError(code, message string) *ServiceError {
	return &ServiceError{Status: http.StatusInternalServerError, Code: code, Message: message}
}
