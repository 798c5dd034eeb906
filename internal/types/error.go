package types

import (
	"fmt"
	"net/http"
)

// CustomError is an error that knows the HTTP status it maps to
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// NotFound reports a missing entity or a missing ownership relation
func NotFound(message, errorType string) *CustomError {
	return &CustomError{Code: http.StatusNotFound, Message: message, Type: errorType}
}

// Conflict reports a uniqueness or link-state violation
func Conflict(message, errorType string) *CustomError {
	return &CustomError{Code: http.StatusConflict, Message: message, Type: errorType}
}

// Unprocessable reports a request whose parameters or body could not be coerced
func Unprocessable(message, errorType string) *CustomError {
	return &CustomError{Code: http.StatusUnprocessableEntity, Message: message, Type: errorType}
}
