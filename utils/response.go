package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"runtime/debug"
)

// AppError is a service-layer error carrying the HTTP status it maps to.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string { return e.Message }

// NotFoundError marks an absent entity (404).
func NotFoundError(msg string) *AppError { return &AppError{Status: http.StatusNotFound, Message: msg} }

// ValidationError marks malformed input or a business-rule violation (400).
func ValidationError(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

// ConflictError marks a uniqueness violation on email/phone/name (400).
func ConflictError(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

// UnauthorizedError marks bad credentials or an inactive account (401).
func UnauthorizedError(msg string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: msg}
}

// UpstreamError marks an external collaborator failure (500).
func UpstreamError(msg string) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: msg}
}

// ErrInvalidToken marks a push delivery failure caused by an invalid or
// unregistered device token; the caller may clear the token.
var ErrInvalidToken = errors.New("invalid device token")

// Response is the standard envelope for every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// JSON writes payload as the response body with the given status.
func JSON(w http.ResponseWriter, status int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// OK writes a success envelope with data.
func OK(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// Created writes a success envelope with status 201.
func Created(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// OKCount writes a success envelope carrying a list and its length.
func OKCount(w http.ResponseWriter, message string, data interface{}, count int) {
	JSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data, Count: &count})
}

// Fail maps err to its HTTP status and writes the failure envelope. Stack
// traces are attached only outside production.
func Fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var appErr *AppError
	if errors.As(err, &appErr) {
		status = appErr.Status
	}

	resp := Response{Success: false, Message: err.Error()}
	if os.Getenv("APP_ENV") != "production" {
		resp.Error = string(debug.Stack())
	}
	JSON(w, status, resp)
}

// FailStatus writes a failure envelope with an explicit status.
func FailStatus(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Response{Success: false, Message: message})
}
