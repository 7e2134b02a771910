// Package response writes the API's JSON envelope. Every body is
// {"data": ..., "error": ...} with exactly one of the two set.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/carebridge/nutrimap/pkg/errors"
)

// Response is the envelope of every API body.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error is the failure half of the envelope.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error codes.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeUpstream           = "UPSTREAM_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Success wraps data in an envelope.
func Success(data any) Response {
	return Response{Data: data}
}

// Fail builds an error envelope.
func Fail(code, message, details string) Response {
	return Response{Error: &Error{Code: code, Message: message, Details: details}}
}

// JSON writes resp with status.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes data with 200.
func OK(w http.ResponseWriter, data any) { JSON(w, http.StatusOK, Success(data)) }

// Created writes data with 201.
func Created(w http.ResponseWriter, data any) { JSON(w, http.StatusCreated, Success(data)) }

// BadRequest writes a 400.
func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail(CodeBadRequest, message, details))
}

// NotFound writes a 404.
func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail(CodeNotFound, message, details))
}

// MethodNotAllowed writes a 405 naming the rejected method.
func MethodNotAllowed(w http.ResponseWriter, method string) {
	JSON(w, http.StatusMethodNotAllowed, Fail(CodeMethodNotAllowed, "Method not allowed",
		"Method "+method+" is not supported for this endpoint"))
}

// RateLimited writes a 429.
func RateLimited(w http.ResponseWriter, message string) {
	JSON(w, http.StatusTooManyRequests, Fail(CodeRateLimited, "Rate limit exceeded", message))
}

// InternalError writes a 500. The cause is never exposed.
func InternalError(w http.ResponseWriter, _ error) {
	JSON(w, http.StatusInternalServerError, Fail(CodeInternal, "Internal server error", "An unexpected error occurred"))
}

// BadGateway writes a 502 for provider failures.
func BadGateway(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadGateway, Fail(CodeUpstream, message, ""))
}

// ServiceUnavailable writes a 503.
func ServiceUnavailable(w http.ResponseWriter, message string) {
	JSON(w, http.StatusServiceUnavailable, Fail(CodeServiceUnavailable, "Service unavailable", message))
}

// ErrorFromType picks the response for err. Search and details failures
// only ever expose their fixed user message.
func ErrorFromType(w http.ResponseWriter, err error) {
	userMsg, hasUserMsg := errors.UserMessage(err)

	var (
		validation *errors.ValidationError
		apiErr     *errors.APIError
		cfgErr     *errors.ConfigError
	)
	switch {
	case errors.As(err, &validation):
		BadRequest(w, validation.Error(), "")
	case errors.IsNotFound(err) && hasUserMsg:
		NotFound(w, userMsg, "")
	case errors.IsNotFound(err):
		NotFound(w, err.Error(), "")
	case errors.IsAPIKeyError(err):
		ServiceUnavailable(w, "Provider credentials are missing or invalid")
	case errors.IsRateLimited(err):
		RateLimited(w, "Provider rate limit reached. Please try again later.")
	case hasUserMsg:
		BadGateway(w, userMsg)
	case errors.As(err, &apiErr):
		BadGateway(w, "Provider request failed")
	case errors.As(err, &cfgErr):
		ServiceUnavailable(w, cfgErr.Error())
	default:
		InternalError(w, err)
	}
}
