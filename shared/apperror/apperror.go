// Package apperror defines the error taxonomy surfaced by the API. Every
// error carries a stable title and HTTP status; handlers render them as
// application/problem+json with the request id attached.
package apperror

import "net/http"

type Error struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string {
	return e.Title + ": " + e.Detail
}

// Unauthorized means the caller identity is missing or invalid.
func Unauthorized(detail string) *Error {
	return &Error{Status: http.StatusUnauthorized, Title: "Unauthorized", Detail: detail}
}

// Forbidden means the caller's role does not permit the action.
func Forbidden(detail string) *Error {
	return &Error{Status: http.StatusForbidden, Title: "Forbidden", Detail: detail}
}

// NotFound covers both absent entities and entities owned by another tenant.
// The two cases are deliberately indistinguishable so a caller cannot probe
// for the existence of another organization's data.
func NotFound(detail string) *Error {
	return &Error{Status: http.StatusNotFound, Title: "Not Found", Detail: detail}
}

// Conflict means a duplicate creation, e.g. registering an existing email.
func Conflict(detail string) *Error {
	return &Error{Status: http.StatusConflict, Title: "Conflict", Detail: detail}
}

// InvalidState means a transition was attempted from a state that does not
// permit it. Nothing is applied when this is returned.
func InvalidState(detail string) *Error {
	return &Error{Status: http.StatusBadRequest, Title: "Invalid State", Detail: detail}
}

// BadRequest covers malformed input that survives binding validation.
func BadRequest(detail string) *Error {
	return &Error{Status: http.StatusBadRequest, Title: "Bad Request", Detail: detail}
}

// TooManyRequests is returned by the rate limiter.
func TooManyRequests(detail string) *Error {
	return &Error{Status: http.StatusTooManyRequests, Title: "Too Many Requests", Detail: detail}
}
