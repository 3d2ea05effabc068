package solarweb

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	// KindNotAuthorized means the access key was rejected.
	KindNotAuthorized ErrorKind = iota + 1
	// KindNotFound means the PV system or resource does not exist.
	KindNotFound
	// KindInvalidReply means the body could not be decoded.
	KindInvalidReply
	// KindSchemaInvalid means the decoded body lacks required fields.
	KindSchemaInvalid
	// KindRetriesExhausted means every attempt failed with a network error or an
	// unexpected HTTP status.
	KindRetriesExhausted
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotAuthorized:
		return "not_authorized"
	case KindNotFound:
		return "not_found"
	case KindInvalidReply:
		return "invalid_reply"
	case KindSchemaInvalid:
		return "schema_invalid"
	case KindRetriesExhausted:
		return "retries_exhausted"
	}
	return "unknown"
}

var (
	ErrNotAuthorized    = &Error{Kind: KindNotAuthorized}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrInvalidReply     = &Error{Kind: KindInvalidReply}
	ErrSchemaInvalid    = &Error{Kind: KindSchemaInvalid}
	ErrRetriesExhausted = &Error{Kind: KindRetriesExhausted}
)

// APIError is the error body Solar.web sends with failed requests.
type APIError struct {
	ResponseError   string `json:"responseError"`
	ResponseMessage string `json:"responseMessage"`
}

type Error struct {
	Kind       ErrorKind
	Path       string
	StatusCode int
	// API is set when the reply carried an error body.
	API *APIError
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("solar.web %s: %s", e.Path, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.API != nil && e.API.ResponseMessage != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.API.ResponseMessage)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of a Solar.web error, or 0 if err is not one.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
