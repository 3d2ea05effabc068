package fronius

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	// KindTransport means the device could not be reached.
	KindTransport ErrorKind = iota + 1
	// KindInvalidReply means the device answered with something that is not a valid reply.
	KindInvalidReply
	// KindNotSupported means the device or its API version does not offer the endpoint.
	KindNotSupported
	// KindBadStatus means the device answered with a nonzero status code.
	KindBadStatus
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindInvalidReply:
		return "invalid_reply"
	case KindNotSupported:
		return "not_supported"
	case KindBadStatus:
		return "bad_status"
	}
	return "unknown"
}

var (
	ErrTransport    = &Error{Kind: KindTransport}
	ErrInvalidReply = &Error{Kind: KindInvalidReply}
	ErrNotSupported = &Error{Kind: KindNotSupported}
	ErrBadStatus    = &Error{Kind: KindBadStatus}
)

// headerStatusCodes describes the status codes of the response header.
var headerStatusCodes = map[int]string{
	0:   "OKAY",
	1:   "NotImplemented",
	2:   "Uninitialized",
	3:   "Initialized",
	4:   "Running",
	5:   "Timeout",
	6:   "Argument Error",
	7:   "LNRequestError",
	8:   "LNRequestTimeout",
	9:   "LNParseError",
	10:  "ConfigIOError",
	11:  "NotSupported",
	12:  "DeviceNotAvailable",
	255: "UnknownError",
}

// Error is returned by all device requests. Compare against the Err* sentinels with
// errors.Is, they match on Kind.
type Error struct {
	Kind     ErrorKind
	Endpoint string
	// Code and Reason are set for KindBadStatus.
	Code   int
	Reason string
	// Response holds the header fields of a KindBadStatus reply.
	Response SensorMap
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindBadStatus:
		desc, ok := headerStatusCodes[e.Code]
		if !ok {
			desc = "unknown status code"
		}
		reason := e.Reason
		if reason == "" {
			reason = "unknown"
		}
		return fmt.Sprintf("bad status at %s: code %d - %s, reason: %s", e.Endpoint, e.Code, desc, reason)
	case KindNotSupported:
		if e.Err != nil {
			return fmt.Sprintf("%s not supported: %v", e.Endpoint, e.Err)
		}
		return fmt.Sprintf("%s not supported", e.Endpoint)
	}
	msg := e.Kind.String()
	if e.Endpoint != "" {
		msg = fmt.Sprintf("%s at %s", msg, e.Endpoint)
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

// KindOf returns the kind of a device error, or 0 if err is not one.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ErrorCode returns the status code embedded in a sensor map.
func ErrorCode(sensor SensorMap) int {
	status, _ := sensor.Status()
	return status.Code
}

// ErrorReason returns the status reason embedded in a sensor map.
func ErrorReason(sensor SensorMap) string {
	status, _ := sensor.Status()
	return status.Reason
}
