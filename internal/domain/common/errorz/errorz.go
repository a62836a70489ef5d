package errorz

import "errors"

var (
	ErrInvalidCallbackData = errors.New("invalid callback data")
	ErrNotFound            = errors.New("record not found")
	ErrMalformedRecord     = errors.New("malformed record")
	ErrNoTimezoneSet       = errors.New("no timezone preference set")
	ErrUnknownTimezone     = errors.New("unknown timezone code")
	ErrUnparseableTime     = errors.New("unparseable date/time")
)
