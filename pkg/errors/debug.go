package errors

import stdErrors "errors"

// ErrorDump flattens an error chain for structured logging.
type ErrorDump struct {
	TopMessage string
	Code       string
	Chain      []string
}

// Dump walks the wrapped chain of err and collects every message plus the
// application error code, if one is present anywhere in the chain.
func Dump(err error) ErrorDump {
	dump := ErrorDump{}
	if err == nil {
		return dump
	}
	dump.TopMessage = err.Error()

	for current := err; current != nil; current = stdErrors.Unwrap(current) {
		dump.Chain = append(dump.Chain, current.Error())
		if typed := As(current); typed != nil && dump.Code == "" {
			dump.Code = string(typed.Code())
		}
	}
	return dump
}
