package errors

// Common HTTP error constructors

func BadRequest(format string, args ...any) *Error {
	return New(400, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(404, format, args...)
}

func Internal(format string, args ...any) *Error {
	return New(500, format, args...)
}

func ServiceUnavailable(format string, args ...any) *Error {
	return New(503, format, args...)
}

func GatewayTimeout(format string, args ...any) *Error {
	return New(504, format, args...)
}
