package errors

// ErrorCode identifies the kind of a pipeline failure.
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidSource        ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101

	// Source errors (200-299)
	ErrCodeSourceUnavailable ErrorCode = 200
	ErrCodeMalformedRecord   ErrorCode = 201

	// Aggregation errors (300-399)
	ErrCodeEmptyBatch ErrorCode = 300

	// Sink errors (400-499)
	ErrCodeSinkUnavailable   ErrorCode = 400
	ErrCodeLedgerUnavailable ErrorCode = 401
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:              "Unknown",
	ErrCodeInvalidSource:        "InvalidSource",
	ErrCodeInvalidConfiguration: "InvalidConfiguration",
	ErrCodeSourceUnavailable:    "SourceUnavailable",
	ErrCodeMalformedRecord:      "MalformedRecord",
	ErrCodeEmptyBatch:           "EmptyBatch",
	ErrCodeSinkUnavailable:      "SinkUnavailable",
	ErrCodeLedgerUnavailable:    "LedgerUnavailable",
}

// String returns the taxonomy name of the code, e.g. "MalformedRecord".
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Transient reports whether a failure with this code may succeed when the
// whole pipeline is run again.
func (c ErrorCode) Transient() bool {
	return c == ErrCodeSourceUnavailable || c == ErrCodeSinkUnavailable
}
