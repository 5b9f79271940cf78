package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidTimeframe     ErrorCode = 102

	// Data errors (200-299)
	ErrCodeDataUnavailable ErrorCode = 200

	// Scheduling errors (300-399)
	ErrCodeDuplicateEntry    ErrorCode = 300
	ErrCodeDrainTimeout      ErrorCode = 301
	ErrCodeUnknownStrategy   ErrorCode = 302
	ErrCodeUnknownProvider   ErrorCode = 303
	ErrCodeProviderKeyNeeded ErrorCode = 304

	// Strategy errors (400-499)
	ErrCodeStrategyFailure ErrorCode = 400
	ErrCodeStrategyPanic   ErrorCode = 401

	// Persistence errors (500-599)
	ErrCodePersistenceFailure ErrorCode = 500
	ErrCodeTradeLogCorrupt    ErrorCode = 501
)
