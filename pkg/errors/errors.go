package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile       ErrorCategory = "file"
	CategoryParse      ErrorCategory = "parse"
	CategoryValidation ErrorCategory = "validation"
	CategoryBalance    ErrorCategory = "balance"
	CategoryExport     ErrorCategory = "export"
	CategoryNetwork    ErrorCategory = "network"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"

	// Parse errors
	CodeInvalidFormat  ErrorCode = "invalid_format"
	CodeInvalidNumeric ErrorCode = "invalid_numeric"
	CodeUnknownSheet   ErrorCode = "unknown_sheet"
	CodeInvalidAddress ErrorCode = "invalid_address"

	// Validation errors
	CodeMissingField  ErrorCode = "missing_field"
	CodeInvalidDate   ErrorCode = "invalid_date"
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeOutOfRange    ErrorCode = "out_of_range"

	// Balance errors
	CodeBalanceMismatch     ErrorCode = "balance_mismatch"
	CodeCrossCheckDiverged  ErrorCode = "crosscheck_diverged"
	CodeMasterBalanceBroken ErrorCode = "master_balance_broken"

	// Export errors
	CodeUnresolvedName ErrorCode = "unresolved_name"
	CodeNothingToSend  ErrorCode = "nothing_to_send"

	// Network errors
	CodeBackendFailure ErrorCode = "backend_failure"
	CodeTimeout        ErrorCode = "timeout"
	CodeBadResponse    ErrorCode = "bad_response"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// AuditError is the base error type for all application errors
type AuditError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *AuditError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *AuditError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *AuditError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryBalance:
		return 4
	case CategoryExport, CategoryInternal:
		return 5
	case CategoryNetwork:
		return 6
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *AuditError) WithContext(key string, value interface{}) *AuditError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *AuditError) WithSuggestion(suggestion string) *AuditError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AuditError
func New(category ErrorCategory, code ErrorCode, message string) *AuditError {
	return &AuditError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with AuditError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *AuditError {
	if err == nil {
		return nil
	}

	return &AuditError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Specific error constructors

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *AuditError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *AuditError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// ParseError creates a parsing-related error for snapshot loading
func ParseError(code ErrorCode, sheet string, address string, value string, err error) *AuditError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidFormat:
		message = fmt.Sprintf("invalid snapshot format for sheet '%s'", sheet)
		suggestion = "the snapshot must be a JSON object keyed by sheet then by cell address"
	case CodeInvalidNumeric:
		message = fmt.Sprintf("non-numeric value in sheet '%s' at %s: '%s'", sheet, address, value)
		suggestion = "numeric cells accept decimal numbers such as '12.34'"
	case CodeUnknownSheet:
		message = fmt.Sprintf("unknown sheet '%s' in snapshot", sheet)
		suggestion = "valid sheets are geac, transelect, recap, jour, sd and depot"
	case CodeInvalidAddress:
		message = fmt.Sprintf("invalid cell address '%s' in sheet '%s'", address, sheet)
		suggestion = "addresses are a column letter group followed by a row number, e.g. 'B6'"
	default:
		message = fmt.Sprintf("parse error in sheet '%s' at %s", sheet, address)
		suggestion = "check the snapshot contents"
	}

	var result *AuditError
	if err != nil {
		result = Wrap(err, CategoryParse, code, message)
	} else {
		result = New(CategoryParse, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("sheet", sheet).
		WithContext("address", address).
		WithContext("value", value)
}

// ValidationError creates a validation-related error
func ValidationError(code ErrorCode, field string, value interface{}, err error) *AuditError {
	var message string
	var suggestion string

	switch code {
	case CodeMissingField:
		message = fmt.Sprintf("required field '%s' is missing or empty", field)
		suggestion = "provide a value for this required field"
	case CodeInvalidDate:
		message = fmt.Sprintf("invalid deposit date in field '%s': %v", field, value)
		suggestion = "deposit dates use the form 'DD MONTH', e.g. '23 DECEMBRE'"
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration for '%s': %v", field, value)
		suggestion = "check the configuration documentation for valid values"
	case CodeOutOfRange:
		message = fmt.Sprintf("value out of range in field '%s': %v", field, value)
		suggestion = "ensure the value is within the acceptable range"
	default:
		message = fmt.Sprintf("validation error in field '%s': %v", field, value)
		suggestion = "check the field value and format"
	}

	var result *AuditError
	if err != nil {
		result = Wrap(err, CategoryValidation, code, message)
	} else {
		result = New(CategoryValidation, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("field", field).
		WithContext("value", value)
}

// BalanceError creates a balance-check error
func BalanceError(code ErrorCode, check string, err error) *AuditError {
	var message string
	var suggestion string

	switch code {
	case CodeBalanceMismatch:
		message = fmt.Sprintf("balance check '%s' is not at zero", check)
		suggestion = "review the sheet inputs feeding this balance"
	case CodeCrossCheckDiverged:
		message = fmt.Sprintf("displayed total diverges from recomputed value in '%s'", check)
		suggestion = "re-run the sheet recomputation before saving"
	case CodeMasterBalanceBroken:
		message = fmt.Sprintf("master balance '%s' exceeds the acceptable band", check)
		suggestion = "check the Restaurant and Reception variance rows"
	default:
		message = fmt.Sprintf("balance error in '%s'", check)
		suggestion = "review the reconciliation inputs"
	}

	var result *AuditError
	if err != nil {
		result = Wrap(err, CategoryBalance, code, message)
	} else {
		result = New(CategoryBalance, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("check", check)
}

// ExportError creates a SetD export error
func ExportError(code ErrorCode, detail string, err error) *AuditError {
	var message string
	var suggestion string

	switch code {
	case CodeUnresolvedName:
		message = fmt.Sprintf("name not found in the personnel table: %s", detail)
		suggestion = "correct the name or add it to the personnel table"
	case CodeNothingToSend:
		message = "no variances to export (all variances are zero or unmatched)"
		suggestion = "enter verified amounts before exporting"
	default:
		message = fmt.Sprintf("export error: %s", detail)
		suggestion = "review the SD entries and try again"
	}

	var result *AuditError
	if err != nil {
		result = Wrap(err, CategoryExport, code, message)
	} else {
		result = New(CategoryExport, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("detail", detail)
}

// NetworkError creates a network-related error
func NetworkError(code ErrorCode, endpoint string, err error) *AuditError {
	var message string
	var suggestion string

	switch code {
	case CodeBackendFailure:
		message = fmt.Sprintf("backend request failed: %s", endpoint)
		suggestion = "check that the audit backend is running and reachable"
	case CodeTimeout:
		message = fmt.Sprintf("timeout contacting %s", endpoint)
		suggestion = "increase the timeout setting or check network speed"
	case CodeBadResponse:
		message = fmt.Sprintf("unexpected response from %s", endpoint)
		suggestion = "check the backend version matches this client"
	default:
		message = fmt.Sprintf("network error: %s", endpoint)
		suggestion = "check network connection and try again"
	}

	var result *AuditError
	if err != nil {
		result = Wrap(err, CategoryNetwork, code, message)
	} else {
		result = New(CategoryNetwork, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("endpoint", endpoint)
}

// InternalError creates an internal error
func InternalError(code ErrorCode, operation string, err error) *AuditError {
	message := fmt.Sprintf("unexpected error during %s", operation)
	suggestion := "this is likely a bug - please report it with the error details"

	var result *AuditError
	if err != nil {
		result = Wrap(err, CategoryInternal, code, message)
	} else {
		result = New(CategoryInternal, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}

// ErrorSummary provides a summary of multiple errors
type ErrorSummary struct {
	Total        int                   `json:"total"`
	ByCategory   map[ErrorCategory]int `json:"by_category"`
	ByCode       map[ErrorCode]int     `json:"by_code"`
	Errors       []*AuditError         `json:"errors"`
	SampleErrors []*AuditError         `json:"sample_errors,omitempty"`
}

// NewErrorSummary creates a new error summary
func NewErrorSummary(errs []*AuditError) *ErrorSummary {
	summary := &ErrorSummary{
		Total:      len(errs),
		ByCategory: make(map[ErrorCategory]int),
		ByCode:     make(map[ErrorCode]int),
		Errors:     errs,
	}
	if len(errs) == 0 {
		summary.Errors = []*AuditError{}
		return summary
	}

	for _, err := range errs {
		summary.ByCategory[err.Category]++
		summary.ByCode[err.Code]++
	}

	// Include sample errors (max 5)
	maxSamples := 5
	if len(errs) > maxSamples {
		summary.SampleErrors = errs[:maxSamples]
	} else {
		summary.SampleErrors = errs
	}

	return summary
}

// Error returns a formatted error message for the summary
func (es *ErrorSummary) Error() string {
	if es.Total == 0 {
		return "no errors"
	}

	if es.Total == 1 {
		return es.Errors[0].Error()
	}

	var categories []string
	for category, count := range es.ByCategory {
		categories = append(categories, fmt.Sprintf("%s: %d", category, count))
	}

	return fmt.Sprintf("%d errors occurred (%s)", es.Total, strings.Join(categories, ", "))
}

// HasCategory checks if the summary contains errors of the given category
func (es *ErrorSummary) HasCategory(category ErrorCategory) bool {
	count, exists := es.ByCategory[category]
	return exists && count > 0
}

// GetExitCode returns the highest priority exit code from all errors
func (es *ErrorSummary) GetExitCode() int {
	if es.Total == 0 {
		return 0
	}

	maxCode := 1
	for _, err := range es.Errors {
		if code := err.GetExitCode(); code > maxCode {
			maxCode = code
		}
	}

	return maxCode
}

// Utility functions

// IsAuditError checks if an error is an AuditError
func IsAuditError(err error) bool {
	_, ok := err.(*AuditError)
	return ok
}

// AsAuditError extracts an AuditError from an error chain
func AsAuditError(err error) (*AuditError, bool) {
	var auditErr *AuditError
	if errors.As(err, &auditErr) {
		return auditErr, true
	}
	return nil, false
}

// WrapIfNeeded wraps an error if it's not already an AuditError
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *AuditError {
	if err == nil {
		return nil
	}

	if auditErr, ok := AsAuditError(err); ok {
		return auditErr
	}

	return Wrap(err, category, code, message)
}
