package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrMultipleJSON    = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrNoSamples       = errors.New("no JSON files found in folder")
)

// Inference errors reported by the synthesizer. All of them are recoverable
// at the call-site: a batch run records the failure against the offending
// file and moves on.
var (
	ErrEmptyArray       = errors.New("cannot infer element type of an empty array")
	ErrNotAnObject      = errors.New("root JSON value is not an object")
	ErrNameCollision    = errors.New("synthesized class name collides with an existing one")
	ErrMaxDepthExceeded = errors.New("maximum nesting depth exceeded")
)

// CollisionError reports which synthesized class name collided. It matches
// ErrNameCollision under errors.Is.
type CollisionError struct {
	Name string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("duplicate class name %q", e.Name)
}

func (e *CollisionError) Is(target error) bool {
	return target == ErrNameCollision
}

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput     ErrorType = "input"
	ErrorTypeParsing   ErrorType = "parsing"
	ErrorTypeInference ErrorType = "inference"
	ErrorTypeEmit      ErrorType = "emit"
	ErrorTypeFormat    ErrorType = "format"
	ErrorTypeOutput    ErrorType = "output"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewInferenceError creates a new error related to schema inference
func NewInferenceError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInference,
		Message: message,
		Err:     err,
	}
}

// NewEmitError creates a new error related to source emission
func NewEmitError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeEmit,
		Message: message,
		Err:     err,
	}
}

// NewFormatError creates a new error related to code formatting
func NewFormatError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeFormat,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeInference:
			return fmt.Sprintf("Schema inference error: %s", appErr.Message)
		case ErrorTypeEmit:
			return fmt.Sprintf("Code emission error: %s", appErr.Message)
		case ErrorTypeFormat:
			return fmt.Sprintf("Code formatting error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMultipleJSON) {
		return "Error: Multiple JSON values found. Please provide a single JSON object."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrNoSamples) {
		return "Error: No JSON files found in the input folder."
	}
	if errors.Is(err, ErrEmptyArray) {
		return "Error: An array field has no elements, so its element type cannot be inferred. Use --empty-arrays=string-list to fall back to a list of strings."
	}
	if errors.Is(err, ErrNotAnObject) {
		return "Error: The root JSON value must be an object."
	}
	if errors.Is(err, ErrNameCollision) {
		return fmt.Sprintf("Error: Two fields produce the same class name (%v). Rename one of the conflicting keys.", err)
	}
	if errors.Is(err, ErrMaxDepthExceeded) {
		return "Error: The JSON document is nested too deeply. Raise the limit with --max-depth."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
