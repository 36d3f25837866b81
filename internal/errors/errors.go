// Package errors provides structured error handling for autowiki.
//
// UserError carries what went wrong, why, and how to fix it, plus an HTTP
// status / CLI exit code appropriate to its category. The categories
// mirror the taxonomy the ingestion and search pipeline actually raises:
// bad input, a resource that simply isn't there yet, a recoverable parse
// failure, a filesystem fault, or a failure in an external collaborator
// (git, the vector store RPC).
package errors

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Exit codes / HTTP status codes for each error category.
const (
	ExitSuccess = 0

	// ExitInput / StatusInput: bad repo URL, bad project id, bad query params.
	ExitInput   = 4
	StatusInput = 400

	// ExitResourceMissing / StatusResourceMissing: vector collection absent,
	// tree file absent. Never fatal to the pipeline; surfaced as 404 over HTTP.
	ExitResourceMissing   = 6
	StatusResourceMissing = 404

	// ExitFilesystem: cannot create/remove directories.
	ExitFilesystem   = 5
	StatusFilesystem = 500

	// ExitExternal: git clone failure, vector-store RPC failure.
	ExitExternal   = 3
	StatusExternal = 500

	// ExitInternal: unexpected errors, bugs.
	ExitInternal   = 10
	StatusInternal = 500
)

// UserError represents an error with structured context for callers.
type UserError struct {
	// Message describes what went wrong in user-friendly language.
	Message string

	// Cause explains why the error occurred.
	Cause string

	// Fix suggests how to resolve it (may be empty).
	Fix string

	// ExitCode is the CLI exit code for this category.
	ExitCode int

	// Status is the HTTP status code the httpapi adapter should return.
	Status int

	// Err is the wrapped underlying error, if any.
	Err error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewInputError builds an InputError (bad repo URL, bad project id).
func NewInputError(msg, cause, fix string) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitInput, Status: StatusInput}
}

// NewResourceMissingError builds a ResourceMissing error (vector collection
// or tree file absent). Callers typically handle this by returning an
// empty result rather than propagating it as fatal.
func NewResourceMissingError(msg, cause, fix string) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitResourceMissing, Status: StatusResourceMissing}
}

// NewFilesystemError builds a FilesystemError (cannot create/remove dirs).
func NewFilesystemError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitFilesystem, Status: StatusFilesystem, Err: err}
}

// NewExternalError builds an ExternalError (git clone failure, vector-store
// RPC failure). Fatal for the current request.
func NewExternalError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitExternal, Status: StatusExternal, Err: err}
}

// NewInternalError builds an InternalError for unexpected bugs.
func NewInternalError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitInternal, Status: StatusInternal, Err: err}
}

// IsResourceMissing reports whether err is a ResourceMissing UserError.
func IsResourceMissing(err error) bool {
	ue, ok := err.(*UserError)
	return ok && ue.ExitCode == ExitResourceMissing
}

var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format returns a colored, human-readable rendering of the error.
func (e *UserError) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()
	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	out := colorError.Sprint("Error: ") + e.Message + "\n"
	if e.Cause != "" {
		out += colorCause.Sprint("Cause: ") + e.Cause + "\n"
	}
	if e.Fix != "" {
		out += colorFix.Sprint("Fix:   ") + e.Fix + "\n"
	}
	return out
}

// ErrorJSON is the JSON-serializable form of a UserError.
type ErrorJSON struct {
	Error    string `json:"error"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// ToJSON converts the UserError to its JSON-serializable form.
func (e *UserError) ToJSON() ErrorJSON {
	return ErrorJSON{Error: e.Message, Cause: e.Cause, Fix: e.Fix, ExitCode: e.ExitCode}
}

// FatalError prints the error and exits with its exit code. A nil err is
// a no-op that returns; any other err never returns.
func FatalError(err error, jsonOutput bool) {
	if err == nil {
		return
	}
	if ue, ok := err.(*UserError); ok {
		if jsonOutput {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			_ = enc.Encode(ue.ToJSON())
		} else {
			fmt.Fprint(os.Stderr, ue.Format(false))
		}
		os.Exit(ue.ExitCode)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitInternal)
}

// HTTPStatus returns the HTTP status code to use for err. Non-UserError
// values are treated as internal errors (500).
func HTTPStatus(err error) int {
	if ue, ok := err.(*UserError); ok {
		return ue.Status
	}
	return StatusInternal
}
