package minutes

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorPrefix starts every error-marker string returned by GenerateMinutes.
const ErrorPrefix = "Error: "

// Remote failure classes. Remote adapters wrap provider errors with these so
// the client can classify them without knowing the provider.
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrQuotaExhausted   = errors.New("quota exhausted")
)

// Kind classifies a failed generation run.
type Kind string

const (
	KindMissingCredential Kind = "missing_credential"
	KindMissingFile       Kind = "missing_file"
	KindPermissionDenied  Kind = "permission_denied"
	KindQuotaExhausted    Kind = "quota_exhausted"
	KindNotReady          Kind = "not_ready"
	KindUnexpected        Kind = "unexpected"
)

// Error is a classified failure with the human-readable marker text.
type Error struct {
	Kind   Kind   `json:"kind"`
	Detail string `json:"detail,omitempty"`
	Err    error  `json:"-"`
}

// Error formats the failure as an error-marker string.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return ErrorPrefix + e.message()
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *Error) message() string {
	switch e.Kind {
	case KindMissingCredential:
		return fmt.Sprintf("environment variable %s is not set.", CredentialEnv)
	case KindMissingFile:
		return fmt.Sprintf("file not found: %s", e.Detail)
	case KindPermissionDenied:
		return "the API key is invalid or lacks the required permission."
	case KindQuotaExhausted:
		return "the API usage limit may have been reached. Wait and try again, or check your usage."
	case KindNotReady:
		return fmt.Sprintf("file upload or processing failed. State: %s", e.Detail)
	default:
		if e.Detail == "" && e.Err != nil {
			return fmt.Sprintf("unexpected failure: %v", e.Err)
		}
		return fmt.Sprintf("unexpected failure: %s", e.Detail)
	}
}

// IsError reports whether text is an error marker rather than minutes.
func IsError(text string) bool {
	return strings.HasPrefix(text, ErrorPrefix)
}

// KindOf returns the classification of err, or "" when err is nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var minutesErr *Error
	if errors.As(err, &minutesErr) {
		return minutesErr.Kind
	}
	return KindUnexpected
}

// classify maps any remote or local failure onto the error taxonomy.
func classify(err error) *Error {
	var minutesErr *Error
	switch {
	case errors.As(err, &minutesErr):
		return minutesErr
	case errors.Is(err, ErrPermissionDenied):
		return &Error{Kind: KindPermissionDenied, Err: err}
	case errors.Is(err, ErrQuotaExhausted):
		return &Error{Kind: KindQuotaExhausted, Err: err}
	default:
		return &Error{Kind: KindUnexpected, Err: err}
	}
}
