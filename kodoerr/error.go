package kodoerr

import "fmt"

// Error wraps a Kind with an optional diagnostic payload (the name/index/
// field that made the operation fail) and, for transport failures, the
// underlying cause. Mirrors the "wrap a sentinel with context" shape used
// throughout this SDK's HTTP layer — callers classify with errors.Is
// against the package-level sentinels below, not by comparing Kind values
// directly, so a future Kind can gain extra fields without breaking call
// sites.
type Error struct {
	Kind  Kind
	Label string // optional: offending field, key, or index, for diagnostics
	Err   error  // optional: wrapped cause (e.g. the underlying os.PathError)
}

func (e *Error) Error() string {
	if e.Label != "" && e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Kind, e.Label, e.Err)
	}

	if e.Label != "" {
		return fmt.Sprintf("%s (%s)", e.Kind, e.Label)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}

	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, someKind-shaped-*Error) match on Kind alone,
// ignoring Label/Err — used by tests and callers that only care "was this
// a try-again?" regardless of diagnostic detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Kind == t.Kind
}

// New builds an *Error with no label or wrapped cause.
func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Wrap builds an *Error carrying a label and the underlying cause.
func Wrap(kind Kind, label string, cause error) *Error {
	return &Error{Kind: kind, Label: label, Err: cause}
}

// KindOf extracts the Kind from err if it (or something it wraps) is a
// *Error, and reports false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if ok := as(err, &e); !ok {
		return 0, false
	}

	return e.Kind, true
}

// as is errors.As without importing the errors package twice in call
// sites that already alias it; kept local to avoid import-cycle noise in
// the small surface of this package.
func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}

		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}

		err = u.Unwrap()
	}

	return false
}

// Sentinels for the Recoverable-suspension class (§7): the operation
// retains internal state and a caller may retry with more input, a new
// buffer, or after backoff.
var (
	ErrNeedMoreTextInput = New(JSONNeedMoreTextInput)
	ErrOutOfBuffer       = New(OutOfBuffer)
	ErrTryAgain          = New(TryAgain)
)
