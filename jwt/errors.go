package jwt

import (
	"errors"
	"strconv"
	"time"
)

var (
	// ErrTokenInvalid matches every verification and signing failure.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired matches failures of the exp and maxAge checks.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenNotActive matches failures of the nbf check.
	ErrTokenNotActive = errors.New("token not active")
)

// ErrorKind classifies the errors produced by this package. Messages are
// fixed strings kept for compatibility; the kind is the stable value to
// branch on.
type ErrorKind uint8

const (
	// ErrorKindUnknown is reported for errors not produced by this package.
	ErrorKindUnknown ErrorKind = iota
	// ErrorKindOptions covers bad options, payloads and claim/option collisions.
	ErrorKindOptions
	ErrorKindMalformed
	ErrorKindAlgorithm
	ErrorKindSignature
	ErrorKindKey
	ErrorKindKeyResolver
	ErrorKindClaims
	ErrorKindExpired
	ErrorKindNotActive
)

var errorKindNames = [...]string{
	ErrorKindUnknown:     "unknown",
	ErrorKindOptions:     "options",
	ErrorKindMalformed:   "malformed",
	ErrorKindAlgorithm:   "algorithm",
	ErrorKindSignature:   "signature",
	ErrorKindKey:         "key",
	ErrorKindKeyResolver: "key_resolver",
	ErrorKindClaims:      "claims",
	ErrorKindExpired:     "expired",
	ErrorKindNotActive:   "not_active",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// ValidationError reports a malformed token, a bad option, a claim/option
// collision, a disallowed algorithm, a key problem or a claim mismatch.
type ValidationError struct {
	Message string
	Inner   error
	kind    ErrorKind
}

func newError(msg string) *ValidationError {
	return &ValidationError{Message: msg, kind: ErrorKindOptions}
}

func kindError(kind ErrorKind, msg string) *ValidationError {
	return &ValidationError{Message: msg, kind: kind}
}

func wrapError(msg string, inner error) *ValidationError {
	return &ValidationError{Message: msg, Inner: inner, kind: ErrorKindOptions}
}

func wrapKindError(kind ErrorKind, msg string, inner error) *ValidationError {
	return &ValidationError{Message: msg, Inner: inner, kind: kind}
}

// Kind returns the failure class. A ValidationError built outside this
// package reports ErrorKindOptions.
func (e *ValidationError) Kind() ErrorKind {
	if e.kind == ErrorKindUnknown {
		return ErrorKindOptions
	}
	return e.kind
}

func (e *ValidationError) Error() string { return e.Message }

// Name returns the error class name used in logs and audit records.
func (e *ValidationError) Name() string { return "JsonWebTokenError" }

func (e *ValidationError) Unwrap() error { return e.Inner }

func (e *ValidationError) Is(target error) bool { return target == ErrTokenInvalid }

// ExpiredError reports that exp or maxAge has elapsed. ExpiredAt is the
// instant the token stopped being acceptable, before tolerance.
type ExpiredError struct {
	Message   string
	ExpiredAt time.Time
}

func (e *ExpiredError) Error() string { return e.Message }

// Name returns the error class name used in logs and audit records.
func (e *ExpiredError) Name() string { return "TokenExpiredError" }

func (e *ExpiredError) Kind() ErrorKind { return ErrorKindExpired }

func (e *ExpiredError) Is(target error) bool {
	return target == ErrTokenExpired || target == ErrTokenInvalid
}

// NotBeforeError reports that nbf lies in the future. Date is the nbf instant.
type NotBeforeError struct {
	Message string
	Date    time.Time
}

func (e *NotBeforeError) Error() string { return e.Message }

// Name returns the error class name used in logs and audit records.
func (e *NotBeforeError) Name() string { return "NotBeforeError" }

func (e *NotBeforeError) Kind() ErrorKind { return ErrorKindNotActive }

func (e *NotBeforeError) Is(target error) bool {
	return target == ErrTokenNotActive || target == ErrTokenInvalid
}

// ErrorName returns the class name of err when it was produced by this
// package, or "" otherwise.
func ErrorName(err error) string {
	var named interface{ Name() string }
	if errors.As(err, &named) {
		return named.Name()
	}
	return ""
}

// KindOfError returns the ErrorKind of the first error in err's chain
// produced by this package, or ErrorKindUnknown.
func KindOfError(err error) ErrorKind {
	var kinded interface{ Kind() ErrorKind }
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}
	return ErrorKindUnknown
}

func secondsToTime(sec float64) time.Time {
	return time.UnixMilli(int64(sec * 1000)).UTC()
}
