package apperrors

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrInvalidTransition    = errors.New("invalid draft state transition")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrNoDraft              = errors.New("no draft ticket")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrRowNotFound          = errors.New("line row not found")
	ErrUnknownLineKind      = errors.New("unknown line kind")
	ErrUnknownField         = errors.New("unknown line field")
	ErrUnknownLookup        = errors.New("unknown reference lookup")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSessionNotFound      = errors.New("session not found")
	ErrInternalServerError  = errors.New("internal server error")
)

// ValidationError carries the user-facing text of a presence/positivity check.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Validation(msg string) error {
	return &ValidationError{Msg: msg}
}

// RemoteError is a failure reported by the hosted data store or auth endpoint.
// Message is the server-provided text, surfaced verbatim.
type RemoteError struct {
	Op      string
	Status  int
	Code    string
	Message string
	Hint    string
}

func (e *RemoteError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

var (
	fnMissingRe = regexp.MustCompile(`(?i)function .* does not exist`)
	rlsRe       = regexp.MustCompile(`(?i)row-level security`)
)

// FunctionMissing reports whether the store rejected a call because the remote procedure is not installed.
func (e *RemoteError) FunctionMissing() bool {
	return fnMissingRe.MatchString(e.Message)
}

// RowLevelSecurity reports whether the store rejected a write on row-level security grounds.
func (e *RemoteError) RowLevelSecurity() bool {
	return rlsRe.MatchString(e.Message)
}

// UserMessage renders a remote failure for the portal banner. fn names the remote procedure
// involved and prefix describes the action ("Failed to save").
func UserMessage(err error, fn, prefix string) string {
	var re *RemoteError
	if !errors.As(err, &re) {
		return fmt.Sprintf("%s: %s.", prefix, err.Error())
	}
	if fn != "" && re.FunctionMissing() {
		return fmt.Sprintf("RPC function %s not found. Run the SQL to create it, then try again.", fn)
	}
	msg := fmt.Sprintf("%s: %s.", prefix, re.Message)
	if re.RowLevelSecurity() {
		msg += " RLS may be blocking inserts; confirm your policies or use SECURITY DEFINER on the function."
	}
	return msg
}
