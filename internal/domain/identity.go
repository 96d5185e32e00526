package domain

// IdentityError is a single coded failure produced while validating or
// creating an account.
type IdentityError struct {
	Code        string
	Description string
}

// IdentityResult is the outcome of an identity operation. It succeeds when it
// carries no errors.
type IdentityResult struct {
	Errors []IdentityError
}

// Success returns a successful result.
func Success() IdentityResult {
	return IdentityResult{}
}

// Failed returns a result carrying the given errors.
func Failed(errs ...IdentityError) IdentityResult {
	return IdentityResult{Errors: errs}
}

// Succeeded reports whether the result carries no errors.
func (r IdentityResult) Succeeded() bool {
	return len(r.Errors) == 0
}

// Merge returns a result holding the errors of both results, r first.
func (r IdentityResult) Merge(other IdentityResult) IdentityResult {
	if len(other.Errors) == 0 {
		return r
	}
	errs := make([]IdentityError, 0, len(r.Errors)+len(other.Errors))
	errs = append(errs, r.Errors...)
	errs = append(errs, other.Errors...)
	return IdentityResult{Errors: errs}
}

// Descriptions returns the human-readable messages in order.
func (r IdentityResult) Descriptions() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Description)
	}
	return out
}

// HasCode reports whether any error carries the given code.
func (r IdentityResult) HasCode(code string) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

// SignInResult is the outcome of a password sign-in attempt.
type SignInResult int

const (
	SignInFailed SignInResult = iota
	SignInSucceeded
	SignInLockedOut
	SignInNotAllowed // credentials valid but the account may not sign in yet
)

func (r SignInResult) String() string {
	switch r {
	case SignInSucceeded:
		return "succeeded"
	case SignInLockedOut:
		return "locked_out"
	case SignInNotAllowed:
		return "not_allowed"
	default:
		return "failed"
	}
}
