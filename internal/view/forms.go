package view

// FormErrors holds per-field and form-wide messages.
type FormErrors struct {
	Fields map[string][]string
	Global []string
}

// Any reports whether there is at least one message.
func (e FormErrors) Any() bool {
	if len(e.Global) > 0 {
		return true
	}
	for _, msgs := range e.Fields {
		if len(msgs) > 0 {
			return true
		}
	}
	return false
}

// SignUpForm is the state of the sign-up page. Passwords are never echoed.
type SignUpForm struct {
	UserName string
	Phone    string
	Email    string
	Notice   string
	Errors   FormErrors
}

// SignInForm is the state of the sign-in page.
type SignInForm struct {
	Email      string
	RememberMe bool
	ReturnURL  string
	Errors     FormErrors
}

// HintsID is the element patched by live sign-up validation.
const HintsID = "signup-hints"
