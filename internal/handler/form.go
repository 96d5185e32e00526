package handler

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"github.com/msomdec/identity-app/internal/view"
)

// Form field names as posted by the browser.
const (
	fieldUserName        = "username"
	fieldPhone           = "phone"
	fieldEmail           = "email"
	fieldPassword        = "password"
	fieldConfirmPassword = "confirmPassword"
	fieldRememberMe      = "rememberMe"
	fieldReturnURL       = "returnUrl"
)

var phonePattern = regexp.MustCompile(`^[1-9][0-9]{9}$`)

// fieldRule is one row of a validation table. valid reports whether the
// submitted values satisfy the rule for field.
type fieldRule struct {
	field   string
	valid   func(values url.Values) bool
	message string
	// required marks presence checks; format rules skip empty input so a
	// blank field reports only its required message.
	required bool
}

var signUpRules = []fieldRule{
	requiredRule(fieldUserName, "UserName field cannot be left blank !"),
	requiredRule(fieldPhone, "Phone number field cannot be left blank !"),
	formatRule(fieldPhone, phonePattern.MatchString, "Phone number must be 10 digits and cannot start with 0."),
	requiredRule(fieldEmail, "Email field cannot be left blank !"),
	formatRule(fieldEmail, isEmail, "Wrong email format!"),
	requiredRule(fieldPassword, "Password field cannot be left blank !"),
	requiredRule(fieldConfirmPassword, "Password Confirm field cannot be left blank !"),
	{
		field: fieldConfirmPassword,
		valid: func(v url.Values) bool {
			return v.Get(fieldConfirmPassword) == "" || v.Get(fieldConfirmPassword) == v.Get(fieldPassword)
		},
		message: "Passwords are not the same.",
	},
}

var signInRules = []fieldRule{
	requiredRule(fieldEmail, "Email field cannot be left blank !"),
	formatRule(fieldEmail, isEmail, "Wrong email format!"),
	requiredRule(fieldPassword, "Password field cannot be left blank !"),
}

func requiredRule(field, message string) fieldRule {
	return fieldRule{
		field:    field,
		valid:    func(v url.Values) bool { return strings.TrimSpace(v.Get(field)) != "" },
		message:  message,
		required: true,
	}
}

func formatRule(field string, ok func(string) bool, message string) fieldRule {
	return fieldRule{
		field: field,
		valid: func(v url.Values) bool {
			value := v.Get(field)
			return value == "" || ok(value)
		},
		message: message,
	}
}

// isEmail accepts a bare address such as "a@b.com" and rejects display-name
// forms like "A <a@b.com>".
func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// validateForm applies rules in order and collects every failure by field.
func validateForm(rules []fieldRule, values url.Values) view.FormErrors {
	errs := view.FormErrors{Fields: make(map[string][]string)}
	for _, rule := range rules {
		if !rule.valid(values) {
			errs.Fields[rule.field] = append(errs.Fields[rule.field], rule.message)
		}
	}
	return errs
}

// formatErrors applies only the non-presence rules and returns the messages
// in rule order. Used for live hints while the form is still being filled.
func formatErrors(rules []fieldRule, values url.Values) []string {
	var msgs []string
	for _, rule := range rules {
		if rule.required {
			continue
		}
		if !rule.valid(values) {
			msgs = append(msgs, rule.message)
		}
	}
	return msgs
}
