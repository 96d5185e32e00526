package view

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/msomdec/identity-app/internal/domain"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func TestSignUpPage_EscapesInput(t *testing.T) {
	html := render(t, SignUpPage("", SignUpForm{
		UserName: `"><script>alert(1)</script>`,
		Errors:   FormErrors{Global: []string{"Username '<b>' is invalid"}},
	}))

	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Fatal("username was not escaped")
	}
	if strings.Contains(html, "<b>") {
		t.Fatal("error message was not escaped")
	}
	if !strings.Contains(html, `data-bind="confirmPassword"`) {
		t.Fatal("expected live binding for confirmPassword")
	}
}

func TestSignUpPage_CheckPostsSignals(t *testing.T) {
	html := render(t, SignUpPage("", SignUpForm{}))

	if !strings.Contains(html, `data-bind="password"`) {
		t.Fatal("expected password to be bound for live checks")
	}
	if strings.Contains(html, "@get(") {
		t.Fatal("live check must not send signals in the query string")
	}
	if got := strings.Count(html, `@post('/Home/SignUp/check')`); got != 5 {
		t.Fatalf("expected 5 live inputs posting to the check endpoint, got %d", got)
	}
}

func TestSignInPage(t *testing.T) {
	html := render(t, SignInPage("", SignInForm{
		Email:      "a@b.com",
		RememberMe: true,
		ReturnURL:  "/Member/Index",
		Errors:     FormErrors{Global: []string{"Wrong email or password!"}},
	}))

	for _, want := range []string{
		`name="returnUrl" value="/Member/Index"`,
		`value="a@b.com"`,
		` checked>`,
		"Wrong email or password!",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
}

func TestSignUpHints(t *testing.T) {
	html := render(t, SignUpHints([]string{"one", "two"}))
	if html != `<ul id="signup-hints" class="hints"><li>one</li><li>two</li></ul>` {
		t.Fatalf("unexpected hints markup: %s", html)
	}
}

func TestLayout_SignedIn(t *testing.T) {
	html := render(t, MemberPage(&domain.User{UserName: "alice", Email: "alice@example.com"}))
	if !strings.Contains(html, `action="/Member/Logout"`) {
		t.Fatal("expected logout form for signed-in user")
	}
	if strings.Contains(html, `href="/Home/SignUp"`) {
		t.Fatal("signed-in navigation should not offer sign up")
	}
}
