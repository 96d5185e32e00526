package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/msomdec/identity-app/internal/domain"
	"github.com/msomdec/identity-app/internal/service"
	"github.com/msomdec/identity-app/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

const (
	msgWrongCredentials = "Wrong email or password!"
	msgLockedOut        = "Your account has been locked out. Please try again later."
)

// AccountHandler handles sign-up, sign-in, and logout.
type AccountHandler struct {
	users  UserManager
	signIn SignInManager
	cookie service.CookieOptions
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(users UserManager, signIn SignInManager, cookie service.CookieOptions) *AccountHandler {
	return &AccountHandler{users: users, signIn: signIn, cookie: cookie}
}

// HandleSignUpPage renders an empty registration form, showing any pending notice.
// GET /Home/SignUp
func (h *AccountHandler) HandleSignUpPage(w http.ResponseWriter, r *http.Request) {
	form := view.SignUpForm{Notice: popNotice(w, r)}
	view.SignUpPage(userName(r), form).Render(r.Context(), w)
}

// HandleSignUp processes the registration form.
// POST /Home/SignUp
func (h *AccountHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := view.SignUpForm{
		UserName: r.PostForm.Get(fieldUserName),
		Phone:    r.PostForm.Get(fieldPhone),
		Email:    r.PostForm.Get(fieldEmail),
	}

	form.Errors = validateForm(signUpRules, r.PostForm)
	if form.Errors.Any() {
		view.SignUpPage(userName(r), form).Render(r.Context(), w)
		return
	}

	user := &domain.User{
		UserName:       form.UserName,
		PhoneNumber:    form.Phone,
		Email:          form.Email,
		EmailConfirmed: true,
	}
	result, err := h.users.Create(r.Context(), user, r.PostForm.Get(fieldPassword))
	if err != nil {
		slog.Error("create user", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !result.Succeeded() {
		form.Errors.Global = result.Descriptions()
		view.SignUpPage(userName(r), form).Render(r.Context(), w)
		return
	}

	slog.Info("user registered", "user_id", user.ID)
	setNotice(w, "The user has been created successfully. Welcome "+user.UserName)
	http.Redirect(w, r, "/Home/SignUp", http.StatusFound)
}

// HandleSignUpCheck streams live validation hints for the registration form.
// It never touches storage, so uniqueness is checked only on submit.
// POST /Home/SignUp/check
func (h *AccountHandler) HandleSignUpCheck(w http.ResponseWriter, r *http.Request) {
	var signals struct {
		UserName        string `json:"username"`
		Phone           string `json:"phone"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	values := url.Values{
		fieldUserName:        {signals.UserName},
		fieldPhone:           {signals.Phone},
		fieldEmail:           {signals.Email},
		fieldPassword:        {signals.Password},
		fieldConfirmPassword: {signals.ConfirmPassword},
	}
	hints := formatErrors(signUpRules, values)

	if signals.UserName != "" || signals.Password != "" {
		result := h.users.ValidateCandidate(&domain.User{UserName: signals.UserName}, signals.Password)
		for _, e := range result.Errors {
			isPassword := strings.HasPrefix(e.Code, "Password")
			if (isPassword && signals.Password == "") || (!isPassword && signals.UserName == "") {
				continue
			}
			hints = append(hints, e.Description)
		}
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(view.SignUpHints(hints)); err != nil {
		slog.Error("patch sign-up hints", "error", err)
	}
}

// HandleSignInPage renders an empty sign-in form.
// GET /Home/SignIn
func (h *AccountHandler) HandleSignInPage(w http.ResponseWriter, r *http.Request) {
	form := view.SignInForm{ReturnURL: r.URL.Query().Get("ReturnUrl")}
	view.SignInPage(userName(r), form).Render(r.Context(), w)
}

// HandleSignIn verifies credentials and issues the session cookie.
// Unknown emails and wrong passwords get the same message.
// POST /Home/SignIn
func (h *AccountHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	returnURL := r.PostForm.Get(fieldReturnURL)
	if returnURL == "" {
		returnURL = r.URL.Query().Get("ReturnUrl")
	}
	form := view.SignInForm{
		Email:      r.PostForm.Get(fieldEmail),
		RememberMe: parseCheckbox(r.PostForm.Get(fieldRememberMe)),
		ReturnURL:  returnURL,
	}

	form.Errors = validateForm(signInRules, r.PostForm)
	if form.Errors.Any() {
		view.SignInPage(userName(r), form).Render(r.Context(), w)
		return
	}

	fail := func(message string) {
		form.Errors.Global = []string{message}
		view.SignInPage(userName(r), form).Render(r.Context(), w)
	}

	user, err := h.users.FindByEmail(r.Context(), form.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.users.CompareUnknownUser(r.PostForm.Get(fieldPassword))
			slog.Warn("sign-in failed", "reason", "unknown account")
			fail(msgWrongCredentials)
			return
		}
		slog.Error("find user by email", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	result, err := h.signIn.PasswordSignIn(r.Context(), user, r.PostForm.Get(fieldPassword), true)
	if err != nil {
		slog.Error("password sign-in", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	switch result {
	case domain.SignInSucceeded:
		token, session, err := h.signIn.IssueSession(user, form.RememberMe)
		if err != nil {
			slog.Error("issue session", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		setSessionCookie(w, h.cookie, token, session)
		slog.Info("user signed in", "user_id", user.ID)
		http.Redirect(w, r, localRedirect(returnURL), http.StatusFound)
	case domain.SignInLockedOut:
		slog.Warn("sign-in rejected", "user_id", user.ID, "reason", result)
		fail(msgLockedOut)
	default:
		slog.Warn("sign-in failed", "user_id", user.ID, "reason", result)
		fail(msgWrongCredentials)
	}
}

// HandleLogout clears the session cookie.
// GET|POST /Member/Logout
func (h *AccountHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, h.cookie)
	http.Redirect(w, r, "/", http.StatusFound)
}

func parseCheckbox(v string) bool {
	if v == "on" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}
