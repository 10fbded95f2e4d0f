package form

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/lwaller/marketlist/internal/model"
	"github.com/lwaller/marketlist/internal/store"
)

const (
	usernameMin = 3
	usernameMax = 50
)

// SignUpForm carries the fields for creating an account.
type SignUpForm struct {
	Username string
	Password string
	Errors   Errors
}

func NewSignUpForm() *SignUpForm {
	return &SignUpForm{Errors: Errors{}}
}

func (f *SignUpForm) Bind(r *http.Request) {
	f.Username = strings.TrimSpace(r.FormValue("username"))
	f.Password = r.FormValue("password")
}

// Validate runs the field rules, then checks username availability against
// existing accounts (case-sensitive exact match). A lookup failure is
// returned as err, not surfaced as a field error.
func (f *SignUpForm) Validate(users *store.UserStore) (bool, error) {
	f.Errors = Errors{}

	f.validateUsernameField()
	if f.Password == "" {
		f.Errors.add("password", "Password is required")
	}

	// Cross-field check runs only once the field itself is well-formed.
	if !f.Errors.Has("username") {
		existing, err := users.GetByUsername(f.Username)
		if err != nil {
			return false, fmt.Errorf("check username availability: %w", err)
		}
		if existing != nil {
			f.Errors.add("username", "That username is taken")
		}
	}

	return len(f.Errors) == 0, nil
}

func (f *SignUpForm) validateUsernameField() {
	if f.Username == "" {
		f.Errors.add("username", "Username is required")
	} else if n := utf8.RuneCountInString(f.Username); n < usernameMin || n > usernameMax {
		f.Errors.add("username", fmt.Sprintf("Username must be between %d and %d characters", usernameMin, usernameMax))
	}
}

// LoginForm carries the credentials for authenticating. On success, User
// holds the matched account.
type LoginForm struct {
	Username string
	Password string
	Errors   Errors

	User *model.User
}

func NewLoginForm() *LoginForm {
	return &LoginForm{Errors: Errors{}}
}

func (f *LoginForm) Bind(r *http.Request) {
	f.Username = strings.TrimSpace(r.FormValue("username"))
	f.Password = r.FormValue("password")
}

// Validate runs the field rules, then resolves the account and verifies the
// password against the stored hash. Unknown usernames and password mismatches
// produce distinct field errors; both are user-correctable, never fatal.
func (f *LoginForm) Validate(users *store.UserStore) (bool, error) {
	f.Errors = Errors{}
	f.User = nil

	if f.Username == "" {
		f.Errors.add("username", "Username is required")
	} else if n := utf8.RuneCountInString(f.Username); n < usernameMin || n > usernameMax {
		f.Errors.add("username", fmt.Sprintf("Username must be between %d and %d characters", usernameMin, usernameMax))
	}
	if f.Password == "" {
		f.Errors.add("password", "Password is required")
	}

	if f.Errors.Has("username") || f.Errors.Has("password") {
		return false, nil
	}

	user, err := users.GetByUsername(f.Username)
	if err != nil {
		return false, fmt.Errorf("look up account: %w", err)
	}
	if user == nil {
		f.Errors.add("username", "No account found with that username")
		return false, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(f.Password)); err != nil {
		f.Errors.add("password", "Password doesn't match")
		return false, nil
	}

	f.User = user
	return true, nil
}
