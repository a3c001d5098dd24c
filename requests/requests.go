// Package requests turns submitted forms into typed inputs and validates
// them. Validators return the message of the first rule that fails, or ""
// when the input is acceptable.
package requests

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dmitrymomot/cookbook/repository"
)

// Validation messages.
const (
	MsgUsernameLength   = "Please enter a username between 2 and 64 characters long."
	MsgUsernameAlnum    = "Please enter a username containing alphanumeric (0-9, A-Z) characters only."
	MsgUsernameTaken    = "Sorry! That username is taken. Please choose a different one."
	MsgPasswordPattern  = "Please enter a password containing 8 or more characters. Your password must include at least one alphabetic (A-Z) and one numeric (0-9) character."
	MsgPasswordMismatch = "Please make sure your password and confirmed password match."
	MsgCuisineName      = "Please enter a cuisine name between 1 and 64 characters."
	MsgCuisineUnique    = "Cuisine name must be unique."
	MsgRecipeName       = "You must enter a recipe name between 3 and 255 characters."
	MsgPageNumber       = "Please enter a valid page number in the URL."
)

var (
	alnum  = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	letter = regexp.MustCompile(`[A-Za-z]`)
	digit  = regexp.MustCompile(`[0-9]`)
	number = regexp.MustCompile(`^[0-9]+$`)
)

// UserFinder looks users up by name.
type UserFinder interface {
	FindUserByUsername(ctx context.Context, username string) (repository.User, error)
}

// CuisineFinder looks a user's cuisines up by name.
type CuisineFinder interface {
	FindCuisineByName(ctx context.Context, name string, userID int64) (repository.Cuisine, error)
}

// Signup is the account creation form.
type Signup struct {
	Username        string
	Password        string
	ConfirmPassword string
}

// ParseSignup reads the signup form.
func ParseSignup(form url.Values) Signup {
	return Signup{
		Username:        form.Get("username"),
		Password:        form.Get("password"),
		ConfirmPassword: form.Get("confirm_password"),
	}
}

// Validate checks the username rules, then the password rules.
func (s Signup) Validate(ctx context.Context, users UserFinder) (string, error) {
	if msg, err := s.validateUsername(ctx, users); msg != "" || err != nil {
		return msg, err
	}
	return ValidatePassword(s.Password, s.ConfirmPassword), nil
}

func (s Signup) validateUsername(ctx context.Context, users UserFinder) (string, error) {
	if !between(s.Username, 2, 64) {
		return MsgUsernameLength, nil
	}
	if !alnum.MatchString(s.Username) {
		return MsgUsernameAlnum, nil
	}
	_, err := users.FindUserByUsername(ctx, s.Username)
	switch {
	case err == nil:
		return MsgUsernameTaken, nil
	case errors.Is(err, repository.ErrNotFound):
		return "", nil
	default:
		return "", err
	}
}

// ValidatePassword requires 8 or more characters with at least one letter
// and one digit, and a matching confirmation.
func ValidatePassword(password, confirm string) string {
	if utf8.RuneCountInString(password) < 8 || !letter.MatchString(password) || !digit.MatchString(password) {
		return MsgPasswordPattern
	}
	if password != confirm {
		return MsgPasswordMismatch
	}
	return ""
}

// Login is the sign-in form.
type Login struct {
	Username string
	Password string
}

// ParseLogin reads the login form.
func ParseLogin(form url.Values) Login {
	return Login{Username: form.Get("username"), Password: form.Get("password")}
}

// Cuisine is the cuisine create and rename form.
type Cuisine struct {
	Name string
}

// ParseCuisine reads the cuisine form. The name is trimmed.
func ParseCuisine(form url.Values) Cuisine {
	return Cuisine{Name: strings.TrimSpace(form.Get("cuisine_name"))}
}

// ValidateNew checks the name length and that the user has no cuisine with
// that name, ignoring case.
func (r Cuisine) ValidateNew(ctx context.Context, cuisines CuisineFinder, userID int64) (string, error) {
	return r.validate(ctx, cuisines, userID, "")
}

// ValidateRename is ValidateNew for an existing cuisine currently named
// current. A new name equal to current ignoring case is always accepted.
func (r Cuisine) ValidateRename(ctx context.Context, cuisines CuisineFinder, userID int64, current string) (string, error) {
	return r.validate(ctx, cuisines, userID, current)
}

func (r Cuisine) validate(ctx context.Context, cuisines CuisineFinder, userID int64, current string) (string, error) {
	if !between(r.Name, 1, 64) {
		return MsgCuisineName, nil
	}
	if current != "" && strings.EqualFold(r.Name, current) {
		return "", nil
	}
	_, err := cuisines.FindCuisineByName(ctx, r.Name, userID)
	switch {
	case err == nil:
		return MsgCuisineUnique, nil
	case errors.Is(err, repository.ErrNotFound):
		return "", nil
	default:
		return "", err
	}
}

// Recipe is the recipe create and edit form.
type Recipe struct {
	Name         string
	Ingredients  *string
	Instructions *string
}

// ParseRecipe reads the recipe form. The name is trimmed and blank optional
// fields become nil.
func ParseRecipe(form url.Values) Recipe {
	return Recipe{
		Name:         strings.TrimSpace(form.Get("recipe_name")),
		Ingredients:  Optional(form.Get("ingredients")),
		Instructions: Optional(form.Get("instructions")),
	}
}

// Validate checks the recipe name length.
func (r Recipe) Validate() string {
	if !between(r.Name, 3, 255) {
		return MsgRecipeName
	}
	return ""
}

// Fields converts the form to the stored columns.
func (r Recipe) Fields() repository.RecipeFields {
	return repository.RecipeFields{
		Name:         r.Name,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
	}
}

// Optional is the single place where empty text input becomes "no value".
// Non-blank text is kept as submitted.
func Optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Value returns the text of an optional field, or "".
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ValidatePage checks the page query parameter against the number of pages
// of the collection and returns the page to show. present reports whether
// the parameter was in the query at all.
//
// An absent parameter means page 1. A present one must be digits only; with
// no pages at all only the literal "1" is accepted, else the value must lie
// in [1, totalPages].
func ValidatePage(raw string, present bool, totalPages int) (int, string) {
	if !present {
		return 1, ""
	}
	if !number.MatchString(raw) {
		return 0, MsgPageNumber
	}
	if totalPages == 0 {
		if raw == "1" {
			return 1, ""
		}
		return 0, MsgPageNumber
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 || page > totalPages {
		return 0, MsgPageNumber
	}
	return page, ""
}

// between reports whether s has lo to hi characters.
func between(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}
