package contextutils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validation error messages for feedback fields.
const (
	UserFieldRequiredMsg    = "User field is required"
	CommentFieldRequiredMsg = "Comment field is required"
)

// Sanitize trims surrounding whitespace from input text. An empty or
// whitespace-only value sanitizes to the empty string.
func Sanitize(text string) string {
	return strings.TrimSpace(text)
}

// ValidateFeedback validates feedback form input. A field is invalid when it
// is empty after trimming surrounding whitespace. Returns whether the input
// is valid and the list of validation errors. Input is not mutated.
func ValidateFeedback(user, comment string) (bool, []string) {
	var errors []string

	if err := validate.Var(Sanitize(user), "required"); err != nil {
		errors = append(errors, UserFieldRequiredMsg)
	}

	if err := validate.Var(Sanitize(comment), "required"); err != nil {
		errors = append(errors, CommentFieldRequiredMsg)
	}

	return len(errors) == 0, errors
}
