package contextutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "trims leading and trailing spaces", input: "  hello  ", expected: "hello"},
		{name: "trims tabs and newlines", input: "\t\nworld\n", expected: "world"},
		{name: "empty string unchanged", input: "", expected: ""},
		{name: "whitespace only becomes empty", input: "   ", expected: ""},
		{name: "interior whitespace preserved", input: " a b ", expected: "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestValidateFeedback(t *testing.T) {
	tests := []struct {
		name       string
		user       string
		comment    string
		wantValid  bool
		wantErrors []string
	}{
		{
			name:      "both fields present",
			user:      "alice",
			comment:   "great app",
			wantValid: true,
		},
		{
			name:       "empty user",
			user:       "",
			comment:    "x",
			wantValid:  false,
			wantErrors: []string{UserFieldRequiredMsg},
		},
		{
			name:       "whitespace-only user rejected identically",
			user:       "  ",
			comment:    "x",
			wantValid:  false,
			wantErrors: []string{UserFieldRequiredMsg},
		},
		{
			name:       "empty comment",
			user:       "alice",
			comment:    "",
			wantValid:  false,
			wantErrors: []string{CommentFieldRequiredMsg},
		},
		{
			name:       "both empty",
			user:       " ",
			comment:    "\t",
			wantValid:  false,
			wantErrors: []string{UserFieldRequiredMsg, CommentFieldRequiredMsg},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, errs := ValidateFeedback(tt.user, tt.comment)
			assert.Equal(t, tt.wantValid, valid)
			assert.Equal(t, tt.wantErrors, errs)
		})
	}
}

func TestValidateFeedback_DoesNotMutateInput(t *testing.T) {
	user := "  alice  "
	comment := "  fine  "
	valid, errs := ValidateFeedback(user, comment)
	assert.True(t, valid)
	assert.Empty(t, errs)
	assert.Equal(t, "  alice  ", user)
	assert.Equal(t, "  fine  ", comment)
}
