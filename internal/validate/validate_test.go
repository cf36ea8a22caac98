package validate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type signup struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,mailaddr"`
	Password string `validate:"required,min=6"`
	Confirm  string `validate:"required,eqfield=Password"`
}

var signupMessages = Messages{
	"required":        "Fill in all fields",
	"Password.min":    "Password must have at least 6 characters",
	"Confirm.eqfield": "Passwords do not match",
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(signup{Name: "Ana", Email: "ana@example.com", Password: "secret", Confirm: "secret"}, nil)
	require.NoError(t, err)
}

func TestStruct_PriorityOrder(t *testing.T) {
	tests := []struct {
		name    string
		in      signup
		wantTag string
		wantMsg string
	}{
		{
			name:    "missing field beats everything",
			in:      signup{Name: "", Email: "bad", Password: "123", Confirm: "x"},
			wantTag: "required",
			wantMsg: "Fill in all fields",
		},
		{
			name:    "short password beats mismatch and bad email",
			in:      signup{Name: "Ana", Email: "bad", Password: "123", Confirm: "x"},
			wantTag: "min",
			wantMsg: "Password must have at least 6 characters",
		},
		{
			name:    "mismatch beats bad email",
			in:      signup{Name: "Ana", Email: "bad", Password: "secret", Confirm: "secreT"},
			wantTag: "eqfield",
			wantMsg: "Passwords do not match",
		},
		{
			name:    "bad email",
			in:      signup{Name: "Ana", Email: "ana@example", Password: "secret", Confirm: "secret"},
			wantTag: "mailaddr",
			wantMsg: "Enter a valid e-mail address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in, signupMessages)
			require.Error(t, err)

			var vErr *Error
			require.True(t, errors.As(err, &vErr))
			require.Equal(t, tt.wantTag, vErr.Tag)
			require.Equal(t, tt.wantMsg, vErr.Message)
		})
	}
}

func TestIsValidation(t *testing.T) {
	err := fmt.Errorf("submitting: %w", &Error{Field: "Email", Tag: "required", Message: "x"})
	require.True(t, IsValidation(err))
	require.False(t, IsValidation(errors.New("boom")))
}

func TestEmail(t *testing.T) {
	require.True(t, Email("a@b.co"))
	require.False(t, Email("a b@c.d"))
	require.False(t, Email("a@b"))
	require.False(t, Email("@b.c"))
}
