package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const errNameRequired = "Name is required."

func TestRequired(t *testing.T) {
	tests := []struct {
		name   string
		maxLen int
		value  string
		errMsg string
	}{
		{name: "valid input", maxLen: 10, value: "valid"},
		{name: "empty string", maxLen: 10, value: "", errMsg: errNameRequired},
		{name: "whitespace only", maxLen: 10, value: "   ", errMsg: errNameRequired},
		{name: "exceeds max length", maxLen: 5, value: "toolong", errMsg: "Name cannot exceed 5 characters."},
		{name: "exactly max length", maxLen: 5, value: "exact"},
		{name: "unicode characters within limit", maxLen: 5, value: "ééééé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.errMsg, Required("Name", tt.maxLen)(tt.value))
		})
	}
}

func TestRequiredRange(t *testing.T) {
	v := RequiredRange("Name", 1, 100)
	assert.Empty(t, v("A"))
	assert.Empty(t, v(strings.Repeat("a", 100)))
	assert.Equal(t, errNameRequired, v(" "))
	assert.Equal(t, "Name must be between 1 and 100 characters.", v(strings.Repeat("a", 101)))
}

func TestNotBlank(t *testing.T) {
	v := NotBlank("Password")
	assert.Equal(t, "Password is required.", v(""))
	assert.Empty(t, v("   "))
}

func TestIntRange(t *testing.T) {
	v := IntRange("Stress", 1, 10)
	assert.Empty(t, v("1"))
	assert.Empty(t, v(" 10 "))
	assert.Equal(t, "Stress must be a number.", v("abc"))
	assert.Equal(t, "Stress must be between 1 and 10.", v("11"))
	assert.Equal(t, "Stress must be between 1 and 10.", v("0"))
}

func TestOneOf(t *testing.T) {
	v := OneOf("Role", []string{"admin", "editor", "reader"})
	assert.Empty(t, v("Editor"))
	assert.Empty(t, v(" reader "))
	assert.Equal(t, "Role must be one of: admin, editor, reader", v("owner"))
}

func TestOptional(t *testing.T) {
	v := Optional("Notes", 3)
	assert.Empty(t, v(""))
	assert.Empty(t, v("abc"))
	assert.Equal(t, "Notes cannot exceed 3 characters.", v("abcd"))
}

func TestEmail(t *testing.T) {
	v := Email("Email")
	tests := []struct {
		value  string
		errMsg string
	}{
		{value: "alice@example.com"},
		{value: "  Alice.Smith+blog@Example.co.uk "},
		{value: "user@bücher.de"},
		{value: "", errMsg: "Email is required."},
		{value: "not-an-email", errMsg: "Invalid email address"},
		{value: "alice@localhost", errMsg: "Invalid email address"},
		{value: "Alice <alice@example.com>", errMsg: "Invalid email address"},
		{value: "@example.com", errMsg: "Invalid email address"},
		{value: "alice@", errMsg: "Invalid email address"},
		{value: strings.Repeat("a", 250) + "@x.io", errMsg: "Email cannot exceed 254 characters."},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.errMsg, v(tt.value))
		})
	}
}

func TestFieldValidator(t *testing.T) {
	fv := New().
		Validate("name", "", Required("Name", 10)).
		Validate("email", "bad", Email("Email")).
		Validate("password", "x", NotBlank("Password"))

	assert.False(t, fv.Valid())
	assert.Equal(t, map[string]string{
		"name":  errNameRequired,
		"email": "Invalid email address",
	}, fv.Errors())
	assert.Equal(t, []string{"Invalid email address", errNameRequired}, fv.Messages())
	assert.Equal(t, "Invalid email address", fv.First())

	fv.Add("name", "ignored").Add("role", "Role is required.")
	assert.Equal(t, errNameRequired, fv.Errors()["name"])
	assert.Equal(t, "Role is required.", fv.Errors()["role"])

	assert.True(t, New().Valid())
	assert.Empty(t, New().First())
}
