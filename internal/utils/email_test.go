package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"User@Example.COM", "user@example.com"},
		{"  alice@example.com ", "alice@example.com"},
		{"", ""},
		{"   ", ""},
		{"no-at-sign", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeEmail(tc.in), "input %q", tc.in)
	}
}
