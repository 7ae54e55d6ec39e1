package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAccess(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"edit", AccessEdit},
		{"view", AccessView},
		{"", AccessView},
		{"EDIT", AccessView}, // exact match only
		{"edit ", AccessView},
		{"admin", AccessView},
		{"write", AccessView},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeAccess(tc.in), "input %q", tc.in)
	}
}
