package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharedFileQueryClamp(t *testing.T) {
	cases := []struct {
		name string
		in   SharedFileQuery
		want SharedFileQuery
	}{
		{"defaults", SharedFileQuery{}, SharedFileQuery{Page: 1, Limit: 4}},
		{"negative page", SharedFileQuery{Page: -3, Limit: 10}, SharedFileQuery{Page: 1, Limit: 10}},
		{"zero page", SharedFileQuery{Page: 0, Limit: 10}, SharedFileQuery{Page: 1, Limit: 10}},
		{"limit above max", SharedFileQuery{Page: 2, Limit: 100}, SharedFileQuery{Page: 2, Limit: 20}},
		{"limit at max", SharedFileQuery{Page: 2, Limit: 20}, SharedFileQuery{Page: 2, Limit: 20}},
		{"negative limit", SharedFileQuery{Page: 1, Limit: -1}, SharedFileQuery{Page: 1, Limit: 1}},
		{"search preserved", SharedFileQuery{Search: "report"}, SharedFileQuery{Search: "report", Page: 1, Limit: 4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Clamp())
		})
	}
}
