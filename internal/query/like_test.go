package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikeMatch(t *testing.T) {
	tests := []struct {
		s, pattern string
		want       bool
	}{
		{"member1", "member1", true},
		{"member1", "member%", true},
		{"member1", "%1", true},
		{"member1", "%mb%", true},
		{"member1", "%ember_", true},
		{"member1", "member", false},
		{"member1", "member__", false},
		{"", "%", true},
		{"", "_", false},
		{"abcabc", "%abc", true},
		{"abcab", "%a%c%b", true},
		{"héllo", "h_llo", true},
		{"Member1", "member%", false},
	}

	for _, tt := range tests {
		t.Run(tt.s+" like "+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, likeMatch(tt.s, tt.pattern))
		})
	}
}

func TestTruth(t *testing.T) {
	values := []truth{truthy, falsy, unknown}
	and := [3][3]truth{
		{truthy, falsy, unknown},
		{falsy, falsy, falsy},
		{unknown, falsy, unknown},
	}
	or := [3][3]truth{
		{truthy, truthy, truthy},
		{truthy, falsy, unknown},
		{truthy, unknown, unknown},
	}

	for i, a := range values {
		for j, b := range values {
			assert.Equal(t, and[i][j], a.and(b), "%d and %d", a, b)
			assert.Equal(t, or[i][j], a.or(b), "%d or %d", a, b)
		}
	}
	assert.Equal(t, falsy, truthy.not())
	assert.Equal(t, truthy, falsy.not())
	assert.Equal(t, unknown, unknown.not())
}
