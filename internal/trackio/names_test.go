package trackio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"unit7", "unit7"},
		{"rat 3 / tt2", "rat_3_tt2"},
		{"../../etc/passwd", "etc_passwd"},
		{"cell__a", "cell_a"},
		{"", "cell"},
		{"...", "cell"},
		{"ünït-1.b", "n_t-1.b"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeName(tt.in))
		})
	}
}

func TestSafeNameTruncates(t *testing.T) {
	assert.Len(t, SafeName(strings.Repeat("a", 300)), maxNameLen)
}
