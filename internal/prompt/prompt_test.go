package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStdinConfirmer_Answers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "yes\n", true},
		{"y", "y\n", true},
		{"uppercase", "YES\n", true},
		{"padded", "  y  \n", true},
		{"no", "no\n", false},
		{"n", "n\n", false},
		{"empty line", "\n", false},
		{"garbage", "sure\n", false},
		{"eof", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := &StdinConfirmer{In: strings.NewReader(tt.input), Out: &out}

			got := c.Confirm("continue?")

			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "continue? [y/N]:")
		})
	}
}

func TestFixed(t *testing.T) {
	assert.True(t, Fixed(true).Confirm("anything"))
	assert.False(t, Fixed(false).Confirm("anything"))
}
