package cmd

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"short ascii", "amina", "amina"},
		{"exact width", strings.Repeat("a", 24), strings.Repeat("a", 24)},
		{"long ascii", strings.Repeat("a", 30), strings.Repeat("a", 21) + "..."},
		{"long arabic", strings.Repeat("عبد", 10), string([]rune(strings.Repeat("عبد", 10))[:21]) + "..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := truncateName(tc.in, 24)
			assert.True(t, utf8.ValidString(got), "result must stay valid UTF-8")
			assert.Equal(t, tc.want, got)
		})
	}
}
