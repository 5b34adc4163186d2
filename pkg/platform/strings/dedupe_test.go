package strings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	platstrings "taskshare/pkg/platform/strings"
)

func TestDedupeAndTrimLower(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil passthrough", nil, nil},
		{"lowercases and trims", []string{" Bob@Example.com "}, []string{"bob@example.com"}},
		{"dedupes after normalizing", []string{"bob@example.com", "BOB@example.com"}, []string{"bob@example.com"}},
		{"drops empties", []string{"", "  ", "carol@example.com"}, []string{"carol@example.com"}},
		{"preserves order", []string{"z@x.y", "a@x.y", "z@x.y"}, []string{"z@x.y", "a@x.y"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, platstrings.DedupeAndTrimLower(tc.in))
		})
	}
}
