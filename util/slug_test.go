package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Leading and   trailing  ", "leading-and-trailing"},
		{"Café au lait", "cafe-au-lait"},
		{"C# vs. Go: round 2!", "c-vs-go-round-2"},
		{"already-a-slug", "already-a-slug"},
		{"--dashes--", "dashes"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}
