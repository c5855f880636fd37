package routes

import (
	"testing"
)

func TestValidColor(t *testing.T) {
	cases := []struct {
		color string
		valid bool
	}{
		{"#1A2B3C", true},
		{"#abcdef", true},
		{"#000000", true},
		{"", false},
		{"1A2B3C", false},
		{"#1A2B3", false},
		{"#1A2B3CD", false},
		{"#GG0000", false},
		{"##12345", false},
	}

	for _, c := range cases {
		if got := validColor(c.color); got != c.valid {
			t.Errorf("validColor(%q) = %v, expected %v", c.color, got, c.valid)
		}
	}
}

func TestRandomColorFormat(t *testing.T) {
	for i := 0; i < 32; i++ {
		color := randomColor()
		if !validColor(color) {
			t.Fatalf("randomColor() produced %q, expected a #RRGGBB value", color)
		}
	}
}
