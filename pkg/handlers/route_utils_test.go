package handlers

import (
	"testing"
)

func TestRouteElements(t *testing.T) {
	cases := []struct {
		route string
		want  []string
	}{
		{"/villages/abc/command", []string{"villages", "abc", "command"}},
		{"villages", []string{"villages"}},
		{"//villages//abc/", []string{"villages", "abc"}},
		{"/", []string{}},
		{"", []string{}},
	}

	for _, c := range cases {
		got := RouteElements(c.route)

		if len(got) != len(c.want) {
			t.Fatalf("RouteElements(%q) = %v, expected %v", c.route, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("RouteElements(%q) = %v, expected %v", c.route, got, c.want)
			}
		}
	}
}

func TestRouteVar(t *testing.T) {
	cases := []struct {
		route string
		after string
		want  string
		found bool
	}{
		{"/villages/abc/command", "villages", "abc", true},
		{"/villages/abc/command", "abc", "command", true},
		{"/villages", "villages", "", false},
		{"/map", "villages", "", false},
	}

	for _, c := range cases {
		got, found := RouteVar(c.route, c.after)

		if found != c.found || got != c.want {
			t.Fatalf("RouteVar(%q, %q) = (%q, %v), expected (%q, %v)", c.route, c.after, got, found, c.want, c.found)
		}
	}
}
