package repository

import "testing"

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"vvfm_prototipo_v1:": `vvfm\_prototipo\_v1:`,
		"100%":               `100\%`,
		`a\b`:                `a\\b`,
		"plain":              "plain",
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
