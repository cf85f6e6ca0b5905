package markdown

import (
	"testing"
)

func TestToPlainText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain sentence stays put.", "plain sentence stays put."},
		{"**Great** choice, let us proceed.", "Great choice, let us proceed."},
		{"try the *premium* plan", "try the premium plan"},
		{"use code `SPRING10` today", "use code SPRING10 today"},
		{"- first\n- second", "• first\n• second"},
	}

	for _, tc := range cases {
		if got := ToPlainText(tc.in); got != tc.want {
			t.Errorf("ToPlainText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToPlainTextKeepsEmoji(t *testing.T) {
	in := "Sounds good 👍 let's talk tomorrow"
	if got := ToPlainText(in); got != in {
		t.Errorf("emoji text changed: %q", got)
	}
}
