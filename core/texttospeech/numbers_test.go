package texttospeech

import "testing"

func TestSpellOutNumbers(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "zero"},
		{"7", "seven"},
		{"15", "fifteen"},
		{"42", "forty-two"},
		{"100", "one hundred"},
		{"101", "one hundred one"},
		{"380", "three hundred eighty"},
		{"1234", "one thousand two hundred thirty-four"},
		{"1000000", "one million"},
		{"2001000", "two million one thousand"},
		{
			"we hit 1200 followers at 15:04",
			"we hit one thousand two hundred followers at fifteen:four",
		},
		{"no digits here", "no digits here"},
	}

	for _, c := range cases {
		if got := SpellOutNumbers(c.in); got != c.want {
			t.Fatalf("SpellOutNumbers(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestSpellOutNumbersLeavesOverflowingLiterals(t *testing.T) {
	huge := "99999999999999999999"
	if got := SpellOutNumbers(huge); got != huge {
		t.Fatalf("expected literal too large for int64 to pass through, got %q", got)
	}
}
