package template

import "testing"

func TestCheckAnswer(t *testing.T) {
	cases := []struct {
		given, want string
		ok          bool
	}{
		{"7", "7", true},
		{" 7 ", "7", true},
		{"007", "7", true},
		{"3.50", "3.5", true},
		{"2/4", "1/2", true},
		{"-3/4", "3/-4", true},
		{"4/2", "2", true},
		{"8", "7", false},
		{"1/3", "1/2", false},
		{"", "7", false},
		{"abc", "abc", true},
		{"abc", "abd", false},
		{"3/0", "3/0", true},  // identical text matches even if not numeric
		{"6/0", "3/0", false}, // zero denominators never normalize
	}
	for _, c := range cases {
		if got := CheckAnswer(c.given, c.want); got != c.ok {
			t.Errorf("CheckAnswer(%q, %q) = %v, want %v", c.given, c.want, got, c.ok)
		}
	}
}
